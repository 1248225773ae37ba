package terminal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/render"
	"github.com/felixbrock/logoassist/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	passwords []string
	info      []string
	inputPos  int
	selectPos int
	multiPos  int
	passPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

type imageBackend struct{}

func (imageBackend) Generate(ctx context.Context, apiKey string, prompt render.Prompt) (*domain.Image, error) {
	return &domain.Image{MimeType: "image/png", Data: []byte(apiKey)}, nil
}

func newTestRunner(driver PromptDriver) (*Runner, map[string][]byte) {
	written := map[string][]byte{}
	session := wizard.NewSession(imageBackend{}, nil, zap.NewNop())

	r := NewRunner(driver, session, "out", zap.NewNop())
	r.writeFile = func(name string, data []byte) error {
		written[name] = data
		return nil
	}
	return r, written
}

func TestRunFullWizard(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Acme", "inovação", "azul", "", "startups", "", "", "mais contraste"},
		selectIdx: []int{0, 0, 0, 0, 0, 0, 1, 0},
		multiIdx:  [][]int{{1}},
		passwords: []string{"key123"},
	}
	r, written := newTestRunner(driver)
	ctrl := r.Session.Controller

	require.NoError(t, r.Run(context.Background()))

	form := ctrl.Form()
	assert.Equal(t, "Acme", form.CompanyName)
	assert.Equal(t, "Tecnologia", form.Sector)
	assert.Equal(t, []string{"Moderno"}, form.DesignStyle)
	assert.Equal(t, "mais contraste", form.Refinements)
	assert.Equal(t, wizard.StepRefine, ctrl.State().Step)

	require.Len(t, written, 3)
	for _, n := range []string{"acme-1.png", "acme-2.png", "acme-3.png"} {
		assert.Equal(t, []byte("key123"), written[filepath.Join("out", n)])
	}

	assert.False(t, r.Session.Renderer.IsConfigured(), "credential cleared when the run ends")
}

func TestRunRepeatsInvalidStep(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "", "Acme", ""},
		selectIdx: []int{0, 0, 2},
	}
	r, _ := newTestRunner(driver)

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, "Acme", r.Session.Controller.Form().CompanyName)
	assert.Equal(t, wizard.StepIdentity, r.Session.Controller.State().Step)
	assert.True(t, containsPrefix(driver.info, "! company_name"))
}

func TestRunSkipsCredential(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Acme", "Padaria", "", "", "", "", "", ""},
		selectIdx: []int{8, 0, 0, 0, 1, 4},
		multiIdx:  [][]int{nil},
	}
	r, written := newTestRunner(driver)

	require.NoError(t, r.Run(context.Background()))

	ctrl := r.Session.Controller
	assert.Equal(t, "Padaria", ctrl.Form().Sector)
	assert.Equal(t, wizard.StepConcepts, ctrl.State().Step)
	assert.True(t, ctrl.Skipped())
	assert.Len(t, ctrl.Concepts(), 3)
	assert.Empty(t, written)
}

func TestRunPropagatesDriverErrors(t *testing.T) {
	r, _ := newTestRunner(&stubDriver{})

	err := r.Run(context.Background())

	assert.ErrorContains(t, err, "no input scripted")
}

func containsPrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
