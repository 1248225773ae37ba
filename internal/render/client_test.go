package render

import (
	"context"
	"errors"
	"testing"

	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeBackend struct {
	calls   int
	lastKey string
	last    Prompt
	err     error
}

func (b *fakeBackend) Generate(ctx context.Context, apiKey string, prompt Prompt) (*domain.Image, error) {
	b.calls++
	b.lastKey = apiKey
	b.last = prompt
	if b.err != nil {
		return nil, b.err
	}
	return &domain.Image{MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}, nil
}

func sample() domain.Concept {
	return concept.Generate(domain.FormData{CompanyName: "Acme", Sector: "Tecnologia", DesignStyle: []string{"Moderno"}})[0]
}

func TestRenderWithoutCredentialIsUnauthorized(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, nil)

	assert.False(t, c.IsConfigured())
	_, err := c.Render(context.Background(), sample())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, backend.calls)
}

func TestRenderAfterSetCredential(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, nil)

	require.NoError(t, c.SetCredential("key123"))
	assert.True(t, c.IsConfigured())

	img, err := c.Render(context.Background(), sample())

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, "key123", backend.lastKey)
	assert.Contains(t, backend.last.Text, "moderno style")
	assert.Contains(t, backend.last.Text, "#1E3A8A")
}

func TestSetCredentialRejectsBlank(t *testing.T) {
	c := NewClient(&fakeBackend{}, nil)

	assert.ErrorIs(t, c.SetCredential("   "), domain.ErrEmptyCredential)
	assert.False(t, c.IsConfigured())
}

func TestClearCredential(t *testing.T) {
	c := NewClient(&fakeBackend{}, nil)
	require.NoError(t, c.SetCredential("key123"))

	c.ClearCredential()

	assert.False(t, c.IsConfigured())
}

func TestRenderLocalQuota(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, rate.NewLimiter(rate.Limit(0), 1))
	require.NoError(t, c.SetCredential("key123"))

	_, err := c.Render(context.Background(), sample())
	require.NoError(t, err)

	_, err = c.Render(context.Background(), sample())
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 1, backend.calls)
}

func TestRenderClassifiesUnknownBackendErrors(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection reset by peer")}
	c := NewClient(backend, nil)
	require.NoError(t, c.SetCredential("key123"))

	_, err := c.Render(context.Background(), sample())

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestRenderKeepsTaxonomyErrors(t *testing.T) {
	for _, want := range []error{domain.ErrUnauthorized, domain.ErrRateLimited, domain.ErrUnavailable} {
		backend := &fakeBackend{err: want}
		c := NewClient(backend, nil)
		require.NoError(t, c.SetCredential("key123"))

		_, err := c.Render(context.Background(), sample())

		assert.ErrorIs(t, err, want)
		assert.Equal(t, 1, backend.calls, "no automatic retry")
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "padaria-sao-jose-2.png", FileName("Padaria São José", 2, "image/png"))
	assert.Equal(t, "acme-1.jpg", FileName("Acme", 1, "image/jpeg"))
	assert.Equal(t, "logo-3.png", FileName("  ", 3, ""))
}
