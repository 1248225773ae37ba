package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixbrock/logoassist/internal/admin"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/persistence"
	"github.com/felixbrock/logoassist/internal/render"
	"github.com/felixbrock/logoassist/internal/wizard"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type pngBackend struct{}

func (pngBackend) Generate(ctx context.Context, apiKey string, prompt render.Prompt) (*domain.Image, error) {
	if apiKey == "bad" {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Image{MimeType: "image/png", Data: []byte("png-bytes")}, nil
}

type recordingTracker struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTracker) Capture(ctx context.Context, eventType string, distinctId string, props map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
	return nil
}

type client struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) (*App, *client) {
	t.Helper()

	seed, err := persistence.LoadSeed("")
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	a := &App{
		Sessions: wizard.NewStore(pngBackend{}, nil, time.Hour, zap.NewNop()),
		Admin:    admin.NewStore(seed),
		Auth:     admin.Auth{Username: "admin", PasswordHash: string(hash), SigningKey: []byte("signing-key")},
		Log:      zap.NewNop(),
	}

	return a, &client{t: t, e: a.Server(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}

	return rec
}

func (c *client) session(a *App) *wizard.Session {
	c.t.Helper()

	ck, ok := c.cookies[sessionCookie]
	require.True(c.t, ok, "session cookie set")
	s, ok := a.Sessions.Get(ck.Value)
	require.True(c.t, ok)
	return s
}

func TestIndexStartsSession(t *testing.T) {
	a, c := newTestApp(t)

	rec := c.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Identidade")
	assert.Equal(t, 1, a.Sessions.Len())

	c.do(http.MethodGet, "/", nil)
	assert.Equal(t, 1, a.Sessions.Len(), "cookie reuses the session")
}

func TestAdvanceValidation(t *testing.T) {
	a, c := newTestApp(t)

	rec := c.do(http.MethodPost, "/wizard/advance", url.Values{wizard.FieldCompanyName: {""}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="company_name"`)
	assert.Equal(t, wizard.StepIdentity, c.session(a).Controller.State().Step)
}

func walkToDetails(t *testing.T, c *client) {
	t.Helper()

	rec := c.do(http.MethodPost, "/wizard/advance", url.Values{
		wizard.FieldCompanyName: {"Acme"},
		wizard.FieldSector:      {"Tecnologia"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = c.do(http.MethodPost, "/wizard/advance", url.Values{wizard.FieldDesignStyle: {"Moderno"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = c.do(http.MethodPost, "/wizard/advance", url.Values{wizard.FieldTargetAudience: {"startups"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestWizardFlowWithCredential(t *testing.T) {
	a, c := newTestApp(t)
	tracker := &recordingTracker{}
	a.Tracker = tracker

	walkToDetails(t, c)
	s := c.session(a)
	assert.Equal(t, wizard.State{Step: wizard.StepDetails, Gate: wizard.GateSuspended}, s.Controller.State())
	assert.Contains(t, c.do(http.MethodGet, "/", nil).Body.String(), `action="/wizard/credential"`)

	rec := c.do(http.MethodPost, "/wizard/credential", url.Values{"credential": {"key123"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, wizard.State{Step: wizard.StepConcepts, Gate: wizard.GateOpen}, s.Controller.State())

	concepts := s.Controller.Concepts()
	require.Len(t, concepts, 3)

	rec = c.do(http.MethodPost, "/wizard/concepts/"+concepts[1].Id+"/render", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domain.PreviewReady, s.Controller.Previews()[concepts[1].Id].State)

	rec = c.do(http.MethodGet, "/wizard/concepts/"+concepts[1].Id+"/image?download=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `acme-2.png`)

	rec = c.do(http.MethodGet, "/wizard/concepts/"+concepts[0].Id+"/image", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Eventually(t, func() bool {
		tracker.mu.Lock()
		defer tracker.mu.Unlock()
		return len(tracker.events) >= 5
	}, time.Second, 10*time.Millisecond)
}

func TestWizardSkipAndRenderAll(t *testing.T) {
	a, c := newTestApp(t)

	walkToDetails(t, c)
	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/wizard/skip", nil).Code)

	s := c.session(a)
	assert.Equal(t, wizard.StepConcepts, s.Controller.State().Step)
	assert.True(t, s.Controller.Skipped())
	assert.Contains(t, c.do(http.MethodGet, "/", nil).Body.String(), `action="/wizard/configure"`)

	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/wizard/configure", nil).Code)
	assert.Equal(t, wizard.GatePrompted, s.Controller.State().Gate)

	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/wizard/credential", url.Values{"credential": {"key123"}}).Code)
	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/wizard/concepts/render", nil).Code)

	for _, p := range s.Controller.Previews() {
		assert.Equal(t, domain.PreviewReady, p.State)
	}
	assert.Len(t, s.Controller.Previews(), 3)
}

func TestCredentialRejectsBlank(t *testing.T) {
	_, c := newTestApp(t)
	walkToDetails(t, c)

	rec := c.do(http.MethodPost, "/wizard/credential", url.Values{"credential": {"   "}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="credential"`)
}

func TestRenderOutsidePreviewStep(t *testing.T) {
	_, c := newTestApp(t)

	rec := c.do(http.MethodPost, "/wizard/concepts/nope/render", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRestartKeepsSession(t *testing.T) {
	a, c := newTestApp(t)
	walkToDetails(t, c)

	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/wizard/restart", nil).Code)

	s := c.session(a)
	assert.Equal(t, wizard.State{Step: wizard.StepIdentity, Gate: wizard.GateOpen}, s.Controller.State())
	assert.Empty(t, s.Controller.Form().CompanyName)
}

func TestMaintenanceBlocksWizard(t *testing.T) {
	a, c := newTestApp(t)
	st := a.Admin.Settings()
	st.SystemMaintenance = true
	require.NoError(t, a.Admin.SaveSettings(st))

	rec := c.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "manutenção")
	assert.Zero(t, a.Sessions.Len())
}

func TestRouterErrors(t *testing.T) {
	_, c := newTestApp(t)

	rec := c.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-code="404"`)

	rec = c.do(http.MethodGet, "/wizard/advance", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	_, c := newTestApp(t)

	rec := c.do(http.MethodGet, "/static/style.css", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRequiresLogin(t *testing.T) {
	_, c := newTestApp(t)

	rec := c.do(http.MethodGet, "/admin/projects", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get(echo.HeaderLocation))
}

func TestAdminLoginFlow(t *testing.T) {
	_, c := newTestApp(t)

	rec := c.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, c.cookies, adminCookie)

	rec = c.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "TechStart")

	rec = c.do(http.MethodGet, "/admin/projects?status=exported", nil)
	assert.Contains(t, rec.Body.String(), "EcoVerde")
	assert.NotContains(t, rec.Body.String(), "TechStart")

	assert.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/admin/projects/2/delete", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/admin/projects/2/delete", nil).Code)

	rec = c.do(http.MethodGet, "/admin/users?search=maria", nil)
	assert.Contains(t, rec.Body.String(), "Maria Santos")
	assert.NotContains(t, rec.Body.String(), "João Silva")

	c.do(http.MethodPost, "/admin/logout", nil)
	assert.NotContains(t, c.cookies, adminCookie)
	assert.Equal(t, http.StatusSeeOther, c.do(http.MethodGet, "/admin", nil).Code)
}

func TestAdminSettings(t *testing.T) {
	a, c := newTestApp(t)
	c.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"s3cret"}})

	rec := c.do(http.MethodPost, "/admin/settings", url.Values{
		"max_logos_per_user": {"500"},
		"session_timeout":    {"60"},
		"default_logo_style": {"Moderno"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="max_logos_per_user"`)

	rec = c.do(http.MethodPost, "/admin/settings", url.Values{
		"stability_api_key":  {"sk-secret-9876"},
		"max_logos_per_user": {"20"},
		"session_timeout":    {"30"},
		"default_logo_style": {"Vintage"},
		"auto_backup":        {"on"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	st := a.Admin.Settings()
	assert.Equal(t, 20, st.MaxLogosPerUser)
	assert.Equal(t, "Vintage", st.DefaultLogoStyle)
	assert.True(t, st.AutoBackup)
	assert.False(t, st.EnableEmailNotifications)

	rec = c.do(http.MethodGet, "/admin/settings?saved=1", nil)
	assert.NotContains(t, rec.Body.String(), "sk-secret")
	assert.Contains(t, rec.Body.String(), "9876")
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	a, c := newTestApp(t)
	a.Auth.PasswordHash = ""
	c.e = a.Server()

	rec := c.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {""}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "não está configurado")
}
