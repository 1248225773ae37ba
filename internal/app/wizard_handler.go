package app

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/felixbrock/logoassist/internal/components"
	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/render"
	"github.com/felixbrock/logoassist/internal/wizard"
	"github.com/labstack/echo/v4"
)

const credentialField = "credential"

// session returns the caller's wizard session, starting one when the cookie is
// missing or names a session that has ended.
func (a *App) session(c echo.Context) *wizard.Session {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		if s, ok := a.Sessions.Get(cookie.Value); ok {
			return s
		}
	}

	s := a.Sessions.Create()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    s.Id,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.Config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	a.track(s.Id, "wizard_started", nil)

	return s
}

func wizardView(s *wizard.Session) components.WizardView {
	ctrl := s.Controller

	return components.WizardView{
		State:      ctrl.State(),
		Form:       ctrl.Form(),
		Previews:   ctrl.Previews(),
		Configured: ctrl.Configured(),
		Skipped:    ctrl.Skipped(),
		Sectors:    concept.Sectors(),
		StyleTags:  concept.StyleTags(),
	}
}

func (a *App) index(c echo.Context) *ComponentResponse {
	return ok(components.Wizard(wizardView(a.session(c))))
}

// invalid re-renders the current step with field messages.
func invalid(s *wizard.Session, err error, fields map[string]string) *ComponentResponse {
	view := wizardView(s)
	view.Errors = fields

	return &ComponentResponse{
		Error:     err,
		Message:   "validation failed",
		Code:      http.StatusBadRequest,
		Component: components.Wizard(view),
	}
}

func (a *App) advance(c echo.Context) *ComponentResponse {
	s := a.session(c)

	values, err := c.FormParams()
	if err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}

	if err := s.Controller.Submit(values); err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			return invalid(s, nil, verr.Fields)
		}
		return errorResponse(http.StatusBadRequest, err)
	}

	from := s.Controller.State().Step
	if err := s.Controller.Advance(); err != nil {
		return errorResponse(http.StatusInternalServerError, err)
	}

	state := s.Controller.State()
	if from == wizard.StepDetails && len(s.Controller.Concepts()) > 0 {
		a.track(s.Id, "concepts_generated", map[string]any{"sector": s.Controller.Form().Sector})
	}
	a.track(s.Id, "wizard_advanced", map[string]any{"from": int(from), "to": int(state.Step), "gate": state.Gate.String()})

	return redirect("/")
}

func (a *App) retreat(c echo.Context) *ComponentResponse {
	a.session(c).Controller.Retreat()
	return redirect("/")
}

func (a *App) restart(c echo.Context) *ComponentResponse {
	s := a.session(c)
	s.Controller.Restart()
	a.track(s.Id, "wizard_restarted", nil)

	return redirect("/")
}

func (a *App) skip(c echo.Context) *ComponentResponse {
	if err := a.session(c).Controller.Skip(); err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}
	return redirect("/")
}

func (a *App) configure(c echo.Context) *ComponentResponse {
	if err := a.session(c).Controller.PromptCredential(); err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}
	return redirect("/")
}

func (a *App) credential(c echo.Context) *ComponentResponse {
	s := a.session(c)

	err := s.Controller.SetCredential(c.FormValue(credentialField))
	if errors.Is(err, domain.ErrEmptyCredential) {
		return invalid(s, nil, map[string]string{credentialField: "Informe a chave da API."})
	}
	if err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}

	return redirect("/")
}

func (a *App) refinements(c echo.Context) *ComponentResponse {
	s := a.session(c)

	if s.Controller.State().Step != wizard.StepRefine {
		return errorResponse(http.StatusBadRequest, fmt.Errorf("refinements outside the refine step"))
	}

	values, err := c.FormParams()
	if err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}
	if err := s.Controller.Submit(values); err != nil {
		return errorResponse(http.StatusBadRequest, err)
	}

	a.track(s.Id, "refinements_saved", nil)
	return redirect("/")
}

func renderError(err error) *ComponentResponse {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errorResponse(http.StatusNotFound, err)
	case errors.Is(err, wizard.ErrNotPreviewing):
		return errorResponse(http.StatusBadRequest, err)
	default:
		return errorResponse(http.StatusInternalServerError, err)
	}
}

func (a *App) renderOne(c echo.Context) *ComponentResponse {
	s := a.session(c)

	p, err := s.Controller.Render(c.Request().Context(), c.Param("id"))
	if err != nil {
		return renderError(err)
	}

	a.track(s.Id, "preview_rendered", map[string]any{"state": string(p.State)})
	return redirect("/")
}

func (a *App) renderAll(c echo.Context) *ComponentResponse {
	s := a.session(c)

	previews, err := s.Controller.RenderAll(c.Request().Context())
	if err != nil {
		return renderError(err)
	}

	for _, p := range previews {
		a.track(s.Id, "preview_rendered", map[string]any{"state": string(p.State)})
	}
	return redirect("/")
}

// image serves a ready preview, as an attachment when ?download is set.
func (a *App) image(c echo.Context) error {
	s := a.session(c)
	id := c.Param("id")

	p, found := s.Controller.Previews()[id]
	if !found || p.State != domain.PreviewReady || p.Image == nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	if c.QueryParam("download") != "" {
		n := slices.IndexFunc(s.Controller.Concepts(), func(cc domain.Concept) bool { return cc.Id == id }) + 1
		name := render.FileName(s.Controller.Form().CompanyName, n, p.Image.MimeType)
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	}

	return c.Blob(http.StatusOK, p.Image.MimeType, p.Image.Data)
}
