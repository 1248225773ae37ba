package app

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/felixbrock/logoassist/internal/admin"
	"github.com/felixbrock/logoassist/internal/components"
	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(adminCookie)
		if err != nil {
			return c.Redirect(http.StatusSeeOther, "/admin/login")
		}

		if _, err := a.Auth.Verify(cookie.Value); err != nil {
			a.Log.Debug("rejecting admin token", zap.Error(err))
			a.clearAdminCookie(c)
			return c.Redirect(http.StatusSeeOther, "/admin/login")
		}

		return next(c)
	}
}

func (a *App) clearAdminCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.Config.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *App) loginPage(c echo.Context) *ComponentResponse {
	return ok(components.AdminLogin(a.Auth.Enabled(), ""))
}

func (a *App) login(c echo.Context) *ComponentResponse {
	ttl := time.Duration(a.Admin.Settings().SessionTimeout) * time.Minute

	token, err := a.Auth.Login(c.FormValue("username"), c.FormValue("password"), ttl)
	if err != nil {
		code := http.StatusUnauthorized
		msg := "Usuário ou senha inválidos."
		if errors.Is(err, admin.ErrLoginDisabled) {
			code = http.StatusNotFound
			msg = ""
		}
		return &ComponentResponse{
			Error:     err,
			Message:   "admin login failed",
			Code:      code,
			Component: components.AdminLogin(a.Auth.Enabled(), msg),
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     adminCookie,
		Value:    token,
		Path:     "/admin",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.Config.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	return redirect("/admin")
}

func (a *App) logout(c echo.Context) *ComponentResponse {
	a.clearAdminCookie(c)
	return redirect("/admin/login")
}

func (a *App) dashboard(c echo.Context) *ComponentResponse {
	return ok(components.AdminDashboard(a.Admin.Dashboard()))
}

func (a *App) projects(c echo.Context) *ComponentResponse {
	f := admin.ProjectFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Sector: c.QueryParam("sector"),
	}

	return ok(components.AdminProjects(components.ProjectsView{
		Projects: a.Admin.Projects(f),
		Sectors:  a.Admin.Sectors(),
		Search:   f.Search,
		Status:   f.Status,
		Sector:   f.Sector,
	}))
}

func deleteError(err error) *ComponentResponse {
	if errors.Is(err, domain.ErrNotFound) {
		return errorResponse(http.StatusNotFound, err)
	}
	return errorResponse(http.StatusInternalServerError, err)
}

func (a *App) deleteProject(c echo.Context) *ComponentResponse {
	if err := a.Admin.DeleteProject(c.Param("id")); err != nil {
		return deleteError(err)
	}
	return redirect("/admin/projects")
}

func (a *App) users(c echo.Context) *ComponentResponse {
	f := admin.UserFilter{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
	}

	return ok(components.AdminUsers(components.UsersView{
		Users:  a.Admin.Users(f),
		Search: f.Search,
		Role:   f.Role,
	}))
}

func (a *App) deleteUser(c echo.Context) *ComponentResponse {
	if err := a.Admin.DeleteUser(c.Param("id")); err != nil {
		return deleteError(err)
	}
	return redirect("/admin/users")
}

func (a *App) settingsView(s domain.Settings) components.SettingsView {
	return components.SettingsView{
		Settings:  s,
		MaskedKey: admin.MaskKey(a.Admin.Settings().StabilityApiKey),
		StyleTags: concept.StyleTags(),
	}
}

func (a *App) settingsPage(c echo.Context) *ComponentResponse {
	view := a.settingsView(a.Admin.Settings())
	view.Saved = c.QueryParam("saved") != ""

	return ok(components.AdminSettings(view))
}

func (a *App) saveSettings(c echo.Context) *ComponentResponse {
	next := domain.Settings{
		StabilityApiKey:          c.FormValue("stability_api_key"),
		MaxLogosPerUser:          formInt(c, "max_logos_per_user"),
		EnableEmailNotifications: formBool(c, "enable_email_notifications"),
		EnablePublicGallery:      formBool(c, "enable_public_gallery"),
		DefaultLogoStyle:         c.FormValue("default_logo_style"),
		SystemMaintenance:        formBool(c, "system_maintenance"),
		AutoBackup:               formBool(c, "auto_backup"),
		SessionTimeout:           formInt(c, "session_timeout"),
	}

	if err := a.Admin.SaveSettings(next); err != nil {
		var serr admin.SettingsError
		if !errors.As(err, &serr) {
			return errorResponse(http.StatusInternalServerError, err)
		}

		view := a.settingsView(next)
		view.Errors = serr
		return &ComponentResponse{Message: "invalid settings", Code: http.StatusBadRequest, Component: components.AdminSettings(view)}
	}

	a.Log.Info("settings saved", zap.Bool("maintenance", next.SystemMaintenance))
	return redirect("/admin/settings?saved=1")
}

// formInt reads an integer field; anything unparsable becomes 0 and fails validation.
func formInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return 0
	}
	return n
}

func formBool(c echo.Context, name string) bool {
	v := c.FormValue(name)
	return v == "on" || v == "true"
}
