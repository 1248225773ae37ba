// Package app is the web front end: an echo server over the wizard sessions
// and the admin surface.
package app

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/felixbrock/logoassist/internal/admin"
	"github.com/felixbrock/logoassist/internal/components"
	"github.com/felixbrock/logoassist/internal/wizard"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

//go:embed static
var staticFS embed.FS

const (
	sessionCookie = "logoassist_session"
	adminCookie   = "logoassist_admin"
	shutdownGrace = 10 * time.Second
)

// Tracker records product events. Failures never reach the user.
type Tracker interface {
	Capture(ctx context.Context, eventType string, distinctId string, props map[string]any) error
}

type Config struct {
	Port          string
	LogLevel      string
	SweepInterval time.Duration
	SecureCookies bool
}

type App struct {
	Sessions *wizard.Store
	Admin    *admin.Store
	Auth     admin.Auth
	Tracker  Tracker
	Log      *zap.Logger
	Config   Config
}

// Server builds the echo instance with every route registered.
func (a *App) Server() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	switch strings.ToLower(a.Config.LogLevel) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	default:
		e.Logger.SetLevel(log.WARN)
	}

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(a.latency)

	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))

	e.GET("/", a.handle(a.index), a.maintenance)
	e.POST("/wizard/advance", a.handle(a.advance), a.maintenance)
	e.POST("/wizard/retreat", a.handle(a.retreat), a.maintenance)
	e.POST("/wizard/restart", a.handle(a.restart), a.maintenance)
	e.POST("/wizard/skip", a.handle(a.skip), a.maintenance)
	e.POST("/wizard/configure", a.handle(a.configure), a.maintenance)
	e.POST("/wizard/credential", a.handle(a.credential), a.maintenance)
	e.POST("/wizard/refinements", a.handle(a.refinements), a.maintenance)
	e.POST("/wizard/concepts/render", a.handle(a.renderAll), a.maintenance)
	e.POST("/wizard/concepts/:id/render", a.handle(a.renderOne), a.maintenance)
	e.GET("/wizard/concepts/:id/image", a.image, a.maintenance)

	e.GET("/admin/login", a.handle(a.loginPage))
	e.POST("/admin/login", a.handle(a.login))
	e.POST("/admin/logout", a.handle(a.logout))

	ad := e.Group("/admin", a.requireAdmin)
	ad.GET("", a.handle(a.dashboard))
	ad.GET("/projects", a.handle(a.projects))
	ad.POST("/projects/:id/delete", a.handle(a.deleteProject))
	ad.GET("/users", a.handle(a.users))
	ad.POST("/users/:id/delete", a.handle(a.deleteUser))
	ad.GET("/settings", a.handle(a.settingsPage))
	ad.POST("/settings", a.handle(a.saveSettings))

	return e
}

// Start serves until ctx is cancelled, sweeping idle sessions meanwhile.
func (a *App) Start(ctx context.Context) error {
	e := a.Server()

	interval := a.Config.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	go a.Sessions.Run(ctx, interval)

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("App running", zap.String("port", a.Config.Port))
		errCh <- e.Start(":" + a.Config.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return e.Shutdown(sctx)
	}
}

// latency logs every request with its status and duration.
func (a *App) latency(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		begin := time.Now()

		err := next(c)

		a.Log.Info("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(begin)),
			zap.Error(err))

		return err
	}
}

func (a *App) maintenance(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.Admin != nil && a.Admin.Maintenance() {
			return a.handle(func(echo.Context) *ComponentResponse {
				return &ComponentResponse{Code: http.StatusServiceUnavailable, Message: "maintenance", Component: components.Maintenance()}
			})(c)
		}
		return next(c)
	}
}

// track sends an event in the background.
func (a *App) track(distinctId, event string, props map[string]any) {
	if a.Tracker == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.Tracker.Capture(ctx, event, distinctId, props); err != nil {
			a.Log.Warn("capturing event", zap.String("event", event), zap.Error(err))
		}
	}()
}
