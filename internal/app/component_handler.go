package app

import (
	"net/http"

	"github.com/felixbrock/logoassist/internal/components"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ComponentResponse struct {
	Error       error
	Message     string
	Code        int
	ContentType string
	Component   components.Component
	// Redirect, when set, answers with 303 See Other instead of a component.
	Redirect string
}

type ComponentHandler func(c echo.Context) *ComponentResponse

func (a *App) handle(h ComponentHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := h(c)

		if resp.Error != nil {
			a.Log.Error("Error occured",
				zap.Error(resp.Error),
				zap.String("message", resp.Message),
				zap.Int("code", resp.Code),
				zap.String("path", c.Path()))
		}

		if resp.Redirect != "" {
			return c.Redirect(http.StatusSeeOther, resp.Redirect)
		}

		code := resp.Code
		if code == 0 {
			code = http.StatusOK
		}
		contentType := resp.ContentType
		if contentType == "" {
			contentType = echo.MIMETextHTMLCharsetUTF8
		}

		c.Response().Header().Set(echo.HeaderContentType, contentType)
		c.Response().WriteHeader(code)

		if err := resp.Component.Render(c.Request().Context(), c.Response()); err != nil {
			a.Log.Error("Error occured", zap.Error(err), zap.String("message", "templ: failed to render template"))
		}

		return nil
	}
}

func ok(component components.Component) *ComponentResponse {
	return &ComponentResponse{Component: component, Code: http.StatusOK, Message: "OK"}
}

func redirect(to string) *ComponentResponse {
	return &ComponentResponse{Redirect: to}
}
