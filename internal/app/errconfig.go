package app

import (
	"errors"
	"net/http"

	"github.com/felixbrock/logoassist/internal/components"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errCtx struct {
	Code  int
	Title string
	Msg   string
}

var errCtxs = map[int]errCtx{
	400: {Code: 400, Title: "Requisição inválida", Msg: "Não foi possível processar essa ação agora."},
	401: {Code: 401, Title: "Não autorizado", Msg: "Faça login para continuar."},
	404: {Code: 404, Title: "Não encontrado", Msg: "Não encontramos a página que você procurava."},
	405: {Code: 405, Title: "Método não permitido", Msg: "Essa ação não é suportada neste endereço."},
	500: {Code: 500, Title: "Erro interno", Msg: "Desculpe, ocorreu um erro interno no servidor."},
	503: {Code: 503, Title: "Indisponível", Msg: "O serviço está temporariamente indisponível."},
}

func getErrCtx(code int) errCtx {
	if ctx, ok := errCtxs[code]; ok {
		return ctx
	}
	return errCtxs[500]
}

func errorResponse(code int, err error) *ComponentResponse {
	ctx := getErrCtx(code)

	return &ComponentResponse{
		Error:     err,
		Message:   ctx.Title,
		Code:      ctx.Code,
		Component: components.ErrorPage(ctx.Code, ctx.Title, ctx.Msg),
	}
}

// httpErrorHandler renders router and middleware errors with the error page.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	ctx := getErrCtx(code)
	if code >= 500 {
		a.Log.Error("Error occured", zap.Error(err), zap.String("path", c.Request().URL.Path))
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(ctx.Code)
	if rerr := components.ErrorPage(ctx.Code, ctx.Title, ctx.Msg).Render(c.Request().Context(), c.Response()); rerr != nil {
		a.Log.Error("Error occured", zap.Error(rerr))
	}
}
