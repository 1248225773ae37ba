// Package components renders the HTML pages and fragments of the web front end.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

type Component = templ.Component

// Section selects the highlighted entry of the navigation bar.
type Section int

const (
	SectionWizard Section = iota
	SectionAdmin
)

type writer struct {
	out io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.out, p)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) rawf(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

func (w *writer) child(ctx context.Context, c Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(ctx, w.out)
	}
}

func component(fn func(ctx context.Context, w *writer)) Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{out: out}
		fn(ctx, w)
		return w.err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Page wraps body in the document shell.
func Page(title string, section Section, body Component) Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<link rel="stylesheet" href="/static/style.css"><title>`)
		w.text(title)
		w.raw(` · LogoAssist</title></head><body><nav class="topbar">`)
		w.raw(navLink("/", "Assistente", section == SectionWizard))
		w.raw(navLink("/admin", "Administração", section == SectionAdmin))
		w.raw(`</nav><main>`)
		w.child(ctx, body)
		w.raw(`</main></body></html>`)
	})
}

func navLink(href, label string, active bool) string {
	class := ""
	if active {
		class = ` class="active"`
	}
	return fmt.Sprintf(`<a href="%s"%s>%s</a>`, esc(href), class, esc(label))
}

func ErrorPage(code int, title string, msg string) Component {
	return Page(title, SectionWizard, component(func(ctx context.Context, w *writer) {
		w.rawf(`<section class="error" data-code="%d"><h1>%d · `, code, code)
		w.text(title)
		w.raw(`</h1><p>`)
		w.text(msg)
		w.raw(`</p><a href="/">Voltar ao início</a></section>`)
	}))
}

func Maintenance() Component {
	return Page("Em manutenção", SectionWizard, component(func(ctx context.Context, w *writer) {
		w.raw(`<section class="maintenance"><h1>Sistema em manutenção</h1>`,
			`<p>O assistente de logos está temporariamente indisponível. Tente novamente em alguns minutos.</p></section>`)
	}))
}

func fieldError(w *writer, errs map[string]string, field string) {
	if msg, ok := errs[field]; ok {
		w.rawf(`<p class="field-error" data-field="%s">`, esc(field))
		w.text(msg)
		w.raw(`</p>`)
	}
}

func textInput(w *writer, name, label, value string, errs map[string]string) {
	w.rawf(`<label for="%[1]s">%[2]s</label><input type="text" id="%[1]s" name="%[1]s" value="%[3]s">`,
		esc(name), esc(label), esc(value))
	fieldError(w, errs, name)
}

func textArea(w *writer, name, label, value string, errs map[string]string) {
	w.rawf(`<label for="%[1]s">%[2]s</label><textarea id="%[1]s" name="%[1]s">%[3]s</textarea>`,
		esc(name), esc(label), esc(value))
	fieldError(w, errs, name)
}

func postButton(w *writer, action, label, class string) {
	w.rawf(`<form method="post" action="%s" class="inline"><button type="submit" class="%s">%s</button></form>`,
		esc(action), esc(class), esc(label))
}
