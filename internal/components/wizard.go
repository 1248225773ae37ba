package components

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/wizard"
)

// WizardView is everything the wizard page shows for one session.
type WizardView struct {
	State      wizard.State
	Form       domain.FormData
	Previews   map[string]domain.Preview
	Configured bool
	Skipped    bool
	Errors     map[string]string
	Notice     string
	Sectors    []string
	StyleTags  []string
}

func Wizard(v WizardView) Component {
	return Page(v.State.Step.Title(), SectionWizard, component(func(ctx context.Context, w *writer) {
		w.child(ctx, StepIndicator(v.State.Step))

		if v.Notice != "" {
			w.raw(`<p class="notice">`)
			w.text(v.Notice)
			w.raw(`</p>`)
		}

		switch v.State.Step {
		case wizard.StepIdentity, wizard.StepStyle, wizard.StepDetails:
			w.raw(`<form method="post" action="/wizard/advance" class="step">`)
			stepFields(w, v)
			w.raw(`<div class="actions">`)
			if v.State.Step != wizard.FirstStep {
				w.raw(`<button type="submit" formaction="/wizard/retreat" class="secondary">Voltar</button>`)
			}
			w.raw(`<button type="submit">Avançar</button></div></form>`)
		case wizard.StepConcepts:
			w.child(ctx, ConceptsStep(v))
		case wizard.StepRefine:
			w.child(ctx, RefineStep(v))
		}

		if v.State.AwaitingCredential() {
			w.child(ctx, CredentialPrompt(v.State.Gate, v.Errors))
		}

		postButton(w, "/wizard/restart", "Recomeçar", "link")
	}))
}

func StepIndicator(current wizard.Step) Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<ol class="steps">`)
		for _, s := range wizard.Steps() {
			class := "todo"
			switch {
			case s == current:
				class = "current"
			case s < current:
				class = "done"
			}
			w.rawf(`<li class="%s"><span>%d</span> `, class, int(s))
			w.text(s.Title())
			w.raw(`</li>`)
		}
		w.raw(`</ol>`)
	})
}

func stepFields(w *writer, v WizardView) {
	f := v.Form
	switch v.State.Step {
	case wizard.StepIdentity:
		textInput(w, wizard.FieldCompanyName, "Nome da empresa", f.CompanyName, v.Errors)
		w.rawf(`<label for="%[1]s">Setor</label><input type="text" id="%[1]s" name="%[1]s" list="sectors" value="%[2]s"><datalist id="sectors">`,
			wizard.FieldSector, esc(f.Sector))
		for _, s := range v.Sectors {
			w.rawf(`<option value="%s">`, esc(s))
		}
		w.raw(`</datalist>`)
		fieldError(w, v.Errors, wizard.FieldSector)
		textArea(w, wizard.FieldValues, "Valores da marca", f.Values, v.Errors)
	case wizard.StepStyle:
		textInput(w, wizard.FieldPreferredColors, "Cores preferidas", f.PreferredColors, v.Errors)
		textInput(w, wizard.FieldGraphicElements, "Elementos gráficos", f.GraphicElements, v.Errors)
		w.raw(`<fieldset><legend>Estilo de design</legend>`)
		for _, tag := range v.StyleTags {
			checked := ""
			if slices.ContainsFunc(f.DesignStyle, func(s string) bool { return strings.EqualFold(s, tag) }) {
				checked = " checked"
			}
			w.rawf(`<label><input type="checkbox" name="%s" value="%s"%s> %s</label>`,
				wizard.FieldDesignStyle, esc(tag), checked, esc(tag))
		}
		w.raw(`</fieldset>`)
		fieldError(w, v.Errors, wizard.FieldDesignStyle)
	case wizard.StepDetails:
		textInput(w, wizard.FieldTargetAudience, "Público-alvo", f.TargetAudience, v.Errors)
		textArea(w, wizard.FieldSymbolism, "Simbolismo", f.Symbolism, v.Errors)
		textArea(w, wizard.FieldInspirations, "Inspirações", f.Inspirations, v.Errors)
	}
}

// CredentialPrompt asks for the render API key. A suspended gate also offers to
// continue without previews.
func CredentialPrompt(gate wizard.Gate, errs map[string]string) Component {
	return component(func(ctx context.Context, w *writer) {
		w.rawf(`<section class="credential" data-gate="%s"><h2>Chave da API de imagens</h2>`, esc(gate.String()))
		if gate == wizard.GatePrompted {
			w.raw(`<p>Informe uma chave válida para gerar as prévias dos conceitos.</p>`)
		} else {
			w.raw(`<p>Para ver prévias dos conceitos, informe sua chave. Você também pode continuar sem prévias.</p>`)
		}
		w.raw(`<form method="post" action="/wizard/credential">`,
			`<label for="credential">Chave</label><input type="password" id="credential" name="credential" autocomplete="off">`)
		fieldError(w, errs, "credential")
		w.raw(`<button type="submit">Salvar chave</button>`,
			`<button type="submit" formaction="/wizard/skip" class="secondary">Continuar sem prévias</button></form></section>`)
	})
}

func ConceptsStep(v WizardView) Component {
	return component(func(ctx context.Context, w *writer) {
		if v.Skipped && !v.Configured {
			w.raw(`<p class="muted">Você optou por continuar sem prévias.</p>`)
		}
		w.raw(`<section class="concepts">`)
		for _, c := range v.Form.Concepts {
			w.child(ctx, ConceptCard(c, v.Previews[c.Id], v.Configured))
		}
		w.raw(`</section><div class="actions">`)
		if v.Configured {
			postButton(w, "/wizard/concepts/render", "Gerar todas as prévias", "secondary")
		} else if !v.State.AwaitingCredential() {
			postButton(w, "/wizard/configure", "Configurar prévias", "secondary")
		}
		postButton(w, "/wizard/retreat", "Voltar", "secondary")
		postButton(w, "/wizard/advance", "Avançar", "")
		w.raw(`</div>`)
	})
}

func ConceptCard(c domain.Concept, p domain.Preview, configured bool) Component {
	return component(func(ctx context.Context, w *writer) {
		w.rawf(`<article class="concept" id="concept-%s"><h3>`, esc(c.Id))
		w.text(c.Name)
		w.raw(`</h3><ul class="palette">`)
		for _, color := range c.Palette {
			w.rawf(`<li style="background:%s" title="%s">%s</li>`, esc(color.Hex), esc(color.Name), esc(color.Hex))
		}
		w.raw(`</ul><dl><dt>Paleta</dt><dd>`)
		w.text(c.PaletteName)
		w.raw(`</dd><dt>Tipografia</dt><dd>`)
		w.text(c.Typography)
		w.raw(`</dd><dt>Layout</dt><dd>`)
		w.text(c.Layout)
		w.raw(`</dd></dl><p class="rationale">`)
		w.text(c.Rationale)
		w.raw(`</p>`)
		w.child(ctx, PreviewSlot(c.Id, p, configured))
		w.raw(`</article>`)
	})
}

// PreviewSlot shows the render state of one concept, with a retry for that
// concept alone when it failed.
func PreviewSlot(conceptId string, p domain.Preview, configured bool) Component {
	return component(func(ctx context.Context, w *writer) {
		state := p.State
		if state == "" {
			state = domain.PreviewIdle
		}
		w.rawf(`<div class="preview" data-state="%s">`, esc(string(state)))

		action := fmt.Sprintf("/wizard/concepts/%s/render", conceptId)
		switch state {
		case domain.PreviewReady:
			w.rawf(`<img src="/wizard/concepts/%[1]s/image" alt="Prévia"><a href="/wizard/concepts/%[1]s/image?download=1">Baixar</a>`, esc(conceptId))
		case domain.PreviewPending:
			w.raw(`<p>Gerando prévia…</p>`)
		case domain.PreviewFailed:
			w.raw(`<p class="field-error">`)
			w.text(previewFailure(p.Err))
			w.raw(`</p>`)
			if configured {
				postButton(w, action, "Tentar novamente", "secondary")
			}
		default:
			if configured {
				postButton(w, action, "Gerar prévia", "secondary")
			} else {
				w.raw(`<p class="muted">Prévia indisponível sem chave de API.</p>`)
			}
		}
		w.raw(`</div>`)
	})
}

func previewFailure(err error) string {
	switch {
	case err == nil:
		return "Falha ao gerar a prévia."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Chave de API recusada."
	case errors.Is(err, domain.ErrRateLimited):
		return "Limite de requisições atingido. Aguarde e tente novamente."
	default:
		return "Serviço de imagens indisponível."
	}
}

func RefineStep(v WizardView) Component {
	return component(func(ctx context.Context, w *writer) {
		f := v.Form
		w.raw(`<section class="summary"><h2>`)
		w.text(f.CompanyName)
		w.raw(`</h2><p>`)
		w.text(f.Sector)
		w.raw(`</p><ol>`)
		for i, c := range f.Concepts {
			w.raw(`<li>`)
			w.text(c.Name)
			if p, ok := v.Previews[c.Id]; ok && p.State == domain.PreviewReady {
				w.rawf(` <a href="/wizard/concepts/%s/image?download=1">Baixar prévia %d</a>`, esc(c.Id), i+1)
			}
			w.raw(`</li>`)
		}
		w.raw(`</ol></section><form method="post" action="/wizard/refinements" class="step">`)
		textArea(w, wizard.FieldRefinements, "Ajustes desejados", f.Refinements, v.Errors)
		w.raw(`<div class="actions"><button type="submit" formaction="/wizard/retreat" class="secondary">Voltar</button>`,
			`<button type="submit">Salvar ajustes</button></div></form>`)
	})
}
