package terminal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/render"
	"github.com/felixbrock/logoassist/internal/wizard"
	"go.uber.org/zap"
)

const otherSector = "Outro"

// Runner drives one wizard session from the terminal. Rendered previews are
// written to OutDir.
type Runner struct {
	Driver  PromptDriver
	Session *wizard.Session
	OutDir  string
	Log     *zap.Logger

	writeFile func(name string, data []byte) error
}

type action struct {
	label string
	run   func(ctx context.Context) (done bool, err error)
}

func NewRunner(driver PromptDriver, session *wizard.Session, outDir string, log *zap.Logger) *Runner {
	return &Runner{
		Driver:  driver,
		Session: session,
		OutDir:  outDir,
		Log:     log,
		writeFile: func(name string, data []byte) error {
			return os.WriteFile(name, data, 0o644)
		},
	}
}

// Run loops until the user finishes or quits. The session is closed on return.
func (r *Runner) Run(ctx context.Context) error {
	defer r.Session.Close()

	ctrl := r.Session.Controller
	for {
		state := ctrl.State()

		if state.AwaitingCredential() {
			if err := r.credential(ctx, state.Gate); err != nil {
				return err
			}
			continue
		}

		if err := r.info(ctx, fmt.Sprintf("\n== %d/%d · %s ==", int(state.Step), int(wizard.LastStep), state.Step.Title())); err != nil {
			return err
		}

		switch state.Step {
		case wizard.StepIdentity, wizard.StepStyle, wizard.StepDetails:
			if err := r.fields(ctx, state.Step); err != nil {
				return err
			}
		case wizard.StepConcepts:
			if err := r.showConcepts(ctx); err != nil {
				return err
			}
		case wizard.StepRefine:
			if err := r.refine(ctx); err != nil {
				return err
			}
		}

		done, err := r.choose(ctx, r.actions(state))
		if err != nil || done {
			return err
		}
	}
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.Driver.Info(ctx, msg)
}

// fields asks for the current step's fields until they validate.
func (r *Runner) fields(ctx context.Context, step wizard.Step) error {
	for {
		values, err := r.ask(ctx, step)
		if err != nil {
			return err
		}

		err = r.Session.Controller.Submit(values)
		var verr *wizard.ValidationError
		if !errors.As(err, &verr) {
			return err
		}

		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := r.info(ctx, fmt.Sprintf("! %s: %s", k, verr.Fields[k])); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) ask(ctx context.Context, step wizard.Step) (url.Values, error) {
	form := r.Session.Controller.Form()
	values := url.Values{}

	input := func(field, msg, current string) error {
		v, err := r.Driver.Input(ctx, InputConfig{Message: msg, Default: current})
		if err != nil {
			return err
		}
		values.Set(field, v)
		return nil
	}

	var err error
	switch step {
	case wizard.StepIdentity:
		if err = input(wizard.FieldCompanyName, "Nome da empresa:", form.CompanyName); err != nil {
			return nil, err
		}
		if err = r.askSector(ctx, values, form.Sector); err != nil {
			return nil, err
		}
		err = input(wizard.FieldValues, "Valores da marca:", form.Values)
	case wizard.StepStyle:
		if err = input(wizard.FieldPreferredColors, "Cores preferidas:", form.PreferredColors); err != nil {
			return nil, err
		}
		if err = input(wizard.FieldGraphicElements, "Elementos gráficos:", form.GraphicElements); err != nil {
			return nil, err
		}
		err = r.askStyles(ctx, values, form.DesignStyle)
	case wizard.StepDetails:
		if err = input(wizard.FieldTargetAudience, "Público-alvo:", form.TargetAudience); err != nil {
			return nil, err
		}
		if err = input(wizard.FieldSymbolism, "Simbolismo:", form.Symbolism); err != nil {
			return nil, err
		}
		err = input(wizard.FieldInspirations, "Inspirações:", form.Inspirations)
	}

	return values, err
}

func (r *Runner) askSector(ctx context.Context, values url.Values, current string) error {
	options := append(concept.Sectors(), otherSector)
	def := slices.Index(options, current)

	idx, err := r.Driver.Select(ctx, SelectConfig{Message: "Setor:", Options: options, DefaultIndex: def})
	if err != nil {
		return err
	}

	if idx >= 0 && options[idx] != otherSector {
		values.Set(wizard.FieldSector, options[idx])
		return nil
	}

	if def >= 0 {
		current = ""
	}
	sector, err := r.Driver.Input(ctx, InputConfig{Message: "Qual setor?", Default: current})
	if err != nil {
		return err
	}
	values.Set(wizard.FieldSector, sector)
	return nil
}

func (r *Runner) askStyles(ctx context.Context, values url.Values, current []string) error {
	tags := concept.StyleTags()

	var defaults []int
	for i, t := range tags {
		if slices.ContainsFunc(current, func(s string) bool { return strings.EqualFold(s, t) }) {
			defaults = append(defaults, i)
		}
	}

	picked, err := r.Driver.MultiSelect(ctx, SelectConfig{Message: "Estilos de design:", Options: tags, Defaults: defaults})
	if err != nil {
		return err
	}

	for _, i := range picked {
		values.Add(wizard.FieldDesignStyle, tags[i])
	}
	return nil
}

func (r *Runner) credential(ctx context.Context, gate wizard.Gate) error {
	ctrl := r.Session.Controller

	options := []string{"Informar chave da API", "Continuar sem prévias"}
	msg := "Prévias de imagem precisam de uma chave de API."
	if gate == wizard.GatePrompted {
		msg = "A chave de API foi recusada ou não está configurada."
		options[1] = "Cancelar"
	}

	idx, err := r.Driver.Select(ctx, SelectConfig{Message: msg, Options: options})
	if err != nil {
		return err
	}
	if idx != 0 {
		return ctrl.Skip()
	}

	secret, err := r.Driver.Password(ctx, InputConfig{Message: "Chave:"})
	if err != nil {
		return err
	}
	if err := ctrl.SetCredential(secret); err != nil {
		if errors.Is(err, domain.ErrEmptyCredential) {
			return r.info(ctx, "! informe uma chave não vazia")
		}
		return err
	}
	return nil
}

func (r *Runner) showConcepts(ctx context.Context) error {
	previews := r.Session.Controller.Previews()

	for i, c := range r.Session.Controller.Concepts() {
		colors := make([]string, len(c.Palette))
		for j, color := range c.Palette {
			colors[j] = color.Hex
		}

		lines := []string{
			fmt.Sprintf("%d. %s", i+1, c.Name),
			fmt.Sprintf("   Paleta: %s (%s)", c.PaletteName, strings.Join(colors, ", ")),
			fmt.Sprintf("   Tipografia: %s", c.Typography),
			fmt.Sprintf("   Layout: %s", c.Layout),
			fmt.Sprintf("   %s", c.Rationale),
		}
		if p, ok := previews[c.Id]; ok {
			lines = append(lines, fmt.Sprintf("   Prévia: %s", p.State))
		}

		if err := r.info(ctx, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) renderAll(ctx context.Context) error {
	ctrl := r.Session.Controller

	previews, err := ctrl.RenderAll(ctx)
	if err != nil {
		return err
	}

	form := ctrl.Form()
	for i, c := range ctrl.Concepts() {
		p := previews[c.Id]
		switch {
		case p.State == domain.PreviewReady && p.Image != nil:
			name := filepath.Join(r.OutDir, render.FileName(form.CompanyName, i+1, p.Image.MimeType))
			if err := r.writeFile(name, p.Image.Data); err != nil {
				return fmt.Errorf("saving preview: %w", err)
			}
			err = r.info(ctx, fmt.Sprintf("✓ %s salvo em %s", c.Name, name))
		case p.State == domain.PreviewFailed:
			err = r.info(ctx, fmt.Sprintf("✗ %s: %v", c.Name, p.Err))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) refine(ctx context.Context) error {
	ctrl := r.Session.Controller

	v, err := r.Driver.Input(ctx, InputConfig{Message: "Ajustes desejados:", Default: ctrl.Form().Refinements})
	if err != nil {
		return err
	}
	return ctrl.Submit(url.Values{wizard.FieldRefinements: {v}})
}

func (r *Runner) actions(state wizard.State) []action {
	ctrl := r.Session.Controller

	next := action{"Avançar", func(ctx context.Context) (bool, error) {
		return false, ctrl.Advance()
	}}
	back := action{"Voltar", func(ctx context.Context) (bool, error) {
		ctrl.Retreat()
		return false, nil
	}}
	restart := action{"Recomeçar", func(ctx context.Context) (bool, error) {
		ctrl.Restart()
		return false, nil
	}}
	quit := action{"Sair", func(ctx context.Context) (bool, error) {
		return true, nil
	}}

	var out []action
	switch state.Step {
	case wizard.StepConcepts:
		if ctrl.Configured() {
			out = append(out, action{"Gerar prévias", func(ctx context.Context) (bool, error) {
				return false, r.renderAll(ctx)
			}})
		} else {
			out = append(out, action{"Configurar prévias", func(ctx context.Context) (bool, error) {
				return false, ctrl.PromptCredential()
			}})
		}
		out = append(out, next, back)
	case wizard.StepRefine:
		out = append(out, action{"Concluir", func(ctx context.Context) (bool, error) {
			return true, r.info(ctx, "Projeto concluído.")
		}}, back)
	case wizard.FirstStep:
		out = append(out, next)
	default:
		out = append(out, next, back)
	}

	return append(out, restart, quit)
}

func (r *Runner) choose(ctx context.Context, actions []action) (bool, error) {
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label
	}

	idx, err := r.Driver.Select(ctx, SelectConfig{Message: "O que deseja fazer?", Options: labels})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(actions) {
		return false, fmt.Errorf("unknown action %d", idx)
	}

	r.Log.Debug("terminal action", zap.String("action", actions[idx].label))
	return actions[idx].run(ctx)
}
