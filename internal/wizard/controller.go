// Package wizard drives one user's trip through the five wizard steps. The
// Controller owns the FormData of a session, generates the concepts once when
// leaving the details step and holds the 3 -> 4 transition until rendering is
// configured or explicitly skipped.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sync"

	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotSuspended  = errors.New("no credential prompt is open")
	ErrNotPreviewing = errors.New("concepts can only be rendered from the preview step")
	ErrConfigured    = errors.New("rendering is already configured")
)

type Renderer interface {
	IsConfigured() bool
	SetCredential(secret string) error
	Render(ctx context.Context, concept domain.Concept) (*domain.Image, error)
}

type Generator func(domain.FormData) []domain.Concept

type Controller struct {
	mu       sync.Mutex
	state    State
	form     domain.FormData
	skipped  bool
	previews map[string]domain.Preview

	// Bumped whenever outstanding renders lose their audience.
	epoch    uint64
	interest context.Context
	cancel   context.CancelFunc

	renderer Renderer
	generate Generator
	log      *zap.Logger
}

type Option func(*Controller)

func WithGenerator(g Generator) Option {
	return func(c *Controller) { c.generate = g }
}

func NewController(renderer Renderer, log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		state:    State{Step: FirstStep, Gate: GateOpen},
		previews: map[string]domain.Preview{},
		renderer: renderer,
		generate: concept.Generate,
		log:      log,
	}
	c.interest, c.cancel = context.WithCancel(context.Background())

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) Configured() bool {
	return c.renderer.IsConfigured()
}

func (c *Controller) Skipped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.skipped
}

// Form returns a copy of the collected data.
func (c *Controller) Form() domain.FormData {
	c.mu.Lock()
	defer c.mu.Unlock()

	return copyForm(c.form)
}

func (c *Controller) Concepts() []domain.Concept {
	c.mu.Lock()
	defer c.mu.Unlock()

	return copyForm(c.form).Concepts
}

func (c *Controller) Previews() map[string]domain.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]domain.Preview, len(c.previews))
	for id, p := range c.previews {
		out[id] = p
	}
	return out
}

// Submit applies the fields of the current step and validates them. It never
// changes the step.
func (c *Controller) Submit(values url.Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	applyInput(&c.form, c.state.Step, values)
	return ValidateStep(c.state.Step, c.form)
}

func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.state.Step

	if from == handOffStep {
		if len(c.form.Concepts) == 0 {
			concepts, err := c.generateConcepts()
			if err != nil {
				c.log.Error("concept generation failed", zap.Error(err))
				return err
			}
			c.form.Concepts = concepts
			c.log.Debug("concepts generated",
				zap.String("company", c.form.CompanyName),
				zap.Int("count", len(concepts)))
		}

		if !c.renderer.IsConfigured() && !c.skipped {
			c.state.Gate = GateSuspended
			c.log.Debug("transition suspended until rendering is configured")
			return nil
		}
	}

	if from == previewStep {
		c.state.Gate = GateOpen
		c.abandonRenders()
	}

	c.state.Step = min(from+1, LastStep)
	return nil
}

func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step == previewStep {
		c.abandonRenders()
	}
	c.state.Step = max(c.state.Step-1, FirstStep)
}

// Restart empties the form and forgets every concept and preview. The render
// credential belongs to the session and is kept.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abandonRenders()
	c.form = domain.FormData{}
	c.previews = map[string]domain.Preview{}
	c.skipped = false
	c.state = State{Step: FirstStep, Gate: GateOpen}
}

// SetCredential configures rendering and completes a suspended transition when
// the session is still on the details step. After a retreat it only closes the
// prompt.
func (c *Controller) SetCredential(secret string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.renderer.SetCredential(secret); err != nil {
		return err
	}

	resume := c.state.Gate == GateSuspended && c.state.Step == handOffStep
	c.state.Gate = GateOpen
	if resume {
		c.state.Step = previewStep
	}

	return nil
}

// Skip closes the credential prompt without configuring rendering. A suspended
// transition completes if the session is still on the details step, and later
// hand-offs are no longer gated.
func (c *Controller) Skip() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Gate {
	case GateSuspended:
		c.skipped = true
		c.state.Gate = GateOpen
		if c.state.Step == handOffStep {
			c.state.Step = previewStep
		}
	case GatePrompted:
		c.state.Gate = GateOpen
	default:
		return ErrNotSuspended
	}

	return nil
}

// PromptCredential opens the credential prompt from the preview step.
func (c *Controller) PromptCredential() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step != previewStep {
		return ErrNotPreviewing
	}
	if c.renderer.IsConfigured() {
		return ErrConfigured
	}

	c.state.Gate = GatePrompted
	return nil
}

// Ticket is a claim on one outstanding render.
type Ticket struct {
	Concept domain.Concept
	Ctx     context.Context
	epoch   uint64
	release func()
}

// BeginRender marks a concept as pending. The ticket context is cancelled when
// the caller's ctx ends or the session loses interest (restart, leaving the
// preview step).
func (c *Controller) BeginRender(ctx context.Context, conceptId string) (*Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step != previewStep {
		return nil, ErrNotPreviewing
	}

	target, ok := c.findConcept(conceptId)
	if !ok {
		return nil, fmt.Errorf("concept %s: %w", conceptId, domain.ErrNotFound)
	}

	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.interest, cancel)

	c.previews[conceptId] = domain.Preview{ConceptId: conceptId, State: domain.PreviewPending}

	return &Ticket{
		Concept: target,
		Ctx:     rctx,
		epoch:   c.epoch,
		release: func() {
			stop()
			cancel()
		},
	}, nil
}

// CompleteRender records a render outcome. It reports false when the result
// arrived for state that has since been restarted or left.
func (c *Controller) CompleteRender(t *Ticket, img *domain.Image, err error) (domain.Preview, bool) {
	t.release()

	c.mu.Lock()
	defer c.mu.Unlock()

	if t.epoch != c.epoch {
		c.log.Debug("discarding stale render", zap.String("concept", t.Concept.Id))
		return domain.Preview{ConceptId: t.Concept.Id, State: domain.PreviewCancelled}, false
	}

	p := domain.Preview{ConceptId: t.Concept.Id}
	if err != nil {
		p.State = domain.PreviewFailed
		p.Err = err
		if errors.Is(err, domain.ErrUnauthorized) {
			c.state.Gate = GatePrompted
		}
		c.log.Warn("render failed", zap.String("concept", t.Concept.Id), zap.Error(err))
	} else {
		p.State = domain.PreviewReady
		p.Image = img
	}

	c.previews[t.Concept.Id] = p
	return p, true
}

// Render runs one render without holding the session lock.
func (c *Controller) Render(ctx context.Context, conceptId string) (domain.Preview, error) {
	t, err := c.BeginRender(ctx, conceptId)
	if err != nil {
		return domain.Preview{}, err
	}

	img, rerr := c.renderer.Render(t.Ctx, t.Concept)
	p, _ := c.CompleteRender(t, img, rerr)
	return p, nil
}

// RenderAll renders every concept concurrently. Failures stay per concept.
func (c *Controller) RenderAll(ctx context.Context) (map[string]domain.Preview, error) {
	concepts := c.Concepts()

	results := make([]domain.Preview, len(concepts))
	var g errgroup.Group
	g.SetLimit(concept.Count)
	for i, item := range concepts {
		g.Go(func() error {
			p, err := c.Render(ctx, item.Id)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]domain.Preview, len(results))
	for _, p := range results {
		out[p.ConceptId] = p
	}
	return out, nil
}

// Close cancels outstanding renders for good.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.cancel()
}

func (c *Controller) generateConcepts() ([]domain.Concept, error) {
	concepts := c.generate(c.form)
	if err := concept.Validate(concepts); err != nil {
		return nil, err
	}
	if again := c.generate(c.form); !reflect.DeepEqual(concepts, again) {
		return nil, fmt.Errorf("%w: output differs between identical calls", domain.ErrGenerationInvariant)
	}
	return concepts, nil
}

// abandonRenders must be called with mu held.
func (c *Controller) abandonRenders() {
	c.epoch++
	c.cancel()
	c.interest, c.cancel = context.WithCancel(context.Background())

	for id, p := range c.previews {
		if p.State == domain.PreviewPending {
			p.State = domain.PreviewCancelled
			c.previews[id] = p
		}
	}
}

func (c *Controller) findConcept(id string) (domain.Concept, bool) {
	for _, item := range c.form.Concepts {
		if item.Id == id {
			return item, true
		}
	}
	return domain.Concept{}, false
}

func copyForm(f domain.FormData) domain.FormData {
	out := f
	out.DesignStyle = append([]string(nil), f.DesignStyle...)
	if f.Concepts != nil {
		out.Concepts = make([]domain.Concept, len(f.Concepts))
		for i, item := range f.Concepts {
			item.Palette = append([]domain.Color(nil), item.Palette...)
			out.Concepts[i] = item
		}
	}
	return out
}
