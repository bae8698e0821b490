package field

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/glowfield/internal/config"
	game_log "github.com/iburimskiy/glowfield/internal/log"
)

// Viewport is the drawable area: viewport width by full document height.
type Viewport struct {
	Width  float64
	Height float64
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Locator resolves a handle to its current rect. ok is false once the region
// no longer exists.
type Locator interface {
	Locate(h Handle) (Rect, bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(h Handle) (Rect, bool)

func (f LocatorFunc) Locate(h Handle) (Rect, bool) { return f(h) }

// Locators tries each locator in turn; the first hit wins.
type Locators []Locator

func (ls Locators) Locate(h Handle) (Rect, bool) {
	for _, l := range ls {
		if l == nil {
			continue
		}
		if r, ok := l.Locate(h); ok {
			return r, true
		}
	}
	return Rect{}, false
}

type Option func(*Engine)

// WithSeed makes the particle stream deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *game_log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine owns all mutable animation state. It is not safe for concurrent use;
// drivers call it from a single frame goroutine.
type Engine struct {
	cfg          config.Field
	palette      []color.RGBA
	highlights   map[string]color.RGBA
	defaultColor color.RGBA

	view      Viewport
	target    int
	hidden    bool
	particles []Particle

	attractors *Registry
	pointer    Pointer

	links      []Link
	attrLinks  []AttractorLink
	grid       linkGrid
	frame      uint64
	lastActive bool

	rng *rand.Rand
	log *game_log.Logger
}

// New builds an engine populated to the target count for view.
func New(cfg config.Field, view Viewport, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field config: %w", err)
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	highlights, err := cfg.Highlights()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		palette:      palette,
		highlights:   highlights,
		defaultColor: config.MustParseColor(config.DefaultColor),
		view:         view,
		attractors:   NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if e.log == nil {
		e.log = game_log.Discard()
	}

	e.applyCompact()
	e.target = e.cfg.Counts.For(view.Width)
	e.topUp(e.target)
	e.log.Debugf("field: %d particles over %.0fx%.0f", len(e.particles), view.Width, view.Height)
	return e, nil
}

// applyCompact tightens the radii once for small viewports.
func (e *Engine) applyCompact() {
	c := e.cfg.Compact
	if !c.Enabled || e.view.Width >= e.cfg.Counts.SmallWidth {
		return
	}
	e.cfg.MaxDistance = c.MaxDistance
	e.cfg.MouseRadius = c.MouseRadius
	e.cfg.CardAttractionRadius = c.CardAttractionRadius
}

// Config returns the live tuning.
func (e *Engine) Config() config.Field { return e.cfg }

// Viewport returns the current drawable area.
func (e *Engine) Viewport() Viewport { return e.view }

// Target returns the particle count the engine replenishes toward.
func (e *Engine) Target() int { return e.target }

// Particles exposes the live particle slice. Callers must not retain it
// across frames.
func (e *Engine) Particles() []Particle { return e.particles }

// Attractors exposes the registry for read access.
func (e *Engine) Attractors() *Registry { return e.attractors }

// Hidden reports whether the engine is in the reduced background state.
func (e *Engine) Hidden() bool { return e.hidden }

// RegisterAttractor inserts or overwrites the zone for h. The first
// registration of a handle spawns a burst.
func (e *Engine) RegisterAttractor(h Handle, rect Rect, category string) {
	a, created := e.attractors.Set(h, rect, ParseCategory(category), e.cfg.CardAttractionForce)
	if created {
		e.burst(a)
		e.log.Debugf("field: attractor %s (%s) registered with burst", h, a.Category)
	}
}

// UnregisterAttractor removes the zone for h. Unknown handles are ignored.
func (e *Engine) UnregisterAttractor(h Handle) {
	if e.attractors.Remove(h) {
		e.log.Debugf("field: attractor %s removed", h)
	}
}

// RepositionAttractor moves the zone for h. Unknown handles are ignored.
func (e *Engine) RepositionAttractor(h Handle, rect Rect) {
	e.attractors.Reposition(h, rect)
}

// Reconcile removes zones whose handles valid rejects.
func (e *Engine) Reconcile(valid func(Handle) bool) int {
	n := e.attractors.Reconcile(valid)
	if n > 0 {
		e.log.Debugf("field: reconcile dropped %d attractors", n)
	}
	return n
}

// Refresh reconciles against loc and repositions the survivors.
func (e *Engine) Refresh(loc Locator) {
	rects := make(map[Handle]Rect, e.attractors.Len())
	e.Reconcile(func(h Handle) bool {
		r, ok := loc.Locate(h)
		if ok {
			rects[h] = r
		}
		return ok
	})
	for h, r := range rects {
		e.attractors.Reposition(h, r)
	}
}

// PointerMove records the pointer in document space.
func (e *Engine) PointerMove(x, y float64, now time.Time) {
	e.pointer.Move(x, y, now, e.cfg.PointerIdle)
}

// PointerLeave deactivates the pointer.
func (e *Engine) PointerLeave() {
	e.pointer.Leave()
}

// Pointer returns the pointer state.
func (e *Engine) Pointer() Pointer { return e.pointer }

// Resize adopts a new drawable area and retargets the population from the
// breakpoints, truncating or topping up while keeping retained particles.
func (e *Engine) Resize(view Viewport) {
	e.view = view
	n := e.cfg.Counts.For(view.Width)
	if n == e.target {
		return
	}
	e.target = n
	e.resizePopulation(n)
	e.log.Debugf("field: resized to %.0fx%.0f, target %d", view.Width, view.Height, n)
}

// Scroll adopts a new drawable area without touching the population.
func (e *Engine) Scroll(view Viewport) {
	e.view = view
}

func (e *Engine) resizePopulation(n int) {
	if len(e.particles) > n {
		e.particles = e.particles[:n]
		return
	}
	e.topUp(n)
}

// SetHidden switches between the running and background states. Hiding only
// lowers the target; the population drifts down as particles expire.
func (e *Engine) SetHidden(hidden bool) {
	if hidden == e.hidden {
		return
	}
	e.hidden = hidden
	if hidden {
		e.target = int(math.Floor(float64(e.target) * e.cfg.HiddenFactor))
		e.log.Debugf("field: hidden, target %d", e.target)
		return
	}
	e.target = e.cfg.Counts.For(e.view.Width)
	e.topUp(e.target)
	e.log.Debugf("field: visible, target %d", e.target)
}

func (e *Engine) categoryColor(c Category) color.RGBA {
	if col, ok := e.highlights[string(c)]; ok {
		return col
	}
	return e.defaultColor
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Frame         uint64  `json:"frame"`
	Particles     int     `json:"particles"`
	Target        int     `json:"target"`
	Attractors    int     `json:"attractors"`
	Links         int     `json:"links"`
	AttractorLink int     `json:"attractor_links"`
	Hidden        bool    `json:"hidden"`
	PointerActive bool    `json:"pointer_active"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
}

// Stats reports counters as of the last step.
func (e *Engine) Stats() Stats {
	return Stats{
		Frame:         e.frame,
		Particles:     len(e.particles),
		Target:        e.target,
		Attractors:    e.attractors.Len(),
		Links:         len(e.links),
		AttractorLink: len(e.attrLinks),
		Hidden:        e.hidden,
		PointerActive: e.lastActive,
		Width:         e.view.Width,
		Height:        e.view.Height,
	}
}
