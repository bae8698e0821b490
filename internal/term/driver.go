// Package term hosts the field in a terminal through tcell. Cells are coarse
// pixels; the mouse drives the pointer and zones arrive through the
// inspection API.
package term

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/glowfield/internal/config"
	"github.com/iburimskiy/glowfield/internal/field"
	"github.com/iburimskiy/glowfield/internal/inspect"
	game_log "github.com/iburimskiy/glowfield/internal/log"
	"github.com/iburimskiy/glowfield/internal/render"
)

// ErrNoSurface is returned when the screen is missing or has no cells.
var ErrNoSurface = errors.New("no drawable surface")

type Option func(*Driver)

func WithInspect(q *inspect.Queue, f *inspect.Feed) Option {
	return func(d *Driver) { d.queue, d.feed = q, f }
}

// WithLocator supplies the zones reconcile should keep.
func WithLocator(l field.Locator) Option {
	return func(d *Driver) { d.locator = l }
}

func WithLogger(l *game_log.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// Driver runs the frame loop against a tcell screen.
type Driver struct {
	cfg     config.Config
	log     *game_log.Logger
	screen  tcell.Screen
	surface *Surface
	engine  *field.Engine

	queue   *inspect.Queue
	feed    *inspect.Feed
	locator field.Locator
	frame   render.Frame

	events        chan tcell.Event
	done          chan struct{}
	stopOnce      sync.Once
	nextReconcile time.Time
	skipDraw      bool
}

func New(screen tcell.Screen, cfg config.Config, opts ...Option) (*Driver, error) {
	if screen == nil {
		return nil, ErrNoSurface
	}
	if cfg.Terminal.CellWidth <= 0 || cfg.Terminal.CellHeight <= 0 {
		return nil, fmt.Errorf("invalid cell size %vx%v", cfg.Terminal.CellWidth, cfg.Terminal.CellHeight)
	}
	d := &Driver{
		cfg:    cfg,
		screen: screen,
		events: make(chan tcell.Event, 100),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = game_log.Discard()
	}
	if d.locator == nil {
		d.locator = field.Locators{}
	}
	return d, nil
}

// Engine is nil until the screen is initialised.
func (d *Driver) Engine() *field.Engine { return d.engine }

// init prepares the screen and builds the engine at its size.
func (d *Driver) init() error {
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	d.screen.EnableMouse(tcell.MouseMotionEvents)
	d.screen.EnableFocus()
	d.screen.HideCursor()

	d.surface = NewSurface(d.screen, d.cfg.Terminal.CellWidth, d.cfg.Terminal.CellHeight)
	w, h := d.surface.Size()
	if w <= 0 || h <= 0 {
		d.screen.Fini()
		return ErrNoSurface
	}

	opts := []field.Option{field.WithLogger(d.log)}
	if d.cfg.Seed != 0 {
		opts = append(opts, field.WithSeed(d.cfg.Seed))
	}
	e, err := field.New(d.cfg.Field, field.Viewport{Width: float64(w), Height: float64(h)}, opts...)
	if err != nil {
		d.screen.Fini()
		return fmt.Errorf("create field: %w", err)
	}
	d.engine = e
	return nil
}

// Start blocks running frames until ctx ends, the user quits or Stop is
// called. The screen is restored on return.
func (d *Driver) Start(ctx context.Context) error {
	if err := d.init(); err != nil {
		return err
	}
	defer d.shutdown()

	go d.pollEvents()

	fps := d.cfg.Terminal.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.done:
			return nil
		case ev := <-d.events:
			if !d.handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			d.tick(now)
			d.draw()
		}
	}
}

// Stop ends the loop. It is safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
}

func (d *Driver) shutdown() {
	d.Stop()
	d.engine.Attractors().Clear()
	d.screen.Fini()
	d.log.Debugf("term: stopped")
}

// pollEvents feeds the loop until the screen is finalised.
func (d *Driver) pollEvents() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case d.events <- ev:
		case <-d.done:
			return
		}
	}
}

// handle applies one input event. It returns false when the user quits.
func (d *Driver) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		}
	case *tcell.EventResize:
		d.screen.Sync()
		d.surface.Resize()
		w, h := d.surface.Size()
		if w > 0 && h > 0 {
			d.engine.Resize(field.Viewport{Width: float64(w), Height: float64(h)})
			d.engine.Refresh(d.locator)
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x := (float64(col) + 0.5) * d.cfg.Terminal.CellWidth
		y := (float64(row) + 0.5) * d.cfg.Terminal.CellHeight
		d.engine.PointerMove(x, y, now)
	case *tcell.EventFocus:
		if d.cfg.Window.PauseOnBlur {
			d.engine.SetHidden(!ev.Focused)
		}
		if !ev.Focused {
			d.engine.PointerLeave()
		}
	}
	return true
}

// tick advances one frame. A panic leaves skipDraw set so draw keeps the
// previous screen.
func (d *Driver) tick(now time.Time) {
	d.skipDraw = true
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("term: frame %d: recovered panic: %v", d.engine.Stats().Frame, r)
		}
	}()

	if d.queue != nil {
		d.queue.Drain(d.engine)
	}
	if !now.Before(d.nextReconcile) {
		d.engine.Refresh(d.locator)
		d.nextReconcile = now.Add(d.cfg.Field.ReconcileInterval)
	}
	d.engine.Step(now)
	d.frame = render.Frame{
		Particles:      d.engine.Particles(),
		Links:          d.engine.Links(),
		AttractorLinks: d.engine.AttractorLinks(),
	}
	if d.feed != nil {
		d.feed.Publish(d.engine.Stats())
	}
	d.skipDraw = false
}

func (d *Driver) draw() {
	if d.skipDraw {
		return
	}
	render.Draw(d.surface, d.frame)
	d.surface.Flush()
}
