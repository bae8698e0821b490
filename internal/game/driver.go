// Package game hosts the field in a desktop window. The document is taller
// than the window and scrolls with the wheel; cards act as attractors while
// hovered.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/glowfield/internal/audio"
	"github.com/iburimskiy/glowfield/internal/config"
	"github.com/iburimskiy/glowfield/internal/field"
	"github.com/iburimskiy/glowfield/internal/inspect"
	game_log "github.com/iburimskiy/glowfield/internal/log"
	"github.com/iburimskiy/glowfield/internal/render"
)

// ErrNoSurface is returned when there is nothing to draw on.
var ErrNoSurface = errors.New("no drawable surface")

// input is one frame's worth of polled state.
type input struct {
	cursorX, cursorY float64
	inside           bool
	focused          bool
	wheel            float64
	rightClick       bool
	quit             bool
	pickChime        bool
}

type Option func(*Driver)

// WithInspect connects the driver to an inspection API queue and feed.
func WithInspect(q *inspect.Queue, f *inspect.Feed) Option {
	return func(d *Driver) { d.queue, d.feed = q, f }
}

// WithLocator adds a source of zones besides the cards, so reconcile keeps
// them.
func WithLocator(l field.Locator) Option {
	return func(d *Driver) { d.extra = l }
}

func WithPlayer(p *audio.Player) Option {
	return func(d *Driver) { d.player = p }
}

func WithLogger(l *game_log.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// Driver implements ebiten.Game around a field engine.
type Driver struct {
	cfg    config.Config
	log    *game_log.Logger
	engine *field.Engine
	board  *Board
	colors map[string]color.RGBA

	queue   *inspect.Queue
	feed    *inspect.Feed
	extra   field.Locator
	player  *audio.Player
	chimes  chan *audio.Chime
	picking atomic.Bool

	width, height int
	scroll        float64
	lastX, lastY  float64
	pointerIn     bool
	hovered       field.Handle
	hovering      bool
	nextReconcile time.Time

	frame    render.Frame
	skipDraw bool
	canvas   *ebiten.Image
	surface  *Surface

	stopped  atomic.Bool
	stopOnce sync.Once
}

// New builds the engine and card layout for the configured window.
func New(cfg config.Config, opts ...Option) (*Driver, error) {
	w := cfg.Window
	if w.Width <= 0 || w.Height <= 0 {
		return nil, ErrNoSurface
	}
	d := &Driver{
		cfg:    cfg,
		board:  NewBoard(w, cfg.Field.Counts.SmallWidth),
		chimes: make(chan *audio.Chime, 1),
		width:  w.Width,
		height: w.Height,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = game_log.Discard()
	}

	colors, err := cfg.Field.Highlights()
	if err != nil {
		return nil, err
	}
	d.colors = colors

	fopts := []field.Option{field.WithLogger(d.log)}
	if cfg.Seed != 0 {
		fopts = append(fopts, field.WithSeed(cfg.Seed))
	}
	d.engine, err = field.New(cfg.Field, d.viewport(), fopts...)
	if err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}
	d.board.Layout(float64(d.width), d.docHeight(), float64(d.height))

	if d.player != nil && cfg.Audio.ChimePath != "" {
		if c, err := audio.Load(cfg.Audio.ChimePath); err != nil {
			d.log.Warnf("game: chime disabled: %v", err)
		} else if err := d.player.SetChime(c); err != nil {
			d.log.Warnf("game: chime disabled: %v", err)
		}
	}
	return d, nil
}

// Engine exposes the field for callers that run on the frame goroutine.
func (d *Driver) Engine() *field.Engine { return d.engine }

// Board exposes the card layout.
func (d *Driver) Board() *Board { return d.board }

// Start opens the window and blocks until it closes or Stop is called.
func (d *Driver) Start() error {
	ebiten.SetWindowSize(d.width, d.height)
	ebiten.SetWindowTitle(d.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// Keep stepping while unfocused so the hidden state can thin the field.
	ebiten.SetRunnableOnUnfocused(true)

	defer d.shutdown()
	if err := ebiten.RunGame(d); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// Stop asks the window to close at the next frame. It is safe to call from
// any goroutine and more than once.
func (d *Driver) Stop() {
	d.stopped.Store(true)
}

func (d *Driver) shutdown() {
	d.stopOnce.Do(func() {
		d.stopped.Store(true)
		d.engine.Attractors().Clear()
		if d.player != nil {
			d.player.Close()
		}
		if d.canvas != nil {
			d.canvas.Deallocate()
			d.canvas = nil
		}
		d.log.Debugf("game: stopped")
	})
}

func (d *Driver) Update() error {
	if d.stopped.Load() {
		d.shutdown()
		return ebiten.Termination
	}
	in := d.poll()
	if in.quit {
		d.shutdown()
		return ebiten.Termination
	}
	d.tick(in, time.Now())
	return nil
}

func (d *Driver) poll() input {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	return input{
		cursorX:    float64(x),
		cursorY:    float64(y),
		inside:     x >= 0 && y >= 0 && x < d.width && y < d.height,
		focused:    ebiten.IsFocused(),
		wheel:      wy,
		rightClick: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		quit:       inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ),
		pickChime:  inpututil.IsKeyJustPressed(ebiten.KeyS),
	}
}

// tick runs one frame of logic. A panic skips the frame's render instead of
// taking the window down.
func (d *Driver) tick(in input, now time.Time) {
	d.skipDraw = true
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("game: frame %d: recovered panic: %v", d.engine.Stats().Frame, r)
		}
	}()

	d.takeChime()
	if in.pickChime {
		d.pickChime()
	}
	if d.cfg.Window.PauseOnBlur {
		d.engine.SetHidden(!in.focused)
	}
	d.scrollBy(in.wheel)
	d.updatePointer(in, now)
	if in.rightClick {
		d.closeHovered()
	}
	if d.queue != nil {
		d.queue.Drain(d.engine)
	}
	if !now.Before(d.nextReconcile) {
		d.reconcile()
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

func (d *Driver) locator() field.Locator {
	return field.Locators{d.board, d.extra}
}

func (d *Driver) reconcile() {
	d.engine.Refresh(d.locator())
	if d.hovering {
		if _, ok := d.engine.Attractors().Get(d.hovered); !ok {
			d.hovering = false
		}
	}
}

func (d *Driver) docHeight() float64 {
	pages := d.cfg.Window.DocumentPages
	if pages < 1 {
		pages = 1
	}
	return float64(d.height) * pages
}

func (d *Driver) viewport() field.Viewport {
	return field.Viewport{Width: float64(d.width), Height: d.docHeight()}
}

func (d *Driver) maxScroll() float64 {
	return max(0, d.docHeight()-float64(d.height))
}

func (d *Driver) scrollBy(wheel float64) {
	if wheel == 0 {
		return
	}
	next := d.scroll - wheel*d.cfg.Window.ScrollSpeed
	next = min(max(next, 0), d.maxScroll())
	if next == d.scroll {
		return
	}
	d.scroll = next
	d.engine.Scroll(d.viewport())
	d.engine.Refresh(d.locator())
}

func (d *Driver) updatePointer(in input, now time.Time) {
	if !in.inside {
		if d.pointerIn {
			d.engine.PointerLeave()
			d.pointerIn = false
		}
		d.unhover()
		return
	}
	x, y := in.cursorX, in.cursorY+d.scroll
	// The pointer only counts as active while it moves.
	if !d.pointerIn || x != d.lastX || y != d.lastY {
		d.engine.PointerMove(x, y, now)
	}
	d.pointerIn = true
	d.lastX, d.lastY = x, y

	card, ok := d.board.At(x, y)
	switch {
	case !ok:
		d.unhover()
	case !d.hovering || card.Handle != d.hovered:
		d.unhover()
		d.hover(card)
	}
}

func (d *Driver) hover(c Card) {
	_, existed := d.engine.Attractors().Get(c.Handle)
	d.engine.RegisterAttractor(c.Handle, c.Rect, string(c.Category))
	d.hovered, d.hovering = c.Handle, true
	if !existed && d.player != nil {
		d.player.Play()
	}
}

func (d *Driver) unhover() {
	if !d.hovering {
		return
	}
	d.engine.UnregisterAttractor(d.hovered)
	d.hovering = false
}

// closeHovered closes the card under the pointer and leaves its zone for
// reconcile to retire.
func (d *Driver) closeHovered() {
	if !d.hovering {
		return
	}
	d.board.Close(d.hovered)
	d.hovering = false
}

func (d *Driver) pickChime() {
	if d.player == nil || !d.picking.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer d.picking.Store(false)
		path, err := zenity.SelectFile(
			zenity.Title("Choose burst chime"),
			zenity.FileFilters{{Name: "Sound", Patterns: audio.Extensions}},
		)
		if err != nil {
			if !errors.Is(err, zenity.ErrCanceled) {
				d.log.Warnf("game: chime dialog: %v", err)
			}
			return
		}
		c, err := audio.Load(path)
		if err != nil {
			d.log.Warnf("game: %v", err)
			return
		}
		select {
		case d.chimes <- c:
		default:
		}
	}()
}

// takeChime installs a chime picked on the dialog goroutine.
func (d *Driver) takeChime() {
	select {
	case c := <-d.chimes:
		if err := d.player.SetChime(c); err != nil {
			d.log.Warnf("game: %v", err)
		}
	default:
	}
}

func (d *Driver) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != d.width || outsideHeight != d.height) {
		d.resize(outsideWidth, outsideHeight)
	}
	return d.width, d.height
}

func (d *Driver) resize(w, h int) {
	d.width, d.height = w, h
	d.board.Layout(float64(w), d.docHeight(), float64(h))
	d.engine.Resize(d.viewport())
	d.engine.Refresh(d.locator())
	d.scroll = min(d.scroll, d.maxScroll())
	if d.canvas != nil {
		d.canvas.Deallocate()
		d.canvas = nil
	}
}

func (d *Driver) Draw(screen *ebiten.Image) {
	if d.skipDraw {
		return
	}
	if d.canvas == nil {
		d.canvas = ebiten.NewImage(d.width, int(d.docHeight()))
		d.surface = NewSurface(d.canvas)
	}
	render.Draw(d.surface, d.frame)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, -d.scroll)
	screen.DrawImage(d.canvas, op)
	d.drawCards(screen)

	s := d.engine.Stats()
	status := fmt.Sprintf("particles %d/%d  links %d  zones %d", s.Particles, s.Target, s.Links, s.Attractors)
	if s.Hidden {
		status += "  (hidden)"
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (d *Driver) drawCards(screen *ebiten.Image) {
	for _, c := range d.board.Cards() {
		if c.Closed {
			continue
		}
		y := c.Rect.Y - d.scroll
		if y+c.Rect.Height < 0 || y > float64(d.height) {
			continue
		}
		col, ok := d.colors[string(c.Category)]
		if !ok {
			col = config.MustParseColor(config.DefaultColor)
		}
		if d.hovering && c.Handle == d.hovered {
			vector.DrawFilledRect(screen, float32(c.Rect.X), float32(y), float32(c.Rect.Width), float32(c.Rect.Height), render.Premultiply(col, 0.08), true)
		}
		vector.StrokeRect(screen, float32(c.Rect.X), float32(y), float32(c.Rect.Width), float32(c.Rect.Height), 1, render.Premultiply(col, 0.5), true)
		ebitenutil.DebugPrintAt(screen, string(c.Category), int(c.Rect.X)+8, int(y)+8)
	}
}
