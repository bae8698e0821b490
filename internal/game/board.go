package game

import (
	"math"

	"github.com/iburimskiy/glowfield/internal/config"
	"github.com/iburimskiy/glowfield/internal/field"
)

// Card is one hoverable region of the document.
type Card struct {
	Handle   field.Handle
	Rect     field.Rect
	Category field.Category
	Closed   bool
}

// Board lays cards out in a grid below a hero band half a window tall.
// Handles survive relayout so the engine keeps tracking the same zones.
type Board struct {
	cfg        config.Window
	smallWidth float64
	cards      []Card
}

// NewBoard collapses to one column below smallWidth, the same breakpoint the
// field uses for its small particle count.
func NewBoard(cfg config.Window, smallWidth float64) *Board {
	return &Board{cfg: cfg, smallWidth: smallWidth}
}

// Layout fits the grid to a viewport width and document height. Cards beyond
// the new capacity are dropped; reconciliation retires their zones.
func (b *Board) Layout(width, docHeight, viewHeight float64) {
	cols := b.cfg.CardColumns
	if width < b.smallWidth {
		cols = 1
	}
	if cols < 1 {
		cols = 1
	}
	gap := b.cfg.CardGap
	cardW := (width - float64(cols+1)*gap) / float64(cols)
	top := viewHeight / 2
	step := b.cfg.CardHeight + gap
	if cardW <= 0 || step <= 0 || docHeight <= top {
		b.cards = b.cards[:0]
		return
	}
	rows := int(math.Floor((docHeight - top) / step))
	n := rows * cols

	for len(b.cards) < n {
		i := len(b.cards)
		b.cards = append(b.cards, Card{
			Handle:   field.NewHandle(),
			Category: field.Categories[i%len(field.Categories)],
		})
	}
	b.cards = b.cards[:n]
	for i := range b.cards {
		row, col := i/cols, i%cols
		b.cards[i].Rect = field.Rect{
			X:      gap + float64(col)*(cardW+gap),
			Y:      top + float64(row)*step,
			Width:  cardW,
			Height: b.cfg.CardHeight,
		}
	}
}

// Cards exposes the current layout.
func (b *Board) Cards() []Card { return b.cards }

// At returns the open card under a document-space point.
func (b *Board) At(x, y float64) (Card, bool) {
	for _, c := range b.cards {
		if c.Closed {
			continue
		}
		r := c.Rect
		if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
			return c, true
		}
	}
	return Card{}, false
}

// Close hides a card. Its zone disappears on the next reconcile.
func (b *Board) Close(h field.Handle) bool {
	for i := range b.cards {
		if b.cards[i].Handle == h && !b.cards[i].Closed {
			b.cards[i].Closed = true
			return true
		}
	}
	return false
}

// Locate implements field.Locator for open cards.
func (b *Board) Locate(h field.Handle) (field.Rect, bool) {
	for _, c := range b.cards {
		if c.Handle == h {
			return c.Rect, !c.Closed
		}
	}
	return field.Rect{}, false
}
