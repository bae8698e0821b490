package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// ramp maps coverage to glyph density, faint to solid.
var ramp = []rune{'·', '∙', '•', '●', '█'}

const minCoverage = 0.04

type cell struct {
	r, g, b float64
	cov     float64
}

// Surface rasterises draw calls into terminal cells. Each cell stands for a
// cellW by cellH block of virtual pixels; colour accumulates per cell and
// Flush turns it into glyphs. Blur is ignored at this resolution.
type Surface struct {
	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int
	cells        []cell
}

func NewSurface(screen tcell.Screen, cellW, cellH float64) *Surface {
	s := &Surface{screen: screen, cellW: cellW, cellH: cellH}
	s.Resize()
	return s
}

// Resize adopts the screen's current cell grid.
func (s *Surface) Resize() {
	s.cols, s.rows = s.screen.Size()
	n := s.cols * s.rows
	if cap(s.cells) < n {
		s.cells = make([]cell, n)
	}
	s.cells = s.cells[:n]
	s.Clear()
}

// Size reports the grid in virtual pixels.
func (s *Surface) Size() (int, int) {
	return int(float64(s.cols) * s.cellW), int(float64(s.rows) * s.cellH)
}

func (s *Surface) Clear() {
	clear(s.cells)
}

func (s *Surface) FillCircle(x, y, r float64, c color.RGBA, alpha, _ float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	c0 := int(math.Floor((x - r) / s.cellW))
	c1 := int(math.Floor((x + r) / s.cellW))
	r0 := int(math.Floor((y - r) / s.cellH))
	r1 := int(math.Floor((y + r) / s.cellH))
	hit := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cx := (float64(col) + 0.5) * s.cellW
			cy := (float64(row) + 0.5) * s.cellH
			if math.Hypot(cx-x, cy-y) <= r {
				s.blend(col, row, c, alpha)
				hit = true
			}
		}
	}
	// Circles smaller than a cell still mark the cell they sit in, scaled by
	// how much of it they cover.
	if !hit {
		area := math.Pi * r * r / (s.cellW * s.cellH)
		s.blend(int(math.Floor(x/s.cellW)), int(math.Floor(y/s.cellH)), c, alpha*math.Min(1, area))
	}
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA, alpha, _ float64) {
	if alpha <= 0 {
		return
	}
	// Thin lines are fainter than a full cell.
	alpha *= math.Min(1, width/s.cellW)
	dx, dy := (x2-x1)/s.cellW, (y2-y1)/s.cellH
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		s.blend(int(math.Floor(x1/s.cellW)), int(math.Floor(y1/s.cellH)), c, alpha)
		return
	}
	lastCol, lastRow := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := int(math.Floor((x1 + (x2-x1)*t) / s.cellW))
		row := int(math.Floor((y1 + (y2-y1)*t) / s.cellH))
		if col == lastCol && row == lastRow {
			continue
		}
		s.blend(col, row, c, alpha)
		lastCol, lastRow = col, row
	}
}

// blend composites c at alpha over the cell, source over destination.
func (s *Surface) blend(col, row int, c color.RGBA, alpha float64) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return
	}
	alpha = math.Min(alpha, 1)
	p := &s.cells[row*s.cols+col]
	p.r = float64(c.R)*alpha + p.r*(1-alpha)
	p.g = float64(c.G)*alpha + p.g*(1-alpha)
	p.b = float64(c.B)*alpha + p.b*(1-alpha)
	p.cov = alpha + p.cov*(1-alpha)
}

// Coverage returns the accumulated coverage of a cell, for tests and debug
// overlays.
func (s *Surface) Coverage(col, row int) float64 {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return 0
	}
	return s.cells[row*s.cols+col].cov
}

// Flush writes every cell to the screen and shows it.
func (s *Surface) Flush() {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			p := s.cells[row*s.cols+col]
			if p.cov < minCoverage {
				s.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}
			glyph := ramp[min(len(ramp)-1, int(p.cov*float64(len(ramp))))]
			// Glyph carries intensity, colour stays at full hue.
			fg := tcell.NewRGBColor(
				int32(math.Min(255, p.r/p.cov)),
				int32(math.Min(255, p.g/p.cov)),
				int32(math.Min(255, p.b/p.cov)),
			)
			s.screen.SetContent(col, row, glyph, nil, tcell.StyleDefault.Foreground(fg))
		}
	}
	s.screen.Show()
}
