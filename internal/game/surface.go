package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/glowfield/internal/render"
)

// blurAlpha scales the faint halo that stands in for a canvas shadow blur.
const blurAlpha = 0.15

var background = color.RGBA{R: 6, G: 8, B: 16, A: 255}

// Surface draws onto an ebiten image. Blur is approximated by one wider,
// fainter pass under the shape.
type Surface struct {
	img *ebiten.Image
}

func NewSurface(img *ebiten.Image) *Surface {
	return &Surface{img: img}
}

func (s *Surface) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear() {
	s.img.Fill(background)
}

func (s *Surface) FillCircle(x, y, r float64, c color.RGBA, alpha, blur float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	if blur > 0 {
		vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r+blur/2), render.Premultiply(c, alpha*blurAlpha), true)
	}
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), render.Premultiply(c, alpha), true)
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA, alpha, blur float64) {
	if alpha <= 0 || width <= 0 {
		return
	}
	if blur > 0 {
		vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width+blur), render.Premultiply(c, alpha*blurAlpha), true)
	}
	vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), render.Premultiply(c, alpha), true)
}
