package render

import "image/color"

// Surface is a 2D drawing target. Colours arrive opaque; alpha is passed
// separately so implementations can premultiply or map it to glyph density.
// blur is the glow radius around the shape, 0 for none.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillCircle(x, y, r float64, c color.RGBA, alpha, blur float64)
	StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA, alpha, blur float64)
}

// Premultiply scales an opaque colour by alpha, clamped to [0, 1].
func Premultiply(c color.RGBA, alpha float64) color.RGBA {
	if alpha <= 0 {
		return color.RGBA{}
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
