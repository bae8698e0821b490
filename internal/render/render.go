package render

import (
	"image/color"
	"math"

	"github.com/iburimskiy/glowfield/internal/field"
)

const (
	sparkleCount     = 4
	sparkleThreshold = 0.7
	sparkleRadius    = 1
	sparkleAlpha     = 0.8
	sparkleBlur      = 10
	attractorBlur    = 5
)

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Frame is everything drawn in one pass.
type Frame struct {
	Particles      []field.Particle
	Links          []field.Link
	AttractorLinks []field.AttractorLink
}

// Draw clears s and paints connections, attractor links and then particles,
// so lines always sit under the points.
func Draw(s Surface, f Frame) {
	s.Clear()
	for i := range f.Links {
		drawLink(s, &f.Links[i])
	}
	for i := range f.AttractorLinks {
		l := &f.AttractorLinks[i]
		s.StrokeLine(l.X1, l.Y1, l.X2, l.Y2, 1, l.Color, l.Opacity, attractorBlur)
	}
	for i := range f.Particles {
		drawParticle(s, &f.Particles[i])
	}
}

func drawLink(s Surface, l *field.Link) {
	s.StrokeLine(l.X1, l.Y1, l.X2, l.Y2, l.Width, l.Color, l.Opacity, l.Width*3)
}

func drawParticle(s Surface, p *field.Particle) {
	drawTrail(s, p)

	glow := GlowRadius(p)
	size := p.CurrentSize
	s.FillCircle(p.X, p.Y, glow, p.Color, p.CurrentOpacity*0.4*p.GlowIntensity, glow*p.GlowIntensity)
	s.FillCircle(p.X, p.Y, size*1.2, p.Color, p.CurrentOpacity*0.6, size*3)
	s.FillCircle(p.X, p.Y, size, p.Color, p.CurrentOpacity, size*2)
	s.FillCircle(p.X, p.Y, size*0.3, white, 1, 0)

	if p.Attracted && p.AttractionForce > sparkleThreshold {
		for i := 0; i < sparkleCount; i++ {
			angle := 2*math.Pi*float64(i)/sparkleCount + p.PulsePhase
			sx := p.X + math.Cos(angle)*size*2
			sy := p.Y + math.Sin(angle)*size*2
			s.FillCircle(sx, sy, sparkleRadius, p.Color, sparkleAlpha, sparkleBlur)
		}
	}
}

// drawTrail strokes the history oldest to newest with alpha ramping up from
// zero.
func drawTrail(s Surface, p *field.Particle) {
	n := p.Trail.Len()
	if n < 2 {
		return
	}
	width := 1.0
	if p.Attracted {
		width = 2
	}
	prev := p.Trail.At(0)
	for i := 1; i < n; i++ {
		pt := p.Trail.At(i)
		alpha := float64(i) / float64(n) * p.CurrentOpacity * 0.5
		s.StrokeLine(prev.X, prev.Y, pt.X, pt.Y, width, p.Color, alpha, 0)
		prev = pt
	}
}

// GlowRadius is the outer glow disc radius, widened near the pointer and
// while attracted.
func GlowRadius(p *field.Particle) float64 {
	r := p.CurrentSize * 1.5
	if p.NearPointer > 0 {
		r *= 1 + p.NearPointer
	}
	if p.Attracted {
		r *= 1 + p.AttractionForce*0.5
	}
	return r
}
