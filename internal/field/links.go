package field

import (
	"image/color"
	"math"
	"slices"

	"github.com/iburimskiy/glowfield/internal/config"
)

const (
	attractedLinkBoost = 1.5
	maxLinkOpacity     = 0.8
	attractorReach     = 0.7
	attractorLinkAlpha = 0.3
)

// Link is a line between particles A and B (A < B).
type Link struct {
	A, B     int
	X1, Y1   float64
	X2, Y2   float64
	Distance float64
	Opacity  float64
	Width    float64
	Color    color.RGBA
}

// AttractorLink joins an attractor centre to a nearby particle.
type AttractorLink struct {
	Attractor Handle
	Particle  int
	X1, Y1    float64
	X2, Y2    float64
	Opacity   float64
	Color     color.RGBA
}

// linkParams is the subset of tuning the connection builders need.
type linkParams struct {
	maxDistance float64
	opacity     float64
	base        color.RGBA
}

// makeLink styles the pair (i, j) at distance d.
func makeLink(ps []Particle, i, j int, d float64, lp linkParams) Link {
	a, b := &ps[i], &ps[j]
	l := Link{
		A:        i,
		B:        j,
		X1:       a.X,
		Y1:       a.Y,
		X2:       b.X,
		Y2:       b.Y,
		Distance: d,
		Opacity:  (1 - d/lp.maxDistance) * lp.opacity,
		Width:    1,
		Color:    lp.base,
	}
	if a.Attracted || b.Attracted {
		l.Opacity *= attractedLinkBoost
		l.Width = 2
		if a.Attracted {
			l.Color = a.Color
		}
		if b.Attracted {
			l.Color = b.Color
		}
	}
	l.Opacity = math.Min(l.Opacity, maxLinkOpacity)
	return l
}

// naiveLinks scans every unordered pair.
func naiveLinks(dst []Link, ps []Particle, lp linkParams) []Link {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			d := distance(ps[i].X, ps[i].Y, ps[j].X, ps[j].Y)
			if d < lp.maxDistance {
				dst = append(dst, makeLink(ps, i, j, d, lp))
			}
		}
	}
	return dst
}

type cellKey struct{ x, y int }

// linkGrid buckets particles into maxDistance-sized cells so only
// neighbouring cells are compared. Output matches naiveLinks.
type linkGrid struct {
	cells      map[cellKey][]int
	candidates []int
}

func (g *linkGrid) links(dst []Link, ps []Particle, lp linkParams) []Link {
	if g.cells == nil {
		g.cells = make(map[cellKey][]int)
	}
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
	size := lp.maxDistance
	key := func(p *Particle) cellKey {
		return cellKey{int(math.Floor(p.X / size)), int(math.Floor(p.Y / size))}
	}
	for i := range ps {
		k := key(&ps[i])
		g.cells[k] = append(g.cells[k], i)
	}

	for i := range ps {
		k := key(&ps[i])
		g.candidates = g.candidates[:0]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range g.cells[cellKey{k.x + dx, k.y + dy}] {
					if j > i {
						g.candidates = append(g.candidates, j)
					}
				}
			}
		}
		slices.Sort(g.candidates)
		for _, j := range g.candidates {
			d := distance(ps[i].X, ps[i].Y, ps[j].X, ps[j].Y)
			if d < lp.maxDistance {
				dst = append(dst, makeLink(ps, i, j, d, lp))
			}
		}
	}
	return dst
}

// Links computes the particle connections for the current frame. The
// returned slice is reused by the next call.
func (e *Engine) Links() []Link {
	lp := linkParams{
		maxDistance: e.cfg.MaxDistance,
		opacity:     e.cfg.ConnectionOpacity,
		base:        e.defaultColor,
	}
	e.links = e.links[:0]
	if e.cfg.LinkMode == config.LinkGrid {
		e.links = e.grid.links(e.links, e.particles, lp)
	} else {
		e.links = naiveLinks(e.links, e.particles, lp)
	}
	return e.links
}

// AttractorLinks joins each attractor to the particles inside 70% of its
// radius. The returned slice is reused by the next call.
func (e *Engine) AttractorLinks() []AttractorLink {
	e.attrLinks = e.attrLinks[:0]
	e.attractors.ForEach(func(a *Attractor) {
		reach := a.Radius(e.cfg.CardAttractionRadius) * attractorReach
		if reach <= 0 {
			return
		}
		c := e.categoryColor(a.Category)
		for i := range e.particles {
			p := &e.particles[i]
			if distance(a.X, a.Y, p.X, p.Y) >= reach {
				continue
			}
			e.attrLinks = append(e.attrLinks, AttractorLink{
				Attractor: a.Handle,
				Particle:  i,
				X1:        a.X,
				Y1:        a.Y,
				X2:        p.X,
				Y2:        p.Y,
				Opacity:   attractorLinkAlpha * p.AttractionForce,
				Color:     c,
			})
		}
	})
	return e.attrLinks
}
