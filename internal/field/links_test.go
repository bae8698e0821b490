package field

import (
	"math"
	"testing"

	"github.com/iburimskiy/glowfield/internal/config"
)

func TestLinkOpacityScenario(t *testing.T) {
	cfg := config.DefaultField()
	cfg.Counts.Large = 10
	e, err := New(cfg, Viewport{Width: 1300, Height: 2000}, WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(e.Particles()) != 10 {
		t.Fatalf("expected 10 particles, got %d", len(e.Particles()))
	}
	e.particles = e.particles[:2]
	e.particles[0].X, e.particles[0].Y = 0, 0
	e.particles[1].X, e.particles[1].Y = 100, 0

	links := e.Links()
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	want := (1 - 100.0/180.0) * 0.25
	if math.Abs(links[0].Opacity-want) > 1e-9 || math.Abs(want-0.111) > 0.001 {
		t.Fatalf("opacity %v, want %v", links[0].Opacity, want)
	}
	if links[0].Width != 1 || links[0].Color != config.MustParseColor("#00FFFF") {
		t.Fatalf("unexpected styling %+v", links[0])
	}

	e.particles[1].X = 200
	if links := e.Links(); len(links) != 0 {
		t.Fatalf("expected no link at 200px, got %d", len(links))
	}
}

func TestAttractedLinkStyling(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:2]
	red := config.MustParseColor("#FF4444")
	e.particles[0].X, e.particles[0].Y = 0, 0
	e.particles[1].X, e.particles[1].Y = 10, 0
	e.particles[1].Attracted = true
	e.particles[1].Color = red

	links := e.Links()
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	l := links[0]
	if l.Width != 2 || l.Color != red {
		t.Fatalf("attracted link not restyled: %+v", l)
	}
	if l.Opacity > 0.8 {
		t.Fatalf("opacity %v above cap", l.Opacity)
	}
	base := (1 - 10.0/180.0) * 0.25 * 1.5
	if math.Abs(l.Opacity-math.Min(base, 0.8)) > 1e-9 {
		t.Fatalf("opacity %v, want %v", l.Opacity, base)
	}
}

func TestSecondAttractedEndpointColourWins(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:2]
	a, b := config.MustParseColor("#FF4444"), config.MustParseColor("#32CD32")
	e.particles[0].X, e.particles[0].Y, e.particles[0].Attracted, e.particles[0].Color = 0, 0, true, a
	e.particles[1].X, e.particles[1].Y, e.particles[1].Attracted, e.particles[1].Color = 5, 5, true, b
	if l := e.Links()[0]; l.Color != b {
		t.Fatalf("expected second endpoint colour, got %+v", l.Color)
	}
}

func TestLinkSetInvariants(t *testing.T) {
	e := newTestEngine(t, 1300, 800)
	e.RegisterAttractor(NewHandle(), Rect{X: 500, Y: 300, Width: 200, Height: 100}, "service")
	for i := 0; i < 30; i++ {
		e.Step(frameAt(i))
	}
	maxDist := e.Config().MaxDistance
	seen := make(map[[2]int]bool)
	for _, l := range e.Links() {
		if l.A == l.B {
			t.Fatalf("self link %d", l.A)
		}
		if l.A > l.B {
			t.Fatalf("unordered link %d-%d", l.A, l.B)
		}
		key := [2]int{l.A, l.B}
		if seen[key] {
			t.Fatalf("duplicate link %v", key)
		}
		seen[key] = true
		pa, pb := e.Particles()[l.A], e.Particles()[l.B]
		if d := math.Hypot(pa.X-pb.X, pa.Y-pb.Y); d >= maxDist {
			t.Fatalf("link %v spans %v >= %v", key, d, maxDist)
		}
	}
	if len(seen) == 0 {
		t.Fatal("expected some links in a dense field")
	}
}

func TestGridMatchesNaive(t *testing.T) {
	e := newTestEngine(t, 1300, 800)
	e.RegisterAttractor(NewHandle(), Rect{X: 200, Y: 200, Width: 200, Height: 100}, "skill")
	for i := 0; i < 10; i++ {
		e.Step(frameAt(i))
	}
	// Include negative coordinates to exercise floor bucketing.
	e.particles[0].X, e.particles[0].Y = -30, -10

	naive := append([]Link(nil), e.Links()...)
	e.cfg.LinkMode = config.LinkGrid
	grid := e.Links()

	if len(naive) != len(grid) {
		t.Fatalf("naive %d links, grid %d", len(naive), len(grid))
	}
	for i := range naive {
		n, g := naive[i], grid[i]
		if n.A != g.A || n.B != g.B || math.Abs(n.Opacity-g.Opacity) > 1e-12 || n.Color != g.Color {
			t.Fatalf("link %d differs: %+v vs %+v", i, n, g)
		}
	}

	// A second call reuses the grid buffers.
	if again := e.Links(); len(again) != len(grid) {
		t.Fatalf("grid not stable across calls: %d vs %d", len(again), len(grid))
	}
}

func TestAttractorLinks(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	pin(e, 0, 520, 500)
	h := NewHandle()
	e.RegisterAttractor(h, Rect{X: 450, Y: 450, Width: 100, Height: 100}, "contact")
	e.particles = e.particles[:2]
	// Park the second particle outside 70% of the radius but inside it.
	pin(e, 1, 500+0.8*200, 500)

	e.Step(epoch)
	links := e.AttractorLinks()
	if len(links) != 1 {
		t.Fatalf("expected 1 attractor link, got %d", len(links))
	}
	l := links[0]
	if l.Attractor != h || l.Particle != 0 {
		t.Fatalf("unexpected link %+v", l)
	}
	p := e.Particles()[0]
	if math.Abs(l.Opacity-0.3*p.AttractionForce) > 1e-12 {
		t.Fatalf("opacity %v, want %v", l.Opacity, 0.3*p.AttractionForce)
	}
	if l.Color != config.MustParseColor("#FF1493") {
		t.Fatalf("unexpected colour %+v", l.Color)
	}
	if l.X1 != 500 || l.Y1 != 500 {
		t.Fatalf("link should start at the attractor centre, got (%v,%v)", l.X1, l.Y1)
	}
}
