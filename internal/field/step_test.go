package field

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/glowfield/internal/config"
)

// pin makes particle i a quiet, long-lived point at (x, y).
func pin(e *Engine, i int, x, y float64) *Particle {
	p := &e.particles[i]
	p.X, p.Y = x, y
	p.VX, p.VY = 0.1, 0.1
	p.Life, p.MaxLife = 0, 1e9
	return p
}

func TestTrailBoundedUnderLoad(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.RegisterAttractor(NewHandle(), Rect{X: 400, Y: 400, Width: 300, Height: 200}, "service")
	e.RegisterAttractor(NewHandle(), Rect{X: 900, Y: 1200, Width: 200, Height: 200}, "unknown")
	for i := 0; i < 400; i++ {
		now := frameAt(i)
		e.PointerMove(650, 500+float64(i%50), now)
		e.Step(now)
		for j, p := range e.Particles() {
			n := p.Trail.Len()
			if n < 0 || n > MaxTrail {
				t.Fatalf("frame %d particle %d trail length %d", i, j, n)
			}
			if !p.Attracted && n > IdleTrail {
				t.Fatalf("frame %d particle %d idle trail length %d", i, j, n)
			}
		}
	}
}

func TestTrailEvictsOldest(t *testing.T) {
	var tr Trail
	for i := 0; i < 12; i++ {
		tr.Push(TrailPoint{X: float64(i)}, MaxTrail)
	}
	if tr.Len() != 12 || tr.At(0).X != 0 || tr.At(11).X != 11 {
		t.Fatalf("unexpected trail after fill: len=%d first=%v", tr.Len(), tr.At(0).X)
	}
	tr.Push(TrailPoint{X: 12}, IdleTrail)
	if tr.Len() != IdleTrail {
		t.Fatalf("expected trail shrunk to %d, got %d", IdleTrail, tr.Len())
	}
	if tr.At(0).X != 5 || tr.At(IdleTrail-1).X != 12 {
		t.Fatalf("wrong points kept: first=%v last=%v", tr.At(0).X, tr.At(IdleTrail-1).X)
	}
	tr.Reset()
	if tr.Len() != 0 {
		t.Fatal("reset left points")
	}
}

func TestLifeMonotonicUntilExpiry(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	prev := make([]float64, len(e.Particles()))
	for i, p := range e.Particles() {
		prev[i] = p.Life
	}
	expired := 0
	for f := 0; f < 300; f++ {
		e.Step(frameAt(f))
		for i, p := range e.Particles() {
			switch {
			case p.Life == prev[i]+1:
			case p.Life >= 0 && p.Life < 100 && prev[i]+1 > 100:
				expired++
			default:
				t.Fatalf("frame %d particle %d life went %v -> %v", f, i, prev[i], p.Life)
			}
			prev[i] = p.Life
		}
	}
	if expired == 0 {
		t.Fatal("expected some particles to expire within 300 frames")
	}
}

func TestPositionsStayInBounds(t *testing.T) {
	const w, h = 1300.0, 2000.0
	e := newTestEngine(t, w, h)
	e.RegisterAttractor(NewHandle(), Rect{X: 0, Y: 0, Width: 100, Height: 100}, "contact")
	e.RegisterAttractor(NewHandle(), Rect{X: 1250, Y: 1950, Width: 100, Height: 100}, "skill")
	for i := 0; i < 500; i++ {
		now := frameAt(i)
		e.PointerMove(1290, 10, now)
		e.Step(now)
		for j, p := range e.Particles() {
			if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
				t.Fatalf("frame %d particle %d out of bounds at (%v,%v)", i, j, p.X, p.Y)
			}
			if math.IsNaN(p.VX) || math.IsNaN(p.VY) {
				t.Fatalf("frame %d particle %d NaN velocity", i, j)
			}
		}
	}
}

func TestBounceReflectsWithRestitution(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	p := pin(e, 0, 1299.9, 1000)
	p.VX, p.VY = 5, 0
	p.OVX, p.OVY = 5, 0
	e.Step(epoch)
	p = &e.particles[0]
	if p.X != 1300 {
		t.Fatalf("expected clamp to 1300, got %v", p.X)
	}
	if p.VX >= 0 {
		t.Fatalf("expected reflected velocity, got %v", p.VX)
	}
}

func TestPointerProximityScenario(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	pin(e, 0, 50, 300)

	e.PointerMove(50, 50, epoch)
	e.Step(epoch.Add(10 * time.Millisecond))
	if e.particles[0].NearPointer <= 0 {
		t.Fatalf("expected nearMouseFactor > 0, got %v", e.particles[0].NearPointer)
	}
	if e.particles[0].GlowIntensity <= 1 {
		t.Fatalf("expected raised glow, got %v", e.particles[0].GlowIntensity)
	}

	e.particles[0].X, e.particles[0].Y = 50, 400
	e.Step(epoch.Add(20 * time.Millisecond))
	if e.particles[0].NearPointer != 0 {
		t.Fatalf("expected nearMouseFactor reset, got %v", e.particles[0].NearPointer)
	}
}

func TestPointerIdleTimeout(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	pin(e, 0, 100, 100)

	e.PointerMove(100, 120, epoch)
	e.Step(epoch.Add(50 * time.Millisecond))
	if e.particles[0].NearPointer == 0 {
		t.Fatal("pointer should be active within idle window")
	}
	e.Step(epoch.Add(150 * time.Millisecond))
	if e.particles[0].NearPointer != 0 {
		t.Fatal("pointer should be idle after timeout")
	}

	e.PointerMove(100, 120, epoch.Add(200*time.Millisecond))
	e.PointerLeave()
	e.Step(epoch.Add(210 * time.Millisecond))
	if e.particles[0].NearPointer != 0 {
		t.Fatal("pointer should be inactive after leave")
	}
}

func TestPointerZeroDistanceIsFinite(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	p := pin(e, 0, 500, 500)
	p.VX, p.VY = 0, 0
	p.WaveOffset = 0

	// Place the pointer where the particle lands after integration.
	probe := *p
	e.integrate(&probe, float64(epoch.UnixNano())/float64(time.Second))
	e.PointerMove(probe.X, probe.Y, epoch)
	e.Step(epoch)

	q := e.particles[0]
	for _, v := range []float64{q.X, q.Y, q.VX, q.VY, q.GlowIntensity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("invalid number after zero-distance pointer: %+v", q)
		}
	}
	if q.NearPointer != 1 {
		t.Fatalf("expected full proximity, got %v", q.NearPointer)
	}
}

func TestExpiredParticleRespawns(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	p := &e.particles[3]
	p.MaxLife, p.Life = 10, 11
	p.X, p.Y = 10, 10
	e.Step(epoch)
	q := e.particles[3]
	if q.Life >= q.MaxLife {
		t.Fatalf("respawned slot life %v >= maxLife %v", q.Life, q.MaxLife)
	}
	if q.Life < 0 || q.Life >= 100 {
		t.Fatalf("respawned life %v outside [0,100)", q.Life)
	}
	if q.Trail.Len() != 0 || q.GlowIntensity != 1 {
		t.Fatalf("respawned particle kept state: %+v", q)
	}
	if len(e.Particles()) != 150 {
		t.Fatalf("respawn changed population: %d", len(e.Particles()))
	}
}

func TestOriginalVelocityCapturedOnce(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	p := pin(e, 0, 600, 600)
	p.VX, p.VY = 0.4, -0.2
	p.OVX, p.OVY = 0, 0

	e.Step(epoch)
	if e.particles[0].OVX != 0.4 || e.particles[0].OVY != -0.2 {
		t.Fatalf("original velocity not captured: %v,%v", e.particles[0].OVX, e.particles[0].OVY)
	}
	e.particles[0].VX = 3
	e.Step(epoch.Add(time.Millisecond))
	if e.particles[0].OVX != 0.4 {
		t.Fatalf("original velocity recaptured: %v", e.particles[0].OVX)
	}
}

func TestZeroVelocityNeverCaptures(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	p := pin(e, 0, 600, 600)
	p.VX, p.VY = 0, 0
	p.OVX, p.OVY = 0, 0
	e.Step(epoch)
	if e.particles[0].OVX != 0 || e.particles[0].OVY != 0 {
		t.Fatalf("zero velocity should not capture, got %v,%v", e.particles[0].OVX, e.particles[0].OVY)
	}
}

func TestIdleRelaxationRates(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	p := pin(e, 0, 600, 600)
	p.VX, p.VY = 2, 0
	p.OVX, p.OVY = 1, 0

	e.Step(epoch)
	want := (2 + (1-2)*relaxIdle) * damping
	if got := e.particles[0].VX; math.Abs(got-want) > 1e-12 {
		t.Fatalf("idle relax: got %v want %v", got, want)
	}

	e.particles[0].VX = 2
	e.PointerMove(1200, 1900, epoch)
	e.Step(epoch.Add(time.Millisecond))
	want = (2 + (1-2)*relaxNear) * damping
	if got := e.particles[0].VX; math.Abs(got-want) > 1e-12 {
		t.Fatalf("out-of-range relax: got %v want %v", got, want)
	}
}

func TestAttractorTintsAndHolds(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	pin(e, 0, 500, 500)
	h := NewHandle()
	e.RegisterAttractor(h, Rect{X: 450, Y: 450, Width: 100, Height: 100}, "portfolio")
	e.particles = e.particles[:1]

	e.Step(epoch)
	p := e.particles[0]
	if !p.Attracted {
		t.Fatal("particle at centre should be attracted")
	}
	if p.AttractionForce <= 0.5*config.CardAttractionForce {
		t.Fatalf("unexpected force %v", p.AttractionForce)
	}
	purple := config.MustParseColor("#8B00FF")
	if p.Color != purple {
		t.Fatalf("expected portfolio tint, got %+v", p.Color)
	}
	if !(p.GlowIntensity > 1) {
		t.Fatalf("expected glow > 1, got %v", p.GlowIntensity)
	}

	e.UnregisterAttractor(h)
	e.Step(epoch.Add(time.Millisecond))
	if e.particles[0].Attracted {
		t.Fatal("particle still attracted after unregister")
	}
	if e.particles[0].Color != purple {
		t.Fatal("tint should not revert")
	}
}

func TestDefaultCategoryDoesNotTint(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	p := pin(e, 0, 500, 500)
	before := p.Color
	e.RegisterAttractor(NewHandle(), Rect{X: 450, Y: 450, Width: 100, Height: 100}, "banner")
	e.particles = e.particles[:1]
	e.Step(epoch)
	if !e.particles[0].Attracted {
		t.Fatal("default category should still attract")
	}
	if e.particles[0].Color != before {
		t.Fatal("default category must not tint")
	}
}

func TestZeroAreaAttractorHasNoInfluence(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	pin(e, 0, 500, 500)
	e.RegisterAttractor(NewHandle(), Rect{X: 500, Y: 500}, "service")
	e.particles = e.particles[:1]
	e.Step(epoch)
	if e.particles[0].Attracted {
		t.Fatal("zero-area attractor should not attract")
	}
	if len(e.AttractorLinks()) != 0 {
		t.Fatal("zero-area attractor should not link")
	}
}

func TestLastOverlappingAttractorWins(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.particles = e.particles[:1]
	pin(e, 0, 500, 500)
	e.RegisterAttractor(NewHandle(), Rect{X: 450, Y: 450, Width: 100, Height: 100}, "service")
	e.RegisterAttractor(NewHandle(), Rect{X: 550, Y: 450, Width: 100, Height: 100}, "skill")
	e.particles = e.particles[:1]
	e.Step(epoch)

	p := e.particles[0]
	// The second attractor sits 100px to the right, so the angle points +x.
	if math.Abs(p.AttractionAngle) > 0.05 {
		t.Fatalf("expected angle toward the second attractor, got %v", p.AttractionAngle)
	}
	if p.AttractionForce > config.CardAttractionForce*0.6 {
		t.Fatalf("forces should not sum: %v", p.AttractionForce)
	}
}

func TestBurstOverflowTrimmed(t *testing.T) {
	e := newTestEngine(t, 700, 2000)
	for i := 0; i < 6; i++ {
		e.RegisterAttractor(NewHandle(), Rect{X: 100, Y: float64(i) * 300, Width: 200, Height: 100}, "skill")
	}
	if got := len(e.Particles()); got != 50+6*15 {
		t.Fatalf("expected %d particles before step, got %d", 50+6*15, got)
	}
	e.Step(epoch)
	if got := len(e.Particles()); got != 60 {
		t.Fatalf("expected trim to 60, got %d", got)
	}
}

func TestBurstBelowCeilingKept(t *testing.T) {
	e := newTestEngine(t, 1300, 2000)
	e.RegisterAttractor(NewHandle(), Rect{X: 100, Y: 100, Width: 200, Height: 100}, "skill")
	e.Step(epoch)
	if got := len(e.Particles()); got != 165 {
		t.Fatalf("burst below ceiling should survive, got %d", got)
	}
}
