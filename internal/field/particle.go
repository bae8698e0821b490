package field

import (
	"image/color"
	"math"
)

const (
	// MaxTrail is the trail capacity while attracted.
	MaxTrail = 12
	// IdleTrail is the trail cap while drifting freely.
	IdleTrail = 8

	burstMaxLife    = 50
	burstSpeed      = 2
	burstSizeFactor = 1.5
	burstGlow       = 2
)

// TrailPoint is a position remembered for trail rendering together with the
// opacity the particle had at that moment.
type TrailPoint struct {
	X, Y    float64
	Opacity float64
}

// Trail is a fixed-capacity ring of recent positions, oldest first.
type Trail struct {
	points [MaxTrail]TrailPoint
	start  int
	n      int
}

// Push appends pt and evicts the oldest points until at most limit remain.
func (t *Trail) Push(pt TrailPoint, limit int) {
	if limit > MaxTrail {
		limit = MaxTrail
	}
	if t.n == MaxTrail {
		t.start = (t.start + 1) % MaxTrail
		t.n--
	}
	t.points[(t.start+t.n)%MaxTrail] = pt
	t.n++
	for t.n > limit && t.n > 0 {
		t.start = (t.start + 1) % MaxTrail
		t.n--
	}
}

// Len reports the number of stored points.
func (t *Trail) Len() int { return t.n }

// At returns the i-th point, 0 being the oldest.
func (t *Trail) At(i int) TrailPoint {
	return t.points[(t.start+i)%MaxTrail]
}

// Reset drops all points.
func (t *Trail) Reset() {
	t.start, t.n = 0, 0
}

// Particle is a single animated point. Every field is always present; the
// transient block is recomputed each frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	// OVX, OVY is the relaxation target, captured once on first update.
	OVX, OVY float64

	Size          float64
	Opacity       float64
	Color         color.RGBA
	GlowIntensity float64

	WaveOffset float64
	PulsePhase float64
	SpinSpeed  float64
	Trail      Trail

	Life    float64
	MaxLife float64

	// transient
	CurrentSize     float64
	CurrentOpacity  float64
	NearPointer     float64
	Attracted       bool
	AttractionForce float64
	AttractionAngle float64

	pullX, pullY float64
}

// spawn builds a fresh particle over the drawable area.
func (e *Engine) spawn() Particle {
	r := e.rng
	cfg := &e.cfg
	span := cfg.Speed.Max - cfg.Speed.Min
	p := Particle{
		X:             r.Float64() * e.view.Width,
		Y:             r.Float64() * e.view.Height,
		VX:            (r.Float64()-0.5)*span + cfg.Speed.Min,
		VY:            (r.Float64()-0.5)*span + cfg.Speed.Min,
		Size:          r.Float64()*(cfg.ParticleSize.Max-cfg.ParticleSize.Min) + cfg.ParticleSize.Min,
		Opacity:       r.Float64()*(cfg.Opacity.Max-cfg.Opacity.Min) + cfg.Opacity.Min,
		Color:         e.palette[r.IntN(len(e.palette))],
		Life:          r.Float64() * 100,
		MaxLife:       100 + r.Float64()*100,
		WaveOffset:    r.Float64() * 2 * math.Pi,
		PulsePhase:    r.Float64() * 2 * math.Pi,
		SpinSpeed:     (r.Float64() - 0.5) * 0.02,
		GlowIntensity: 1,
	}
	p.CurrentSize = p.Size
	p.CurrentOpacity = p.Opacity
	return p
}

// respawnInPlace replaces slot i with a fresh particle, keeping the index.
func (e *Engine) respawnInPlace(i int) {
	e.particles[i] = e.spawn()
}

// burst appends short-lived particles in a ring around a.
func (e *Engine) burst(a *Attractor) {
	n := e.cfg.BurstCount
	tint := e.categoryColor(a.Category)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		dist := 50 + e.rng.Float64()*100
		cos, sin := math.Cos(angle), math.Sin(angle)

		p := e.spawn()
		p.X = a.X + cos*dist
		p.Y = a.Y + sin*dist
		p.VX = cos * burstSpeed
		p.VY = sin * burstSpeed
		p.Life = 0
		p.MaxLife = burstMaxLife
		p.Color = tint
		p.Size *= burstSizeFactor
		p.CurrentSize = p.Size
		p.GlowIntensity = burstGlow
		e.particles = append(e.particles, p)
	}
}

// topUp spawns particles until the population reaches n.
func (e *Engine) topUp(n int) {
	for len(e.particles) < n {
		e.particles = append(e.particles, e.spawn())
	}
}
