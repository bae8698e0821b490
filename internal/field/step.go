package field

import (
	"math"
	"time"
)

const (
	orbitFactor        = 0.8
	attractedDrift     = 0.7
	waveScale          = 0.1
	idlePulse          = 0.05
	spinScale          = 5
	tintThreshold      = 0.5
	restitution        = 0.8
	pointerPullScale   = 0.1
	pointerOrbitScale  = 0.5
	pointerAttractedMu = 0.3
	relaxNear          = 0.02
	relaxIdle          = 0.01
	damping            = 0.995
	glowDecay          = 0.98
	overflowFactor     = 1.5
	trimFactor         = 1.2
)

// Step advances every particle one frame. now seeds the wave terms and
// decides whether the pointer is active; there is no fixed timestep.
func (e *Engine) Step(now time.Time) {
	t := float64(now.UnixNano()) / float64(time.Second)
	active := e.pointer.Active(now)
	e.lastActive = active
	e.frame++

	for i := range e.particles {
		p := &e.particles[i]

		if p.OVX == 0 && p.OVY == 0 && (p.VX != 0 || p.VY != 0) {
			p.OVX, p.OVY = p.VX, p.VY
		}

		p.Attracted = false
		p.AttractionForce = 0
		e.attractors.ForEach(func(a *Attractor) {
			e.attract(p, a)
		})

		e.integrate(p, t)

		p.Trail.Push(TrailPoint{X: p.X, Y: p.Y, Opacity: p.CurrentOpacity}, e.trailLimit(p))
		p.Life++

		e.bounce(p)
		e.applyPointer(p, active)

		p.VX *= damping
		p.VY *= damping
		p.GlowIntensity = math.Max(1, p.GlowIntensity*glowDecay)

		if p.Life > p.MaxLife {
			e.respawnInPlace(i)
		}
	}

	e.trimOverflow()
}

func (e *Engine) trailLimit(p *Particle) int {
	if p.Attracted {
		return MaxTrail
	}
	return IdleTrail
}

// attract applies one attractor. When several overlap the last one wins.
func (e *Engine) attract(p *Particle, a *Attractor) {
	radius := a.Radius(e.cfg.CardAttractionRadius)
	if radius <= 0 {
		return
	}
	dx, dy := a.X-p.X, a.Y-p.Y
	d := math.Hypot(dx, dy)
	if d >= radius {
		return
	}

	force := proximity(d, radius)
	p.Attracted = true
	p.AttractionForce = force * a.Strength
	p.AttractionAngle = math.Atan2(dy, dx)
	p.pullX, p.pullY = unitTo(dx, dy, d)

	ox, oy := perpendicular(p.pullX, p.pullY)
	p.VX += ox * force * orbitFactor
	p.VY += oy * force * orbitFactor

	// The tint is one-way: it is never reverted once applied.
	if c, ok := e.highlights[string(a.Category)]; ok && force > tintThreshold {
		p.Color = c
		p.GlowIntensity = 1 + force
	}
}

func (e *Engine) integrate(p *Particle, t float64) {
	if p.Attracted {
		p.X += p.VX*attractedDrift + p.pullX*p.AttractionForce
		p.Y += p.VY*attractedDrift + p.pullY*p.AttractionForce
		p.PulsePhase += p.SpinSpeed * p.AttractionForce * spinScale
	} else {
		waveX := math.Sin(t*e.cfg.WaveFrequency+p.WaveOffset) * e.cfg.WaveAmplitude
		waveY := math.Cos(t*e.cfg.WaveFrequency*0.7+p.WaveOffset) * e.cfg.WaveAmplitude
		p.X += p.VX + waveX*waveScale
		p.Y += p.VY + waveY*waveScale
		p.PulsePhase += idlePulse
	}

	pulse := math.Sin(p.PulsePhase)*0.3 + 0.7
	p.CurrentSize = p.Size * pulse * p.GlowIntensity
	p.CurrentOpacity = p.Opacity * pulse
}

func (e *Engine) bounce(p *Particle) {
	if p.X < 0 || p.X > e.view.Width {
		p.VX *= -restitution
		p.X = clamp(p.X, 0, e.view.Width)
	}
	if p.Y < 0 || p.Y > e.view.Height {
		p.VY *= -restitution
		p.Y = clamp(p.Y, 0, e.view.Height)
	}
}

func (e *Engine) applyPointer(p *Particle, active bool) {
	if !active {
		p.NearPointer = 0
		e.relax(p, relaxIdle)
		return
	}

	dx, dy := e.pointer.X-p.X, e.pointer.Y-p.Y
	d := math.Hypot(dx, dy)
	if d >= e.cfg.MouseRadius {
		p.NearPointer = 0
		e.relax(p, relaxNear)
		return
	}

	force := proximity(d, e.cfg.MouseRadius)
	strength := e.cfg.MouseForce
	if p.Attracted {
		strength *= pointerAttractedMu
	}
	pull := strength * force
	ux, uy := unitTo(dx, dy, d)
	ox, oy := perpendicular(ux, uy)
	p.VX += ux*pull*pointerPullScale + ox*force*pointerOrbitScale
	p.VY += uy*pull*pointerPullScale + oy*force*pointerOrbitScale

	p.NearPointer = force
	p.GlowIntensity = math.Max(p.GlowIntensity, 1+force)
}

// relax eases velocity back toward the captured original velocity unless
// an attractor currently holds the particle.
func (e *Engine) relax(p *Particle, rate float64) {
	if p.Attracted {
		return
	}
	p.VX += (p.OVX - p.VX) * rate
	p.VY += (p.OVY - p.VY) * rate
}

// trimOverflow drops the newest particles once bursts push the population
// past the overflow ceiling.
func (e *Engine) trimOverflow() {
	target := float64(e.target)
	if float64(len(e.particles)) <= target*overflowFactor {
		return
	}
	n := int(math.Trunc(target * trimFactor))
	if n < len(e.particles) {
		e.particles = e.particles[:n]
	}
}
