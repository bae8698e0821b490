package field

import "time"

// Pointer tracks the cursor in document space. It is active until an idle
// deadline passes or the pointer leaves.
type Pointer struct {
	X, Y     float64
	deadline time.Time
}

// Move records a position and re-arms the idle deadline.
func (p *Pointer) Move(x, y float64, now time.Time, idle time.Duration) {
	p.X, p.Y = x, y
	p.deadline = now.Add(idle)
}

// Leave deactivates the pointer immediately.
func (p *Pointer) Leave() {
	p.deadline = time.Time{}
}

// Active reports whether the pointer moved within the idle window.
func (p Pointer) Active(now time.Time) bool {
	return now.Before(p.deadline)
}
