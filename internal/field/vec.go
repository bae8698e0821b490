package field

import "math"

// distance returns the euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// unitTo returns the unit vector of (dx, dy) given its precomputed length d.
// A zero length yields the zero vector so callers never divide by zero.
func unitTo(dx, dy, d float64) (float64, float64) {
	if d == 0 {
		return 0, 0
	}
	return dx / d, dy / d
}

// perpendicular rotates a vector 90° counter-clockwise, i.e. the direction
// of angle+π/2.
func perpendicular(x, y float64) (float64, float64) {
	return -y, x
}

// proximity maps a distance within radius to 1 at the centre and 0 at the
// edge.
func proximity(d, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return clamp01((radius - d) / radius)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
