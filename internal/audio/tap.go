package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// tap wraps a beep.Streamer and records whether it still produces samples so
// the player can tell when a chime ends.
type tap struct {
	Source beep.Streamer

	mu     sync.RWMutex
	active bool
	played int
}

func newTap(src beep.Streamer) *tap {
	return &tap{Source: src, active: true}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	t.mu.Lock()
	t.played += n
	if !ok || n == 0 {
		t.active = false
	}
	t.mu.Unlock()
	return n, ok
}

func (t *tap) Err() error { return t.Source.Err() }

// Active reports whether the source still has samples.
func (t *tap) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Played is the number of samples streamed so far.
func (t *tap) Played() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.played
}
