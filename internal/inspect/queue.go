package inspect

import (
	"sync/atomic"

	"github.com/iburimskiy/glowfield/internal/field"
)

// Command mutates the engine on the frame goroutine.
type Command func(e *field.Engine)

// Queue carries commands from request goroutines to the frame loop.
type Queue struct {
	ch chan Command
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Command, size)}
}

// Push enqueues c without blocking. It reports false when the queue is full.
func (q *Queue) Push(c Command) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// Drain runs the commands queued so far against e and returns how many ran.
// Commands pushed while draining wait for the next frame.
func (q *Queue) Drain(e *field.Engine) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		select {
		case c := <-q.ch:
			c(e)
		default:
			return i
		}
	}
	return n
}

// Feed holds the latest stats published by the frame loop.
type Feed struct {
	v atomic.Pointer[field.Stats]
}

func (f *Feed) Publish(s field.Stats) {
	f.v.Store(&s)
}

// Load returns the last published snapshot, or zero stats before the first
// frame.
func (f *Feed) Load() field.Stats {
	if s := f.v.Load(); s != nil {
		return *s
	}
	return field.Stats{}
}
