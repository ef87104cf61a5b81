package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap wraps a beep.Streamer and records the last N samples into a ring
// buffer so the renderer can pulse the reticle with the ping.
type levelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.buffer[t.nextIndex] = samples[i]
		t.nextIndex++
		if t.nextIndex >= len(t.buffer) {
			t.nextIndex = 0
		}
	}
	if !ok {
		clear(t.buffer)
	}
	t.mu.Unlock()
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// peak returns the largest absolute sample over the last n samples.
func (t *levelTap) peak(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	var p float64
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := 0; i < n; i++ {
		s := t.buffer[idx]
		p = math.Max(p, math.Max(math.Abs(s[0]), math.Abs(s[1])))
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	return p
}
