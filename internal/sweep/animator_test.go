package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost queues scheduled callbacks and counts redraw requests.
type fakeHost struct {
	redraws int
	queue   []func()
}

func (h *fakeHost) RequestRedraw() { h.redraws++ }

func (h *fakeHost) ScheduleNext(fn func()) { h.queue = append(h.queue, fn) }

// turn runs the callbacks queued before the call, like one host frame.
func (h *fakeHost) turn() {
	pending := h.queue
	h.queue = nil
	for _, fn := range pending {
		fn()
	}
}

func TestAnimator_StartsAtZero(t *testing.T) {
	a := NewAnimator(&fakeHost{}, 2)
	assert.Equal(t, 0, a.Angle())
	assert.False(t, a.Running())
}

func TestAnimator_AdvanceStaysInRange(t *testing.T) {
	for start := 0; start < 360; start++ {
		host := &fakeHost{}
		a := NewAnimator(host, 2)
		a.angle = start

		a.Advance()

		assert.Equal(t, (start+2)%360, a.Angle())
		assert.GreaterOrEqual(t, a.Angle(), 0)
		assert.Less(t, a.Angle(), 360)
		assert.Equal(t, 1, host.redraws)
	}
}

func TestAnimator_WrapsAt358(t *testing.T) {
	a := NewAnimator(&fakeHost{}, 2)
	a.angle = 358

	a.Advance()

	assert.Equal(t, 0, a.Angle())
	assert.Equal(t, 1, a.Revolutions())
}

func TestAnimator_FullCycleCloses(t *testing.T) {
	host := &fakeHost{}
	a := NewAnimator(host, 2)

	for i := 0; i < 180; i++ {
		a.Advance()
		if i < 179 {
			require.NotZero(t, a.Angle(), "returned to 0 early at step %d", i)
		}
	}

	assert.Equal(t, 0, a.Angle())
	assert.Equal(t, 1, a.Revolutions())
	assert.Equal(t, 180, host.redraws)
}

func TestAnimator_NegativeStep(t *testing.T) {
	a := NewAnimator(&fakeHost{}, -2)

	a.Advance()
	assert.Equal(t, 358, a.Angle())
	assert.Equal(t, 1, a.Revolutions())

	a.Advance()
	assert.Equal(t, 356, a.Angle())
	assert.Equal(t, 1, a.Revolutions())
}

func TestAnimator_StepReducedModulo360(t *testing.T) {
	a := NewAnimator(&fakeHost{}, 722)
	a.Advance()
	assert.Equal(t, 2, a.Angle())

	a.SetStep(-365)
	a.Advance()
	assert.Equal(t, 357, a.Angle())
}

func TestAnimator_StartSelfReschedules(t *testing.T) {
	host := &fakeHost{}
	a := NewAnimator(host, 2)

	a.Start(context.Background())
	require.True(t, a.Running())
	require.Len(t, host.queue, 1)
	assert.Equal(t, 0, a.Angle(), "start must not advance synchronously")

	for i := 1; i <= 5; i++ {
		host.turn()
		assert.Equal(t, 2*i, a.Angle())
		assert.Len(t, host.queue, 1, "exactly one tick pending after each turn")
	}
	assert.Equal(t, 5, host.redraws)
}

func TestAnimator_StartIsIdempotent(t *testing.T) {
	host := &fakeHost{}
	a := NewAnimator(host, 2)

	a.Start(context.Background())
	a.Start(context.Background())

	assert.Len(t, host.queue, 1)
}

func TestAnimator_StopHaltsRescheduling(t *testing.T) {
	host := &fakeHost{}
	a := NewAnimator(host, 2)

	a.Start(context.Background())
	host.turn()
	host.turn()
	require.Equal(t, 4, a.Angle())

	a.Stop()
	assert.False(t, a.Running())

	host.turn()
	assert.Equal(t, 4, a.Angle(), "stopped animator must not advance")
	assert.Empty(t, host.queue, "stopped animator must not reschedule")
}

func TestAnimator_ContextCancelHaltsRescheduling(t *testing.T) {
	host := &fakeHost{}
	a := NewAnimator(host, 2)
	ctx, cancel := context.WithCancel(context.Background())

	a.Start(ctx)
	host.turn()
	cancel()
	host.turn()

	assert.Equal(t, 2, a.Angle())
	assert.Empty(t, host.queue)
	assert.False(t, a.Running())

	// Restartable after an external cancel.
	a.Start(context.Background())
	host.turn()
	assert.Equal(t, 4, a.Angle())
}

func TestAnimator_RestartKeepsSingleCadence(t *testing.T) {
	host := &fakeHost{}
	a := NewAnimator(host, 2)

	a.Start(context.Background())
	a.Stop()
	a.Start(context.Background())
	require.Len(t, host.queue, 2)

	host.turn()
	assert.Equal(t, 2, a.Angle(), "the stale tick must not advance")
	assert.Len(t, host.queue, 1)
}
