package sweep

import "context"

// Host is the capability an animator needs from the UI it runs in. Both
// methods are called on the host's UI goroutine.
type Host interface {
	// RequestRedraw marks the surface dirty so it is repainted on the next
	// frame opportunity.
	RequestRedraw()
	// ScheduleNext runs fn after the current processing turn.
	ScheduleNext(fn func())
}

// Animator owns the sweep angle and drives it forward one step per host
// turn. It is not safe for concurrent use; all calls belong on the host's
// UI goroutine.
type Animator struct {
	host        Host
	step        int
	angle       int
	revolutions int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAnimator returns an animator at angle 0. step is reduced into
// (-360, 360).
func NewAnimator(host Host, step int) *Animator {
	return &Animator{
		host: host,
		step: step % 360,
	}
}

// Angle returns the current sweep angle in degrees, in [0, 360).
func (a *Animator) Angle() int { return a.angle }

// Revolutions returns how many times the angle has wrapped past 0.
func (a *Animator) Revolutions() int { return a.revolutions }

// Running reports whether a cadence started by Start is still active.
func (a *Animator) Running() bool { return a.cancel != nil }

// SetStep changes the increment used by subsequent advances.
func (a *Animator) SetStep(step int) { a.step = step % 360 }

// Advance moves the angle by one step, wrapping into [0, 360), and asks the
// host for a redraw.
func (a *Animator) Advance() {
	next := (a.angle + a.step) % 360
	if next < 0 {
		next += 360
	}
	if (a.step > 0 && next < a.angle) || (a.step < 0 && next > a.angle) {
		a.revolutions++
	}
	a.angle = next
	a.host.RequestRedraw()
}

// Start begins the self-rescheduling cadence: each tick advances once and
// schedules the next tick. It stops when ctx is cancelled or Stop is called.
// Starting an already running animator does nothing.
func (a *Animator) Start(ctx context.Context) {
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.ctx, a.cancel = ctx, cancel
	a.host.ScheduleNext(func() { a.tick(ctx) })
}

// Stop halts the cadence. The tick already scheduled with the host runs but
// neither advances nor reschedules.
func (a *Animator) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	a.ctx, a.cancel = nil, nil
}

func (a *Animator) tick(ctx context.Context) {
	if ctx.Err() != nil {
		// Cancelled from outside; release the cadence so Start works again.
		if a.ctx == ctx {
			a.Stop()
		}
		return
	}
	a.Advance()
	a.host.ScheduleNext(func() { a.tick(ctx) })
}
