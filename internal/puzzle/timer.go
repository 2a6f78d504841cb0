package puzzle

import "time"

// deferred is a cancellable one-shot action driven by the frame clock.
// It only advances when Step is called.
type deferred struct {
	remaining time.Duration
	action    func()
	armed     bool
}

// Schedule arms the timer, replacing any pending action.
func (d *deferred) Schedule(delay time.Duration, action func()) {
	d.remaining = delay
	d.action = action
	d.armed = true
}

// Cancel disarms the timer without running the action.
func (d *deferred) Cancel() {
	d.armed = false
	d.action = nil
	d.remaining = 0
}

// Pending reports whether an action is armed.
func (d *deferred) Pending() bool {
	return d.armed
}

// Remaining returns the time left before the action fires.
func (d *deferred) Remaining() time.Duration {
	if !d.armed {
		return 0
	}
	return d.remaining
}

// Step advances the timer by dt and fires the action once it is due.
func (d *deferred) Step(dt time.Duration) {
	if !d.armed {
		return
	}
	d.remaining -= dt
	if d.remaining > 0 {
		return
	}
	action := d.action
	d.Cancel()
	if action != nil {
		action()
	}
}
