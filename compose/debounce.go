package compose

import "time"

// Debouncer coalesces rapid text edits so at most one formatting pass runs
// per quiet period. It is a small state machine, either idle or pending
// with a deadline. Each Touch re-arms the pending state under a fresh
// sequence number; a fire with a stale sequence is ignored, so only the
// last scheduled timer takes effect. Immediate formatting passes bypass
// the debouncer entirely (callers just Cancel any pending pass).
type Debouncer struct {
	delay    time.Duration
	seq      int
	pending  bool
	deadline time.Time
}

// DefaultDebounce is the quiet period between keystrokes and a format pass.
const DefaultDebounce = 500 * time.Millisecond

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Touch arms (or re-arms) the pending state and returns the sequence number
// the eventual timer must present to Fire.
func (d *Debouncer) Touch(now time.Time) int {
	d.seq++
	d.pending = true
	d.deadline = now.Add(d.delay)
	return d.seq
}

// Fire reports whether the timer carrying seq is still the live one. A true
// return transitions back to idle; stale or spurious fires return false and
// change nothing.
func (d *Debouncer) Fire(seq int) bool {
	if !d.pending || seq != d.seq {
		return false
	}
	d.pending = false
	return true
}

// Cancel drops any pending pass, returning to idle.
func (d *Debouncer) Cancel() {
	d.pending = false
}

// Pending reports whether a pass is scheduled.
func (d *Debouncer) Pending() bool { return d.pending }

// Deadline returns when the pending pass is due. Meaningless when idle.
func (d *Debouncer) Deadline() time.Time { return d.deadline }
