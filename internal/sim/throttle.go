package sim

import "time"

// DefaultTriggerInterval is the cooldown shared by every trigger zone.
const DefaultTriggerInterval = 3000 * time.Millisecond

// Throttle suppresses re-triggering a zone on the same or a nearby tile.
//
// Nearness is measured on the row-major tile index, so the last cell of one row
// and the first of the next count as adjacent.
type Throttle struct {
	LastIndex int
	LastTime  time.Time
	Interval  time.Duration
	Window    int // item zones use 2, water and nap 1

	fired bool
}

// NewThrottle creates a throttle that has never fired.
func NewThrottle(window int, interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultTriggerInterval
	}
	return &Throttle{Window: window, Interval: interval}
}

// Blocked reports whether idx is inside the window around the last trigger
// and the cooldown has not elapsed at now.
// The window spans [last-Window, last+Window).
func (t *Throttle) Blocked(idx int, now time.Time) bool {
	if !t.fired {
		return false
	}
	if now.Sub(t.LastTime) >= t.Interval {
		return false
	}
	return idx >= t.LastIndex-t.Window && idx < t.LastIndex+t.Window
}

// Mark records a trigger at idx.
func (t *Throttle) Mark(idx int, now time.Time) {
	t.LastIndex = idx
	t.LastTime = now
	t.fired = true
}

// Cooldown is the shared post-action window that suppresses encounter rolls.
type Cooldown struct {
	LastTime time.Time
	Interval time.Duration
}

// Active reports whether now is inside the window.
func (c *Cooldown) Active(now time.Time) bool {
	if c.LastTime.IsZero() {
		return false
	}
	return now.Sub(c.LastTime) < c.Interval
}

// Mark restarts the window at now.
func (c *Cooldown) Mark(now time.Time) { c.LastTime = now }
