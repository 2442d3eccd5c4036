package sim

import "github.com/Garsondee/Cocktail-Quest/internal/event"

// Input tracks the four direction keys. Keyboard and virtual buttons both feed
// it through event.Key, so it never sees the device.
type Input struct {
	held  [event.NumDirections]bool
	order []Direction // held keys, oldest first

	unsub func()
}

// NewInput subscribes a fresh input state to key events on bus.
func NewInput(bus *event.Bus) *Input {
	in := &Input{}
	if bus != nil {
		in.unsub = event.On(bus, func(k event.Key) {
			if k.Pressed {
				in.Press(k.Dir)
			} else {
				in.Release(k.Dir)
			}
		})
	}
	return in
}

// Press marks d held and makes it the active key.
func (in *Input) Press(d Direction) {
	if !d.Valid() || in.held[d] {
		return
	}
	in.held[d] = true
	in.order = append(in.order, d)
}

// Release marks d no longer held.
func (in *Input) Release(d Direction) {
	if !d.Valid() || !in.held[d] {
		return
	}
	in.held[d] = false
	for i, o := range in.order {
		if o == d {
			in.order = append(in.order[:i], in.order[i+1:]...)
			break
		}
	}
}

// Held reports whether d is down.
func (in *Input) Held(d Direction) bool {
	return d.Valid() && in.held[d]
}

// Active returns the most recently pressed key that is still held.
func (in *Input) Active() (Direction, bool) {
	if len(in.order) == 0 {
		return 0, false
	}
	return in.order[len(in.order)-1], true
}

// Clear drops all pending input. Keys still physically down must be pressed
// again before they count.
func (in *Input) Clear() {
	in.held = [event.NumDirections]bool{}
	in.order = in.order[:0]
}

// Close unsubscribes from the bus.
func (in *Input) Close() {
	if in.unsub != nil {
		in.unsub()
		in.unsub = nil
	}
}
