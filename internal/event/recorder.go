package event

// Recorder captures published events for assertions and run reports.
type Recorder struct {
	Events []Event
	unsubs []func()
}

// Record subscribes a new recorder to the given kinds, or to every kind when
// none are given.
func Record(b *Bus, kinds ...Kind) *Recorder {
	if len(kinds) == 0 {
		kinds = Kinds()
	}
	r := &Recorder{}
	for _, k := range kinds {
		r.unsubs = append(r.unsubs, b.Subscribe(k, func(ev Event) {
			r.Events = append(r.Events, ev)
		}))
	}
	return r
}

// Count returns how many events of kind k were captured.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Kind() == k {
			n++
		}
	}
	return n
}

// OfKind returns the captured events of kind k in publish order.
func (r *Recorder) OfKind(k Kind) []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.Kind() == k {
			out = append(out, ev)
		}
	}
	return out
}

// Last returns the most recent event, if any.
func (r *Recorder) Last() (Event, bool) {
	if len(r.Events) == 0 {
		return nil, false
	}
	return r.Events[len(r.Events)-1], true
}

// Reset drops everything captured so far.
func (r *Recorder) Reset() { r.Events = r.Events[:0] }

// Stop unsubscribes the recorder.
func (r *Recorder) Stop() {
	for _, u := range r.unsubs {
		u()
	}
	r.unsubs = nil
}
