package event

import (
	"sort"
	"time"
)

// Epoch is a generation counter. Work scheduled under one generation is dropped
// once the counter has been bumped, so a late task cannot touch a newer state.
type Epoch struct {
	n uint64
}

// Current returns the current generation.
func (e *Epoch) Current() uint64 { return e.n }

// Bump starts a new generation and returns it.
func (e *Epoch) Bump() uint64 {
	e.n++
	return e.n
}

// Guard returns a predicate that stays true only while the generation is unchanged.
func (e *Epoch) Guard() func() bool {
	gen := e.n
	return func() bool { return e.n == gen }
}

type task struct {
	due   time.Time
	seq   uint64
	guard func() bool
	fn    func()
}

// Scheduler holds delayed callbacks. It never fires on its own: the frame loop
// calls RunDue once per animation callback. Tasks are not cancellable; guard
// them with an Epoch instead.
type Scheduler struct {
	clock Clock
	tasks []task
	seq   uint64
	stale int
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// After runs fn once at least d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.AfterGuarded(d, nil, fn)
}

// AfterGuarded runs fn after d unless guard reports false at fire time.
func (s *Scheduler) AfterGuarded(d time.Duration, guard func() bool, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	s.tasks = append(s.tasks, task{
		due:   s.clock.Now().Add(d),
		seq:   s.seq,
		guard: guard,
		fn:    fn,
	})
}

// Publish schedules ev on bus after d.
func (s *Scheduler) Publish(bus *Bus, d time.Duration, guard func() bool, ev Event) {
	s.AfterGuarded(d, guard, func() { bus.Publish(ev) })
}

// RunDue fires every task whose deadline has passed, earliest first, ties in
// scheduling order. Tasks scheduled by a firing task run in the same pass when
// already due. It returns the number of tasks that actually ran.
func (s *Scheduler) RunDue() int {
	ran := 0
	for {
		now := s.clock.Now()
		idx := -1
		for i, t := range s.tasks {
			if t.due.After(now) {
				continue
			}
			if idx < 0 || t.due.Before(s.tasks[idx].due) ||
				(t.due.Equal(s.tasks[idx].due) && t.seq < s.tasks[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			return ran
		}
		t := s.tasks[idx]
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		if t.guard != nil && !t.guard() {
			s.stale++
			continue
		}
		t.fn()
		ran++
	}
}

// Pending returns the number of tasks not yet fired.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Stale returns how many tasks were dropped by their guard.
func (s *Scheduler) Stale() int { return s.stale }

// NextDue returns the earliest pending deadline.
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	dues := make([]time.Time, len(s.tasks))
	for i, t := range s.tasks {
		dues[i] = t.due
	}
	sort.Slice(dues, func(i, j int) bool { return dues[i].Before(dues[j]) })
	return dues[0], true
}
