package event

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is a synchronous publish/subscribe channel keyed by Kind.
//
// Publish returns only after every subscriber of that kind has run, in
// registration order. Handlers may publish further events; those are delivered
// depth-first before the outer Publish returns.
type Bus struct {
	handlers [kindCount][]subscription
	nextID   int
	log      logrus.FieldLogger
}

// NewBus creates an empty bus. A nil logger falls back to the standard logrus logger.
func NewBus(log logrus.FieldLogger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{log: log}
}

// Subscribe registers h for events of kind k and returns a function that removes it.
func (b *Bus) Subscribe(k Kind, h Handler) func() {
	if k >= kindCount {
		panic(fmt.Sprintf("event: subscribe to undefined kind %d", k))
	}
	if h == nil {
		panic("event: nil handler")
	}
	b.nextID++
	id := b.nextID
	b.handlers[k] = append(b.handlers[k], subscription{id: id, fn: h})
	return func() {
		subs := b.handlers[k]
		for i, s := range subs {
			if s.id == id {
				b.handlers[k] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// On registers a handler typed on the concrete payload T.
func On[T Event](b *Bus, h func(T)) func() {
	var zero T
	return b.Subscribe(zero.Kind(), func(ev Event) {
		if v, ok := ev.(T); ok {
			h(v)
		}
	})
}

// Publish delivers ev to every subscriber of its kind.
//
// Payloads that implement Validate are checked first; a failing payload is a
// wiring bug and panics.
func (b *Bus) Publish(ev Event) {
	if ev == nil {
		panic("event: publish nil event")
	}
	if v, ok := ev.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			panic(fmt.Sprintf("event: %v", err))
		}
	}
	k := ev.Kind()
	b.log.WithField("event", k.String()).Debug("publish")

	// Copy so handlers can unsubscribe while being dispatched.
	subs := append([]subscription(nil), b.handlers[k]...)
	for _, s := range subs {
		s.fn(ev)
	}
}
