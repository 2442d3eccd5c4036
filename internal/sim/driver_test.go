package sim

import (
	"testing"
	"time"

	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

func TestDriver_CatchUpThenSingleRender(t *testing.T) {
	clock := event.NewManualClock(time.Unix(0, 0))
	updates, renders := 0, 0
	d := NewDriver("test", clock, 30, func() { updates++ }, func() { renders++ })
	d.Start()
	clock.Advance(100 * time.Millisecond)
	if n := d.Frame(); n != 3 {
		t.Fatalf("Frame ran %d updates, want 3", n)
	}
	if updates != 3 || renders != 1 {
		t.Fatalf("updates=%d renders=%d, want 3 and 1", updates, renders)
	}
	if n := d.Frame(); n != 0 {
		t.Fatalf("lag not drained: %d more updates without elapsed time", n)
	}
}

func TestDriver_CarriesLagBetweenFrames(t *testing.T) {
	clock := event.NewManualClock(time.Unix(0, 0))
	updates := 0
	d := NewDriver("test", clock, 50, func() { updates++ }, func() {})
	d.Start()
	clock.Advance(10 * time.Millisecond)
	d.Frame()
	if updates != 0 {
		t.Fatalf("update ran before a full interval")
	}
	clock.Advance(10 * time.Millisecond)
	d.Frame()
	if updates != 1 {
		t.Fatalf("updates=%d after 20ms at 50fps, want 1", updates)
	}
}

func TestDriver_StopHaltsEverything(t *testing.T) {
	clock := event.NewManualClock(time.Unix(0, 0))
	updates, renders := 0, 0
	d := NewDriver("test", clock, 60, func() { updates++ }, func() { renders++ })
	d.Start()
	d.Stop()
	clock.Advance(time.Second)
	d.Frame()
	if updates != 0 || renders != 0 {
		t.Fatalf("stopped driver ran %d updates %d renders", updates, renders)
	}

	// Start resets the previous tick, so the stopped second is not replayed.
	d.Start()
	clock.Advance(20 * time.Millisecond)
	d.Frame()
	if updates != 1 {
		t.Fatalf("updates=%d after restart, want 1", updates)
	}
}

func TestDriver_UpdateCanStopMidFrame(t *testing.T) {
	clock := event.NewManualClock(time.Unix(0, 0))
	var d *Driver
	updates := 0
	d = NewDriver("test", clock, 60, func() {
		updates++
		d.Stop()
	}, func() {})
	d.Start()
	clock.Advance(time.Second)
	d.Frame()
	if updates != 1 {
		t.Fatalf("updates=%d, want the loop to end at Stop", updates)
	}
}

func TestDriver_ReadinessDefersUpdates(t *testing.T) {
	clock := event.NewManualClock(time.Unix(0, 0))
	ready := false
	updates, renders := 0, 0
	d := NewDriver("test", clock, 60, func() { updates++ }, func() { renders++ })
	d.SetReady(func() bool { return ready })
	d.Start()
	clock.Advance(100 * time.Millisecond)
	d.Frame()
	if updates != 0 || renders != 1 || d.Deferred != 1 {
		t.Fatalf("pending: updates=%d renders=%d deferred=%d", updates, renders, d.Deferred)
	}
	ready = true
	clock.Advance(17 * time.Millisecond)
	d.Frame()
	if updates != 1 {
		t.Fatalf("updates=%d once ready, want 1 (pending lag discarded)", updates)
	}
}

func TestNewDriver_PanicsOnBadWiring(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a driver without update")
		}
	}()
	NewDriver("bad", nil, 60, nil, func() {})
}
