package sim

import (
	"fmt"
	"time"

	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// Driver is a fixed-timestep loop for one screen. Each Frame call converts the
// wall-clock time since the previous call into lag and drains it in whole
// update steps, then renders once.
type Driver struct {
	Name string

	clock    event.Clock
	interval time.Duration
	update   func()
	render   func()
	ready    func() bool

	running  bool
	previous time.Time
	lag      time.Duration

	// counters for debug overlays and reports
	Updates  int
	Renders  int
	Deferred int // frames whose updates were held back by the readiness probe
}

// NewDriver builds a stopped driver. A driver without update or render, or
// with a non-positive fps, is a wiring bug and panics.
func NewDriver(name string, clock event.Clock, fps int, update, render func()) *Driver {
	if fps <= 0 {
		panic(fmt.Sprintf("sim: driver %q with fps %d", name, fps))
	}
	if update == nil || render == nil {
		panic(fmt.Sprintf("sim: driver %q missing update or render", name))
	}
	if clock == nil {
		clock = event.SystemClock{}
	}
	return &Driver{
		Name:     name,
		clock:    clock,
		interval: time.Second / time.Duration(fps),
		update:   update,
		render:   render,
	}
}

// SetReady installs a readiness probe. While it reports false the driver keeps
// time and renders but runs no updates, and the lag is discarded.
func (d *Driver) SetReady(probe func() bool) { d.ready = probe }

// Interval returns the fixed update step.
func (d *Driver) Interval() time.Duration { return d.interval }

// Start resets the previous tick to now and begins accepting frames.
func (d *Driver) Start() {
	d.previous = d.clock.Now()
	d.lag = 0
	d.running = true
}

// Stop cancels the loop. Frame is a no-op until the next Start.
func (d *Driver) Stop() { d.running = false }

// Running reports whether the driver accepts frames.
func (d *Driver) Running() bool { return d.running }

// Frame is one animation callback. It returns the number of updates run.
func (d *Driver) Frame() int {
	if !d.running {
		return 0
	}
	now := d.clock.Now()
	elapsed := now.Sub(d.previous)
	d.previous = now
	if elapsed > 0 {
		d.lag += elapsed
	}

	n := 0
	if d.ready != nil && !d.ready() {
		d.lag = 0
		d.Deferred++
	} else {
		for d.lag >= d.interval && d.running {
			d.update()
			d.lag -= d.interval
			n++
		}
	}
	d.Updates += n
	d.render()
	d.Renders++
	return n
}
