package sim

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// Screen is one of the two simulations the director switches between.
type Screen uint8

const (
	ScreenMap Screen = iota
	ScreenBattle
	screenCount
)

func (s Screen) String() string {
	if s == ScreenBattle {
		return "battle"
	}
	return "map"
}

// Phase is a screen's transition state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseTransitioningOut
	PhaseTransitioningIn
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseTransitioningOut:
		return "transitioningOut"
	case PhaseTransitioningIn:
		return "transitioningIn"
	case PhaseActive:
		return "active"
	default:
		return "idle"
	}
}

// DefaultTransition is the fade length between screens.
const DefaultTransition = 600 * time.Millisecond

// Director runs the screen phase machine and owns one driver per screen.
//
// At most one driver runs at any time: the outgoing driver is stopped when its
// screen starts transitioning out and the incoming one starts only after the
// fade-in. Every screen has its own epoch, bumped on each phase change, so a
// transition scheduled under an older phase never fires.
type Director struct {
	env        Env
	log        logrus.FieldLogger
	transition time.Duration

	Map    *MapSim
	Battle *BattleSim

	data       *content.PlayerData
	phases     [screenCount]Phase
	phaseStart [screenCount]time.Time
	epochs     [screenCount]event.Epoch
	drivers    [screenCount]*Driver
	renders    [screenCount]func()
	over       bool

	unsubs []func()
}

// NewDirector wires the map and battle screens to their drivers. Both screens
// start idle; call Start to fade the map in.
func NewDirector(env Env, fps int, transition time.Duration, r Renderer, data *content.PlayerData, m *MapSim, b *BattleSim) *Director {
	env = env.withDefaults()
	if r == nil || m == nil || b == nil || data == nil {
		panic("sim: director wired without renderer, screens or data")
	}
	if transition < 0 {
		transition = 0
	}
	d := &Director{
		env:        env,
		log:        env.Log.WithField("component", "director"),
		transition: transition,
		Map:        m,
		Battle:     b,
		data:       data,
	}
	d.renders[ScreenMap] = func() { m.Render(r) }
	d.renders[ScreenBattle] = func() { b.Render(r) }
	d.drivers[ScreenMap] = NewDriver("map", env.Clock, fps, m.Update, d.renders[ScreenMap])
	d.drivers[ScreenMap].SetReady(m.Ready)
	d.drivers[ScreenBattle] = NewDriver("battle", env.Clock, fps, b.Update, d.renders[ScreenBattle])
	d.drivers[ScreenBattle].SetReady(b.Ready)

	d.unsubs = append(d.unsubs,
		event.On(env.Bus, d.onEncounter),
		event.On(env.Bus, d.onBattleEnd),
		event.On(env.Bus, d.onGameOver),
	)
	return d
}

// Phase returns the phase of s.
func (d *Director) Phase(s Screen) Phase { return d.phases[s] }

// Driver returns the driver of s.
func (d *Director) Driver(s Screen) *Driver { return d.drivers[s] }

// Over reports whether the game ended at 0 HP.
func (d *Director) Over() bool { return d.over }

// Current returns the screen on display: the battle whenever it is not idle.
func (d *Director) Current() Screen {
	if d.phases[ScreenBattle] != PhaseIdle {
		return ScreenBattle
	}
	return ScreenMap
}

// Fade returns the black overlay opacity for the current screen, 0..1.
func (d *Director) Fade() float64 {
	s := d.Current()
	p := d.phases[s]
	if p == PhaseIdle {
		return 1
	}
	if p == PhaseActive || d.transition == 0 {
		return 0
	}
	t := float64(d.env.Clock.Now().Sub(d.phaseStart[s])) / float64(d.transition)
	if t > 1 {
		t = 1
	}
	if p == PhaseTransitioningOut {
		return t
	}
	return 1 - t
}

// Start fades the map screen in.
func (d *Director) Start() {
	d.over = false
	d.enterMap()
}

// Frame is one animation callback: it fires due scheduled work, then runs the
// running driver. A screen mid-transition is only rendered.
func (d *Director) Frame() int {
	d.env.Sched.RunDue()
	updates := 0
	for s := Screen(0); s < screenCount; s++ {
		drv := d.drivers[s]
		switch {
		case drv.Running():
			updates += drv.Frame()
		case d.phases[s] == PhaseTransitioningIn || d.phases[s] == PhaseTransitioningOut:
			d.renders[s]()
		}
	}
	return updates
}

// Stop halts both drivers and invalidates every pending transition.
func (d *Director) Stop() {
	for s := Screen(0); s < screenCount; s++ {
		d.drivers[s].Stop()
		d.epochs[s].Bump()
	}
}

// Close stops the director and releases its subscriptions.
func (d *Director) Close() {
	d.Stop()
	for _, u := range d.unsubs {
		u()
	}
	d.unsubs = nil
}

func (d *Director) setPhase(s Screen, p Phase) {
	d.epochs[s].Bump()
	d.phases[s] = p
	d.phaseStart[s] = d.env.Clock.Now()
	d.log.WithFields(logrus.Fields{"screen": s.String(), "phase": p.String()}).Debug("phase")
}

func (d *Director) after(s Screen, fn func()) {
	d.env.Sched.AfterGuarded(d.transition, d.epochs[s].Guard(), fn)
}

func (d *Director) enterMap() {
	d.setPhase(ScreenMap, PhaseTransitioningIn)
	d.Map.Resume()
	d.after(ScreenMap, func() {
		d.setPhase(ScreenMap, PhaseActive)
		d.drivers[ScreenMap].Start()
	})
}

func (d *Director) enterBattle(enemyKey string) {
	d.setPhase(ScreenBattle, PhaseTransitioningIn)
	if err := d.Battle.Begin(d.data, enemyKey); err != nil {
		d.log.WithError(err).Error("battle did not start")
		d.setPhase(ScreenBattle, PhaseIdle)
		d.enterMap()
		return
	}
	d.after(ScreenBattle, func() {
		d.setPhase(ScreenBattle, PhaseActive)
		d.drivers[ScreenBattle].Start()
	})
}

func (d *Director) onEncounter(ev event.Encounter) {
	if d.phases[ScreenMap] != PhaseActive {
		d.log.WithField("enemy", ev.EnemyKey).Warn("encounter outside active map ignored")
		return
	}
	d.setPhase(ScreenMap, PhaseTransitioningOut)
	d.drivers[ScreenMap].Stop()
	d.Map.Suspend()
	d.env.Bus.Publish(event.MapEnd{})
	d.after(ScreenMap, func() {
		d.setPhase(ScreenMap, PhaseIdle)
		d.enterBattle(ev.EnemyKey)
	})
}

func (d *Director) onBattleEnd(ev event.BattleEnd) {
	if d.phases[ScreenBattle] == PhaseIdle || d.phases[ScreenBattle] == PhaseTransitioningOut {
		return
	}
	d.setPhase(ScreenBattle, PhaseTransitioningOut)
	d.drivers[ScreenBattle].Stop()
	d.after(ScreenBattle, func() {
		d.Battle.End()
		d.setPhase(ScreenBattle, PhaseIdle)
		d.enterMap()
	})
}

func (d *Director) onGameOver(ev event.GameOver) {
	d.log.WithField("enemy", ev.EnemyKey).Info("game over")
	d.over = true
	d.drivers[ScreenMap].Stop()
	d.drivers[ScreenBattle].Stop()
	d.epochs[ScreenMap].Bump()
	d.setPhase(ScreenBattle, PhaseTransitioningOut)
	d.after(ScreenBattle, func() {
		d.Battle.End()
		d.setPhase(ScreenBattle, PhaseIdle)
	})
}
