package sim

import (
	"io"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// Harness is a headless session on a manual clock. It mirrors the shell's
// frame loop with no ebiten dependency and is used by tests and the headless
// report.
type Harness struct {
	*World
	Clock    *event.ManualClock
	Recorder *event.Recorder
	Renderer *RecordingRenderer
	Assets   *InstantAssets
	SimLog   *SimLog

	db      *content.Database
	md      *content.MapData
	variant string
	cfg     Config
	seed    int64
	log     logrus.FieldLogger
	verbose bool
	players []func(*content.PlayerData)

	frame     int
	frameStep time.Duration
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return func(h *Harness) { h.seed = seed }
}

// WithDatabase replaces the embedded content.
func WithDatabase(db *content.Database) HarnessOption {
	return func(h *Harness) { h.db = db }
}

// WithMap replaces the content map.
func WithMap(md content.MapData) HarnessOption {
	return func(h *Harness) { h.md = &md }
}

// WithVariant picks the player variant.
func WithVariant(v string) HarnessOption {
	return func(h *Harness) { h.variant = v }
}

// WithConfig replaces the tuning.
func WithConfig(cfg Config) HarnessOption {
	return func(h *Harness) { h.cfg = cfg }
}

// WithLogger routes logs somewhere other than io.Discard.
func WithLogger(log logrus.FieldLogger) HarnessOption {
	return func(h *Harness) { h.log = log }
}

// WithVerbose also records key and dialog events in SimLog.
func WithVerbose(v bool) HarnessOption {
	return func(h *Harness) { h.verbose = v }
}

// WithPlayer edits the player record before the session is built.
func WithPlayer(fn func(*content.PlayerData)) HarnessOption {
	return func(h *Harness) { h.players = append(h.players, fn) }
}

// WithRateEncounter sets the player's encounter probability per step.
func WithRateEncounter(rate float64) HarnessOption {
	return WithPlayer(func(p *content.PlayerData) { p.RateEncounter = rate })
}

// WithItems replaces the player's bag.
func WithItems(keys ...string) HarnessOption {
	return WithPlayer(func(p *content.PlayerData) { p.Item = append([]string(nil), keys...) })
}

// WithHP sets the player's current HP.
func WithHP(hp int) HarnessOption {
	return WithPlayer(func(p *content.PlayerData) { p.HP = hp })
}

// NewHarness builds and starts a session. The map begins transitioning in.
func NewHarness(opts ...HarnessOption) (*Harness, error) {
	h := &Harness{
		variant: "bartender",
		cfg:     DefaultConfig(),
		seed:    1,
	}
	for _, o := range opts {
		o(h)
	}
	if h.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		h.log = l
	}
	if h.db == nil {
		db, err := content.Default()
		if err != nil {
			return nil, err
		}
		h.db = db
	}
	md := h.db.Map
	if h.md != nil {
		md = *h.md
	}
	data, err := h.db.Player(h.variant)
	if err != nil {
		return nil, err
	}
	for _, fn := range h.players {
		fn(data)
	}

	h.Clock = event.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	bus := event.NewBus(h.log)
	h.Recorder = event.Record(bus)
	h.SimLog = NewSimLog(h.verbose)
	h.SimLog.Attach(bus, func() int { return h.frame })
	h.Renderer = &RecordingRenderer{}
	cols := md.Columns
	if cols <= 0 {
		cols = RowWidth
	}
	h.Assets = &InstantAssets{Sizes: DefaultSizes(Vec{X: float64(cols) * CellSize, Y: float64(md.Rows()) * CellSize})}

	env := Env{
		Bus:    bus,
		Sched:  event.NewScheduler(h.Clock),
		Clock:  h.Clock,
		DB:     h.db,
		Assets: h.Assets,
		Rand:   rand.New(rand.NewSource(h.seed)), // #nosec G404 -- test harness
		Log:    h.log,
	}
	w, err := NewWorld(env, data, md, h.cfg, h.Renderer)
	if err != nil {
		return nil, err
	}
	h.World = w
	h.frameStep = w.Director.Driver(ScreenMap).Interval()
	w.Director.Start()
	return h, nil
}

// Bus returns the session bus.
func (h *Harness) Bus() *event.Bus { return h.Env.Bus }

// Player returns the map player.
func (h *Harness) Player() *Player { return h.Map.Player }

// FrameCount returns the number of frames run.
func (h *Harness) FrameCount() int { return h.frame }

// Frame advances the clock by one update interval and runs one animation callback.
func (h *Harness) Frame() int {
	h.frame++
	h.Clock.Advance(h.frameStep)
	return h.Director.Frame()
}

// RunFrames runs n frames.
func (h *Harness) RunFrames(n int) {
	for i := 0; i < n; i++ {
		h.Frame()
	}
}

// Wait runs frames until at least d of clock time has passed.
func (h *Harness) Wait(d time.Duration) {
	end := h.Clock.Now().Add(d)
	for h.Clock.Now().Before(end) {
		h.Frame()
	}
}

// RunUntil runs up to maxFrames, stopping once pred holds. It returns the
// frame at which pred was satisfied, or -1.
func (h *Harness) RunUntil(pred func(*Harness) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		h.Frame()
		if pred(h) {
			return h.frame
		}
	}
	return -1
}

// Press publishes a key-down for d.
func (h *Harness) Press(d Direction) { h.Env.Bus.Publish(event.Key{Dir: d, Pressed: true}) }

// Release publishes a key-up for d.
func (h *Harness) Release(d Direction) { h.Env.Bus.Publish(event.Key{Dir: d}) }

// Mix publishes the mix action.
func (h *Harness) Mix(items ...string) { h.Env.Bus.Publish(event.Mix{Items: items}) }

// Run publishes the run action.
func (h *Harness) Run() { h.Env.Bus.Publish(event.Run{}) }

// Snapshot is a lightweight summary of the session at a frame.
type Snapshot struct {
	Frame    int
	Screen   Screen
	MapPhase Phase
	Battle   BattlePhase
	Step     int
	Lv       int
	HP       int
	Items    int
	Beat     int
}

// Snapshot captures the current state.
func (h *Harness) Snapshot() Snapshot {
	return Snapshot{
		Frame:    h.frame,
		Screen:   h.Director.Current(),
		MapPhase: h.Director.Phase(ScreenMap),
		Battle:   h.Battle.Phase(),
		Step:     h.Data.Step,
		Lv:       h.Data.Lv,
		HP:       h.Data.HP,
		Items:    len(h.Data.Item),
		Beat:     h.Data.Beat,
	}
}
