package sim

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// Terrain is the ground type under the player for the current tick.
type Terrain uint8

const (
	TerrainPlain Terrain = iota
	TerrainPath
	TerrainForest
)

func (t Terrain) String() string {
	switch t {
	case TerrainPath:
		return "path"
	case TerrainForest:
		return "forest"
	default:
		return "plain"
	}
}

// Trigger windows, in row-major tile indices.
const (
	itemWindow = 2
	healWindow = 1
)

// MapConfig tunes a map session.
type MapConfig struct {
	Canvas          Vec
	TriggerInterval time.Duration
}

// MapStats counts what happened during a session.
type MapStats struct {
	Ticks      int
	Steps      int
	Blocked    int
	Items      int
	Heals      int
	LevelUps   int
	Encounters int
}

// MapSim owns the player, the six tile layers and the trigger throttles for
// one map session.
type MapSim struct {
	env Env
	cfg MapConfig
	log logrus.FieldLogger

	Player     *Player
	Tiles      *TileMap
	Background *Sprite
	Foreground *Sprite
	Input      *Input
	Terrain    Terrain
	Stats      MapStats

	item, water, nap *Throttle
	action           Cooldown

	suspended bool
}

// NewMapSim builds the map session for data on md. The player, background and
// foreground are requested from the asset loader and start pending.
func NewMapSim(env Env, data *content.PlayerData, md content.MapData, cfg MapConfig) (*MapSim, error) {
	env = env.withDefaults()
	if data == nil {
		panic("sim: map session without player data")
	}
	tiles, err := NewTileMap(md)
	if err != nil {
		return nil, err
	}
	if cfg.TriggerInterval <= 0 {
		cfg.TriggerInterval = DefaultTriggerInterval
	}
	m := &MapSim{
		env:        env,
		cfg:        cfg,
		log:        env.Log.WithField("screen", "map"),
		Player:     NewPlayer(data),
		Tiles:      tiles,
		Background: NewSprite(md.Background, md.Offset.X, md.Offset.Y, 1),
		Foreground: NewSprite(md.Foreground, md.Offset.X, md.Offset.Y, 1),
		Input:      NewInput(env.Bus),
		item:       NewThrottle(itemWindow, cfg.TriggerInterval),
		water:      NewThrottle(healWindow, cfg.TriggerInterval),
		nap:        NewThrottle(healWindow, cfg.TriggerInterval),
		action:     Cooldown{Interval: cfg.TriggerInterval},
		suspended:  true,
	}
	p := m.Player
	p.WhenReady(func() {
		p.MoveTo(cfg.Canvas.X/2-p.W/2, cfg.Canvas.Y/2-p.H/2)
	})
	env.Assets.Request(p.Sprite)
	env.Assets.Request(m.Background)
	env.Assets.Request(m.Foreground)
	return m, nil
}

// Ready reports whether every entity the session moves has resolved.
func (m *MapSim) Ready() bool {
	return m.Player.Ready() && m.Background.Ready() && m.Foreground.Ready()
}

// Suspended reports whether the session is parked behind a battle.
func (m *MapSim) Suspended() bool { return m.suspended }

// Suspend parks the session. Updates are ignored until Resume.
func (m *MapSim) Suspend() {
	m.suspended = true
	m.Player.Stop()
	m.Input.Clear()
}

// Resume re-enters the map: clears stale input, restarts the shared cooldown,
// re-checks the level-up condition and publishes MapStart.
func (m *MapSim) Resume() {
	m.suspended = false
	m.Input.Clear()
	m.action.Mark(m.env.Clock.Now())
	m.env.Bus.Publish(event.MapStart{})
	if m.Player.TryLevelUp() {
		m.Stats.LevelUps++
		m.env.Bus.Publish(event.LevelUp{Lv: m.Player.Data.Lv})
	}
}

// Close releases the bus subscriptions of the session.
func (m *MapSim) Close() { m.Input.Close() }

// Update runs one fixed simulation tick.
func (m *MapSim) Update() {
	if m.suspended || !m.Ready() {
		return
	}
	m.Stats.Ticks++
	p := m.Player
	stepped := false

	switch dir, held := m.Input.Active(); {
	case p.MidStep():
		if m.move() && p.StepDone() {
			p.CompleteStep()
			stepped = true
		}
	case held:
		p.ChangeDirection(dir)
		m.move()
	default:
		p.Stop()
	}

	m.updateTerrain()
	p.Animate()

	now := m.env.Clock.Now()
	if p.Moving {
		m.checkTriggers(now)
	}
	if stepped {
		m.afterStep(now)
	}
}

// move tests the next offset against the collision layer and either scrolls
// the world or stops the player.
func (m *MapSim) move() bool {
	p := m.Player
	off := p.PeekNextStepOffset()
	if m.Tiles.Blocked(p.Rect, off) {
		m.Stats.Blocked++
		p.Stop()
		return false
	}
	m.shift(-off.X, -off.Y)
	p.AdvanceStep()
	return true
}

func (m *MapSim) shift(dx, dy float64) {
	m.Background.Shift(dx, dy)
	m.Foreground.Shift(dx, dy)
	m.Tiles.Shift(dx, dy)
}

func (m *MapSim) updateTerrain() {
	r := m.Player.Rect
	switch {
	case m.hit(LayerPath, r):
		m.Terrain, m.Player.Velocity = TerrainPath, SpeedPath
	case m.hit(LayerForest, r):
		m.Terrain, m.Player.Velocity = TerrainForest, SpeedForest
	default:
		m.Terrain, m.Player.Velocity = TerrainPlain, SpeedDefault
	}
}

func (m *MapSim) hit(l Layer, r Rect) bool {
	_, ok := m.Tiles.FirstHit(l, r)
	return ok
}

// checkTriggers runs item, water and nap zones in that order. The first one
// that fires ends the checks for this tick.
func (m *MapSim) checkTriggers(now time.Time) bool {
	p := m.Player
	if b, ok := m.Tiles.FirstHit(LayerItem, p.Rect); ok && !m.item.Blocked(b.Index, now) {
		if key, ok := m.pickItem(); ok && p.CollectItem(key) {
			m.fired(m.item, b.Index, now)
			m.Stats.Items++
			m.log.WithField("item", key).Debug("item found")
			m.env.Bus.Publish(event.ItemGet{Key: key, Name: m.env.DB.ItemName(key)})
			return true
		}
	}
	if p.Data.Full() {
		return false
	}
	if m.heal(LayerWater, m.water, 1, "water", now) {
		return true
	}
	return m.heal(LayerNap, m.nap, 2, "nap", now)
}

func (m *MapSim) heal(l Layer, t *Throttle, amount int, source string, now time.Time) bool {
	b, ok := m.Tiles.FirstHit(l, m.Player.Rect)
	if !ok || t.Blocked(b.Index, now) {
		return false
	}
	ch, ok := m.Player.GainHP(amount)
	if !ok {
		m.log.WithField("source", source).Warn("recover hp rejected")
		return false
	}
	m.fired(t, b.Index, now)
	m.Stats.Heals++
	m.env.Bus.Publish(event.RecoverHP{Amount: ch.Amount, HP: ch.HP, Source: source})
	return true
}

func (m *MapSim) fired(t *Throttle, idx int, now time.Time) {
	t.Mark(idx, now)
	m.action.Mark(now)
}

// pickItem draws a random item of the player's level that is not owned yet.
func (m *MapSim) pickItem() (string, bool) {
	var pool []string
	for _, k := range m.env.DB.ItemPool(m.Player.Data.Lv) {
		if !m.Player.Owns(k) {
			pool = append(pool, k)
		}
	}
	if len(pool) == 0 {
		return "", false
	}
	return pool[m.env.Rand.Intn(len(pool))], true
}

// afterStep publishes the step, then either levels up or rolls an encounter.
func (m *MapSim) afterStep(now time.Time) {
	p := m.Player
	m.Stats.Steps++
	m.env.Bus.Publish(event.Step{Step: p.Data.Step})

	if p.TryLevelUp() {
		m.Stats.LevelUps++
		m.log.WithField("lv", p.Data.Lv).Info("level up")
		m.env.Bus.Publish(event.LevelUp{Lv: p.Data.Lv})
		return
	}
	if m.Terrain == TerrainPath || m.action.Active(now) {
		return
	}
	rate := p.Data.RateEncounter
	if m.Terrain == TerrainForest {
		rate *= 2
	}
	if m.env.Rand.Float64() >= rate {
		return
	}
	key, ok := m.pickEnemy()
	if !ok {
		return
	}
	p.Stop()
	m.Input.Clear()
	m.suspended = true
	m.Stats.Encounters++
	m.log.WithFields(logrus.Fields{"enemy": key, "step": p.Data.Step}).Info("encounter")
	m.env.Bus.Publish(event.Encounter{EnemyKey: key})
}

func (m *MapSim) pickEnemy() (string, bool) {
	pool, err := m.env.DB.EnemyPool(m.Player.Data.Lv)
	if err != nil {
		m.log.WithError(err).Warn("no enemy for level")
		return "", false
	}
	return pool[m.env.Rand.Intn(len(pool))], true
}

// Render paints background, the six debug layers, the player and the
// foreground, in that order.
func (m *MapSim) Render(r Renderer) {
	r.DrawSprite(m.Background)
	for l := Layer(0); l < layerCount; l++ {
		for _, b := range m.Tiles.Layer(l) {
			r.DrawBoundary(l, b)
		}
	}
	r.DrawSprite(m.Player.Sprite)
	r.DrawSprite(m.Foreground)
}
