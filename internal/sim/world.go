package sim

import (
	"time"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
)

// Config is the tuning shared by every part of a World.
type Config struct {
	FPS             int
	Canvas          Vec
	Transition      time.Duration
	TriggerInterval time.Duration
	DialogDelay     time.Duration
	EndDelay        time.Duration
}

// DefaultConfig returns the browser-canvas defaults.
func DefaultConfig() Config {
	return Config{
		FPS:             60,
		Canvas:          Vec{X: 1024, Y: 576},
		Transition:      DefaultTransition,
		TriggerInterval: DefaultTriggerInterval,
		DialogDelay:     DefaultDialogDelay,
		EndDelay:        DefaultEndDelay,
	}
}

// World is one play session: the player record, both screens and the
// director switching between them.
type World struct {
	Env      Env
	Data     *content.PlayerData
	Map      *MapSim
	Battle   *BattleSim
	Director *Director
}

// NewWorld assembles a session for data on md. Nothing runs until
// Director.Start.
func NewWorld(env Env, data *content.PlayerData, md content.MapData, cfg Config, r Renderer) (*World, error) {
	env = env.withDefaults()
	m, err := NewMapSim(env, data, md, MapConfig{Canvas: cfg.Canvas, TriggerInterval: cfg.TriggerInterval})
	if err != nil {
		return nil, err
	}
	b := NewBattleSim(env, BattleConfig{Canvas: cfg.Canvas, DialogDelay: cfg.DialogDelay, EndDelay: cfg.EndDelay})
	return &World{
		Env:      env,
		Data:     data,
		Map:      m,
		Battle:   b,
		Director: NewDirector(env, cfg.FPS, cfg.Transition, r, data, m, b),
	}, nil
}

// Close detaches the session from the bus.
func (w *World) Close() {
	w.Director.Close()
	w.Battle.Close()
	w.Map.Close()
}
