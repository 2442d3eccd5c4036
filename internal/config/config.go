// Package config holds the runtime settings of the game and its tools.
//
// Values come from defaults, then COCKTAIL_* and LOG_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

// Config is the full set of runtime settings.
type Config struct {
	FPS             int
	Width, Height   int
	Transition      time.Duration
	TriggerInterval time.Duration
	DialogDelay     time.Duration

	ContentDir string // empty uses the embedded content
	TMXPath    string // optional Tiled map replacing the content map layers
	SavePath   string
	Variant    string
	New        bool   // discard the previous save
	PatchPath  string // optional JSON object merged into the starting record
	Seed       int64

	LogLevel  string
	LogFormat string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FPS:             60,
		Width:           1024,
		Height:          576,
		Transition:      sim.DefaultTransition,
		TriggerInterval: sim.DefaultTriggerInterval,
		DialogDelay:     sim.DefaultDialogDelay,
		SavePath:        "cocktail-quest.save.json",
		Variant:         "bartender",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load builds the settings from the environment and args (without the program name).
func Load(name string, args []string) (Config, error) {
	cfg := Default()
	if err := cfg.fromEnv(); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "simulation updates per second")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "canvas width in px")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "canvas height in px")
	fs.DurationVar(&cfg.Transition, "transition", cfg.Transition, "screen fade duration")
	fs.DurationVar(&cfg.TriggerInterval, "trigger-interval", cfg.TriggerInterval, "zone trigger cooldown")
	fs.DurationVar(&cfg.DialogDelay, "dialog-delay", cfg.DialogDelay, "delay between battle dialog lines")
	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "content directory (default: embedded)")
	fs.StringVar(&cfg.TMXPath, "tmx", cfg.TMXPath, "Tiled .tmx map to load the tile layers from")
	fs.StringVar(&cfg.SavePath, "save", cfg.SavePath, "save file path")
	fs.StringVar(&cfg.Variant, "player", cfg.Variant, "player variant for a new game")
	fs.BoolVar(&cfg.New, "new", cfg.New, "start a new game instead of continuing")
	fs.StringVar(&cfg.PatchPath, "patch", cfg.PatchPath, "JSON patch applied to the starting player record")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (0 = time based)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	return cfg, cfg.Validate()
}

func (c *Config) fromEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("COCKTAIL_CONTENT_DIR", &c.ContentDir)
	str("COCKTAIL_TMX", &c.TMXPath)
	str("COCKTAIL_SAVE", &c.SavePath)
	str("COCKTAIL_PLAYER", &c.Variant)
	str("COCKTAIL_PATCH", &c.PatchPath)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := os.LookupEnv("COCKTAIL_FPS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COCKTAIL_FPS: %w", err)
		}
		c.FPS = n
	}
	if v, ok := os.LookupEnv("COCKTAIL_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("COCKTAIL_SEED: %w", err)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv("COCKTAIL_TRANSITION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("COCKTAIL_TRANSITION: %w", err)
		}
		c.Transition = d
	}
	return nil
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d out of range 1..240", c.FPS))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas %dx%d must be positive", c.Width, c.Height))
	}
	if c.Transition < 0 {
		errs = append(errs, errors.New("transition must not be negative"))
	}
	if c.TriggerInterval <= 0 {
		errs = append(errs, errors.New("trigger interval must be positive"))
	}
	if c.DialogDelay <= 0 {
		errs = append(errs, errors.New("dialog delay must be positive"))
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log format %q: want text or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Sim returns the simulation tuning.
func (c Config) Sim() sim.Config {
	sc := sim.DefaultConfig()
	sc.FPS = c.FPS
	sc.Canvas = sim.Vec{X: float64(c.Width), Y: float64(c.Height)}
	sc.Transition = c.Transition
	sc.TriggerInterval = c.TriggerInterval
	sc.DialogDelay = c.DialogDelay
	return sc
}
