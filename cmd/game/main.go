package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/config"
	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/game"
	"github.com/Garsondee/Cocktail-Quest/internal/logging"
	"github.com/Garsondee/Cocktail-Quest/internal/save"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logging.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := loadContent(cfg)
	if err != nil {
		log.WithError(err).Fatal("content")
	}
	md := db.Map
	if cfg.TMXPath != "" {
		md, err = content.LoadTMX(cfg.TMXPath, db.Map)
		if err != nil {
			log.WithError(err).Fatal("tmx map")
		}
	}

	g, err := game.New(game.Options{
		Config: cfg,
		DB:     db,
		Map:    md,
		Store:  save.NewStore(cfg.SavePath, log),
		Log:    log,
	})
	if err != nil {
		log.WithError(err).Fatal("start")
	}

	ebiten.SetWindowTitle("Cocktail Quest")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)
	runErr := ebiten.RunGame(g)
	g.Shutdown()
	if runErr != nil {
		log.WithError(runErr).Fatal("run")
	}
}

func loadContent(cfg config.Config) (*content.Database, error) {
	if cfg.ContentDir != "" {
		return content.LoadDir(cfg.ContentDir)
	}
	return content.Default()
}
