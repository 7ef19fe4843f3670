package main

import (
	"flag"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/emgflappy/common"
	"github.com/milk9111/emgflappy/prefabs"
	"github.com/milk9111/emgflappy/storage"
	"github.com/milk9111/emgflappy/world"
)

func main() {
	seed := flag.Uint64("seed", 0, "world seed (0 uses world.yaml, then the clock)")
	load := flag.Bool("load", false, "restore the saved world on start")
	difficulty := flag.Int("difficulty", 0, "difficulty 1-3 (0 uses world.yaml)")
	debug := flag.Bool("debug", false, "enable debug drawing and prefab hot reload")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL or info")
	saveDir := flag.String("save-dir", "saves", "directory for save slots")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := newLogger(*logLevel)
	log := logger.WithField("component", "main")

	spec, err := prefabs.LoadWorldSpec()
	if err != nil {
		log.WithError(err).Fatal("load world spec")
	}

	cfg := configFromSpec(spec, common.BaseWidth, common.BaseHeight)
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if *difficulty != 0 {
		cfg.Difficulty = *difficulty
	}
	cfg.TryLoad = *load

	w, err := world.New(cfg,
		world.WithLogger(logger.WithField("component", "world")),
		world.WithStore(storage.NewFileStore(*saveDir)),
	)
	if err != nil {
		log.WithError(err).Fatal("create world")
	}
	defer w.Close()

	log.WithFields(logrus.Fields{
		"seed":       cfg.Seed,
		"difficulty": w.Difficulty(),
	}).Info("world ready")

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("EMGflappy")

	game := NewGame(w, spec, logger, *debug)
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.WithError(err).Fatal("run game")
	}
}
