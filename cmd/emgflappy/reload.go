package main

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/emgflappy/prefabs"
	"github.com/milk9111/emgflappy/render"
)

// hotReload re-reads world.yaml when it changes on disk and retunes the
// running world. Geometry already generated is kept.
type hotReload struct {
	game    *Game
	log     *logrus.Entry
	watcher *prefabs.Watcher
	specs   *prefabs.WorldSpecTracker
}

func newHotReload(g *Game, spec *prefabs.WorldSpec, log *logrus.Entry) *hotReload {
	w, err := prefabs.NewWatcher("prefabs")
	if err != nil {
		log.WithError(err).Warn("prefab watcher unavailable")
		return nil
	}
	return &hotReload{game: g, log: log, watcher: w, specs: prefabs.NewWorldSpecTracker(spec)}
}

// Poll drains pending watcher events without blocking.
func (r *hotReload) Poll() {
	if r == nil {
		return
	}
	for {
		select {
		case name, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(name) == prefabs.WorldSpecFile {
				r.apply()
			}
		case err, ok := <-r.watcher.Errors:
			if ok && err != nil {
				r.log.WithError(err).Warn("prefab watcher")
			}
			return
		default:
			return
		}
	}
}

// apply retunes the world from a changed world.yaml. Difficulty is only
// touched when the file's value changed, so a -difficulty flag or an
// in-game choice survives unrelated edits.
func (r *hotReload) apply() {
	spec, prev, ok, err := r.specs.Reload()
	if err != nil {
		r.log.WithError(err).Warn("reload world spec")
		return
	}
	if !ok {
		return
	}
	g := r.game
	cfg := configFromSpec(spec, g.screenW, g.screenH)
	g.world.Retune(cfg)
	if prev == nil || spec.Difficulty != prev.Difficulty {
		g.world.SetDifficulty(spec.Difficulty)
	}
	g.renderer.SetPalette(render.PaletteFromSpec(spec.Render))
	r.log.WithFields(logrus.Fields{
		"gravity":    cfg.Gravity,
		"difficulty": g.world.Difficulty(),
	}).Info("prefabs reloaded")
}

func (r *hotReload) Close() {
	if r == nil {
		return
	}
	_ = r.watcher.Close()
}
