package main

import (
	"errors"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/emgflappy/common"
	"github.com/milk9111/emgflappy/prefabs"
	"github.com/milk9111/emgflappy/render"
	"github.com/milk9111/emgflappy/storage"
	"github.com/milk9111/emgflappy/world"
)

type Game struct {
	world *world.World
	log   *logrus.Entry
	debug bool

	input    *Input
	camera   *render.Camera
	renderer *render.Renderer
	hud      *render.HUD

	pauseUI  *ebitenui.UI
	gameOver bool
	quit     bool

	reload *hotReload

	screenW int
	screenH int
}

func NewGame(w *world.World, spec *prefabs.WorldSpec, logger *logrus.Logger, debug bool) *Game {
	_, vpH := w.Viewport()
	camera := render.NewCamera(common.BaseWidth, common.BaseHeight, vpH)
	camera.Snap(w.ActorPositionX())

	g := &Game{
		world:    w,
		log:      logger.WithField("component", "game"),
		debug:    debug,
		input:    NewInput(),
		camera:   camera,
		renderer: render.NewRenderer(camera, render.PaletteFromSpec(spec.Render)),
		hud:      render.NewHUD(),
		screenW:  common.BaseWidth,
		screenH:  common.BaseHeight,
	}
	g.pauseUI = NewPauseUI(g)

	if debug {
		g.reload = newHotReload(g, spec, logger.WithField("component", "reload"))
	}
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.input.Update()
	if g.input.Quit {
		return ebiten.Termination
	}

	if g.reload != nil {
		g.reload.Poll()
	}

	if g.input.Restart {
		g.restart()
	}
	if g.input.Save {
		g.save()
	}
	if g.input.Load {
		g.load()
	}
	if g.input.Pause && !g.gameOver {
		g.togglePause()
	}

	if g.world.Paused() {
		g.pauseUI.Update()
		return nil
	}

	g.world.SetPressed(g.input.Pressed)
	g.world.Step(1.0 / float64(ebiten.TPS()))
	g.camera.Follow(g.world.ActorPositionX())

	if !g.world.ActorAlive() {
		g.gameOver = true
		g.world.Pause()
		g.pauseUI = NewPauseUI(g)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Begin(screen)
	g.world.Draw(1.0/float64(ebiten.TPS()), g.renderer)

	if g.debug {
		render.DebugDraw(screen, g.world.Simulation(), g.camera)
	}

	g.hud.Draw(screen, g.world.ActorHealth(), g.world.ActorHits(), g.world.Paused())

	if g.world.Paused() {
		g.pauseUI.Draw(screen)
	}
}

// LayoutF keeps the logical height fixed and lets the width follow the
// window's aspect ratio, so a resize changes the viewport width in world
// units.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return float64(g.screenW), float64(g.screenH)
	}
	w := int(math.Round(common.BaseHeight * outsideWidth / outsideHeight))
	if w != g.screenW {
		g.resize(w, common.BaseHeight)
	}
	return float64(g.screenW), float64(g.screenH)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.camera.SetScreenSize(w, h)
	_, vpH := g.world.Viewport()
	g.world.OnViewportChanged(common.ViewportWidth(w, h, vpH), vpH)
	g.pauseUI = NewPauseUI(g)
}

func (g *Game) togglePause() {
	if g.world.Paused() {
		g.world.Resume()
		return
	}
	g.world.Pause()
}

func (g *Game) resume() {
	if g.gameOver {
		return
	}
	g.world.Resume()
}

func (g *Game) restart() {
	if err := g.world.Restart(); err != nil {
		g.log.WithError(err).Error("restart world")
		return
	}
	g.gameOver = false
	g.camera.Snap(g.world.ActorPositionX())
	if g.world.Paused() {
		g.world.Resume()
	}
	g.pauseUI = NewPauseUI(g)
}

func (g *Game) save() {
	if g.gameOver {
		return
	}
	if err := g.world.Save(); err != nil {
		g.log.WithError(err).Error("save world")
		return
	}
	g.log.Info("world saved")
}

func (g *Game) load() {
	if err := g.world.Load(); err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			g.log.Info("no saved world")
			return
		}
		g.log.WithError(err).Error("load world")
		return
	}
	wasOver := g.gameOver
	g.gameOver = !g.world.ActorAlive()
	if wasOver && !g.gameOver {
		g.world.Resume()
	}
	g.camera.Snap(g.world.ActorPositionX())
	g.pauseUI = NewPauseUI(g)
}

func (g *Game) Close() {
	if g.reload != nil {
		g.reload.Close()
	}
}
