package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the per-frame controls. Pressed is the propulsion signal;
// the rest are edge-triggered actions.
type Input struct {
	Pressed bool

	Pause   bool
	Restart bool
	Save    bool
	Load    bool
	Quit    bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls keyboard, mouse and the first gamepad.
func (i *Input) Update() {
	i.Pressed = ebiten.IsKeyPressed(ebiten.KeySpace) ||
		ebiten.IsKeyPressed(ebiten.KeyUp) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	i.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	i.Restart = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.Save = inpututil.IsKeyJustPressed(ebiten.KeyF5)
	i.Load = inpututil.IsKeyJustPressed(ebiten.KeyF9)
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyF12)

	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return
	}
	gid := ids[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(gid) {
		return
	}

	if ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightBottom) ||
		ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical) < -0.5 {
		i.Pressed = true
	}
	if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight) {
		i.Pause = true
	}
	if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterLeft) {
		i.Restart = true
	}
}
