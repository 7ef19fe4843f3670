package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// HUD draws the health and hit counters in the top-left corner.
type HUD struct {
	face ebtext.Face
}

func NewHUD() *HUD {
	return &HUD{face: ebtext.NewGoXFace(basicfont.Face7x13)}
}

func (h *HUD) Draw(screen *ebiten.Image, health, hits int, paused bool) {
	if screen == nil {
		return
	}
	healthText := fmt.Sprintf("%d", health)
	if health == math.MaxInt {
		healthText = "inf"
	}
	lines := []string{
		"Health: " + healthText,
		fmt.Sprintf("Hits:   %d", hits),
	}
	if paused {
		lines = append(lines, "PAUSED")
	}
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(12, 12+float64(i)*16)
		op.ColorScale.ScaleWithColor(color.White)
		ebtext.Draw(screen, line, h.face, op)
	}
}
