package render

import (
	"github.com/milk9111/emgflappy/common"
)

// Camera maps world units (y up) to screen pixels (y down). It follows the
// actor horizontally and keeps the whole viewport height on screen.
type Camera struct {
	// X is the world x at the left edge of the screen.
	X float64

	screenW int
	screenH int
	worldH  float64
	// lead is the fraction of the screen kept ahead of the actor
	lead   float64
	smooth float64
}

func NewCamera(screenW, screenH int, worldH float64) *Camera {
	return &Camera{
		screenW: screenW,
		screenH: screenH,
		worldH:  worldH,
		lead:    0.25,
		smooth:  0.2,
	}
}

// SetScreenSize updates the logical screen size.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW, c.screenH = w, h
}

func (c *Camera) ScreenSize() (int, int) {
	return c.screenW, c.screenH
}

// Scale is pixels per world unit.
func (c *Camera) Scale() float64 {
	if c.worldH <= 0 {
		return 1
	}
	return float64(c.screenH) / c.worldH
}

// ViewportWidth is the visible width in world units.
func (c *Camera) ViewportWidth() float64 {
	return common.ViewportWidth(c.screenW, c.screenH, c.worldH)
}

// Follow eases the camera toward keeping actorX at the lead position.
func (c *Camera) Follow(actorX float64) {
	target := actorX - c.lead*c.ViewportWidth()
	c.X = common.Lerp(c.X, target, c.smooth)
}

// Snap moves the camera to its target immediately.
func (c *Camera) Snap(actorX float64) {
	c.X = actorX - c.lead*c.ViewportWidth()
}

// ToScreen converts a world point to screen pixels.
func (c *Camera) ToScreen(x, y float64) (float64, float64) {
	s := c.Scale()
	return (x - c.X) * s, float64(c.screenH) - y*s
}

// RectToScreen converts a world box given by its bottom-left corner to a
// screen rectangle given by its top-left corner.
func (c *Camera) RectToScreen(x, y, w, h float64) (float32, float32, float32, float32) {
	sx, sy := c.ToScreen(x, y+h)
	s := c.Scale()
	return float32(sx), float32(sy), float32(w * s), float32(h * s)
}
