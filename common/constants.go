package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// WorldHeight is the viewport height in world units. The viewport width
	// follows the aspect ratio of the screen.
	WorldHeight = 50.0
)

// ViewportWidth returns the viewport width in world units for a screen of
// the given size.
func ViewportWidth(screenW, screenH int, worldH float64) float64 {
	if screenH <= 0 {
		return worldH * BaseWidth / BaseHeight
	}
	return worldH * float64(screenW) / float64(screenH)
}
