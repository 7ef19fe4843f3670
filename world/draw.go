package world

import "github.com/milk9111/emgflappy/ecs/component"

// Renderer is the passive draw target. The world calls it once per visible
// entity; boundaries are never drawn.
type Renderer interface {
	DrawObstacle(v ObstacleView)
	DrawActor(v ActorView)
}

type ObstacleView struct {
	Kind    component.ObstacleKind
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Flipped bool
	// Active is only meaningful for tunnels.
	Active bool
}

type ActorView struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Frame  int
	Flash  bool
}
