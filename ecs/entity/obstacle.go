package entity

import (
	"fmt"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/physics"
)

// ObstacleParams places one static obstacle. X and Y are the bottom-left
// corner in world units.
type ObstacleParams struct {
	Kind    component.ObstacleKind
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Flipped bool
}

// RightEdge is the x coordinate of the obstacle's right side.
func (p ObstacleParams) RightEdge() float64 {
	return p.X + p.Width
}

// ObstacleBodySpec returns the static body for an obstacle. Tunnels are
// sensors: they report contacts but never block the actor.
func ObstacleBodySpec(p ObstacleParams, e ecs.Entity) physics.BodySpec {
	cx, cy := CenterOf(p.X, p.Y, p.Width, p.Height)
	spec := physics.BodySpec{
		Type:     physics.BodyStatic,
		Category: physics.CategoryObstacle,
		X:        cx,
		Y:        cy,
		Width:    p.Width,
		Height:   p.Height,
		UserData: e,
	}
	if p.Kind == component.ObstacleTunnel {
		spec.Category = physics.CategoryHazard
		spec.Sensor = true
	}
	return spec
}

// NewObstacle creates an obstacle entity and its paired body.
func NewObstacle(w *ecs.World, sim *physics.Simulation, p ObstacleParams) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: p.X, Y: p.Y}); err != nil {
		return 0, fmt.Errorf("obstacle: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{
		Kind:    p.Kind,
		Height:  p.Height,
		Flipped: p.Flipped,
	}); err != nil {
		return 0, fmt.Errorf("obstacle: add obstacle: %w", err)
	}
	if p.Kind == component.ObstacleTunnel {
		if err := ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{}); err != nil {
			return 0, fmt.Errorf("obstacle: add hazard: %w", err)
		}
	}

	h := sim.CreateBody(ObstacleBodySpec(p, e))
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Handle: h,
		Width:  p.Width,
		Height: p.Height,
	}); err != nil {
		sim.DestroyBody(h)
		return 0, fmt.Errorf("obstacle: add body: %w", err)
	}
	return e, nil
}

// ObstaclePosition converts a body center back into the obstacle's corner.
func ObstaclePosition(cx, cy float64, body *component.PhysicsBody) (float64, float64) {
	return CornerOf(cx, cy, body.Width, body.Height)
}
