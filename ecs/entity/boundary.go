package entity

import (
	"fmt"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/physics"
)

// NewBoundary creates an invisible static wall whose bottom-left corner is
// (x, y). Boundaries are never drawn, persisted or culled.
func NewBoundary(w *ecs.World, sim *physics.Simulation, x, y, width, thickness float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("boundary: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.BoundaryTagComponent.Kind(), &component.BoundaryTag{}); err != nil {
		return 0, fmt.Errorf("boundary: add tag: %w", err)
	}

	cx, cy := CenterOf(x, y, width, thickness)
	h := sim.CreateBody(physics.BodySpec{
		Type:     physics.BodyStatic,
		Category: physics.CategoryBoundary,
		X:        cx,
		Y:        cy,
		Width:    width,
		Height:   thickness,
		UserData: e,
	})
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Handle: h,
		Width:  width,
		Height: thickness,
	}); err != nil {
		sim.DestroyBody(h)
		return 0, fmt.Errorf("boundary: add body: %w", err)
	}
	return e, nil
}
