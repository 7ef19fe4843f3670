package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/physics"
)

type ActorParams struct {
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Density   float64
	Health    int
	MaxHealth int
}

func ActorBodySpec(p ActorParams, e ecs.Entity) physics.BodySpec {
	cx, cy := CenterOf(p.X, p.Y, p.Width, p.Height)
	return physics.BodySpec{
		Type:     physics.BodyDynamic,
		Category: physics.CategoryActor,
		X:        cx,
		Y:        cy,
		Width:    p.Width,
		Height:   p.Height,
		Density:  p.Density,
		UserData: e,
	}
}

// NewActor creates the flyer. A MaxHealth of zero means unbounded health.
// Health is taken as given so that loaded actors keep their saved value.
func NewActor(w *ecs.World, sim *physics.Simulation, p ActorParams) (ecs.Entity, error) {
	if p.MaxHealth <= 0 {
		p.MaxHealth = math.MaxInt
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: p.X, Y: p.Y}); err != nil {
		return 0, fmt.Errorf("actor: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ActorComponent.Kind(), &component.Actor{
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
	}); err != nil {
		return 0, fmt.Errorf("actor: add actor: %w", err)
	}

	h := sim.CreateBody(ActorBodySpec(p, e))
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Handle: h,
		Width:  p.Width,
		Height: p.Height,
	}); err != nil {
		sim.DestroyBody(h)
		return 0, fmt.Errorf("actor: add body: %w", err)
	}
	return e, nil
}

func ActorPosition(cx, cy float64, body *component.PhysicsBody) (float64, float64) {
	return CornerOf(cx, cy, body.Width, body.Height)
}
