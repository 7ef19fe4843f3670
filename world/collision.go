package world

import (
	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/physics"
)

// contactRecorder turns simulation callbacks into buffered ECS events. The
// resolver consumes them after the step that raised them.
type contactRecorder struct {
	reg *Registry
}

func (c *contactRecorder) BeginContact(a, b physics.BodyHandle) {
	c.push(ecs.ContactBegin, a, b)
}

func (c *contactRecorder) EndContact(a, b physics.BodyHandle) {
	c.push(ecs.ContactEnd, a, b)
}

func (c *contactRecorder) push(kind ecs.ContactEventKind, a, b physics.BodyHandle) {
	ea, okA := c.reg.EntityForBody(a)
	eb, okB := c.reg.EntityForBody(b)
	if !okA || !okB {
		return
	}
	actor := c.reg.Actor()
	switch actor {
	case ea:
	case eb:
		ea, eb = eb, ea
	default:
		return
	}
	c.reg.World().Events().Push(ecs.Event{
		Type: string(kind),
		Data: ecs.ContactEvent{Actor: ea, Other: eb},
	})
}

// CollisionResolver drives the actor's damage state machine: Clear, or
// Colliding with one obstacle. Time is simulation time, so a paused world
// accumulates nothing.
type CollisionResolver struct {
	reg      *Registry
	damage   int
	interval float64
	flash    float64
}

func NewCollisionResolver(reg *Registry, damage int, interval, flash float64) *CollisionResolver {
	return &CollisionResolver{
		reg:      reg,
		damage:   damage,
		interval: interval,
		flash:    flash,
	}
}

// Update advances the damage timer of the current contact by dt, then
// applies the contact events buffered since the last update.
func (c *CollisionResolver) Update(w *ecs.World, dt float64) {
	actor, ok := ecs.Get(w, c.reg.Actor(), component.ActorComponent.Kind())
	if !ok {
		w.Events().Flush()
		return
	}

	if actor.Colliding {
		if !ecs.IsAlive(w, ecs.Entity(actor.Hazard)) {
			c.clear(actor)
		} else if dt > 0 {
			actor.SinceTick += dt
			for actor.SinceTick >= c.interval {
				actor.SinceTick -= c.interval
				if c.canDamage(w, ecs.Entity(actor.Hazard)) {
					c.tick(actor)
				}
			}
		}
	}

	for _, evt := range w.Events().Drain() {
		contact, ok := evt.Data.(ecs.ContactEvent)
		if !ok || contact.Actor != c.reg.Actor() {
			continue
		}
		switch ecs.ContactEventKind(evt.Type) {
		case ecs.ContactBegin:
			actor.Colliding = true
			actor.Hazard = uint64(contact.Other)
			actor.SinceTick = 0
			if c.canDamage(w, contact.Other) {
				c.tick(actor)
			}
		case ecs.ContactEnd:
			if actor.Colliding && actor.Hazard == uint64(contact.Other) {
				c.clear(actor)
			}
		}
	}
}

func (c *CollisionResolver) canDamage(w *ecs.World, e ecs.Entity) bool {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok {
		return false
	}
	if obs.Kind == component.ObstacleTunnel {
		hz, _ := ecs.Get(w, e, component.HazardComponent.Kind())
		return hz.CanDamage()
	}
	return true
}

func (c *CollisionResolver) tick(actor *component.Actor) {
	actor.Health -= c.damage
	actor.Hits++
	if actor.FlashTime <= 0 {
		actor.FlashTime = c.flash
	}
}

func (c *CollisionResolver) clear(actor *component.Actor) {
	actor.Colliding = false
	actor.Hazard = 0
	actor.SinceTick = 0
}
