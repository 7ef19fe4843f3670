package world

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/ecs/entity"
	"github.com/milk9111/emgflappy/physics"
)

// Registry owns the logical entities and their pairing with simulation
// bodies. It is the only code that creates or destroys bodies.
type Registry struct {
	ecs *ecs.World
	sim *physics.Simulation
	log *logrus.Entry

	// obstacles in generation order, ascending x
	obstacles  []ecs.Entity
	actor      ecs.Entity
	boundaries []ecs.Entity
	byBody     map[physics.BodyHandle]ecs.Entity
}

func NewRegistry(w *ecs.World, sim *physics.Simulation, log *logrus.Entry) *Registry {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{
		ecs:    w,
		sim:    sim,
		log:    log,
		byBody: make(map[physics.BodyHandle]ecs.Entity),
	}
}

// SpawnObstacle registers an obstacle and its body at the end of the
// sequence.
func (r *Registry) SpawnObstacle(p entity.ObstacleParams) (ecs.Entity, error) {
	e, err := entity.NewObstacle(r.ecs, r.sim, p)
	if err != nil {
		return 0, fmt.Errorf("registry: spawn %s obstacle: %w", p.Kind, err)
	}
	r.link(e)
	r.obstacles = append(r.obstacles, e)
	return e, nil
}

// SpawnActor replaces the actor, if any.
func (r *Registry) SpawnActor(p entity.ActorParams) (ecs.Entity, error) {
	if r.actor.Valid() {
		r.destroy(r.actor)
		r.actor = 0
	}
	e, err := entity.NewActor(r.ecs, r.sim, p)
	if err != nil {
		return 0, fmt.Errorf("registry: spawn actor: %w", err)
	}
	r.link(e)
	r.actor = e
	return e, nil
}

// SpawnBoundaries creates the floor just below y=0 and the ceiling at the
// viewport top, replacing existing ones.
func (r *Registry) SpawnBoundaries(width, thickness, vpH float64) error {
	for _, e := range r.boundaries {
		r.destroy(e)
	}
	r.boundaries = r.boundaries[:0]

	for _, y := range []float64{-thickness, vpH} {
		e, err := entity.NewBoundary(r.ecs, r.sim, -width/2, y, width, thickness)
		if err != nil {
			return fmt.Errorf("registry: spawn boundary: %w", err)
		}
		r.link(e)
		r.boundaries = append(r.boundaries, e)
	}
	return nil
}

// SyncFromPhysics copies body positions back into transforms using each
// entity type's own corner convention.
func (r *Registry) SyncFromPhysics() {
	ecs.ForEach2(r.ecs, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, tr *component.Transform, body *component.PhysicsBody) {
		center, ok := r.sim.Position(body.Handle)
		if !ok {
			return
		}
		switch {
		case e == r.actor:
			tr.X, tr.Y = entity.ActorPosition(center.X, center.Y, body)
		case ecs.Has(r.ecs, e, component.ObstacleComponent.Kind()):
			tr.X, tr.Y = entity.ObstaclePosition(center.X, center.Y, body)
		}
	})
}

// Cull removes obstacles from the front of the sequence whose right edge is
// more than trailing behind actorX. Bodies go first. It returns how many
// entities were removed.
func (r *Registry) Cull(trailing, actorX float64) int {
	n := 0
	for n < len(r.obstacles) {
		e := r.obstacles[n]
		right, ok := r.rightEdge(e)
		if ok && right+trailing >= actorX {
			break
		}
		r.destroy(e)
		n++
	}
	if n == 0 {
		return 0
	}
	r.obstacles = append(r.obstacles[:0], r.obstacles[n:]...)
	r.log.WithField("removed", n).Debug("culled obstacles")
	return n
}

// Rescale resizes every obstacle and the actor for a new viewport. Widths
// follow the viewport width; obstacle heights and all corners are kept.
func (r *Registry) Rescale(vpW, vpH float64, cfg Config) {
	for _, e := range r.obstacles {
		obs, ok := ecs.Get(r.ecs, e, component.ObstacleComponent.Kind())
		if !ok {
			continue
		}
		width := cfg.Generator.ObstacleWidth * vpW
		if obs.Kind == component.ObstacleTunnel {
			width = cfg.Generator.TunnelWidth * vpW
		}
		r.resize(e, width, obs.Height)
	}
	if r.actor.Valid() {
		r.resize(r.actor, cfg.ActorSize*vpW, cfg.ActorSize*vpH)
	}
}

// Clear destroys every entity and body.
func (r *Registry) Clear() {
	for _, e := range r.obstacles {
		r.destroy(e)
	}
	for _, e := range r.boundaries {
		r.destroy(e)
	}
	if r.actor.Valid() {
		r.destroy(r.actor)
	}
	r.obstacles = nil
	r.boundaries = nil
	r.actor = 0
}

// Obstacles returns the obstacle sequence in generation order. The slice
// must not be modified.
func (r *Registry) Obstacles() []ecs.Entity {
	return r.obstacles
}

func (r *Registry) Actor() ecs.Entity {
	return r.actor
}

func (r *Registry) Boundaries() []ecs.Entity {
	return r.boundaries
}

// EntityForBody resolves a body handle to its entity.
func (r *Registry) EntityForBody(h physics.BodyHandle) (ecs.Entity, bool) {
	e, ok := r.byBody[h]
	return e, ok
}

func (r *Registry) World() *ecs.World {
	return r.ecs
}

func (r *Registry) Simulation() *physics.Simulation {
	return r.sim
}

func (r *Registry) link(e ecs.Entity) {
	if body, ok := ecs.Get(r.ecs, e, component.PhysicsBodyComponent.Kind()); ok {
		r.byBody[body.Handle] = e
	}
}

func (r *Registry) destroy(e ecs.Entity) {
	if body, ok := ecs.Get(r.ecs, e, component.PhysicsBodyComponent.Kind()); ok {
		// end-contact callbacks raised here still resolve the entity
		r.sim.DestroyBody(body.Handle)
		delete(r.byBody, body.Handle)
	}
	ecs.DestroyEntity(r.ecs, e)
}

func (r *Registry) rightEdge(e ecs.Entity) (float64, bool) {
	tr, ok := ecs.Get(r.ecs, e, component.TransformComponent.Kind())
	if !ok {
		return 0, false
	}
	body, ok := ecs.Get(r.ecs, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return tr.X, true
	}
	return tr.X + body.Width, true
}

func (r *Registry) resize(e ecs.Entity, width, height float64) {
	tr, ok := ecs.Get(r.ecs, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(r.ecs, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	body.Width, body.Height = width, height
	cx, cy := entity.CenterOf(tr.X, tr.Y, width, height)
	r.sim.Resize(body.Handle, cx, cy, width, height)
}
