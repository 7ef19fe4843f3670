package physics

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"
)

const (
	collisionTypeObstacle cp.CollisionType = iota + 1
	collisionTypeHazard
	collisionTypeBoundary
	collisionTypeActor
)

const (
	DefaultVelocityIterations = 6
	DefaultPositionIterations = 2
)

// ContactListener receives contact transitions between an actor body and an
// obstacle or hazard body. Callbacks run synchronously inside Step, or inside
// DestroyBody when a touching body is removed.
type ContactListener interface {
	BeginContact(a, b BodyHandle)
	EndContact(a, b BodyHandle)
}

// Simulation owns the Chipmunk space and every body in it. Callers only ever
// hold BodyHandles.
type Simulation struct {
	space    *cp.Space
	gravity  cp.Vector
	log      *logrus.Entry
	listener ContactListener

	next   BodyHandle
	bodies map[BodyHandle]*bodyInfo
	shapes map[*cp.Shape]BodyHandle

	// held are contacts whose shapes were swapped by Resize. The Begin that
	// follows on the next step is swallowed; pairs that do not touch again
	// are ended after that step.
	held     map[contactPair]struct{}
	resizing bool
}

type contactPair struct {
	a, b BodyHandle
}

func makeContactPair(a, b BodyHandle) contactPair {
	if b < a {
		a, b = b, a
	}
	return contactPair{a: a, b: b}
}

type bodyInfo struct {
	spec  BodySpec
	body  *cp.Body
	shape *cp.Shape
	// center of static bodies; their shapes hang off the space's static body
	center cp.Vector
}

type Option func(*Simulation)

func WithLogger(log *logrus.Entry) Option {
	return func(s *Simulation) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSimulation creates an empty space with the given gravity.
func NewSimulation(gravity cp.Vector, opts ...Option) *Simulation {
	space := cp.NewSpace()
	space.Iterations = DefaultVelocityIterations
	space.SetGravity(gravity)

	s := &Simulation{
		space:   space,
		gravity: gravity,
		log:     logrus.NewEntry(logrus.StandardLogger()).WithField("component", "physics"),
		bodies:  make(map[BodyHandle]*bodyInfo),
		shapes:  make(map[*cp.Shape]BodyHandle),
		held:    make(map[contactPair]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupHandlers()
	return s
}

// Space exposes the underlying Chipmunk space for debug drawing.
func (s *Simulation) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Simulation) SetContactListener(l ContactListener) {
	s.listener = l
}

func (s *Simulation) SetGravity(v cp.Vector) {
	if s.gravity == v {
		return
	}
	s.gravity = v
	s.space.SetGravity(v)
}

func (s *Simulation) Gravity() cp.Vector {
	return s.gravity
}

// Step integrates the space once by dt. Chipmunk has a single iterative
// solver, so positionIters is accepted for contract compatibility only.
// Contacts held over a Resize that no longer touch are ended afterwards.
func (s *Simulation) Step(dt float64, velocityIters, positionIters int) {
	if s == nil || dt <= 0 {
		return
	}
	if velocityIters > 0 {
		s.space.Iterations = uint(velocityIters)
	}
	s.space.Step(dt)
	s.releaseHeld(func(contactPair) bool { return true })
}

// releaseHeld ends the held contacts selected by match, in handle order.
func (s *Simulation) releaseHeld(match func(contactPair) bool) {
	if len(s.held) == 0 {
		return
	}
	pairs := make([]contactPair, 0, len(s.held))
	for p := range s.held {
		if match(p) {
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	for _, p := range pairs {
		delete(s.held, p)
		if s.listener != nil {
			s.listener.EndContact(p.a, p.b)
		}
	}
}

// CreateBody adds a box body built from spec. An invalid spec is a
// configuration defect and panics.
func (s *Simulation) CreateBody(spec BodySpec) BodyHandle {
	if err := spec.Validate(); err != nil {
		panic("physics: create body: " + err.Error())
	}

	s.next++
	h := s.next
	info := &bodyInfo{spec: spec, center: cp.Vector{X: spec.X, Y: spec.Y}}

	if spec.Type == BodyStatic {
		info.body = s.space.StaticBody
		info.shape = s.newStaticShape(info.center, spec.Width, spec.Height)
	} else {
		mass := spec.Density * spec.Width * spec.Height
		if mass <= 0 {
			mass = 1
		}
		// fixed rotation
		body := cp.NewBody(mass, math.Inf(1))
		body.SetPosition(info.center)
		body.UserData = h
		s.space.AddBody(body)
		info.body = body
		info.shape = cp.NewBox(body, spec.Width, spec.Height, 0)
	}
	s.configureShape(info.shape, spec)
	info.shape.UserData = h
	s.space.AddShape(info.shape)

	s.bodies[h] = info
	s.shapes[info.shape] = h
	s.log.WithFields(logrus.Fields{
		"handle":   h,
		"category": spec.Category,
		"sensor":   spec.Sensor,
	}).Debug("body created")
	return h
}

// DestroyBody removes the body and its shape. Contacts it was part of end
// immediately and are reported to the listener before the handle dies.
func (s *Simulation) DestroyBody(h BodyHandle) {
	info, ok := s.bodies[h]
	if !ok {
		return
	}
	s.releaseHeld(func(p contactPair) bool { return p.a == h || p.b == h })
	s.space.RemoveShape(info.shape)
	if info.spec.Type == BodyDynamic {
		s.space.RemoveBody(info.body)
	}
	delete(s.shapes, info.shape)
	delete(s.bodies, h)
}

// Resize replaces the body's box with one of the new size. The center is
// moved to (x, y). Contacts of the old box carry over: the listener sees no
// End/Begin pair for a contact that still touches after the next step.
func (s *Simulation) Resize(h BodyHandle, x, y, width, height float64) {
	info, ok := s.bodies[h]
	if !ok {
		return
	}
	spec := info.spec
	spec.X, spec.Y, spec.Width, spec.Height = x, y, width, height
	if err := spec.Validate(); err != nil {
		panic("physics: resize body: " + err.Error())
	}

	s.resizing = true
	s.space.RemoveShape(info.shape)
	s.resizing = false
	delete(s.shapes, info.shape)

	info.center = cp.Vector{X: x, Y: y}
	if spec.Type == BodyStatic {
		info.shape = s.newStaticShape(info.center, width, height)
	} else {
		mass := spec.Density * width * height
		if mass <= 0 {
			mass = 1
		}
		info.body.SetMass(mass)
		info.body.SetPosition(info.center)
		info.shape = cp.NewBox(info.body, width, height, 0)
	}
	s.configureShape(info.shape, spec)
	info.shape.UserData = h
	s.space.AddShape(info.shape)

	info.spec = spec
	s.shapes[info.shape] = h
}

// Position returns the physics center of the body.
func (s *Simulation) Position(h BodyHandle) (cp.Vector, bool) {
	info, ok := s.bodies[h]
	if !ok {
		return cp.Vector{}, false
	}
	if info.spec.Type == BodyStatic {
		return info.center, true
	}
	return info.body.Position(), true
}

func (s *Simulation) Velocity(h BodyHandle) (cp.Vector, bool) {
	info, ok := s.bodies[h]
	if !ok || info.spec.Type == BodyStatic {
		return cp.Vector{}, false
	}
	return info.body.Velocity(), true
}

func (s *Simulation) SetVelocity(h BodyHandle, vx, vy float64) {
	info, ok := s.bodies[h]
	if !ok || info.spec.Type == BodyStatic {
		return
	}
	info.body.SetVelocity(vx, vy)
}

func (s *Simulation) Mass(h BodyHandle) float64 {
	info, ok := s.bodies[h]
	if !ok || info.spec.Type == BodyStatic {
		return 0
	}
	return info.body.Mass()
}

// ApplyForce applies a force at the body's center until the next step.
func (s *Simulation) ApplyForce(h BodyHandle, f cp.Vector) {
	info, ok := s.bodies[h]
	if !ok || info.spec.Type == BodyStatic {
		return
	}
	info.body.ApplyForceAtLocalPoint(f, cp.Vector{})
}

func (s *Simulation) UserData(h BodyHandle) (any, bool) {
	info, ok := s.bodies[h]
	if !ok {
		return nil, false
	}
	return info.spec.UserData, true
}

func (s *Simulation) Spec(h BodyHandle) (BodySpec, bool) {
	info, ok := s.bodies[h]
	if !ok {
		return BodySpec{}, false
	}
	return info.spec, true
}

func (s *Simulation) BodyCount() int {
	return len(s.bodies)
}

func (s *Simulation) newStaticShape(center cp.Vector, width, height float64) *cp.Shape {
	bb := cp.BB{
		L: center.X - width/2,
		B: center.Y - height/2,
		R: center.X + width/2,
		T: center.Y + height/2,
	}
	return cp.NewBox2(s.space.StaticBody, bb, 0)
}

func (s *Simulation) configureShape(shape *cp.Shape, spec BodySpec) {
	shape.SetFriction(spec.Friction)
	shape.SetElasticity(spec.Elasticity)
	shape.SetSensor(spec.Sensor)
	shape.SetCollisionType(collisionType(spec.Category))
}

func collisionType(c Category) cp.CollisionType {
	switch c {
	case CategoryHazard:
		return collisionTypeHazard
	case CategoryBoundary:
		return collisionTypeBoundary
	case CategoryActor:
		return collisionTypeActor
	default:
		return collisionTypeObstacle
	}
}

func (s *Simulation) setupHandlers() {
	for _, other := range []cp.CollisionType{collisionTypeObstacle, collisionTypeHazard} {
		handler := s.space.NewCollisionHandler(collisionTypeActor, other)
		handler.UserData = s
		handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sim, ok := userData.(*Simulation)
			if !ok || sim == nil {
				return true
			}
			a, b, ok := sim.arbiterHandles(arb)
			if !ok {
				return true
			}
			pair := makeContactPair(a, b)
			if _, held := sim.held[pair]; held {
				delete(sim.held, pair)
				return true
			}
			if sim.listener != nil {
				sim.listener.BeginContact(a, b)
			}
			return true
		}
		handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
			sim, ok := userData.(*Simulation)
			if !ok || sim == nil {
				return
			}
			a, b, ok := sim.arbiterHandles(arb)
			if !ok {
				return
			}
			if sim.resizing {
				sim.held[makeContactPair(a, b)] = struct{}{}
				return
			}
			if sim.listener != nil {
				sim.listener.EndContact(a, b)
			}
		}
	}
}

func (s *Simulation) arbiterHandles(arb *cp.Arbiter) (BodyHandle, BodyHandle, bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := s.shapes[shapeA]
	b, okB := s.shapes[shapeB]
	if !okA || !okB {
		return 0, 0, false
	}
	return a, b, true
}
