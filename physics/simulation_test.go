package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

type contact struct {
	a, b  BodyHandle
	begin bool
}

type recordingListener struct {
	contacts []contact
}

func (l *recordingListener) BeginContact(a, b BodyHandle) {
	l.contacts = append(l.contacts, contact{a: a, b: b, begin: true})
}

func (l *recordingListener) EndContact(a, b BodyHandle) {
	l.contacts = append(l.contacts, contact{a: a, b: b})
}

func (l *recordingListener) count(begin bool) int {
	n := 0
	for _, c := range l.contacts {
		if c.begin == begin {
			n++
		}
	}
	return n
}

func actorSpec(x, y float64) BodySpec {
	return BodySpec{
		Type:     BodyDynamic,
		Category: CategoryActor,
		X:        x,
		Y:        y,
		Width:    1,
		Height:   1,
		Density:  0.5,
	}
}

func staticSpec(cat Category, x, y, w, h float64) BodySpec {
	return BodySpec{
		Type:     BodyStatic,
		Category: cat,
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
		Sensor:   cat == CategoryHazard,
	}
}

func stepFor(sim *Simulation, seconds float64) {
	steps := int(math.Round(seconds / DefaultTimeStep))
	for i := 0; i < steps; i++ {
		sim.Step(DefaultTimeStep, DefaultVelocityIterations, DefaultPositionIterations)
	}
}

func TestCreateDestroyBody(t *testing.T) {
	sim := NewSimulation(cp.Vector{X: 0, Y: -10})

	a := sim.CreateBody(actorSpec(0, 10))
	o := sim.CreateBody(staticSpec(CategoryObstacle, 5, 1, 1, 2))
	if !a.Valid() || !o.Valid() || a == o {
		t.Fatalf("expected distinct valid handles, got %v %v", a, o)
	}
	if sim.BodyCount() != 2 {
		t.Fatalf("expected 2 bodies, got %d", sim.BodyCount())
	}
	if pos, ok := sim.Position(o); !ok || pos.X != 5 || pos.Y != 1 {
		t.Fatalf("expected static center (5,1), got %v ok=%v", pos, ok)
	}
	if m := sim.Mass(a); math.Abs(m-0.5) > 1e-9 {
		t.Fatalf("expected mass 0.5 from density*area, got %v", m)
	}

	sim.DestroyBody(o)
	sim.DestroyBody(o)
	if sim.BodyCount() != 1 {
		t.Fatalf("expected 1 body after destroy, got %d", sim.BodyCount())
	}
	if _, ok := sim.Position(o); ok {
		t.Fatalf("destroyed handle should not resolve")
	}
}

func TestCreateBodyRejectsMalformedSpec(t *testing.T) {
	cases := []struct {
		name string
		spec BodySpec
	}{
		{"zero_width", BodySpec{Type: BodyStatic, Category: CategoryObstacle, Width: 0, Height: 1}},
		{"nan_center", BodySpec{Type: BodyStatic, Category: CategoryObstacle, X: math.NaN(), Width: 1, Height: 1}},
		{"no_category", BodySpec{Type: BodyStatic, Width: 1, Height: 1}},
		{"negative_density", BodySpec{Type: BodyDynamic, Category: CategoryActor, Width: 1, Height: 1, Density: -1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sim := NewSimulation(cp.Vector{})
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for malformed spec")
				}
			}()
			sim.CreateBody(c.spec)
		})
	}
}

func TestContactCallbacks(t *testing.T) {
	t.Run("actor_lands_on_obstacle", func(t *testing.T) {
		sim := NewSimulation(cp.Vector{X: 0, Y: -10})
		l := &recordingListener{}
		sim.SetContactListener(l)

		actor := sim.CreateBody(actorSpec(0, 3))
		obstacle := sim.CreateBody(staticSpec(CategoryObstacle, 0, 0, 4, 2))

		stepFor(sim, 2)
		if l.count(true) != 1 {
			t.Fatalf("expected exactly one begin contact, got %+v", l.contacts)
		}
		got := l.contacts[0]
		if !(got.a == actor && got.b == obstacle) && !(got.a == obstacle && got.b == actor) {
			t.Fatalf("expected contact between actor and obstacle, got %+v", got)
		}
		if pos, _ := sim.Position(actor); pos.Y < 1.3 || pos.Y > 1.7 {
			t.Fatalf("expected actor resting on obstacle top, got y=%v", pos.Y)
		}

		sim.DestroyBody(obstacle)
		if l.count(false) != 1 {
			t.Fatalf("expected end contact when obstacle is destroyed, got %+v", l.contacts)
		}
	})

	t.Run("sensor_hazard_reports_without_blocking", func(t *testing.T) {
		sim := NewSimulation(cp.Vector{X: 0, Y: 0})
		l := &recordingListener{}
		sim.SetContactListener(l)

		actor := sim.CreateBody(actorSpec(0, 0))
		sim.CreateBody(staticSpec(CategoryHazard, 3, 0, 2, 4))
		sim.SetVelocity(actor, 5, 0)

		stepFor(sim, 2)
		if l.count(true) != 1 || l.count(false) != 1 {
			t.Fatalf("expected one begin and one end while passing the sensor, got %+v", l.contacts)
		}
		if pos, _ := sim.Position(actor); pos.X < 9 {
			t.Fatalf("sensor must not block the actor, got x=%v", pos.X)
		}
	})

	t.Run("boundary_is_silent", func(t *testing.T) {
		sim := NewSimulation(cp.Vector{X: 0, Y: -10})
		l := &recordingListener{}
		sim.SetContactListener(l)

		sim.CreateBody(actorSpec(0, 2))
		sim.CreateBody(staticSpec(CategoryBoundary, 0, -0.05, 100, 0.1))

		stepFor(sim, 1)
		if len(l.contacts) != 0 {
			t.Fatalf("boundary contacts must not be reported, got %+v", l.contacts)
		}
	})
}

func TestResizeKeepsHandle(t *testing.T) {
	sim := NewSimulation(cp.Vector{})
	o := sim.CreateBody(staticSpec(CategoryObstacle, 5, 1, 1, 2))

	sim.Resize(o, 6, 1, 3, 2)
	spec, ok := sim.Spec(o)
	if !ok || spec.Width != 3 {
		t.Fatalf("expected resized width 3, got %+v ok=%v", spec, ok)
	}
	if pos, _ := sim.Position(o); pos.X != 6 {
		t.Fatalf("expected new center x=6, got %v", pos.X)
	}
	if sim.BodyCount() != 1 {
		t.Fatalf("resize must not add bodies")
	}
}

func TestResizeKeepsContacts(t *testing.T) {
	t.Run("still_touching", func(t *testing.T) {
		sim := NewSimulation(cp.Vector{X: 0, Y: -10})
		l := &recordingListener{}
		sim.SetContactListener(l)

		actor := sim.CreateBody(actorSpec(0, 3))
		obstacle := sim.CreateBody(staticSpec(CategoryObstacle, 0, 0, 4, 2))
		stepFor(sim, 2)
		if len(l.contacts) != 1 {
			t.Fatalf("expected one begin after landing, got %+v", l.contacts)
		}

		pos, _ := sim.Position(actor)
		sim.Resize(obstacle, 0, 0, 4, 2)
		sim.Resize(obstacle, 0, 0, 6, 2)
		sim.Resize(actor, pos.X, pos.Y, 1.2, 1)
		stepFor(sim, 0.5)
		if len(l.contacts) != 1 {
			t.Fatalf("resize while touching must not report contacts, got %+v", l.contacts)
		}

		sim.DestroyBody(obstacle)
		if l.count(false) != 1 {
			t.Fatalf("expected end contact on destroy after resize, got %+v", l.contacts)
		}
	})

	t.Run("moved_apart", func(t *testing.T) {
		sim := NewSimulation(cp.Vector{})
		l := &recordingListener{}
		sim.SetContactListener(l)

		sim.CreateBody(actorSpec(0, 0))
		hazard := sim.CreateBody(staticSpec(CategoryHazard, 0, 0, 4, 4))
		stepFor(sim, 0.1)
		if l.count(true) != 1 {
			t.Fatalf("expected begin inside the sensor, got %+v", l.contacts)
		}

		sim.Resize(hazard, 20, 0, 4, 4)
		if l.count(false) != 0 {
			t.Fatalf("end must wait for the next step, got %+v", l.contacts)
		}
		stepFor(sim, 1.0/60.0)
		if l.count(false) != 1 || l.count(true) != 1 {
			t.Fatalf("expected one end after the step, got %+v", l.contacts)
		}
	})

	t.Run("destroyed_before_step", func(t *testing.T) {
		sim := NewSimulation(cp.Vector{})
		l := &recordingListener{}
		sim.SetContactListener(l)

		sim.CreateBody(actorSpec(0, 0))
		hazard := sim.CreateBody(staticSpec(CategoryHazard, 0, 0, 4, 4))
		stepFor(sim, 0.1)

		sim.Resize(hazard, 0, 0, 5, 5)
		sim.DestroyBody(hazard)
		if l.count(false) != 1 {
			t.Fatalf("expected end when a resized body is destroyed, got %+v", l.contacts)
		}
		stepFor(sim, 0.1)
		if len(l.contacts) != 2 {
			t.Fatalf("expected no further contacts, got %+v", l.contacts)
		}
	})
}

func TestGravityVector(t *testing.T) {
	sim := NewSimulation(cp.Vector{X: 0, Y: -10})
	sim.SetGravity(cp.Vector{X: 0, Y: -30})
	if g := sim.Gravity(); g.Y != -30 {
		t.Fatalf("expected gravity -30, got %v", g)
	}

	a := sim.CreateBody(actorSpec(0, 0))
	stepFor(sim, 1)
	v, _ := sim.Velocity(a)
	if math.Abs(v.Y+30) > 0.5 {
		t.Fatalf("expected vy close to -30 after 1s, got %v", v.Y)
	}
}
