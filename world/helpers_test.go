package world

import (
	"io"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/ecs/entity"
	"github.com/milk9111/emgflappy/physics"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestRegistry() *Registry {
	return NewRegistry(ecs.NewWorld(), physics.NewSimulation(cp.Vector{}), quietLog())
}

func spawnTestActor(t *testing.T, r *Registry, x float64, health int) *component.Actor {
	t.Helper()
	e, err := r.SpawnActor(entity.ActorParams{X: x, Width: 1, Height: 1, Density: 1, Health: health, MaxHealth: health})
	if err != nil {
		t.Fatalf("spawn actor: %v", err)
	}
	a, ok := ecs.Get(r.World(), e, component.ActorComponent.Kind())
	if !ok {
		t.Fatalf("actor component missing")
	}
	return a
}

func spawnTestObstacle(t *testing.T, r *Registry, kind component.ObstacleKind, x, width float64) ecs.Entity {
	t.Helper()
	e, err := r.SpawnObstacle(entity.ObstacleParams{Kind: kind, X: x, Width: width, Height: 10})
	if err != nil {
		t.Fatalf("spawn obstacle: %v", err)
	}
	return e
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ViewportWidth = 100
	cfg.ViewportHeight = 50
	cfg.MaxHealth = 100
	cfg.Seed = 7
	return cfg
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

type recordingSpawner struct {
	params []entity.ObstacleParams
}

func (s *recordingSpawner) SpawnObstacle(p entity.ObstacleParams) (ecs.Entity, error) {
	s.params = append(s.params, p)
	return ecs.Entity(len(s.params)), nil
}

type recordingRenderer struct {
	obstacles []ObstacleView
	actors    []ActorView
}

func (r *recordingRenderer) DrawObstacle(v ObstacleView) {
	r.obstacles = append(r.obstacles, v)
}

func (r *recordingRenderer) DrawActor(v ActorView) {
	r.actors = append(r.actors, v)
}
