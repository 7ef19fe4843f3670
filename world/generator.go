package world

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/ecs/entity"
)

// Spawner receives the obstacles a Generator emits.
type Spawner interface {
	SpawnObstacle(p entity.ObstacleParams) (ecs.Entity, error)
}

// Generator appends obstacle groups ahead of the frontier.
type Generator struct {
	cfg      GeneratorConfig
	rng      *rand.Rand
	frontier float64
	// normal obstacles generated in this world; a pair counts twice
	normals int
}

func NewGenerator(cfg GeneratorConfig, seed uint64, frontier float64) *Generator {
	return &Generator{
		cfg:      cfg.normalize(),
		rng:      newRand(seed),
		frontier: frontier,
	}
}

func (g *Generator) Frontier() float64 {
	return g.frontier
}

func (g *Generator) Normals() int {
	return g.normals
}

// Reset starts a new world at frontier. The random stream continues.
func (g *Generator) Reset(frontier float64) {
	g.frontier = frontier
	g.normals = 0
}

// Restore sets the state recovered from a save.
func (g *Generator) Restore(frontier float64, normals int) {
	g.frontier = frontier
	g.normals = normals
}

func (g *Generator) SetConfig(cfg GeneratorConfig) {
	g.cfg = cfg.normalize()
}

// Extend generates until the frontier reaches the frontier at call time
// plus worldWidth. At least one group is generated per call.
func (g *Generator) Extend(s Spawner, worldWidth, vpW, vpH float64) (int, error) {
	target := g.frontier + worldWidth
	spawned := 0
	for {
		right, n, err := g.next(s, vpW, vpH)
		spawned += n
		if err != nil {
			return spawned, err
		}
		g.frontier = right + g.cfg.Spacing*vpW
		if g.frontier >= target {
			return spawned, nil
		}
	}
}

// next emits one group at the frontier and returns its right edge.
func (g *Generator) next(s Spawner, vpW, vpH float64) (float64, int, error) {
	x := g.frontier
	r := g.rng.Float64()

	if r < g.cfg.TunnelProbability && g.normals >= g.cfg.MinObstaclesBeforeTunnel {
		height := g.cfg.TunnelHeight * vpH
		p := entity.ObstacleParams{
			Kind:    component.ObstacleTunnel,
			X:       x,
			Y:       vpH - height,
			Width:   g.cfg.TunnelWidth * vpW,
			Height:  height,
			Flipped: true,
		}
		if _, err := s.SpawnObstacle(p); err != nil {
			return 0, 0, fmt.Errorf("generator: %w", err)
		}
		return p.RightEdge(), 1, nil
	}

	scale := g.cfg.MinHeightScale + g.rng.Float64()*(g.cfg.MaxHeightScale-g.cfg.MinHeightScale)
	width := g.cfg.ObstacleWidth * vpW
	lowerHeight := scale * vpH
	upperY := lowerHeight + g.cfg.VerticalGap*vpH

	lower := entity.ObstacleParams{
		Kind:   component.ObstacleNormal,
		X:      x,
		Y:      0,
		Width:  width,
		Height: lowerHeight,
	}
	upper := entity.ObstacleParams{
		Kind:    component.ObstacleNormal,
		X:       x,
		Y:       upperY,
		Width:   width,
		Height:  vpH - upperY,
		Flipped: true,
	}
	if _, err := s.SpawnObstacle(lower); err != nil {
		return 0, 0, fmt.Errorf("generator: %w", err)
	}
	g.normals++
	if _, err := s.SpawnObstacle(upper); err != nil {
		return 0, 1, fmt.Errorf("generator: %w", err)
	}
	g.normals++
	return lower.RightEdge(), 2, nil
}
