package world

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
)

const saveVersion = 1

var (
	ErrCorruptSave    = errors.New("world: corrupt save")
	ErrSchemaMismatch = errors.New("world: save schema mismatch")
)

// saveRecord is the on-disk form. Fields are pointers so that a missing key
// is distinguishable from a zero value. Count comes last: a truncated blob
// always loses it or disagrees with it.
type saveRecord struct {
	Version   *int             `yaml:"version"`
	Frontier  *float64         `yaml:"frontier"`
	Actor     *actorRecord     `yaml:"actor"`
	Obstacles []obstacleRecord `yaml:"obstacles"`
	Count     *int             `yaml:"count"`
}

type actorRecord struct {
	X      *float64 `yaml:"x"`
	Y      *float64 `yaml:"y"`
	Health *int     `yaml:"health"`
}

type obstacleRecord struct {
	Kind   *string  `yaml:"kind"`
	X      *float64 `yaml:"x"`
	Y      *float64 `yaml:"y"`
	Height *float64 `yaml:"height"`
}

// Snapshot is a decoded save, validated and ready to apply.
type Snapshot struct {
	Frontier  float64
	Actor     ActorSnapshot
	Obstacles []ObstacleSnapshot
}

type ActorSnapshot struct {
	X, Y   float64
	Health int
}

type ObstacleSnapshot struct {
	Kind   component.ObstacleKind
	X, Y   float64
	Height float64
}

func ptr[T any](v T) *T {
	return &v
}

// EncodeSnapshot renders s as the YAML save record.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	rec := saveRecord{
		Version:  ptr(saveVersion),
		Frontier: ptr(s.Frontier),
		Actor: &actorRecord{
			X:      ptr(s.Actor.X),
			Y:      ptr(s.Actor.Y),
			Health: ptr(s.Actor.Health),
		},
		Obstacles: make([]obstacleRecord, 0, len(s.Obstacles)),
		Count:     ptr(len(s.Obstacles)),
	}
	for _, o := range s.Obstacles {
		rec.Obstacles = append(rec.Obstacles, obstacleRecord{
			Kind:   ptr(o.Kind.String()),
			X:      ptr(o.X),
			Y:      ptr(o.Y),
			Height: ptr(o.Height),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&rec); err != nil {
		return nil, fmt.Errorf("world: encode save: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("world: encode save: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses and fully validates a save record.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var rec saveRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}

	if rec.Version == nil {
		return Snapshot{}, fmt.Errorf("%w: missing version", ErrCorruptSave)
	}
	if *rec.Version != saveVersion {
		return Snapshot{}, fmt.Errorf("%w: version %d", ErrSchemaMismatch, *rec.Version)
	}
	if rec.Count == nil {
		return Snapshot{}, fmt.Errorf("%w: missing count", ErrCorruptSave)
	}
	if *rec.Count != len(rec.Obstacles) {
		return Snapshot{}, fmt.Errorf("%w: count %d but %d obstacles", ErrCorruptSave, *rec.Count, len(rec.Obstacles))
	}
	if rec.Frontier == nil || !finite(*rec.Frontier) {
		return Snapshot{}, fmt.Errorf("%w: missing or invalid frontier", ErrCorruptSave)
	}
	if rec.Actor == nil || rec.Actor.X == nil || rec.Actor.Y == nil || rec.Actor.Health == nil {
		return Snapshot{}, fmt.Errorf("%w: incomplete actor", ErrCorruptSave)
	}
	if !finite(*rec.Actor.X) || !finite(*rec.Actor.Y) {
		return Snapshot{}, fmt.Errorf("%w: actor position is not finite", ErrCorruptSave)
	}

	s := Snapshot{
		Frontier: *rec.Frontier,
		Actor: ActorSnapshot{
			X:      *rec.Actor.X,
			Y:      *rec.Actor.Y,
			Health: *rec.Actor.Health,
		},
		Obstacles: make([]ObstacleSnapshot, 0, len(rec.Obstacles)),
	}
	prevX := math.Inf(-1)
	for i, o := range rec.Obstacles {
		if o.Kind == nil || o.X == nil || o.Y == nil || o.Height == nil {
			return Snapshot{}, fmt.Errorf("%w: incomplete obstacle %d", ErrCorruptSave, i)
		}
		kind, err := parseObstacleKind(*o.Kind)
		if err != nil {
			return Snapshot{}, fmt.Errorf("obstacle %d: %w", i, err)
		}
		if !finite(*o.X) || !finite(*o.Y) || !finite(*o.Height) || *o.Height <= 0 {
			return Snapshot{}, fmt.Errorf("%w: obstacle %d has invalid geometry", ErrCorruptSave, i)
		}
		if *o.X < prevX {
			return Snapshot{}, fmt.Errorf("%w: obstacle %d is out of order", ErrCorruptSave, i)
		}
		prevX = *o.X
		s.Obstacles = append(s.Obstacles, ObstacleSnapshot{
			Kind:   kind,
			X:      *o.X,
			Y:      *o.Y,
			Height: *o.Height,
		})
	}
	return s, nil
}

func parseObstacleKind(s string) (component.ObstacleKind, error) {
	switch s {
	case component.ObstacleNormal.String():
		return component.ObstacleNormal, nil
	case component.ObstacleTunnel.String():
		return component.ObstacleTunnel, nil
	default:
		return 0, fmt.Errorf("%w: unknown obstacle kind %q", ErrSchemaMismatch, s)
	}
}

// snapshot captures the registry and frontier.
func snapshot(reg *Registry, frontier float64) Snapshot {
	w := reg.World()
	s := Snapshot{Frontier: frontier}
	if tr, ok := ecs.Get(w, reg.Actor(), component.TransformComponent.Kind()); ok {
		s.Actor.X, s.Actor.Y = tr.X, tr.Y
	}
	if a, ok := ecs.Get(w, reg.Actor(), component.ActorComponent.Kind()); ok {
		s.Actor.Health = a.Health
	}
	for _, e := range reg.Obstacles() {
		tr, okT := ecs.Get(w, e, component.TransformComponent.Kind())
		obs, okO := ecs.Get(w, e, component.ObstacleComponent.Kind())
		if !okT || !okO {
			continue
		}
		s.Obstacles = append(s.Obstacles, ObstacleSnapshot{
			Kind:   obs.Kind,
			X:      tr.X,
			Y:      tr.Y,
			Height: obs.Height,
		})
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
