package physics

import (
	"fmt"
	"math"
)

// BodyHandle is an opaque, non-owning reference to a simulation body.
// The zero handle is never issued.
type BodyHandle uint32

func (h BodyHandle) Valid() bool {
	return h != 0
}

// BodyType selects how the simulation integrates a body.
type BodyType int

const (
	BodyStatic BodyType = iota
	BodyDynamic
)

// Category drives collision filtering and contact reporting.
type Category int

const (
	CategoryObstacle Category = iota + 1
	CategoryHazard
	CategoryBoundary
	CategoryActor
)

func (c Category) String() string {
	switch c {
	case CategoryObstacle:
		return "obstacle"
	case CategoryHazard:
		return "hazard"
	case CategoryBoundary:
		return "boundary"
	case CategoryActor:
		return "actor"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// BodySpec describes a box-shaped body. X and Y are the physics center.
type BodySpec struct {
	Type       BodyType
	Category   Category
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Density    float64
	Friction   float64
	Elasticity float64
	Sensor     bool
	UserData   any
}

// Validate reports malformed specs. Creating a body from an invalid spec is
// a programming error.
func (s BodySpec) Validate() error {
	if !finite(s.X) || !finite(s.Y) {
		return fmt.Errorf("physics: body center (%v, %v) is not finite", s.X, s.Y)
	}
	if !finite(s.Width) || !finite(s.Height) || s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("physics: body size %vx%v must be positive", s.Width, s.Height)
	}
	if s.Density < 0 || s.Friction < 0 || s.Elasticity < 0 {
		return fmt.Errorf("physics: negative material (density=%v friction=%v elasticity=%v)", s.Density, s.Friction, s.Elasticity)
	}
	switch s.Category {
	case CategoryObstacle, CategoryHazard, CategoryBoundary, CategoryActor:
	default:
		return fmt.Errorf("physics: unknown %s", s.Category)
	}
	if s.Type != BodyStatic && s.Type != BodyDynamic {
		return fmt.Errorf("physics: unknown body type %d", s.Type)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
