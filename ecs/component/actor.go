package component

// Actor is the player-controlled flyer. Exactly one exists per world.
type Actor struct {
	Health    int
	MaxHealth int
	Hits      int

	// Colliding is true while the actor touches Hazard (an ecs.Entity).
	Colliding bool
	Hazard    uint64
	// SinceTick is simulation time accumulated since the last damage tick.
	SinceTick float64

	Pressed bool

	Frame      int
	FrameTime  float64
	FlashTime  float64
	FlashShown bool
}

var ActorComponent = NewComponent[Actor]()

// Alive reports whether the actor has health left.
func (a *Actor) Alive() bool {
	return a != nil && a.Health > 0
}
