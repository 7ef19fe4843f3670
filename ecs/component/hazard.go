package component

// Hazard is the blink cycle of a tunnel obstacle. It can only damage while
// it is both visible (near the actor) and active.
type Hazard struct {
	Visible bool
	Active  bool
	Elapsed float64
}

var HazardComponent = NewComponent[Hazard]()

// CanDamage reports whether the hazard is in its damaging phase.
func (h *Hazard) CanDamage() bool {
	return h != nil && h.Visible && h.Active
}
