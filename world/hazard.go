package world

import (
	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
)

// HazardSystem runs the blink cycle of tunnels. A tunnel only cycles while
// it is within half a viewport of the actor.
type HazardSystem struct {
	reg    *Registry
	period float64
	vpW    float64
}

func NewHazardSystem(reg *Registry, period, vpW float64) *HazardSystem {
	return &HazardSystem{reg: reg, period: period, vpW: vpW}
}

func (h *HazardSystem) SetViewportWidth(vpW float64) {
	h.vpW = vpW
}

// Update implements ecs.System.
func (h *HazardSystem) Update(w *ecs.World, dt float64) {
	actorStart, actorEnd, ok := h.actorSpan(w)
	if !ok {
		return
	}
	half := h.vpW / 2

	ecs.ForEach2(w, component.HazardComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, hz *component.Hazard, tr *component.Transform) {
		end := tr.X
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			end += body.Width
		}
		hz.Visible = actorEnd+half >= tr.X && actorStart <= end+half
		if !hz.Visible || dt <= 0 {
			return
		}
		hz.Elapsed += dt
		for hz.Elapsed >= h.period {
			hz.Elapsed -= h.period
			hz.Active = !hz.Active
		}
	})
}

func (h *HazardSystem) actorSpan(w *ecs.World) (float64, float64, bool) {
	actor := h.reg.Actor()
	tr, ok := ecs.Get(w, actor, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	width := 0.0
	if body, ok := ecs.Get(w, actor, component.PhysicsBodyComponent.Kind()); ok {
		width = body.Width
	}
	return tr.X, tr.X + width, true
}
