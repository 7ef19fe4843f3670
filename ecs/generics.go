package ecs

import (
	"fmt"

	"github.com/milk9111/emgflappy/ecs/component"
)

// Add attaches value to e, replacing any component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return fmt.Errorf("ecs: add %s to %s: %w", kind, e, component.ErrEntityNotAlive)
	}
	if value == nil {
		return fmt.Errorf("ecs: add %s to %s: %w", kind, e, component.ErrNilComponent)
	}
	if !kind.Valid() {
		return fmt.Errorf("ecs: add %s to %s: %w", kind, e, component.ErrInvalidComponentKind)
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.store(kind.ID(), false).Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	value := w.store(kind.ID(), false).Get(e)
	if value == nil {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	if fn == nil {
		return
	}
	for _, e := range IntersectEntities(sa, sb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
