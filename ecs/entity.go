package ecs

import "fmt"

// Entity is a generational handle: the low 32 bits index the slot, the high
// 32 bits count how many times that slot has been recycled.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String renders the handle as index and generation, e.g. "12v3".
func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e > 0
}
