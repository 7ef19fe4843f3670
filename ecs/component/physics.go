package component

import "github.com/milk9111/emgflappy/physics"

// PhysicsBody links an entity to its simulation body. The handle is
// non-owning: the simulation owns the body and the handle must not be used
// after the body is destroyed.
type PhysicsBody struct {
	Handle physics.BodyHandle
	Width  float64
	Height float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
