package component

// Transform is the logical position of an entity: the bottom-left corner of
// its bounding box in world units, y pointing up.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
