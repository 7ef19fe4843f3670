package component

// BoundaryTag marks the invisible floor and ceiling.
type BoundaryTag struct{}

var BoundaryTagComponent = NewComponent[BoundaryTag]()
