package component

// ObstacleKind distinguishes the static obstacle variants.
type ObstacleKind int

const (
	ObstacleNormal ObstacleKind = iota
	ObstacleTunnel
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleNormal:
		return "normal"
	case ObstacleTunnel:
		return "tunnel"
	default:
		return "unknown"
	}
}

// Obstacle is a static obstacle. Height is fixed at creation; width is
// derived from the kind and the viewport width.
type Obstacle struct {
	Kind    ObstacleKind
	Height  float64
	Flipped bool
}

var ObstacleComponent = NewComponent[Obstacle]()
