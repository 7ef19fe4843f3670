package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const WorldSpecFile = "world.yaml"

type WorldSpec struct {
	Seed       uint64  `yaml:"seed"`
	Difficulty int     `yaml:"difficulty"`
	Gravity    float64 `yaml:"gravity"`

	World     WorldSizeSpec `yaml:"world"`
	Viewport  ViewportSpec  `yaml:"viewport"`
	Actor     ActorSpec     `yaml:"actor"`
	Damage    DamageSpec    `yaml:"damage"`
	Hazard    HazardSpec    `yaml:"hazard"`
	Generator GeneratorSpec `yaml:"generator"`
	Physics   PhysicsSpec   `yaml:"physics"`
	Boundary  BoundarySpec  `yaml:"boundary"`
	Animation AnimationSpec `yaml:"animation"`
	Render    RenderSpec    `yaml:"render"`
	Save      SaveSpec      `yaml:"save"`
}

type WorldSizeSpec struct {
	Width          float64 `yaml:"width"`
	FirstObstacleX float64 `yaml:"first_obstacle_x"`
	AutoExtend     bool    `yaml:"auto_extend"`
}

// ViewportSpec fixes the viewport height in world units; the width follows
// the window's aspect ratio.
type ViewportSpec struct {
	Height float64 `yaml:"height"`
}

type ActorSpec struct {
	StartX           float64 `yaml:"start_x"`
	StartY           float64 `yaml:"start_y"`
	Size             float64 `yaml:"size"`
	Density          float64 `yaml:"density"`
	MaxHealth        int     `yaml:"max_health"`
	Thrust           float64 `yaml:"thrust"`
	CruiseSpeed      float64 `yaml:"cruise_speed"`
	PropulsionPeriod float64 `yaml:"propulsion_period"`
}

type DamageSpec struct {
	Amount        int     `yaml:"amount"`
	Interval      float64 `yaml:"interval"`
	FlashFraction float64 `yaml:"flash_fraction"`
}

type HazardSpec struct {
	StrikePeriod float64 `yaml:"strike_period"`
}

type GeneratorSpec struct {
	TunnelProbability        float64 `yaml:"tunnel_probability"`
	MinObstaclesBeforeTunnel int     `yaml:"min_obstacles_before_tunnel"`
	TunnelHeight             float64 `yaml:"tunnel_height"`
	TunnelWidth              float64 `yaml:"tunnel_width"`
	ObstacleWidth            float64 `yaml:"obstacle_width"`
	VerticalGap              float64 `yaml:"vertical_gap"`
	Spacing                  float64 `yaml:"spacing"`
	MinHeightScale           float64 `yaml:"min_height_scale"`
	MaxHeightScale           float64 `yaml:"max_height_scale"`
}

type PhysicsSpec struct {
	TimeStep           float64 `yaml:"time_step"`
	MaxFrameTime       float64 `yaml:"max_frame_time"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
}

type BoundarySpec struct {
	Width     float64 `yaml:"width"`
	Thickness float64 `yaml:"thickness"`
}

type AnimationSpec struct {
	Frames           int     `yaml:"frames"`
	FrameTime        float64 `yaml:"frame_time"`
	PressedFrameTime float64 `yaml:"pressed_frame_time"`
}

type RenderSpec struct {
	Background   YAMLColor `yaml:"background"`
	Obstacle     YAMLColor `yaml:"obstacle"`
	ObstacleEdge YAMLColor `yaml:"obstacle_edge"`
	TunnelIdle   YAMLColor `yaml:"tunnel_idle"`
	TunnelActive YAMLColor `yaml:"tunnel_active"`
	Actor        YAMLColor `yaml:"actor"`
	Flash        YAMLColor `yaml:"flash"`
}

type SaveSpec struct {
	Slot string `yaml:"slot"`
}

// LoadWorldSpec reads world.yaml, layering a disk copy over the embedded
// defaults.
func LoadWorldSpec() (*WorldSpec, error) {
	var spec WorldSpec
	if err := LoadLayered(WorldSpecFile, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
