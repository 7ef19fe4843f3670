package world

import (
	"math"

	"github.com/milk9111/emgflappy/common"
)

// GeneratorConfig tunes obstacle placement. Fractions are relative to the
// viewport size at generation time.
type GeneratorConfig struct {
	TunnelProbability        float64
	MinObstaclesBeforeTunnel int
	TunnelHeight             float64
	TunnelWidth              float64
	ObstacleWidth            float64
	VerticalGap              float64
	Spacing                  float64
	MinHeightScale           float64
	MaxHeightScale           float64
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		TunnelProbability:        0.15,
		MinObstaclesBeforeTunnel: 8,
		TunnelHeight:             0.8,
		TunnelWidth:              0.7,
		ObstacleWidth:            0.1,
		VerticalGap:              0.25,
		Spacing:                  0.3,
		MinHeightScale:           0.3,
		MaxHeightScale:           0.7,
	}
}

type Config struct {
	Seed       uint64
	Difficulty int
	// Gravity is the downward acceleration at difficulty 1.
	Gravity float64

	ViewportWidth  float64
	ViewportHeight float64

	WorldWidth     float64
	FirstObstacleX float64
	// AutoExtend extends the world whenever the actor is within a viewport
	// of the frontier.
	AutoExtend bool

	ActorStartX  float64
	ActorStartY  float64
	ActorSize    float64
	ActorDensity float64
	// MaxHealth of zero means unbounded.
	MaxHealth      int
	Damage         int
	DamageInterval float64

	Thrust           float64
	CruiseSpeed      float64
	PropulsionPeriod float64

	TimeStep           float64
	MaxFrameTime       float64
	VelocityIterations int
	PositionIterations int

	StrikePeriod float64

	BoundaryWidth     float64
	BoundaryThickness float64

	AnimationFrames  int
	FrameTime        float64
	PressedFrameTime float64
	// FlashFraction is the hit-flash length as a fraction of DamageInterval.
	FlashFraction float64

	Generator GeneratorConfig

	SaveSlot string
	// TryLoad restores the saved world on New, falling back to a fresh one.
	TryLoad bool
}

func DefaultConfig() Config {
	return Config{
		Seed:               1,
		Difficulty:         1,
		Gravity:            10,
		ViewportWidth:      50 * 16 / 9.0,
		ViewportHeight:     50,
		WorldWidth:         500,
		FirstObstacleX:     30,
		AutoExtend:         true,
		ActorStartX:        0,
		ActorStartY:        46,
		ActorSize:          0.08,
		ActorDensity:       0.5,
		MaxHealth:          0,
		Damage:             10,
		DamageInterval:     1,
		Thrust:             20,
		CruiseSpeed:        5,
		PropulsionPeriod:   1.0 / 60.0,
		TimeStep:           1.0 / 60.0,
		MaxFrameTime:       0.25,
		VelocityIterations: 6,
		PositionIterations: 2,
		StrikePeriod:       2,
		BoundaryWidth:      1e7,
		BoundaryThickness:  0.1,
		AnimationFrames:    4,
		FrameTime:          0.25,
		PressedFrameTime:   0.10,
		FlashFraction:      0.33,
		Generator:          DefaultGeneratorConfig(),
		SaveSlot:           "EMGflappy_world_save",
	}
}

// normalize fills zero or out of range values with defaults.
func (c Config) normalize() Config {
	d := DefaultConfig()
	c.Difficulty = ClampDifficulty(c.Difficulty)
	pos := func(v *float64, def float64) {
		if *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
		}
	}
	pos(&c.Gravity, d.Gravity)
	pos(&c.ViewportWidth, d.ViewportWidth)
	pos(&c.ViewportHeight, d.ViewportHeight)
	pos(&c.WorldWidth, d.WorldWidth)
	pos(&c.ActorSize, d.ActorSize)
	pos(&c.ActorDensity, d.ActorDensity)
	pos(&c.DamageInterval, d.DamageInterval)
	pos(&c.PropulsionPeriod, d.PropulsionPeriod)
	pos(&c.TimeStep, d.TimeStep)
	pos(&c.MaxFrameTime, d.MaxFrameTime)
	pos(&c.StrikePeriod, d.StrikePeriod)
	pos(&c.BoundaryWidth, d.BoundaryWidth)
	pos(&c.BoundaryThickness, d.BoundaryThickness)
	pos(&c.FrameTime, d.FrameTime)
	pos(&c.PressedFrameTime, d.PressedFrameTime)
	if c.FlashFraction < 0 {
		c.FlashFraction = d.FlashFraction
	}
	if c.MaxHealth < 0 {
		c.MaxHealth = 0
	}
	if c.Damage < 0 {
		c.Damage = 0
	}
	if c.VelocityIterations <= 0 {
		c.VelocityIterations = d.VelocityIterations
	}
	if c.PositionIterations <= 0 {
		c.PositionIterations = d.PositionIterations
	}
	if c.AnimationFrames <= 0 {
		c.AnimationFrames = d.AnimationFrames
	}
	if c.SaveSlot == "" {
		c.SaveSlot = d.SaveSlot
	}
	c.Generator = c.Generator.normalize()
	return c
}

func (g GeneratorConfig) normalize() GeneratorConfig {
	d := DefaultGeneratorConfig()
	if g.TunnelProbability < 0 || g.TunnelProbability > 1 {
		g.TunnelProbability = d.TunnelProbability
	}
	if g.MinObstaclesBeforeTunnel < 0 {
		g.MinObstaclesBeforeTunnel = 0
	}
	frac := func(v *float64, def float64) {
		if *v <= 0 || *v > 1 || math.IsNaN(*v) {
			*v = def
		}
	}
	frac(&g.TunnelHeight, d.TunnelHeight)
	frac(&g.TunnelWidth, d.TunnelWidth)
	frac(&g.ObstacleWidth, d.ObstacleWidth)
	frac(&g.VerticalGap, d.VerticalGap)
	frac(&g.Spacing, d.Spacing)
	frac(&g.MinHeightScale, d.MinHeightScale)
	frac(&g.MaxHeightScale, d.MaxHeightScale)
	if g.MinHeightScale > g.MaxHeightScale {
		g.MinHeightScale, g.MaxHeightScale = g.MaxHeightScale, g.MinHeightScale
	}
	// the upper obstacle needs a positive height
	if g.MaxHeightScale+g.VerticalGap >= 1 {
		g.MaxHeightScale = d.MaxHeightScale
		g.VerticalGap = d.VerticalGap
		if g.MinHeightScale > g.MaxHeightScale {
			g.MinHeightScale = d.MinHeightScale
		}
	}
	return g
}

func ClampDifficulty(d int) int {
	return common.Clamp(d, 1, 3)
}
