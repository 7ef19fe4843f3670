package main

import (
	"github.com/milk9111/emgflappy/common"
	"github.com/milk9111/emgflappy/prefabs"
	"github.com/milk9111/emgflappy/world"
)

// configFromSpec converts the tuning file into a world config. Zero values
// are filled with defaults by world.New.
func configFromSpec(spec *prefabs.WorldSpec, screenW, screenH int) world.Config {
	vpH := spec.Viewport.Height
	if vpH <= 0 {
		vpH = common.WorldHeight
	}

	return world.Config{
		Seed:       spec.Seed,
		Difficulty: spec.Difficulty,
		Gravity:    spec.Gravity,

		ViewportWidth:  common.ViewportWidth(screenW, screenH, vpH),
		ViewportHeight: vpH,

		WorldWidth:     spec.World.Width,
		FirstObstacleX: spec.World.FirstObstacleX,
		AutoExtend:     spec.World.AutoExtend,

		ActorStartX:  spec.Actor.StartX,
		ActorStartY:  spec.Actor.StartY,
		ActorSize:    spec.Actor.Size,
		ActorDensity: spec.Actor.Density,

		MaxHealth:      spec.Actor.MaxHealth,
		Damage:         spec.Damage.Amount,
		DamageInterval: spec.Damage.Interval,

		Thrust:           spec.Actor.Thrust,
		CruiseSpeed:      spec.Actor.CruiseSpeed,
		PropulsionPeriod: spec.Actor.PropulsionPeriod,

		TimeStep:           spec.Physics.TimeStep,
		MaxFrameTime:       spec.Physics.MaxFrameTime,
		VelocityIterations: spec.Physics.VelocityIterations,
		PositionIterations: spec.Physics.PositionIterations,

		StrikePeriod: spec.Hazard.StrikePeriod,

		BoundaryWidth:     spec.Boundary.Width,
		BoundaryThickness: spec.Boundary.Thickness,

		AnimationFrames:  spec.Animation.Frames,
		FrameTime:        spec.Animation.FrameTime,
		PressedFrameTime: spec.Animation.PressedFrameTime,
		FlashFraction:    spec.Damage.FlashFraction,

		Generator: world.GeneratorConfig{
			TunnelProbability:        spec.Generator.TunnelProbability,
			MinObstaclesBeforeTunnel: spec.Generator.MinObstaclesBeforeTunnel,
			TunnelHeight:             spec.Generator.TunnelHeight,
			TunnelWidth:              spec.Generator.TunnelWidth,
			ObstacleWidth:            spec.Generator.ObstacleWidth,
			VerticalGap:              spec.Generator.VerticalGap,
			Spacing:                  spec.Generator.Spacing,
			MinHeightScale:           spec.Generator.MinHeightScale,
			MaxHeightScale:           spec.Generator.MaxHeightScale,
		},

		SaveSlot: spec.Save.Slot,
	}
}
