package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/ecs/entity"
	"github.com/milk9111/emgflappy/physics"
	"github.com/milk9111/emgflappy/storage"
)

// World composes the simulation: fixed stepping, position sync, damage,
// generation and persistence. It is driven from a single goroutine.
type World struct {
	cfg   Config
	log   *logrus.Entry
	store storage.Store

	ecs        *ecs.World
	sim        *physics.Simulation
	reg        *Registry
	gen        *Generator
	hazards    *HazardSystem
	collisions *CollisionResolver
	systems    *ecs.Scheduler

	acc        *physics.Accumulator
	propulsion *physics.Accumulator

	vpW, vpH   float64
	difficulty int
	paused     bool
	// skipFrame drops the elapsed time of the first frame after Resume.
	skipFrame bool
}

type Option func(*World)

func WithLogger(log *logrus.Entry) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithStore sets where Save and Load read and write.
func WithStore(s storage.Store) Option {
	return func(w *World) {
		w.store = s
	}
}

// New builds a world. With cfg.TryLoad the saved world is restored;
// any load failure is logged and a fresh world is generated instead.
func New(cfg Config, opts ...Option) (*World, error) {
	cfg = cfg.normalize()
	w := &World{
		cfg:        cfg,
		log:        logrus.NewEntry(logrus.StandardLogger()).WithField("component", "world"),
		vpW:        cfg.ViewportWidth,
		vpH:        cfg.ViewportHeight,
		difficulty: cfg.Difficulty,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.ecs = ecs.NewWorld()
	w.sim = physics.NewSimulation(w.gravity(), physics.WithLogger(w.log.WithField("component", "physics")))
	w.reg = NewRegistry(w.ecs, w.sim, w.log)
	w.sim.SetContactListener(&contactRecorder{reg: w.reg})
	w.gen = NewGenerator(cfg.Generator, cfg.Seed, cfg.FirstObstacleX)
	w.hazards = NewHazardSystem(w.reg, cfg.StrikePeriod, w.vpW)
	w.collisions = NewCollisionResolver(w.reg, cfg.Damage, cfg.DamageInterval, cfg.FlashFraction*cfg.DamageInterval)
	w.systems = ecs.NewScheduler(syncSystem{reg: w.reg}, w.hazards, w.collisions)
	w.acc = physics.NewAccumulator(cfg.TimeStep, cfg.MaxFrameTime)
	w.propulsion = physics.NewAccumulator(cfg.PropulsionPeriod, cfg.MaxFrameTime)

	if cfg.TryLoad && w.store != nil {
		err := w.Load()
		if err == nil {
			return w, nil
		}
		if errors.Is(err, storage.ErrSlotNotFound) {
			w.log.Info("no saved world, generating a new one")
		} else {
			w.log.WithError(err).Warn("failed to load saved world, generating a new one")
		}
	}
	if err := w.reset(); err != nil {
		return nil, err
	}
	return w, nil
}

// Step advances the simulation by dt seconds of wall time and returns the
// actor's x position.
func (w *World) Step(dt float64) float64 {
	if w.paused {
		return w.ActorPositionX()
	}
	if w.skipFrame {
		w.skipFrame = false
		dt = 0
	}

	w.acc.Advance(dt, w.fixedStep)

	if w.cfg.AutoExtend && w.ActorPositionX()+w.vpW >= w.gen.Frontier() {
		if err := w.ExtendWorld(w.cfg.WorldWidth, w.vpW, w.vpH); err != nil {
			w.log.WithError(err).Error("failed to extend world")
		}
	}
	return w.ActorPositionX()
}

func (w *World) fixedStep(step float64) {
	w.sim.SetGravity(w.gravity())
	w.propulsion.Advance(step, func(float64) { w.propel() })
	w.sim.Step(step, w.cfg.VelocityIterations, w.cfg.PositionIterations)
	w.systems.Update(w.ecs, step)
}

// propel keeps the actor cruising and pushes it up while input is held.
func (w *World) propel() {
	actor, ok := ecs.Get(w.ecs, w.reg.Actor(), component.ActorComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w.ecs, w.reg.Actor(), component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	v, _ := w.sim.Velocity(body.Handle)
	w.sim.SetVelocity(body.Handle, w.cfg.CruiseSpeed, v.Y)
	if actor.Pressed {
		w.sim.ApplyForce(body.Handle, cp.Vector{X: 0, Y: w.cfg.Thrust * w.sim.Mass(body.Handle)})
	}
}

// Draw advances the actor's animation by dt and hands every visible entity
// to r. Nothing moves while the world is paused.
func (w *World) Draw(dt float64, r Renderer) {
	if w.paused || dt < 0 {
		dt = 0
	}
	actor, ok := ecs.Get(w.ecs, w.reg.Actor(), component.ActorComponent.Kind())
	if !ok {
		return
	}
	w.animate(actor, dt)
	if r == nil {
		return
	}

	actorX := w.ActorPositionX()
	for _, e := range w.reg.Obstacles() {
		v, ok := w.obstacleView(e)
		if !ok {
			continue
		}
		if v.X > actorX+w.vpW {
			break
		}
		if v.X+v.Width < actorX-w.vpW {
			continue
		}
		r.DrawObstacle(v)
	}

	tr, okT := ecs.Get(w.ecs, w.reg.Actor(), component.TransformComponent.Kind())
	body, okB := ecs.Get(w.ecs, w.reg.Actor(), component.PhysicsBodyComponent.Kind())
	if okT && okB {
		r.DrawActor(ActorView{
			X:      tr.X,
			Y:      tr.Y,
			Width:  body.Width,
			Height: body.Height,
			Frame:  actor.Frame,
			Flash:  actor.FlashShown,
		})
	}
}

func (w *World) animate(actor *component.Actor, dt float64) {
	frameLen := w.cfg.FrameTime
	if actor.Pressed {
		frameLen = w.cfg.PressedFrameTime
	}
	actor.FrameTime += dt
	for actor.FrameTime >= frameLen {
		actor.FrameTime -= frameLen
		actor.Frame = (actor.Frame + 1) % w.cfg.AnimationFrames
	}

	if actor.FlashTime > 0 {
		actor.FlashShown = true
		actor.FlashTime -= dt
		if actor.FlashTime <= 0 {
			actor.FlashTime = 0
			actor.FlashShown = false
		}
	}
}

func (w *World) obstacleView(e ecs.Entity) (ObstacleView, bool) {
	tr, okT := ecs.Get(w.ecs, e, component.TransformComponent.Kind())
	obs, okO := ecs.Get(w.ecs, e, component.ObstacleComponent.Kind())
	body, okB := ecs.Get(w.ecs, e, component.PhysicsBodyComponent.Kind())
	if !okT || !okO || !okB {
		return ObstacleView{}, false
	}
	v := ObstacleView{
		Kind:    obs.Kind,
		X:       tr.X,
		Y:       tr.Y,
		Width:   body.Width,
		Height:  obs.Height,
		Flipped: obs.Flipped,
	}
	if hz, ok := ecs.Get(w.ecs, e, component.HazardComponent.Kind()); ok {
		v.Active = hz.CanDamage()
	}
	return v, true
}

// ExtendWorld culls obstacles more than worldWidth behind the actor, then
// generates worldWidth more world ahead of the frontier.
func (w *World) ExtendWorld(worldWidth, vpW, vpH float64) error {
	if worldWidth <= 0 || vpW <= 0 || vpH <= 0 {
		return fmt.Errorf("world: extend: invalid width %v for viewport %vx%v", worldWidth, vpW, vpH)
	}
	w.reg.Cull(worldWidth, w.ActorPositionX())

	spawned, err := w.gen.Extend(w.reg, worldWidth, vpW, vpH)
	if err != nil {
		return fmt.Errorf("world: extend: %w", err)
	}
	w.log.WithFields(logrus.Fields{
		"frontier":  w.gen.Frontier(),
		"spawned":   spawned,
		"obstacles": len(w.reg.Obstacles()),
	}).Debug("world extended")
	return nil
}

// OnViewportChanged rescales obstacle widths, the actor and the ceiling.
func (w *World) OnViewportChanged(vpW, vpH float64) {
	if vpW <= 0 || vpH <= 0 {
		return
	}
	w.vpW, w.vpH = vpW, vpH
	w.reg.Rescale(vpW, vpH, w.cfg)
	if err := w.reg.SpawnBoundaries(w.cfg.BoundaryWidth, w.cfg.BoundaryThickness, vpH); err != nil {
		w.log.WithError(err).Error("failed to rebuild boundaries")
	}
	w.hazards.SetViewportWidth(vpW)
}

func (w *World) ActorHealth() int {
	if a, ok := ecs.Get(w.ecs, w.reg.Actor(), component.ActorComponent.Kind()); ok {
		return a.Health
	}
	return 0
}

func (w *World) ActorHits() int {
	if a, ok := ecs.Get(w.ecs, w.reg.Actor(), component.ActorComponent.Kind()); ok {
		return a.Hits
	}
	return 0
}

func (w *World) ActorPositionX() float64 {
	if tr, ok := ecs.Get(w.ecs, w.reg.Actor(), component.TransformComponent.Kind()); ok {
		return tr.X
	}
	return 0
}

func (w *World) ActorPositionY() float64 {
	if tr, ok := ecs.Get(w.ecs, w.reg.Actor(), component.TransformComponent.Kind()); ok {
		return tr.Y
	}
	return 0
}

// ActorAlive reports whether the actor has health left. The host decides
// what game over means.
func (w *World) ActorAlive() bool {
	a, _ := ecs.Get(w.ecs, w.reg.Actor(), component.ActorComponent.Kind())
	return a.Alive()
}

// SetPressed records whether the propulsion input is held.
func (w *World) SetPressed(pressed bool) {
	if a, ok := ecs.Get(w.ecs, w.reg.Actor(), component.ActorComponent.Kind()); ok {
		a.Pressed = pressed
	}
}

// Save writes the current world to the configured store.
func (w *World) Save() error {
	if w.store == nil {
		return errors.New("world: save: no store configured")
	}
	data, err := EncodeSnapshot(w.Snapshot())
	if err != nil {
		return err
	}
	if err := w.store.Write(w.cfg.SaveSlot, data); err != nil {
		w.log.WithError(err).Error("failed to save world")
		return fmt.Errorf("world: save: %w", err)
	}
	return nil
}

// Load replaces the world with the saved one. On any error the world is
// left exactly as it was.
func (w *World) Load() error {
	if w.store == nil {
		return errors.New("world: load: no store configured")
	}
	data, err := w.store.Read(w.cfg.SaveSlot)
	if err != nil {
		return fmt.Errorf("world: load: %w", err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("world: load: %w", err)
	}
	if err := w.apply(snap); err != nil {
		return fmt.Errorf("world: load: %w", err)
	}
	w.log.WithFields(logrus.Fields{
		"frontier":  snap.Frontier,
		"obstacles": len(snap.Obstacles),
	}).Info("loaded saved world")
	return nil
}

// Snapshot captures the persisted part of the world.
func (w *World) Snapshot() Snapshot {
	return snapshot(w.reg, w.gen.Frontier())
}

// apply replaces the world with s. Every body is validated before the
// current world is cleared.
func (w *World) apply(s Snapshot) error {
	actor := w.actorParams(s.Actor.X, s.Actor.Y, s.Actor.Health)
	if err := entity.ActorBodySpec(actor, 0).Validate(); err != nil {
		return fmt.Errorf("%w: actor: %v", ErrCorruptSave, err)
	}
	obstacles := make([]entity.ObstacleParams, 0, len(s.Obstacles))
	normals := 0
	for i, o := range s.Obstacles {
		width := w.cfg.Generator.ObstacleWidth * w.vpW
		if o.Kind == component.ObstacleTunnel {
			width = w.cfg.Generator.TunnelWidth * w.vpW
		} else {
			normals++
		}
		p := entity.ObstacleParams{
			Kind:    o.Kind,
			X:       o.X,
			Y:       o.Y,
			Width:   width,
			Height:  o.Height,
			Flipped: o.Y != 0,
		}
		if err := entity.ObstacleBodySpec(p, 0).Validate(); err != nil {
			return fmt.Errorf("%w: obstacle %d: %v", ErrCorruptSave, i, err)
		}
		obstacles = append(obstacles, p)
	}

	w.clear()
	if err := w.reg.SpawnBoundaries(w.cfg.BoundaryWidth, w.cfg.BoundaryThickness, w.vpH); err != nil {
		return err
	}
	if _, err := w.reg.SpawnActor(actor); err != nil {
		return err
	}
	for _, p := range obstacles {
		if _, err := w.reg.SpawnObstacle(p); err != nil {
			return err
		}
	}
	w.gen.Restore(s.Frontier, normals)
	return nil
}

// Restart discards the world and generates a new one with full health.
func (w *World) Restart() error {
	w.paused = false
	w.skipFrame = false
	return w.reset()
}

func (w *World) reset() error {
	w.clear()
	w.gen.Reset(w.cfg.FirstObstacleX)

	if err := w.reg.SpawnBoundaries(w.cfg.BoundaryWidth, w.cfg.BoundaryThickness, w.vpH); err != nil {
		return fmt.Errorf("world: reset: %w", err)
	}
	if _, err := w.reg.SpawnActor(w.actorParams(w.cfg.ActorStartX, w.cfg.ActorStartY, maxHealth(w.cfg.MaxHealth))); err != nil {
		return fmt.Errorf("world: reset: %w", err)
	}
	if err := w.ExtendWorld(w.cfg.WorldWidth, w.vpW, w.vpH); err != nil {
		return fmt.Errorf("world: reset: %w", err)
	}
	w.log.WithFields(logrus.Fields{
		"seed":     w.cfg.Seed,
		"frontier": w.gen.Frontier(),
	}).Info("generated new world")
	return nil
}

func (w *World) clear() {
	w.reg.Clear()
	w.ecs.Events().Flush()
	w.acc.Reset()
	w.propulsion.Reset()
}

func (w *World) actorParams(x, y float64, health int) entity.ActorParams {
	return entity.ActorParams{
		X:         x,
		Y:         y,
		Width:     w.cfg.ActorSize * w.vpW,
		Height:    w.cfg.ActorSize * w.vpH,
		Density:   w.cfg.ActorDensity,
		Health:    health,
		MaxHealth: w.cfg.MaxHealth,
	}
}

// Pause freezes stepping and animation.
func (w *World) Pause() {
	w.paused = true
}

// Resume continues after Pause. The first frame's elapsed time is dropped so
// the pause itself is never simulated.
func (w *World) Resume() {
	if !w.paused {
		return
	}
	w.paused = false
	w.skipFrame = true
}

func (w *World) Paused() bool {
	return w.paused
}

func (w *World) SetDifficulty(d int) {
	w.difficulty = ClampDifficulty(d)
}

func (w *World) Difficulty() int {
	return w.difficulty
}

// Retune applies tuning that is safe to change on a live world: gravity,
// damage, propulsion, blink period and generator parameters. Geometry
// already generated is kept. Difficulty is left to SetDifficulty.
func (w *World) Retune(cfg Config) {
	cfg = cfg.normalize()
	w.cfg.Gravity = cfg.Gravity
	w.cfg.Damage = cfg.Damage
	w.cfg.DamageInterval = cfg.DamageInterval
	w.cfg.FlashFraction = cfg.FlashFraction
	w.cfg.Thrust = cfg.Thrust
	w.cfg.CruiseSpeed = cfg.CruiseSpeed
	w.cfg.StrikePeriod = cfg.StrikePeriod
	w.cfg.Generator = cfg.Generator

	w.collisions.damage = cfg.Damage
	w.collisions.interval = cfg.DamageInterval
	w.collisions.flash = cfg.FlashFraction * cfg.DamageInterval
	w.hazards.period = cfg.StrikePeriod
	w.gen.SetConfig(cfg.Generator)
}

func (w *World) Frontier() float64 {
	return w.gen.Frontier()
}

func (w *World) ObstacleCount() int {
	return len(w.reg.Obstacles())
}

func (w *World) Viewport() (float64, float64) {
	return w.vpW, w.vpH
}

// Simulation exposes the physics space for debug drawing.
func (w *World) Simulation() *physics.Simulation {
	return w.sim
}

// Close destroys every entity and body.
func (w *World) Close() {
	w.clear()
}

func (w *World) gravity() cp.Vector {
	return cp.Vector{X: 0, Y: -w.cfg.Gravity * float64(w.difficulty)}
}

func maxHealth(v int) int {
	if v <= 0 {
		return math.MaxInt
	}
	return v
}

// syncSystem copies body positions into transforms after each step.
type syncSystem struct {
	reg *Registry
}

func (s syncSystem) Update(_ *ecs.World, _ float64) {
	s.reg.SyncFromPhysics()
}
