package world

import (
	"math"
	"testing"

	"github.com/milk9111/emgflappy/ecs"
	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/storage"
)

func stepSeconds(w *World, seconds float64) {
	for i := 0; i < int(math.Round(seconds*60)); i++ {
		w.Step(1.0 / 60.0)
	}
}

func TestNewWorldIsFresh(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHealth = 0
	w := newTestWorld(t, cfg, nil)

	if w.ActorHealth() != math.MaxInt || !w.ActorAlive() {
		t.Fatalf("expected unbounded health, got %d", w.ActorHealth())
	}
	if w.ActorHits() != 0 {
		t.Fatalf("expected no hits")
	}
	if w.Frontier() < cfg.FirstObstacleX+cfg.WorldWidth {
		t.Fatalf("expected world generated to %v, got %v", cfg.FirstObstacleX+cfg.WorldWidth, w.Frontier())
	}
	if w.ObstacleCount() == 0 {
		t.Fatalf("expected obstacles")
	}
	if w.ActorPositionX() != 0 || w.ActorPositionY() != 46 {
		t.Fatalf("expected actor at (0, 46), got (%v, %v)", w.ActorPositionX(), w.ActorPositionY())
	}
	// actor, two boundaries and one body per obstacle
	if got := w.Simulation().BodyCount(); got != 3+w.ObstacleCount() {
		t.Fatalf("expected %d bodies, got %d", 3+w.ObstacleCount(), got)
	}
	if err := w.Save(); err == nil {
		t.Fatalf("save without a store should fail")
	}
}

func TestStepMovesActor(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)

	var x float64
	for i := 0; i < 60; i++ {
		x = w.Step(1.0 / 60.0)
	}
	if x != w.ActorPositionX() {
		t.Fatalf("step must return the actor x")
	}
	if x < 4.5 || x > 5.5 {
		t.Fatalf("expected about 5 units of cruise after 1s, got %v", x)
	}
	if w.ActorPositionY() >= 46 {
		t.Fatalf("expected the actor to fall, y=%v", w.ActorPositionY())
	}
}

func TestStepClampsLongFrames(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)
	x := w.Step(10)
	if x > 0.25*5+0.1 {
		t.Fatalf("a long frame must be clamped to 0.25s, actor moved to %v", x)
	}
}

func TestPressedActorRises(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)
	w.SetPressed(true)
	stepSeconds(w, 0.5)
	if w.ActorPositionY() <= 46-0.5 {
		t.Fatalf("thrust should outweigh gravity, y=%v", w.ActorPositionY())
	}
}

func TestPauseResume(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)
	stepSeconds(w, 0.5)
	x := w.ActorPositionX()

	w.Pause()
	if !w.Paused() {
		t.Fatalf("expected paused")
	}
	stepSeconds(w, 1)
	if w.ActorPositionX() != x {
		t.Fatalf("paused world moved from %v to %v", x, w.ActorPositionX())
	}

	w.Resume()
	w.Step(0.2)
	if w.ActorPositionX() != x {
		t.Fatalf("first frame after resume must be dropped")
	}
	w.Step(0.2)
	if w.ActorPositionX() <= x {
		t.Fatalf("world did not continue after resume")
	}
}

// restingWorld returns a world whose actor has just landed on the first
// obstacle and taken its first hit. The actor does not cruise, so the
// contact persists.
func restingWorld(t *testing.T) *World {
	t.Helper()
	cfg := testConfig()
	cfg.FirstObstacleX = 0
	cfg.ActorStartX = 2
	cfg.ActorStartY = 30
	cfg.CruiseSpeed = 0
	cfg.Generator.TunnelProbability = 0
	cfg.Generator.MinHeightScale = 0.5
	cfg.Generator.MaxHeightScale = 0.5
	w := newTestWorld(t, cfg, nil)

	for i := 0; i < 180 && w.ActorHits() == 0; i++ {
		w.Step(1.0 / 60.0)
	}
	if w.ActorHits() != 1 || w.ActorHealth() != 90 {
		t.Fatalf("expected the first landing hit, got hits=%d health=%d", w.ActorHits(), w.ActorHealth())
	}
	return w
}

func TestPauseWhileCollidingAddsNoDamage(t *testing.T) {
	w := restingWorld(t)

	w.Pause()
	stepSeconds(w, 3)
	w.Resume()
	w.Step(0.2)
	stepSeconds(w, 0.5)
	if w.ActorHits() != 1 || w.ActorHealth() != 90 {
		t.Fatalf("pause must not accrue damage, got hits=%d health=%d", w.ActorHits(), w.ActorHealth())
	}

	stepSeconds(w, 0.6)
	if w.ActorHits() != 2 {
		t.Fatalf("expected the periodic tick to resume, got hits=%d", w.ActorHits())
	}
}

func TestViewportChangeKeepsContact(t *testing.T) {
	w := restingWorld(t)

	w.OnViewportChanged(100, 50)
	stepSeconds(w, 0.05)
	w.OnViewportChanged(110, 50)
	stepSeconds(w, 0.05)
	if w.ActorHits() != 1 || w.ActorHealth() != 90 {
		t.Fatalf("viewport change while colliding applied damage, got hits=%d health=%d", w.ActorHits(), w.ActorHealth())
	}

	// the interval timer keeps running from the landing tick
	stepSeconds(w, 0.8)
	if w.ActorHits() != 1 {
		t.Fatalf("tick came early, hits=%d", w.ActorHits())
	}
	stepSeconds(w, 0.2)
	if w.ActorHits() != 2 || w.ActorHealth() != 80 {
		t.Fatalf("expected the second tick one interval after landing, got hits=%d health=%d", w.ActorHits(), w.ActorHealth())
	}
}

func TestActorLandsOnObstacleAndTakesDamage(t *testing.T) {
	cfg := testConfig()
	cfg.FirstObstacleX = 0
	cfg.ActorStartX = 2
	cfg.ActorStartY = 30
	cfg.Generator.TunnelProbability = 0
	cfg.Generator.MinHeightScale = 0.5
	cfg.Generator.MaxHeightScale = 0.5
	w := newTestWorld(t, cfg, nil)

	stepSeconds(w, 1.5)
	if w.ActorHits() < 1 {
		t.Fatalf("expected at least one hit after landing on the first obstacle")
	}
	if w.ActorHealth() != 100-10*w.ActorHits() {
		t.Fatalf("health %d does not match %d hits", w.ActorHealth(), w.ActorHits())
	}
	if y := w.ActorPositionY(); y < 24 || y > 26 {
		t.Fatalf("expected the actor resting on top of the obstacle at 25, got %v", y)
	}

	if err := w.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if w.ActorHealth() != 100 || w.ActorHits() != 0 || w.ActorPositionX() != 2 {
		t.Fatalf("restart must restore a fresh actor")
	}
}

func TestDifficultyScalesGravity(t *testing.T) {
	fall := func(d int) float64 {
		w := newTestWorld(t, testConfig(), nil)
		w.SetDifficulty(d)
		stepSeconds(w, 0.5)
		return 46 - w.ActorPositionY()
	}
	easy, hard := fall(1), fall(3)
	if hard < easy*2.5 {
		t.Fatalf("difficulty 3 should fall about three times as far, got %v vs %v", hard, easy)
	}

	w := newTestWorld(t, testConfig(), nil)
	w.SetDifficulty(9)
	if w.Difficulty() != 3 {
		t.Fatalf("difficulty must clamp to 3, got %d", w.Difficulty())
	}
}

func TestExtendWorldCullsAndAdvances(t *testing.T) {
	cfg := testConfig()
	cfg.AutoExtend = false
	w := newTestWorld(t, cfg, nil)

	before := w.Frontier()
	if err := w.ExtendWorld(200, 100, 50); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if w.Frontier() < before+200 {
		t.Fatalf("expected frontier past %v, got %v", before+200, w.Frontier())
	}
	if err := w.ExtendWorld(0, 100, 50); err == nil {
		t.Fatalf("expected an error for zero width")
	}

	// move far ahead: everything generated so far falls behind and is culled
	tr, _ := ecs.Get(w.reg.World(), w.reg.Actor(), component.TransformComponent.Kind())
	tr.X = w.Frontier() + 1000
	start := w.Frontier()
	if err := w.ExtendWorld(100, 100, 50); err != nil {
		t.Fatalf("extend: %v", err)
	}
	for _, e := range w.reg.Obstacles() {
		otr, _ := ecs.Get(w.reg.World(), e, component.TransformComponent.Kind())
		if otr.X < start {
			t.Fatalf("obstacle at %v should have been culled", otr.X)
		}
	}
	if w.Simulation().BodyCount() != 3+w.ObstacleCount() {
		t.Fatalf("culled obstacles must release their bodies")
	}
}

func TestAutoExtend(t *testing.T) {
	cfg := testConfig()
	cfg.WorldWidth = 20
	w := newTestWorld(t, cfg, nil)

	before := w.Frontier()
	w.Step(1.0 / 60.0)
	if w.Frontier() <= before {
		t.Fatalf("expected automatic extension when the frontier is within a viewport")
	}
}

func TestDrawVisibleEntities(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)
	r := &recordingRenderer{}
	w.Draw(0, r)

	if len(r.actors) != 1 {
		t.Fatalf("expected the actor drawn once, got %d", len(r.actors))
	}
	if len(r.obstacles) == 0 || len(r.obstacles) >= w.ObstacleCount() {
		t.Fatalf("expected only nearby obstacles drawn, got %d of %d", len(r.obstacles), w.ObstacleCount())
	}
	for _, v := range r.obstacles {
		if v.X > w.ActorPositionX()+100 {
			t.Fatalf("obstacle at %v is off screen", v.X)
		}
		if v.Y != 0 && !v.Flipped {
			t.Fatalf("upper obstacles are drawn flipped")
		}
	}
}

func TestDrawAnimatesActor(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)
	r := &recordingRenderer{}

	w.Draw(0.25, r)
	w.Draw(0.25, r)
	if r.actors[1].Frame != 2 {
		t.Fatalf("expected frame 2 after 0.5s, got %d", r.actors[1].Frame)
	}
	w.Draw(0.5, r)
	if r.actors[2].Frame != 0 {
		t.Fatalf("expected the 4-frame cycle to wrap, got %d", r.actors[2].Frame)
	}

	actor, _ := ecs.Get(w.reg.World(), w.reg.Actor(), component.ActorComponent.Kind())
	actor.FlashTime = 0.33
	w.Draw(0.1, r)
	if !r.actors[3].Flash {
		t.Fatalf("expected hit flash to show")
	}
	w.Draw(0.3, r)
	if r.actors[4].Flash {
		t.Fatalf("expected hit flash to end")
	}
}

func TestViewportChangeRescales(t *testing.T) {
	w := newTestWorld(t, testConfig(), nil)
	w.OnViewportChanged(200, 50)

	r := &recordingRenderer{}
	w.Draw(0, r)
	for _, v := range r.obstacles {
		want := 20.0
		if v.Kind == component.ObstacleTunnel {
			want = 140
		}
		if !near(v.Width, want) {
			t.Fatalf("expected width %v, got %v", want, v.Width)
		}
	}
	if vw, vh := w.Viewport(); vw != 200 || vh != 50 {
		t.Fatalf("viewport not stored")
	}
	w.OnViewportChanged(0, 50)
	if vw, _ := w.Viewport(); vw != 200 {
		t.Fatalf("invalid viewport must be ignored")
	}
}

func TestRetune(t *testing.T) {
	store := storage.NewMemStore()
	w := newTestWorld(t, testConfig(), store)

	w.SetDifficulty(3)

	cfg := testConfig()
	cfg.Damage = 25
	cfg.Gravity = 15
	cfg.Difficulty = 1
	w.Retune(cfg)
	if w.collisions.damage != 25 || w.cfg.Gravity != 15 {
		t.Fatalf("retune not applied")
	}
	if w.Difficulty() != 3 {
		t.Fatalf("retune must keep the chosen difficulty, got %d", w.Difficulty())
	}
}
