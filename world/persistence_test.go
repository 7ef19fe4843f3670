package world

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/milk9111/emgflappy/storage"
)

func newTestWorld(t *testing.T, cfg Config, store storage.Store) *World {
	t.Helper()
	w, err := New(cfg, WithLogger(quietLog()), WithStore(store))
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := storage.NewMemStore()
	w := newTestWorld(t, testConfig(), store)
	for i := 0; i < 90; i++ {
		w.Step(1.0 / 60.0)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved := w.Snapshot()

	cfg := testConfig()
	cfg.TryLoad = true
	cfg.Seed = 1234
	loaded := newTestWorld(t, cfg, store)
	got := loaded.Snapshot()

	if len(got.Obstacles) != len(saved.Obstacles) {
		t.Fatalf("expected %d obstacles, got %d", len(saved.Obstacles), len(got.Obstacles))
	}
	for i := range saved.Obstacles {
		a, b := saved.Obstacles[i], got.Obstacles[i]
		if a.Kind != b.Kind || !near(a.X, b.X) || !near(a.Y, b.Y) || !near(a.Height, b.Height) {
			t.Fatalf("obstacle %d: expected %+v, got %+v", i, a, b)
		}
	}
	if got.Frontier != saved.Frontier {
		t.Fatalf("expected frontier %v, got %v", saved.Frontier, got.Frontier)
	}
	if got.Actor.Health != saved.Actor.Health || !near(got.Actor.X, saved.Actor.X) || !near(got.Actor.Y, saved.Actor.Y) {
		t.Fatalf("expected actor %+v, got %+v", saved.Actor, got.Actor)
	}
}

func TestLoadCorruptLeavesWorldUntouched(t *testing.T) {
	store := storage.NewMemStore()
	cfg := testConfig()
	w := newTestWorld(t, cfg, store)
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	good, _ := store.Read(cfg.SaveSlot)
	countAt := bytes.LastIndex(good, []byte("\ncount:"))
	if countAt < 0 {
		t.Fatalf("count must be the last field:\n%s", good)
	}

	for i := 0; i < 5; i++ {
		w.Step(0.1)
	}
	before := w.Snapshot()
	bodies := w.Simulation().BodyCount()

	cuts := []int{0, 1, len(good) / 3, len(good) / 2, countAt - 1, countAt}
	for _, cut := range cuts {
		store.Write(cfg.SaveSlot, good[:cut])
		err := w.Load()
		if !errors.Is(err, ErrCorruptSave) {
			t.Fatalf("cut at %d: expected ErrCorruptSave, got %v", cut, err)
		}
		if !reflect.DeepEqual(before, w.Snapshot()) || w.Simulation().BodyCount() != bodies {
			t.Fatalf("cut at %d: failed load changed the world", cut)
		}
	}

	store.Delete(cfg.SaveSlot)
	if err := w.Load(); !errors.Is(err, storage.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if !reflect.DeepEqual(before, w.Snapshot()) {
		t.Fatalf("missing save changed the world")
	}
}

func TestDecodeSnapshotErrors(t *testing.T) {
	valid := `version: 1
frontier: 70
actor:
  x: 1
  y: 2
  health: 90
obstacles:
  - kind: normal
    x: 30
    y: 0
    height: 20
  - kind: tunnel
    x: 40
    y: 10
    height: 40
count: 2
`
	cases := []struct {
		name    string
		blob    string
		wantErr error
	}{
		{"valid", valid, nil},
		{"future_version", strings.Replace(valid, "version: 1", "version: 2", 1), ErrSchemaMismatch},
		{"unknown_kind", strings.Replace(valid, "kind: tunnel", "kind: spiky", 1), ErrSchemaMismatch},
		{"unknown_field", strings.Replace(valid, "frontier: 70", "frontier: 70\nscore: 3", 1), ErrCorruptSave},
		{"count_mismatch", strings.Replace(valid, "count: 2", "count: 3", 1), ErrCorruptSave},
		{"missing_health", strings.Replace(valid, "  health: 90\n", "", 1), ErrCorruptSave},
		{"missing_height", strings.Replace(valid, "    height: 20\n", "", 1), ErrCorruptSave},
		{"zero_height", strings.Replace(valid, "height: 20", "height: 0", 1), ErrCorruptSave},
		{"out_of_order", strings.Replace(valid, "x: 40", "x: 20", 1), ErrCorruptSave},
		{"not_yaml", "{{{", ErrCorruptSave},
		{"empty", "", ErrCorruptSave},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := DecodeSnapshot([]byte(c.blob))
			if c.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(s.Obstacles) != 2 || s.Actor.Health != 90 || s.Frontier != 70 {
					t.Fatalf("unexpected snapshot %+v", s)
				}
				return
			}
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
		})
	}
}

func TestLoadRejectsOverflowingGeometry(t *testing.T) {
	// each field is finite but the derived body center is not
	blob := []byte(`version: 1
frontier: 70
actor:
  x: 1
  y: 30
  health: 90
obstacles:
  - kind: normal
    x: 30
    y: 1.7e308
    height: 1.7e308
count: 1
`)
	if _, err := DecodeSnapshot(blob); err != nil {
		t.Fatalf("fields are individually valid: %v", err)
	}

	store := storage.NewMemStore()
	cfg := testConfig()
	w := newTestWorld(t, cfg, store)
	before := w.Snapshot()
	bodies := w.Simulation().BodyCount()

	store.Write(cfg.SaveSlot, blob)
	if err := w.Load(); !errors.Is(err, ErrCorruptSave) {
		t.Fatalf("expected ErrCorruptSave, got %v", err)
	}
	if !reflect.DeepEqual(before, w.Snapshot()) || w.Simulation().BodyCount() != bodies {
		t.Fatalf("failed load changed the world")
	}

	cfg.TryLoad = true
	fresh := newTestWorld(t, cfg, store)
	if fresh.ActorHealth() != 100 || fresh.ObstacleCount() == 0 {
		t.Fatalf("expected a fresh world, got health=%d obstacles=%d", fresh.ActorHealth(), fresh.ObstacleCount())
	}
}

func TestEncodeSnapshotKeepsUnboundedHealth(t *testing.T) {
	data, err := EncodeSnapshot(Snapshot{Frontier: 1, Actor: ActorSnapshot{Health: math.MaxInt}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Actor.Health != math.MaxInt || len(s.Obstacles) != 0 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestNewFallsBackOnCorruptSave(t *testing.T) {
	store := storage.NewMemStore()
	cfg := testConfig()
	store.Write(cfg.SaveSlot, []byte("version: 1\nfrontier: 12"))
	cfg.TryLoad = true

	w := newTestWorld(t, cfg, store)
	if w.ActorHealth() != 100 || w.Frontier() < cfg.FirstObstacleX+cfg.WorldWidth {
		t.Fatalf("expected a fresh world, got health=%d frontier=%v", w.ActorHealth(), w.Frontier())
	}
}
