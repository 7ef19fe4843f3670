package prefabs

import (
	"time"
)

// WorldSpecTracker remembers the world spec last handed to the game so a
// reload can tell which values the file actually changed.
type WorldSpecTracker struct {
	current *WorldSpec
	mod     time.Time
}

func NewWorldSpecTracker(initial *WorldSpec) *WorldSpecTracker {
	mod, _ := ModTime(WorldSpecFile)
	return &WorldSpecTracker{current: initial, mod: mod}
}

// Current is the spec most recently loaded.
func (t *WorldSpecTracker) Current() *WorldSpec {
	return t.current
}

// Reload re-reads world.yaml if its disk copy changed since the last load.
// It returns the new and the previous spec; ok is false when the file is
// unchanged and nothing was read.
func (t *WorldSpecTracker) Reload() (next, prev *WorldSpec, ok bool, err error) {
	mod, _ := ModTime(WorldSpecFile)
	if mod.Equal(t.mod) {
		return nil, nil, false, nil
	}
	spec, err := LoadWorldSpec()
	if err != nil {
		return nil, nil, false, err
	}
	prev = t.current
	t.current, t.mod = spec, mod
	return spec, prev, true, nil
}
