package physics

import (
	"math"
	"testing"
)

func TestAccumulatorAdvance(t *testing.T) {
	cases := []struct {
		name      string
		step      float64
		maxFrame  float64
		frames    []float64
		wantSteps int
		wantRem   float64
	}{
		{"below_one_step", 0.125, 1, []float64{0.1}, 0, 0.1},
		{"two_steps_with_remainder", 0.125, 1, []float64{0.3}, 2, 0.05},
		{"remainder_carries_over", 0.125, 1, []float64{0.1, 0.1, 0.1}, 2, 0.05},
		{"clamped_frame", 0.125, 0.25, []float64{10}, 2, 0},
		{"negative_frame_ignored", 0.125, 1, []float64{-1, 0.125}, 1, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			acc := NewAccumulator(c.step, c.maxFrame)
			steps := 0
			for _, dt := range c.frames {
				steps += acc.Advance(dt, func(step float64) {
					if step != c.step {
						t.Fatalf("expected fixed step %v, got %v", c.step, step)
					}
				})
			}
			if steps != c.wantSteps {
				t.Fatalf("expected %d steps, got %d", c.wantSteps, steps)
			}
			if math.Abs(acc.Remainder()-c.wantRem) > 1e-9 {
				t.Fatalf("expected remainder %v, got %v", c.wantRem, acc.Remainder())
			}
		})
	}
}

func TestAccumulatorDefaults(t *testing.T) {
	acc := NewAccumulator(0, 0)
	if acc.Step() != DefaultTimeStep {
		t.Fatalf("expected default step, got %v", acc.Step())
	}
	// a stalled frame never runs more than maxFrame worth of steps
	steps := acc.Advance(5, nil)
	if steps > 15 {
		t.Fatalf("expected at most 15 steps after clamp, got %d", steps)
	}
	acc.Reset()
	if acc.Remainder() != 0 {
		t.Fatalf("expected empty accumulator after reset")
	}
}
