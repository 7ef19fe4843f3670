package common

import "testing"

func TestViewportWidth(t *testing.T) {
	cases := []struct {
		name string
		w, h int
		want float64
	}{
		{"base", BaseWidth, BaseHeight, WorldHeight * 16 / 9},
		{"square", 500, 500, WorldHeight},
		{"zero_height_uses_base", 100, 0, WorldHeight * BaseWidth / BaseHeight},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ViewportWidth(c.w, c.h, WorldHeight)
			if d := got - c.want; d > 1e-9 || d < -1e-9 {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestLerpClamp(t *testing.T) {
	if Lerp(0, 10, 0.25) != 2.5 {
		t.Fatalf("unexpected lerp")
	}
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatalf("unexpected clamp")
	}
	if Clamp(1.5, 0.0, 1.0) != 1.0 {
		t.Fatalf("unexpected float clamp")
	}
}
