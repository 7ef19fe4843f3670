package physics

const (
	DefaultTimeStep     = 1.0 / 60.0
	DefaultMaxFrameTime = 0.25
)

// Accumulator turns variable frame times into a whole number of fixed
// steps. The remainder carries over to the next frame.
type Accumulator struct {
	step     float64
	maxFrame float64
	acc      float64
}

func NewAccumulator(step, maxFrame float64) *Accumulator {
	if step <= 0 {
		step = DefaultTimeStep
	}
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameTime
	}
	return &Accumulator{step: step, maxFrame: maxFrame}
}

// Advance adds the clamped frame time and calls fn once per fixed step.
// It returns the number of steps taken.
func (a *Accumulator) Advance(dt float64, fn func(step float64)) int {
	if a == nil {
		return 0
	}
	if dt > a.maxFrame {
		dt = a.maxFrame
	}
	if dt > 0 {
		a.acc += dt
	}
	steps := 0
	for a.acc >= a.step {
		if fn != nil {
			fn(a.step)
		}
		a.acc -= a.step
		steps++
	}
	return steps
}

func (a *Accumulator) Step() float64 {
	return a.step
}

// Remainder is the time left over for the next frame.
func (a *Accumulator) Remainder() float64 {
	return a.acc
}

func (a *Accumulator) Reset() {
	a.acc = 0
}
