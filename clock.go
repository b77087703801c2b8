package join

// ClockState is the state of the engine's shared animation clock.
type ClockState uint8

const (
	ClockIdle    ClockState = iota // nothing in flight; elapsed is zero
	ClockRunning                   // at least one tween was in flight after the last Advance
)

func (s ClockState) String() string {
	if s == ClockRunning {
		return "running"
	}
	return "idle"
}

// clock is shared by every tween of an engine. Tween delays are measured
// against it, so it only returns to zero through reset, when nothing is
// pending or active.
type clock struct {
	state   ClockState
	elapsed float32
}

func (c *clock) tick(dt float32) float32 {
	c.elapsed += dt
	c.state = ClockRunning
	return c.elapsed
}

func (c *clock) reset() {
	c.elapsed = 0
	c.state = ClockIdle
}
