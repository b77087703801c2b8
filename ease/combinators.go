package ease

import "github.com/chewxy/math32"

// Steps returns a staircase curve with n equal steps. n < 1 is treated as 1.
func Steps(n int) Func {
	if n < 1 {
		n = 1
	}
	steps := float32(n)
	return func(t float32) float32 {
		if t >= 1 {
			return 1
		}
		return math32.Floor(t*steps) / steps
	}
}

// Reverse mirrors fn in both axes, turning an "in" curve into an "out" curve.
func Reverse(fn Func) Func {
	return func(t float32) float32 {
		return 1 - fn(1-t)
	}
}

// Clamp clips the output of fn to [0, 1], removing overshoot.
func Clamp(fn Func) Func {
	return func(t float32) float32 {
		return math32.Max(0, math32.Min(1, fn(t)))
	}
}
