package join

import "math"

// PropertyID identifies an animatable property of a visual (position, color,
// width, ...). The meaning of each id belongs to the visual type.
type PropertyID uint32

// Visual is the per-subject state that join creates, animates and retires.
// Destroy must be idempotent: join may call it again on a visual that has
// already been torn down.
type Visual interface {
	Destroy()
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// Lerp blends c towards to by t. t outside [0, 1] extrapolates.
func (c Color) Lerp(to Color, t float32) Color {
	f := float64(t)
	return Color{
		R: c.R*(1-f) + to.R*f,
		G: c.G*(1-f) + to.G*f,
		B: c.B*(1-f) + to.B*f,
		A: c.A*(1-f) + to.A*f,
	}
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Lerp blends v towards to by t. t outside [0, 1] extrapolates.
func (v Vec2) Lerp(to Vec2, t float32) Vec2 {
	f := float64(t)
	return Vec2{
		X: v.X*(1-f) + to.X*f,
		Y: v.Y*(1-f) + to.Y*f,
	}
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}
