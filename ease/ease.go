// Package ease provides the easing curves used by join transitions.
//
// A curve maps normalized time in [0, 1] to a blend factor. Most curves stay
// inside [0, 1]; the Back and Elastic families overshoot on purpose and
// callers must not clamp them unless they ask for it with [Clamp].
//
// The built-in curves are the Penner equations shipped by [gween], adapted
// to the single-argument form. Curves can be looked up by [ID] or by name,
// and hosts may [Register] their own.
//
// [gween]: https://github.com/tanema/gween
package ease

import (
	gease "github.com/tanema/gween/ease"
)

// Func maps normalized time t to a blend factor.
type Func func(t float32) float32

// FromTween adapts a gween easing function (begin, change, duration form) to
// a normalized Func.
func FromTween(fn gease.TweenFunc) Func {
	return func(t float32) float32 {
		return fn(t, 0, 1, 1)
	}
}

// Built-in curves. Cubic (in-out) is the default transition curve.
var (
	Linear = FromTween(gease.Linear)

	CubicIn  = FromTween(gease.InCubic)
	CubicOut = FromTween(gease.OutCubic)
	Cubic    = FromTween(gease.InOutCubic)

	BounceIn  = FromTween(gease.InBounce)
	BounceOut = FromTween(gease.OutBounce)
	Bounce    = FromTween(gease.InOutBounce)

	ElasticIn  = FromTween(gease.InElastic)
	ElasticOut = FromTween(gease.OutElastic)
	Elastic    = FromTween(gease.InOutElastic)

	BackIn  = FromTween(gease.InBack)
	BackOut = FromTween(gease.OutBack)
	Back    = FromTween(gease.InOutBack)

	QuadIn  = FromTween(gease.InQuad)
	QuadOut = FromTween(gease.OutQuad)
	Quad    = FromTween(gease.InOutQuad)

	SineIn  = FromTween(gease.InSine)
	SineOut = FromTween(gease.OutSine)
	Sine    = FromTween(gease.InOutSine)

	ExpoIn  = FromTween(gease.InExpo)
	ExpoOut = FromTween(gease.OutExpo)
	Expo    = FromTween(gease.InOutExpo)

	CircIn  = FromTween(gease.InCirc)
	CircOut = FromTween(gease.OutCirc)
	Circ    = FromTween(gease.InOutCirc)
)

// Default is the curve a new transition starts with.
var Default = Cubic
