package join

import (
	"fmt"
	"math"
	"reflect"
	"sync"
)

// LerpFunc blends from towards to by t. t is the eased time and may leave
// [0, 1] for overshooting curves; implementations must extrapolate rather
// than clamp.
type LerpFunc[T any] func(from, to T, t float32) T

// Lerper is implemented by value types that know how to interpolate
// themselves. Vec2 and Color implement it.
type Lerper[T any] interface {
	Lerp(to T, t float32) T
}

var (
	lerpMu     sync.RWMutex
	lerpByType = map[reflect.Type]any{}
)

// RegisterLerp installs fn as the interpolation for values of type T,
// overriding Lerper and the built-in numeric rules. The interpolation is
// looked up each time Tween is called, so fn applies to every later Tween on
// any engine; tweens already scheduled keep the function they were created
// with.
func RegisterLerp[T any](fn LerpFunc[T]) {
	lerpMu.Lock()
	defer lerpMu.Unlock()
	lerpByType[reflect.TypeFor[T]()] = fn
}

// lerpFor resolves the interpolation for T: a registered function, then the
// Lerper method set, then the built-in kinds.
func lerpFor[T any]() (LerpFunc[T], error) {
	typ := reflect.TypeFor[T]()

	lerpMu.RLock()
	registered, ok := lerpByType[typ]
	lerpMu.RUnlock()
	if ok {
		return registered.(LerpFunc[T]), nil
	}

	var zero T
	switch any(zero).(type) {
	case float32:
		return any(LerpFunc[float32](lerpFloat32)).(LerpFunc[T]), nil
	case float64:
		return any(LerpFunc[float64](lerpFloat64)).(LerpFunc[T]), nil
	}
	if _, ok := any(zero).(Lerper[T]); ok {
		return func(from, to T, t float32) T {
			return any(from).(Lerper[T]).Lerp(to, t)
		}, nil
	}

	if fn := builtinLerp(typ); fn != nil {
		return func(from, to T, t float32) T {
			return fn(reflect.ValueOf(from), reflect.ValueOf(to), t).Interface().(T)
		}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrNotInterpolable, typ)
}

func lerpFloat32(from, to, t float32) float32 {
	return from*(1-t) + to*t
}

func lerpFloat64(from, to float64, t float32) float64 {
	f := float64(t)
	return from*(1-f) + to*f
}

// builtinLerp handles numeric, string and bool kinds, including named types
// such as `type Angle float64`.
func builtinLerp(typ reflect.Type) func(from, to reflect.Value, t float32) reflect.Value {
	switch typ.Kind() {
	case reflect.Float32, reflect.Float64:
		return func(from, to reflect.Value, t float32) reflect.Value {
			f := float64(t)
			out := reflect.New(typ).Elem()
			out.SetFloat(from.Float()*(1-f) + to.Float()*f)
			return out
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(from, to reflect.Value, t float32) reflect.Value {
			f := float64(t)
			out := reflect.New(typ).Elem()
			out.SetInt(int64(math.Round(float64(from.Int())*(1-f) + float64(to.Int())*f)))
			return out
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(from, to reflect.Value, t float32) reflect.Value {
			f := float64(t)
			v := math.Round(float64(from.Uint())*(1-f) + float64(to.Uint())*f)
			out := reflect.New(typ).Elem()
			out.SetUint(uint64(math.Max(0, v)))
			return out
		}
	case reflect.String, reflect.Bool:
		// Discrete: hold the start value until the tween settles.
		return func(from, to reflect.Value, t float32) reflect.Value {
			if t >= 1 {
				return to
			}
			return from
		}
	}
	return nil
}
