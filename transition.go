package join

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/phanxgames/join/ease"
)

// Transition defaults.
const (
	DefaultDelay    float32 = 0
	DefaultDuration float32 = 0.25
)

type timing struct {
	delay    float32
	duration float32
}

// Transition schedules tweens over the elements a selection held when the
// transition was created. Timing is per element; the ease curve and the
// remove-on-end flag apply to the whole transition.
//
// Delays are measured on the engine's shared clock, which restarts from zero
// whenever the engine goes idle.
//
// Like Selection, Transition records the first error and turns every later
// call into a no-op.
type Transition[S any, V Visual] struct {
	sel         Selection[S, V]
	timing      []timing
	ease        ease.Func
	removeOnEnd bool
	owner       uint64
	scheduled   int
	err         error
}

func newTransition[S any, V Visual](sel Selection[S, V]) *Transition[S, V] {
	if err := sel.check(); err != nil {
		return &Transition[S, V]{sel: sel, err: err}
	}
	sel.eng.nextOwner++
	tr := &Transition[S, V]{
		sel:    sel,
		timing: make([]timing, len(sel.idx)),
		ease:   ease.Default,
		owner:  sel.eng.nextOwner,
	}
	for k := range tr.timing {
		tr.timing[k] = timing{delay: DefaultDelay, duration: DefaultDuration}
	}
	return tr
}

func (tr *Transition[S, V]) check() error {
	if tr.err != nil {
		return tr.err
	}
	return tr.sel.check()
}

func (tr *Transition[S, V]) fail(err error) *Transition[S, V] {
	if tr.err == nil {
		tr.err = err
	}
	return tr
}

// Err returns the first error recorded on this transition.
func (tr *Transition[S, V]) Err() error { return tr.check() }

// Selection returns the selection the transition was created from.
func (tr *Transition[S, V]) Selection() Selection[S, V] { return tr.sel }

// Scheduled returns the number of tweens this transition has created.
func (tr *Transition[S, V]) Scheduled() int { return tr.scheduled }

func validDelay(d float32) bool    { return d >= 0 && !math32.IsInf(d, 1) }
func validDuration(d float32) bool { return d > 0 && !math32.IsInf(d, 1) }

// Delay sets the same start delay, in seconds, for every element.
func (tr *Transition[S, V]) Delay(d float32) *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	if !validDelay(d) {
		return tr.fail(fmt.Errorf("%w: delay %v", ErrInvalidArgument, d))
	}
	for k := range tr.timing {
		tr.timing[k].delay = d
	}
	return tr
}

// DelayFunc sets a per-element start delay. pos is the element's position in
// the selection.
func (tr *Transition[S, V]) DelayFunc(fn func(subject S, pos int) float32) *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	if fn == nil {
		return tr.fail(fmt.Errorf("%w: nil delay provider", ErrInvalidArgument))
	}
	next := make([]float32, len(tr.timing))
	for pos, i := range tr.sel.idx {
		d := fn(tr.sel.eng.subjects[i], pos)
		if !validDelay(d) {
			return tr.fail(fmt.Errorf("%w: delay %v at position %d", ErrInvalidArgument, d, pos))
		}
		next[pos] = d
	}
	for k, d := range next {
		tr.timing[k].delay = d
	}
	return tr
}

// Duration sets the same duration, in seconds, for every element. d must be
// positive.
func (tr *Transition[S, V]) Duration(d float32) *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	if !validDuration(d) {
		return tr.fail(fmt.Errorf("%w: duration %v must be > 0", ErrInvalidArgument, d))
	}
	for k := range tr.timing {
		tr.timing[k].duration = d
	}
	return tr
}

// DurationFunc sets a per-element duration. Every value must be positive;
// on failure no duration is changed.
func (tr *Transition[S, V]) DurationFunc(fn func(subject S, pos int) float32) *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	if fn == nil {
		return tr.fail(fmt.Errorf("%w: nil duration provider", ErrInvalidArgument))
	}
	next := make([]float32, len(tr.timing))
	for pos, i := range tr.sel.idx {
		d := fn(tr.sel.eng.subjects[i], pos)
		if !validDuration(d) {
			return tr.fail(fmt.Errorf("%w: duration %v at position %d must be > 0", ErrInvalidArgument, d, pos))
		}
		next[pos] = d
	}
	for k, d := range next {
		tr.timing[k].duration = d
	}
	return tr
}

// Ease sets the curve used by tweens created after this call.
func (tr *Transition[S, V]) Ease(fn ease.Func) *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	if fn == nil {
		return tr.fail(fmt.Errorf("%w: nil ease curve", ErrInvalidArgument))
	}
	tr.ease = fn
	return tr
}

// EaseNamed is Ease with a curve looked up by name in the ease registry.
func (tr *Transition[S, V]) EaseNamed(name string) *Transition[S, V] {
	fn, ok := ease.ByName(name)
	if !ok {
		return tr.fail(fmt.Errorf("%w: unknown ease curve %q", ErrInvalidArgument, name))
	}
	return tr.Ease(fn)
}

// Remove makes the transition destroy each element's visual when its tweens
// end. It applies to tweens already created by this transition and to those
// created later, never to tweens of other transitions.
func (tr *Transition[S, V]) Remove() *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	tr.removeOnEnd = true
	if tr.scheduled == 0 {
		return tr
	}
	headers := tr.sel.eng.tweens.headers
	for k := range headers {
		if headers[k].owner == tr.owner {
			headers[k].removeOnEnd = true
		}
	}
	return tr
}

// Tween schedules prop on every element of tr's selection: from the value
// the visual holds now to the value fn returns. Each call adds tweens; it
// never replaces tweens scheduled earlier, by this or any other transition.
func Tween[S any, V Visual, T any](tr *Transition[S, V], prop Property[V, T], fn func(subject S, pos int) T) *Transition[S, V] {
	if err := tr.check(); err != nil {
		return tr.fail(err)
	}
	if err := prop.validate(); err != nil {
		return tr.fail(err)
	}
	if fn == nil {
		return tr.fail(fmt.Errorf("%w: nil value provider for property %q", ErrInvalidArgument, prop.Name))
	}
	if tr.sel.Empty() {
		return tr
	}

	lerp, err := lerpFor[T]()
	if err != nil {
		return tr.fail(fmt.Errorf("tween %q: %w", prop.Name, err))
	}
	e := tr.sel.eng
	ch := channelFor[S, V, T](e)

	for pos, i := range tr.sel.idx {
		slot := ch.add(prop.get(e.visuals[i]), fn(e.subjects[i], pos), lerp, prop.set)
		e.tweens.headers = append(e.tweens.headers, tweenHeader{
			index:       i,
			prop:        prop.ID,
			delay:       tr.timing[pos].delay,
			duration:    tr.timing[pos].duration,
			ease:        tr.ease,
			removeOnEnd: tr.removeOnEnd,
			owner:       tr.owner,
			ch:          ch,
			slot:        slot,
		})
	}
	tr.scheduled += len(tr.sel.idx)
	return tr
}
