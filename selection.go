package join

import (
	"fmt"
	"slices"
)

// Selection is an ordered view of engine indices. Selections are values:
// operations that change the index set return a new Selection, while
// operations that change visuals (Append, Remove, Set) act on the shared
// engine and return the receiver so calls can be chained.
//
// Errors are sticky. Once an operation fails, every later operation on the
// returned Selection is a no-op and Err reports the first failure.
//
// A Selection borrows its engine and must not be used after Compact.
type Selection[S any, V Visual] struct {
	eng *Engine[S, V]
	idx []int
	gen uint64
	err error
}

func (s Selection[S, V]) check() error {
	if s.err != nil {
		return s.err
	}
	if s.eng == nil {
		return fmt.Errorf("%w: selection is not attached to an engine", ErrInvalidState)
	}
	if s.gen != s.eng.gen {
		return ErrStaleSelection
	}
	return nil
}

func (s Selection[S, V]) fail(err error) Selection[S, V] {
	s.err = err
	return s
}

// Err returns the first error recorded on this selection chain.
func (s Selection[S, V]) Err() error {
	if s.err != nil {
		return s.err
	}
	if s.eng != nil && s.gen != s.eng.gen {
		return ErrStaleSelection
	}
	return nil
}

// Len returns the number of indices in the selection.
func (s Selection[S, V]) Len() int { return len(s.idx) }

// Empty reports whether the selection has no indices.
func (s Selection[S, V]) Empty() bool { return len(s.idx) == 0 }

// Indices returns a copy of the selection's indices.
func (s Selection[S, V]) Indices() []int { return slices.Clone(s.idx) }

// Subjects returns the selected subjects in selection order.
func (s Selection[S, V]) Subjects() []S {
	if s.check() != nil {
		return nil
	}
	out := make([]S, len(s.idx))
	for k, i := range s.idx {
		out[k] = s.eng.subjects[i]
	}
	return out
}

// Visuals returns the selected visuals in selection order.
func (s Selection[S, V]) Visuals() []V {
	if s.check() != nil {
		return nil
	}
	out := make([]V, len(s.idx))
	for k, i := range s.idx {
		out[k] = s.eng.visuals[i]
	}
	return out
}

// Each calls fn for every selected subject and its visual, in order.
func (s Selection[S, V]) Each(fn func(S, V)) Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	for _, i := range s.idx {
		fn(s.eng.subjects[i], s.eng.visuals[i])
	}
	return s
}

// EachIndex is Each with the engine index of every element.
func (s Selection[S, V]) EachIndex(fn func(i int, subject S, visual V)) Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	for _, i := range s.idx {
		fn(i, s.eng.subjects[i], s.eng.visuals[i])
	}
	return s
}

// Filter returns the elements for which keep returns true, in the same
// order. pos is the element's position in s.
func (s Selection[S, V]) Filter(keep func(subject S, pos int) bool) Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	out := Selection[S, V]{eng: s.eng, gen: s.gen}
	for pos, i := range s.idx {
		if keep(s.eng.subjects[i], pos) {
			out.idx = append(out.idx, i)
		}
	}
	return out
}

// Merge returns the union of s and other in index order. If either side is
// empty the other is returned unchanged. Both selections must come from the
// same engine.
func (s Selection[S, V]) Merge(other Selection[S, V]) Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	if err := other.check(); err != nil {
		return s.fail(err)
	}
	if s.eng != other.eng {
		return s.fail(fmt.Errorf("%w: merging selections of different engines", ErrInvalidArgument))
	}
	if s.Empty() {
		return other
	}
	if other.Empty() {
		return s
	}
	a, b := s.idx, other.idx
	if !slices.IsSorted(a) {
		a = sortedCopy(a)
	}
	if !slices.IsSorted(b) {
		b = sortedCopy(b)
	}
	return Selection[S, V]{eng: s.eng, idx: mergeSorted(a, b), gen: s.gen}
}

// Sort returns s stably sorted by the referenced subjects. A nil cmp uses
// Config.Compare. The engine's slots are not reordered.
func (s Selection[S, V]) Sort(cmp func(a, b S) int) Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	if cmp == nil {
		cmp = s.eng.compare
	}
	subjects := s.eng.subjects
	idx := slices.Clone(s.idx)
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp(subjects[a], subjects[b])
	})
	return Selection[S, V]{eng: s.eng, idx: idx, gen: s.gen}
}

// Append replaces the visual of every element with the result of gen.
func (s Selection[S, V]) Append(gen func(subject S, pos int) V) Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	if gen == nil {
		return s.fail(fmt.Errorf("%w: nil visual generator", ErrInvalidArgument))
	}
	for pos, i := range s.idx {
		s.eng.visuals[i] = gen(s.eng.subjects[i], pos)
	}
	return s
}

// Remove destroys the visual of every element immediately.
func (s Selection[S, V]) Remove() Selection[S, V] {
	if err := s.check(); err != nil {
		return s.fail(err)
	}
	for _, i := range s.idx {
		s.eng.visuals[i].Destroy()
		s.eng.emit(Event{Type: EventDestroyed, Index: i, Clock: s.eng.clock.elapsed})
	}
	return s
}

// Transition starts a transition over the current elements of s.
func (s Selection[S, V]) Transition() *Transition[S, V] {
	return newTransition(s)
}
