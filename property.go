package join

import "fmt"

// Property is a typed handle on one property of a visual type. It carries the
// property id used for events and the accessors join uses to read start
// values and write interpolated ones.
//
// Build one with NewProperty, or with Attr for visuals implementing Accessor.
type Property[V, T any] struct {
	ID   PropertyID
	Name string

	get func(V) T
	set func(V, T)
}

// NewProperty returns a property handle backed by get and set.
func NewProperty[V, T any](id PropertyID, name string, get func(V) T, set func(V, T)) Property[V, T] {
	return Property[V, T]{ID: id, Name: name, get: get, set: set}
}

// Accessor is implemented by visuals that expose properties of type T by id.
type Accessor[T any] interface {
	Visual
	Property(id PropertyID) T
	SetProperty(id PropertyID, value T)
}

// Attr returns a property handle that forwards to V's Accessor methods.
func Attr[V Accessor[T], T any](id PropertyID, name string) Property[V, T] {
	return NewProperty(id, name,
		func(v V) T { return v.Property(id) },
		func(v V, value T) { v.SetProperty(id, value) },
	)
}

// Get reads the property from v.
func (p Property[V, T]) Get(v V) T { return p.get(v) }

// Set writes the property on v.
func (p Property[V, T]) Set(v V, value T) { p.set(v, value) }

func (p Property[V, T]) validate() error {
	if p.get == nil || p.set == nil {
		return fmt.Errorf("%w: property %d (%q) has no accessors", ErrInvalidArgument, p.ID, p.Name)
	}
	return nil
}

// Set writes prop on every element of sel immediately, using the value fn
// returns for it. pos is the element's position in sel.
func Set[S any, V Visual, T any](sel Selection[S, V], prop Property[V, T], fn func(subject S, pos int) T) Selection[S, V] {
	if err := sel.check(); err != nil {
		return sel.fail(err)
	}
	if err := prop.validate(); err != nil {
		return sel.fail(err)
	}
	if fn == nil {
		return sel.fail(fmt.Errorf("%w: nil value provider for property %q", ErrInvalidArgument, prop.Name))
	}
	for pos, i := range sel.idx {
		prop.set(sel.eng.visuals[i], fn(sel.eng.subjects[i], pos))
	}
	return sel
}

// Values reads prop from every element of sel, in selection order.
func Values[S any, V Visual, T any](sel Selection[S, V], prop Property[V, T]) ([]T, error) {
	if err := sel.check(); err != nil {
		return nil, err
	}
	if err := prop.validate(); err != nil {
		return nil, err
	}
	out := make([]T, len(sel.idx))
	for k, i := range sel.idx {
		out[k] = prop.get(sel.eng.visuals[i])
	}
	return out, nil
}

// Const returns a value provider that yields v for every element.
func Const[S, T any](v T) func(S, int) T {
	return func(S, int) T { return v }
}
