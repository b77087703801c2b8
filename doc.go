// Package join binds keyed data to visuals and animates them, in the manner
// of a d3 data join.
//
// An [Engine] tracks two index-aligned slices: the subjects you bind and the
// visuals derived from them. Every call to [Engine.Bind] classifies the
// subjects of the new batch into three disjoint selections:
//
//   - enter: subjects not alive before this bind (new keys, or keys that had
//     exited earlier);
//   - update: subjects that were alive and still are;
//   - exit: subjects that were alive and are missing from the batch.
//
// # Quick start
//
//	eng, err := join.New(join.Config[Person, int, *Bar]{
//		Key:       func(p Person) int { return p.ID },
//		Compare:   func(a, b Person) int { return strings.Compare(a.Name, b.Name) },
//		NewVisual: func() *Bar { return &Bar{} },
//	})
//	// ...
//	eng.Bind(people)
//	eng.Enter().Append(func(p Person, pos int) *Bar { return NewBar(p) })
//	join.Tween(eng.Exit().Transition().Duration(0.5), Width, join.Const[Person](float32(0))).Remove()
//
// Then call [Engine.Advance] once per frame with the elapsed time.
//
// # Selections
//
// A [Selection] is an ordered list of engine indices. Filter, Merge and Sort
// return new selections; Append, Remove and [Set] change visuals in place.
// Errors are sticky and surface through Err, so chains read top to bottom.
//
// # Properties
//
// Visual properties are addressed through typed [Property] handles, built
// with [NewProperty] from accessor functions or with [Attr] for visuals that
// implement [Accessor]. A visual can expose properties of any number of value
// types.
//
// # Transitions
//
// [Selection.Transition] captures per-element delay and duration and a single
// ease curve (see package ease). [Tween] then schedules one tween per
// element from the visual's current value to a target value. Values are
// interpolated with [Lerper], a function installed by [RegisterLerp], or the
// built-in rules for numbers, strings and bools.
//
// All tweens of an engine share one clock. It runs while any tween is
// pending or active and returns to zero when the engine goes idle.
//
// # Slots and Compact
//
// Exiting subjects keep their index so selections stay valid across binds.
// Memory therefore grows with the number of distinct keys ever bound.
// [Engine.Compact] reclaims retired slots and invalidates every selection
// taken before it.
//
// The ecs module bridges visuals and lifecycle events into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package join
