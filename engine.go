package join

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
)

// DuplicatePolicy decides what Bind does with a batch that contains the same
// key more than once.
type DuplicatePolicy uint8

const (
	// DuplicatesReject fails the Bind with ErrDuplicateKey and leaves the
	// engine untouched.
	DuplicatesReject DuplicatePolicy = iota

	// DuplicatesLastWins stores the last occurrence (in sorted batch order)
	// and classifies the index as enter, even if an earlier occurrence in the
	// same batch classified it as update.
	DuplicatesLastWins
)

// Config configures a new Engine. Key and Compare are required.
type Config[S any, K comparable, V Visual] struct {
	// Key returns the identity of a subject. Two subjects with equal keys are
	// the same logical entity across binds.
	Key func(S) K

	// Compare orders subjects. Bind sorts each batch with it and it is the
	// default order for Selection.Sort.
	Compare func(a, b S) int

	// NewVisual constructs the visual of a newly entered subject. When nil
	// the zero value of V is used, which New only accepts for value visual
	// types; pointer and interface visuals require a factory.
	NewVisual func() V

	// Duplicates selects the duplicate-key policy. Default: DuplicatesReject.
	Duplicates DuplicatePolicy

	// Events, when non-nil, receives lifecycle events.
	Events EventSink

	// Debug enables invariant checks and per-call stats. Stats go to
	// DebugOutput, or stderr when nil.
	Debug       bool
	DebugOutput io.Writer
}

// keyIndex hides the key type of an engine behind the subject type.
type keyIndex[S any] interface {
	lookup(s S) (int, bool)
	store(s S, i int)
	firstDuplicate(batch []S) (S, bool)
	rebuild(subjects []S)
}

type keyMap[S any, K comparable] struct {
	key func(S) K
	m   map[K]int
}

func (k *keyMap[S, K]) lookup(s S) (int, bool) {
	i, ok := k.m[k.key(s)]
	return i, ok
}

func (k *keyMap[S, K]) store(s S, i int) {
	k.m[k.key(s)] = i
}

func (k *keyMap[S, K]) firstDuplicate(batch []S) (S, bool) {
	seen := make(map[K]struct{}, len(batch))
	for _, s := range batch {
		key := k.key(s)
		if _, ok := seen[key]; ok {
			return s, true
		}
		seen[key] = struct{}{}
	}
	var zero S
	return zero, false
}

func (k *keyMap[S, K]) rebuild(subjects []S) {
	k.m = make(map[K]int, len(subjects))
	for i, s := range subjects {
		k.m[k.key(s)] = i
	}
}

// Engine binds subjects to visuals and animates visual properties.
//
// Subjects and visuals live in two index-aligned slices. An index denotes the
// same logical entity for as long as the engine lives: exiting subjects keep
// their slot, so memory grows with the number of distinct keys ever bound
// until Compact is called.
//
// An Engine is not safe for concurrent use.
type Engine[S any, V Visual] struct {
	subjects []S
	visuals  []V

	keys      keyIndex[S]
	compare   func(a, b S) int
	newVisual func() V
	dupes     DuplicatePolicy

	enter  []int
	update []int
	exit   []int

	// gen is bumped by Compact; selections taken at an older generation are
	// stale.
	gen uint64

	tweens    tweenStore
	clock     clock
	nextOwner uint64

	events   EventSink
	debug    bool
	debugOut io.Writer
}

// New creates an engine from cfg.
func New[S any, K comparable, V Visual](cfg Config[S, K, V]) (*Engine[S, V], error) {
	if cfg.Key == nil {
		return nil, fmt.Errorf("%w: Config.Key is nil", ErrInvalidArgument)
	}
	if cfg.Compare == nil {
		return nil, fmt.Errorf("%w: Config.Compare is nil", ErrInvalidArgument)
	}
	if cfg.NewVisual == nil && nilableVisual[V]() {
		return nil, fmt.Errorf("%w: Config.NewVisual is nil and the zero %v is nil", ErrInvalidArgument, reflect.TypeFor[V]())
	}
	if cfg.Duplicates > DuplicatesLastWins {
		return nil, fmt.Errorf("%w: unknown duplicate policy %d", ErrInvalidArgument, cfg.Duplicates)
	}
	e := &Engine[S, V]{
		keys:      &keyMap[S, K]{key: cfg.Key, m: make(map[K]int)},
		compare:   cfg.Compare,
		newVisual: cfg.NewVisual,
		dupes:     cfg.Duplicates,
		events:    cfg.Events,
		debugOut:  cfg.DebugOutput,
	}
	e.tweens.init()
	e.SetDebugMode(cfg.Debug)
	return e, nil
}

// SetDebugMode enables or disables debug mode. When enabled, Bind verifies the
// enter/update/exit partition and both Bind and Advance log stats.
func (e *Engine[S, V]) SetDebugMode(enabled bool) {
	e.debug = enabled
	if enabled && e.debugOut == nil {
		e.debugOut = os.Stderr
	}
}

type class uint8

const (
	classNone class = iota
	classEnter
	classUpdate
)

// Bind diffs batch against the subjects bound so far and returns the update
// selection. Enter and exit are available through Enter and Exit.
//
// The batch is copied and sorted with Config.Compare; the caller's slice is
// not modified. Subjects that were alive (entered or updated by the previous
// Bind) and are absent from batch become exit. Subjects never seen before
// get a new slot and become enter, as do known subjects that had exited
// earlier. Known subjects that were alive become update and their stored
// value is replaced.
func (e *Engine[S, V]) Bind(batch []S) (Selection[S, V], error) {
	sorted := slices.Clone(batch)
	slices.SortStableFunc(sorted, e.compare)

	if e.dupes == DuplicatesReject {
		if dup, ok := e.keys.firstDuplicate(sorted); ok {
			err := fmt.Errorf("bind: %w: %v", ErrDuplicateKey, dup)
			return Selection[S, V]{err: err}, err
		}
	}

	// Everything alive before this call exits unless it shows up again.
	pending := make(map[int]bool, len(e.enter)+len(e.update))
	candidates := mergeSorted(sortedCopy(e.enter), sortedCopy(e.update))
	for _, i := range candidates {
		pending[i] = true
	}

	var enter, update []int
	classes := make(map[int]class, len(sorted))

	for _, s := range sorted {
		i, known := e.keys.lookup(s)
		if !known {
			i = len(e.subjects)
			e.subjects = append(e.subjects, s)
			e.visuals = append(e.visuals, e.makeVisual())
			e.keys.store(s, i)
			classes[i] = classEnter
			enter = append(enter, i)
			continue
		}

		e.subjects[i] = s
		switch classes[i] {
		case classEnter:
			// Repeated key already entering: last write wins, stays enter.
		case classUpdate:
			update = slices.DeleteFunc(update, func(j int) bool { return j == i })
			enter = append(enter, i)
			classes[i] = classEnter
		default:
			if pending[i] {
				delete(pending, i)
				classes[i] = classUpdate
				update = append(update, i)
			} else {
				classes[i] = classEnter
				enter = append(enter, i)
			}
		}
	}

	exit := make([]int, 0, len(pending))
	for _, i := range candidates {
		if pending[i] {
			exit = append(exit, i)
		}
	}

	e.enter, e.update, e.exit = enter, update, exit

	if e.debug {
		if err := e.checkPartition(sorted); err != nil {
			return Selection[S, V]{err: err}, err
		}
		e.debugLogBind()
	}

	e.emitAll(EventEnter, e.enter)
	e.emitAll(EventUpdate, e.update)
	e.emitAll(EventExit, e.exit)

	return e.Update(), nil
}

// nilableVisual reports whether the zero value of V is nil.
func nilableVisual[V Visual]() bool {
	switch reflect.TypeFor[V]().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func (e *Engine[S, V]) makeVisual() V {
	if e.newVisual != nil {
		return e.newVisual()
	}
	var zero V
	return zero
}

func (e *Engine[S, V]) selection(idx []int) Selection[S, V] {
	return Selection[S, V]{eng: e, idx: idx, gen: e.gen}
}

// Enter returns the subjects that appeared in the most recent Bind, in
// sorted batch order.
func (e *Engine[S, V]) Enter() Selection[S, V] { return e.selection(e.enter) }

// Update returns the subjects that were alive before the most recent Bind
// and are still present, in sorted batch order.
func (e *Engine[S, V]) Update() Selection[S, V] { return e.selection(e.update) }

// Exit returns the subjects that were alive before the most recent Bind and
// are absent from it, in index order.
func (e *Engine[S, V]) Exit() Selection[S, V] { return e.selection(e.exit) }

// Alive returns enter and update merged, in index order.
func (e *Engine[S, V]) Alive() Selection[S, V] {
	return e.selection(mergeSorted(sortedCopy(e.enter), sortedCopy(e.update)))
}

// All returns every tracked index, including retired ones.
func (e *Engine[S, V]) All() Selection[S, V] {
	idx := make([]int, len(e.subjects))
	for i := range idx {
		idx[i] = i
	}
	return e.selection(idx)
}

// Select returns the indices of the given subjects, matched by key, in
// argument order. Unknown subjects are skipped.
func (e *Engine[S, V]) Select(subjects ...S) Selection[S, V] {
	idx := make([]int, 0, len(subjects))
	for _, s := range subjects {
		if i, ok := e.keys.lookup(s); ok {
			idx = append(idx, i)
		}
	}
	return e.selection(idx)
}

// Len returns the number of tracked slots.
func (e *Engine[S, V]) Len() int { return len(e.subjects) }

// Subject returns the stored subject at index i.
func (e *Engine[S, V]) Subject(i int) S { return e.subjects[i] }

// Visual returns the visual at index i.
func (e *Engine[S, V]) Visual(i int) V { return e.visuals[i] }

// Compact reclaims every slot that is neither enter nor update, destroying
// its visual, and renumbers the remaining slots. Each reclaimed slot raises
// EventDestroyed with its index before renumbering. Pending tweens on
// reclaimed slots are dropped. The exit selection is cleared.
//
// Compact invalidates every Selection and Transition obtained before the
// call; using one afterwards fails with ErrStaleSelection. It returns the
// number of reclaimed slots.
func (e *Engine[S, V]) Compact() int {
	alive := make(map[int]bool, len(e.enter)+len(e.update))
	for _, i := range e.enter {
		alive[i] = true
	}
	for _, i := range e.update {
		alive[i] = true
	}

	remap := make([]int, len(e.subjects))
	subjects := make([]S, 0, len(alive))
	visuals := make([]V, 0, len(alive))
	for i := range e.subjects {
		if !alive[i] {
			remap[i] = -1
			e.visuals[i].Destroy()
			e.emit(Event{Type: EventDestroyed, Index: i, Clock: e.clock.elapsed})
			continue
		}
		remap[i] = len(subjects)
		subjects = append(subjects, e.subjects[i])
		visuals = append(visuals, e.visuals[i])
	}
	reclaimed := len(e.subjects) - len(subjects)

	e.subjects, e.visuals = subjects, visuals
	e.keys.rebuild(subjects)
	for k, i := range e.enter {
		e.enter[k] = remap[i]
	}
	for k, i := range e.update {
		e.update[k] = remap[i]
	}
	e.exit = nil
	e.tweens.remap(remap)
	e.gen++

	if e.debug {
		_, _ = fmt.Fprintf(e.debugOut, "[join] compact: reclaimed %d | tracked %d\n", reclaimed, len(subjects))
	}
	return reclaimed
}

// sortedCopy returns an ascending copy of idx.
func sortedCopy(idx []int) []int {
	out := slices.Clone(idx)
	slices.Sort(out)
	return out
}

// mergeSorted returns the union of two ascending index slices, in ascending
// order and without duplicates.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
