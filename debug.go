package join

import "fmt"

// debugMaxTracked is the slot count above which debug mode warns that
// retired slots are accumulating and Compact may be due.
const debugMaxTracked = 100_000

// advanceStats holds per-Advance tween counts. Only logged in debug mode.
type advanceStats struct {
	pending   int
	active    int
	done      int
	destroyed int
}

func (s advanceStats) inFlight() int {
	return s.pending + s.active
}

// debugLogBind prints classification stats.
func (e *Engine[S, V]) debugLogBind() {
	_, _ = fmt.Fprintf(e.debugOut,
		"[join] bind: %d enter | %d update | %d exit | %d tracked\n",
		len(e.enter), len(e.update), len(e.exit), len(e.subjects))
	if len(e.subjects) > debugMaxTracked {
		_, _ = fmt.Fprintf(e.debugOut,
			"[join] warning: %d tracked slots exceed %d; retired slots are only reclaimed by Compact\n",
			len(e.subjects), debugMaxTracked)
	}
}

// debugLogAdvance prints tween stats for one Advance call.
func (e *Engine[S, V]) debugLogAdvance(elapsed float32, stats advanceStats) {
	_, _ = fmt.Fprintf(e.debugOut,
		"[join] advance: clock %.3f | in-flight %d | done %d | destroyed %d\n",
		elapsed, stats.inFlight(), stats.done, stats.destroyed)
}

// checkPartition verifies the classification of the last Bind against its
// sorted batch: enter and update are disjoint, neither repeats an index,
// every batch key is in exactly one of them and exit holds none of them.
func (e *Engine[S, V]) checkPartition(batch []S) error {
	seen := make(map[int]class, len(e.enter)+len(e.update))
	for _, i := range e.enter {
		if seen[i] != classNone {
			return fmt.Errorf("%w: index %d repeated in enter", ErrInternal, i)
		}
		seen[i] = classEnter
	}
	for _, i := range e.update {
		if seen[i] != classNone {
			return fmt.Errorf("%w: index %d in both enter and update", ErrInternal, i)
		}
		seen[i] = classUpdate
	}
	for _, s := range batch {
		i, ok := e.keys.lookup(s)
		if !ok {
			return fmt.Errorf("%w: bound subject %v has no slot", ErrInternal, s)
		}
		if seen[i] == classNone {
			return fmt.Errorf("%w: index %d missing from enter and update", ErrInternal, i)
		}
	}
	for _, i := range e.exit {
		if seen[i] != classNone {
			return fmt.Errorf("%w: index %d is both exiting and alive", ErrInternal, i)
		}
	}
	return nil
}
