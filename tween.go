package join

import (
	"fmt"
	"reflect"

	"github.com/chewxy/math32"

	"github.com/phanxgames/join/ease"
)

// tweenHeader is the untyped part of a scheduled tween. All headers of an
// engine live in one slice and are scanned once per Advance; the typed start
// and end values live in the channel for the property's value type.
type tweenHeader struct {
	index       int
	prop        PropertyID
	delay       float32
	duration    float32
	ease        ease.Func
	removeOnEnd bool
	owner       uint64

	ch   tweenChannel
	slot int
}

// tweenChannel stores the payloads of every tween of one value type.
type tweenChannel interface {
	// apply writes the value blended by t to the visual at index.
	apply(slot, index int, t float32)
	// settle writes the end value to the visual at index.
	settle(slot, index int)
	// release returns slot to the free list once its header is dropped.
	release(slot int)
	reset()
}

type tweenSlot[V, T any] struct {
	from, to T
	lerp     LerpFunc[T]
	set      func(V, T)
}

type channel[S any, V Visual, T any] struct {
	eng   *Engine[S, V]
	slots []tweenSlot[V, T]
	free  []int
}

func (c *channel[S, V, T]) add(from, to T, lerp LerpFunc[T], set func(V, T)) int {
	s := tweenSlot[V, T]{from: from, to: to, lerp: lerp, set: set}
	if n := len(c.free); n > 0 {
		slot := c.free[n-1]
		c.free = c.free[:n-1]
		c.slots[slot] = s
		return slot
	}
	c.slots = append(c.slots, s)
	return len(c.slots) - 1
}

func (c *channel[S, V, T]) apply(slot, index int, t float32) {
	s := &c.slots[slot]
	s.set(c.eng.visuals[index], s.lerp(s.from, s.to, t))
}

func (c *channel[S, V, T]) settle(slot, index int) {
	s := &c.slots[slot]
	s.set(c.eng.visuals[index], s.to)
}

func (c *channel[S, V, T]) release(slot int) {
	c.slots[slot] = tweenSlot[V, T]{}
	c.free = append(c.free, slot)
}

func (c *channel[S, V, T]) reset() {
	clear(c.slots)
	c.slots = c.slots[:0]
	c.free = c.free[:0]
}

// tweenStore holds the header list and the channel table, keyed by value
// type identity.
type tweenStore struct {
	headers  []tweenHeader
	channels map[reflect.Type]tweenChannel
}

func (ts *tweenStore) init() {
	ts.channels = make(map[reflect.Type]tweenChannel)
}

// reset drops every header and payload. Channels stay registered so their
// backing arrays are reused.
func (ts *tweenStore) reset() {
	clear(ts.headers)
	ts.headers = ts.headers[:0]
	for _, ch := range ts.channels {
		ch.reset()
	}
}

// remap renumbers header indices after Compact. Headers whose visual was
// reclaimed (remap value -1) are dropped and their payload slots released.
func (ts *tweenStore) remap(remap []int) {
	kept := ts.headers[:0]
	for _, h := range ts.headers {
		if to := remap[h.index]; to >= 0 {
			h.index = to
			kept = append(kept, h)
			continue
		}
		h.ch.release(h.slot)
	}
	clear(ts.headers[len(kept):])
	ts.headers = kept
}

// channelFor returns the engine's channel for value type T, creating it on
// first use.
func channelFor[S any, V Visual, T any](e *Engine[S, V]) *channel[S, V, T] {
	typ := reflect.TypeFor[T]()
	if ch, ok := e.tweens.channels[typ]; ok {
		return ch.(*channel[S, V, T])
	}
	ch := &channel[S, V, T]{eng: e}
	e.tweens.channels[typ] = ch
	return ch
}

// Advance moves the shared clock forward by dt seconds and steps every
// scheduled tween:
//
//   - before its delay a tween is pending and left alone;
//   - while running it writes from→to blended by its ease curve;
//   - once its duration has elapsed it either destroys the visual (remove on
//     end) or writes the end value, and is dropped.
//
// Dropped tweens release their payload slots for reuse.
//
// Pending tweens count as in flight alongside running ones, so a tween still
// waiting out its delay keeps the clock running. The clock returns to idle
// at zero only when nothing is pending or running afterwards. Negative and
// NaN dt are ignored.
func (e *Engine[S, V]) Advance(dt float32) {
	if dt < 0 || math32.IsNaN(dt) {
		if e.debug {
			_, _ = fmt.Fprintf(e.debugOut, "[join] advance: ignoring dt %v\n", dt)
		}
		return
	}

	elapsed := e.clock.tick(dt)

	var stats advanceStats
	var destroyed map[int]bool

	kept := e.tweens.headers[:0]
	for _, h := range e.tweens.headers {
		if destroyed[h.index] {
			h.ch.release(h.slot)
			continue
		}
		if elapsed < h.delay {
			stats.pending++
			kept = append(kept, h)
			continue
		}

		u := (elapsed - h.delay) / h.duration
		if u < 1 {
			h.ch.apply(h.slot, h.index, h.ease(u))
			stats.active++
			kept = append(kept, h)
			continue
		}

		stats.done++
		if h.removeOnEnd {
			e.visuals[h.index].Destroy()
			stats.destroyed++
			if destroyed == nil {
				destroyed = make(map[int]bool)
			}
			destroyed[h.index] = true
			e.emit(Event{Type: EventTweenDone, Index: h.index, Property: h.prop, Clock: elapsed})
			e.emit(Event{Type: EventDestroyed, Index: h.index, Property: h.prop, Clock: elapsed})
			h.ch.release(h.slot)
			continue
		}
		h.ch.settle(h.slot, h.index)
		h.ch.release(h.slot)
		e.emit(Event{Type: EventTweenDone, Index: h.index, Property: h.prop, Clock: elapsed})
	}

	// Headers kept earlier in this pass may target a visual destroyed later
	// in it.
	if destroyed != nil {
		live := kept[:0]
		for _, h := range kept {
			if destroyed[h.index] {
				if elapsed < h.delay {
					stats.pending--
				} else {
					stats.active--
				}
				h.ch.release(h.slot)
				continue
			}
			live = append(live, h)
		}
		kept = live
	}

	clear(e.tweens.headers[len(kept):])
	e.tweens.headers = kept

	if e.debug {
		e.debugLogAdvance(elapsed, stats)
	}

	if stats.inFlight() == 0 {
		e.tweens.reset()
		e.clock.reset()
	}
}

// Clock returns the elapsed time of the shared animation clock.
func (e *Engine[S, V]) Clock() float32 { return e.clock.elapsed }

// ClockState reports whether the shared clock is idle or running.
func (e *Engine[S, V]) ClockState() ClockState { return e.clock.state }

// ActiveTweens returns the number of scheduled tweens, pending or running.
func (e *Engine[S, V]) ActiveTweens() int { return len(e.tweens.headers) }
