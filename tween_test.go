package join

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/phanxgames/join/ease"
)

// setupK binds laia, pau and helena and sets k to 0 on all of them.
func setupK(t *testing.T) *testEngine {
	t.Helper()
	e := newTestEngine(t)
	mustBind(t, e, laia, pau, helena)
	Set(e.Enter(), propK, Const[person](float32(0)))
	return e
}

func TestTween_SamplesStartMidEnd(t *testing.T) {
	e := setupK(t)
	tr := Tween(e.Enter().Transition().Duration(1), propK, Const[person](float32(10)))
	if err := tr.Err(); err != nil {
		t.Fatal(err)
	}
	b := e.Visual(0)
	b.writes = 0

	e.Advance(0)
	if b.k != 0 {
		t.Errorf("t=0: k = %v, want start 0", b.k)
	}

	e.Advance(0.5)
	want := 10 * float64(ease.Cubic(0.5))
	if !approx(float64(b.k), want, 1e-4) {
		t.Errorf("t=d/2: k = %v, want %v", b.k, want)
	}

	e.Advance(0.5)
	if !approx(float64(b.k), 10, 1e-6) {
		t.Errorf("t=d: k = %v, want end 10", b.k)
	}
	if e.ActiveTweens() != 0 {
		t.Errorf("ActiveTweens = %d after settling, want 0", e.ActiveTweens())
	}
	writes := b.writes

	e.Advance(0.5)
	if b.k != 10 || b.writes != writes {
		t.Errorf("settled tween wrote again: k=%v writes=%d->%d", b.k, writes, b.writes)
	}
	if e.ActiveTweens() != 0 {
		t.Error("settled tween became active again")
	}
}

func TestTween_LinearMidpoint(t *testing.T) {
	e := setupK(t)
	Tween(e.Enter().Transition().Duration(2).Ease(ease.Linear), propK, Const[person](float32(8)))

	e.Advance(0.5)
	for i := 0; i < 3; i++ {
		if got := e.Visual(i).k; !approx(float64(got), 2, 1e-5) {
			t.Errorf("visual %d k = %v, want 2", i, got)
		}
	}
}

func TestTween_IdleResetsClock(t *testing.T) {
	e := setupK(t)
	if e.ClockState() != ClockIdle || e.Clock() != 0 {
		t.Fatalf("new engine clock = %v (%v), want idle 0", e.Clock(), e.ClockState())
	}

	Tween(e.Enter().Transition().Duration(0.5), propK, Const[person](float32(1)))
	e.Advance(0.25)
	if e.ClockState() != ClockRunning || !approx(float64(e.Clock()), 0.25, 1e-6) {
		t.Errorf("mid tween clock = %v (%v), want running 0.25", e.Clock(), e.ClockState())
	}

	e.Advance(0.25)
	if e.ClockState() != ClockIdle || e.Clock() != 0 {
		t.Errorf("after settle clock = %v (%v), want idle 0", e.Clock(), e.ClockState())
	}

	// With nothing scheduled, Advance leaves the clock idle.
	e.Advance(1)
	if e.ClockState() != ClockIdle || e.Clock() != 0 {
		t.Errorf("idle advance clock = %v (%v), want idle 0", e.Clock(), e.ClockState())
	}
	if ClockIdle.String() != "idle" || ClockRunning.String() != "running" {
		t.Error("ClockState.String mismatch")
	}
}

func TestTween_DelayKeepsTweenPending(t *testing.T) {
	e := setupK(t)
	Tween(e.Enter().Transition().Delay(0.5).Duration(0.5).Ease(ease.Linear), propK, Const[person](float32(4)))

	e.Advance(0.25)
	if got := e.Visual(0).k; got != 0 {
		t.Errorf("pending tween wrote k = %v", got)
	}
	if e.ClockState() != ClockRunning || e.ActiveTweens() != 3 {
		t.Errorf("pending tweens must keep the clock running: %v, %d tweens", e.ClockState(), e.ActiveTweens())
	}

	e.Advance(0.5) // clock 0.75, u = 0.5
	if got := e.Visual(0).k; !approx(float64(got), 2, 1e-5) {
		t.Errorf("k = %v, want 2", got)
	}

	e.Advance(0.25)
	if got := e.Visual(0).k; got != 4 {
		t.Errorf("k = %v, want 4", got)
	}
	if e.ClockState() != ClockIdle {
		t.Error("clock should be idle once every tween settled")
	}
}

func TestTween_DelayFuncStaggers(t *testing.T) {
	e := setupK(t)
	tr := e.Enter().Transition().
		Duration(1).
		Ease(ease.Linear).
		DelayFunc(func(_ person, pos int) float32 { return float32(pos) })
	Tween(tr, propK, Const[person](float32(1)))

	e.Advance(1.5)
	got := []float32{e.Visual(0).k, e.Visual(1).k, e.Visual(2).k}
	if got[0] != 1 || !approx(float64(got[1]), 0.5, 1e-5) || got[2] != 0 {
		t.Errorf("staggered k = %v, want [1 0.5 0]", got)
	}
	if e.ActiveTweens() != 2 {
		t.Errorf("ActiveTweens = %d, want 2", e.ActiveTweens())
	}
}

func TestTween_DurationFuncPerElement(t *testing.T) {
	e := setupK(t)
	tr := e.Enter().Transition().
		Ease(ease.Linear).
		DurationFunc(func(_ person, pos int) float32 { return float32(pos + 1) })
	Tween(tr, propK, Const[person](float32(6)))

	e.Advance(1)
	got := []float32{e.Visual(0).k, e.Visual(1).k, e.Visual(2).k}
	if got[0] != 6 || !approx(float64(got[1]), 3, 1e-5) || !approx(float64(got[2]), 2, 1e-5) {
		t.Errorf("k = %v, want [6 3 2]", got)
	}
}

func TestTransition_RejectsBadTiming(t *testing.T) {
	e := setupK(t)

	for _, d := range []float32{0, -1, float32(math.NaN()), float32(math.Inf(1))} {
		if err := e.Enter().Transition().Duration(d).Err(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Duration(%v): Err = %v, want ErrInvalidArgument", d, err)
		}
	}
	if err := e.Enter().Transition().Delay(-0.1).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Delay(-0.1): Err = %v", err)
	}

	tr := e.Enter().Transition().Duration(2).DurationFunc(func(_ person, pos int) float32 {
		if pos == 2 {
			return 0
		}
		return 5
	})
	if !errors.Is(tr.Err(), ErrInvalidArgument) {
		t.Fatalf("DurationFunc with a zero: Err = %v", tr.Err())
	}
	for k, tm := range tr.timing {
		if tm.duration != 2 {
			t.Errorf("timing[%d].duration = %v, want 2 (unchanged)", k, tm.duration)
		}
	}

	// A failed transition schedules nothing.
	Tween(tr, propK, Const[person](float32(1)))
	if e.ActiveTweens() != 0 {
		t.Errorf("ActiveTweens = %d after failed transition", e.ActiveTweens())
	}

	if err := e.Enter().Transition().Ease(nil).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Ease(nil): Err = %v", err)
	}
	if err := e.Enter().Transition().EaseNamed("wobble").Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("EaseNamed(unknown): Err = %v", err)
	}
}

func TestTransition_EaseAffectsLaterTweensOnly(t *testing.T) {
	e := setupK(t)
	tr := e.Enter().Transition().Duration(1).Ease(ease.Linear)
	Tween(tr, propK, Const[person](float32(1)))
	tr.EaseNamed("Cubic In")
	Tween(tr, propPos, Const[person](Vec2{X: 1, Y: 1}))

	e.Advance(0.5)
	b := e.Visual(0)
	if !approx(float64(b.k), 0.5, 1e-5) {
		t.Errorf("k = %v, want linear 0.5", b.k)
	}
	if !approx(b.pos.X, 0.125, 1e-5) {
		t.Errorf("pos.X = %v, want cubic-in 0.125", b.pos.X)
	}
}

func TestTransition_RemoveOnEnd(t *testing.T) {
	e := setupK(t)
	mustBind(t, e, laia, helena)

	tr := Tween(e.Exit().Transition().Duration(0.5), propK, Const[person](float32(0))).Remove()
	if err := tr.Err(); err != nil {
		t.Fatal(err)
	}
	pauBar := e.Visual(2)

	e.Advance(0.25)
	if pauBar.destroyed != 0 {
		t.Fatal("destroyed before the transition ended")
	}
	e.Advance(0.25)
	if pauBar.destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1", pauBar.destroyed)
	}
	writes := pauBar.writes
	e.Advance(0.25)
	e.Advance(0.25)
	if pauBar.writes != writes || pauBar.destroyed != 1 {
		t.Errorf("visual touched after removal: writes %d->%d destroyed %d", writes, pauBar.writes, pauBar.destroyed)
	}
	for _, i := range []int{0, 1} {
		if e.Visual(i).destroyed != 0 {
			t.Errorf("visual %d outside the transition was destroyed", i)
		}
	}
}

func TestTransition_RemoveBeforeTweenApplies(t *testing.T) {
	e := setupK(t)
	tr := e.Enter().Transition().Duration(0.1).Remove()
	Tween(tr, propK, Const[person](float32(1)))
	e.Advance(0.1)
	for i := 0; i < 3; i++ {
		if e.Visual(i).destroyed != 1 {
			t.Errorf("visual %d destroyed %d times, want 1", i, e.Visual(i).destroyed)
		}
	}
}

func TestTransition_RemoveOnlyFlipsItsOwnTweens(t *testing.T) {
	e := setupK(t)
	sel := e.Enter()

	other := Tween(sel.Transition().Duration(0.5), propPos, Const[person](Vec2{X: 5}))
	mine := Tween(sel.Transition().Duration(1), propK, Const[person](float32(1)))
	mine.Remove()

	e.Advance(0.5)
	for i := 0; i < 3; i++ {
		b := e.Visual(i)
		if b.destroyed != 0 {
			t.Errorf("visual %d destroyed by the other transition", i)
		}
		if b.pos.X != 5 {
			t.Errorf("visual %d pos.X = %v, want settled 5", i, b.pos.X)
		}
	}
	if other.Err() != nil || mine.Err() != nil {
		t.Fatal(other.Err(), mine.Err())
	}

	e.Advance(0.5)
	for i := 0; i < 3; i++ {
		if e.Visual(i).destroyed != 1 {
			t.Errorf("visual %d destroyed %d times, want 1", i, e.Visual(i).destroyed)
		}
	}
}

func TestTransition_DestroyStopsOtherTweensOnSameVisual(t *testing.T) {
	e := setupK(t)
	sel := e.Enter()
	Tween(sel.Transition().Duration(2), propPos, Const[person](Vec2{X: 5}))
	Tween(sel.Transition().Duration(1), propK, Const[person](float32(1))).Remove()

	e.Advance(1)
	if e.ActiveTweens() != 0 {
		t.Errorf("ActiveTweens = %d, want 0: tweens on destroyed visuals are dropped", e.ActiveTweens())
	}
	b := e.Visual(0)
	x := b.pos.X
	e.Advance(0.5)
	if b.pos.X != x {
		t.Errorf("destroyed visual written: pos.X %v -> %v", x, b.pos.X)
	}
}

func TestTween_SetTwiceAppends(t *testing.T) {
	e := setupK(t)
	tr := e.Enter().Transition().Duration(1)
	Tween(tr, propK, Const[person](float32(1)))
	Tween(tr, propK, Const[person](float32(2)))
	if e.ActiveTweens() != 6 || tr.Scheduled() != 6 {
		t.Errorf("ActiveTweens = %d, Scheduled = %d, want 6", e.ActiveTweens(), tr.Scheduled())
	}
	e.Advance(1)
	// Headers run in creation order, so the later tween writes last.
	if got := e.Visual(0).k; got != 2 {
		t.Errorf("k = %v, want 2", got)
	}
}

func TestTween_EmptySelectionIsNoop(t *testing.T) {
	e := setupK(t)
	tr := Tween(e.Update().Transition(), propK, Const[person](float32(1)))
	if tr.Err() != nil || e.ActiveTweens() != 0 {
		t.Errorf("Err = %v, ActiveTweens = %d", tr.Err(), e.ActiveTweens())
	}
}

func TestTween_OvershootIsPreserved(t *testing.T) {
	e := setupK(t)
	Tween(e.Enter().Transition().Duration(1).Ease(ease.BackOut), propK, Const[person](float32(10)))

	e.Advance(0.8)
	if got := e.Visual(0).k; got <= 10 {
		t.Errorf("k = %v, want overshoot above 10", got)
	}
	e.Advance(0.2)
	if got := e.Visual(0).k; got != 10 {
		t.Errorf("k = %v, want settled 10", got)
	}
}

func TestTween_TypedChannels(t *testing.T) {
	e := setupK(t)
	Set(e.Enter(), propTint, Const[person](Color{R: 1, A: 1}))
	Set(e.Enter(), propLabel, Const[person]("start"))

	tr := e.Enter().Transition().Duration(1).Ease(ease.Linear)
	Tween(tr, propPos, Const[person](Vec2{X: 10, Y: -10}))
	Tween(tr, propTint, Const[person](Color{G: 1, A: 0}))
	Tween(tr, propCount, func(p person, _ int) int { return p.key })
	Tween(tr, propLabel, func(p person, _ int) string { return p.name })
	if err := tr.Err(); err != nil {
		t.Fatal(err)
	}
	if n := len(e.tweens.channels); n != 4 {
		t.Errorf("channels = %d, want one per value type (4)", n)
	}

	e.Advance(0.5)
	b := e.Visual(0) // helena, key 20
	if !approx(b.pos.X, 5, 1e-6) || !approx(b.pos.Y, -5, 1e-6) {
		t.Errorf("pos = %+v, want {5 -5}", b.pos)
	}
	if !approx(b.tint.R, 0.5, 1e-6) || !approx(b.tint.G, 0.5, 1e-6) || !approx(b.tint.A, 0.5, 1e-6) {
		t.Errorf("tint = %+v", b.tint)
	}
	if b.count != 10 {
		t.Errorf("count = %d, want 10", b.count)
	}
	if b.label != "start" {
		t.Errorf("label = %q, want start value until settled", b.label)
	}

	e.Advance(0.5)
	if b.label != "helena" || b.count != 20 {
		t.Errorf("settled label=%q count=%d", b.label, b.count)
	}
}

type opaque struct{ v []int }

func TestTween_NotInterpolable(t *testing.T) {
	e := setupK(t)
	prop := NewProperty(99, "opaque",
		func(*bar) opaque { return opaque{} },
		func(*bar, opaque) {})

	tr := Tween(e.Enter().Transition(), prop, Const[person](opaque{}))
	if !errors.Is(tr.Err(), ErrNotInterpolable) || !errors.Is(tr.Err(), ErrInvalidArgument) {
		t.Errorf("Err = %v, want ErrNotInterpolable", tr.Err())
	}
	if e.ActiveTweens() != 0 {
		t.Errorf("ActiveTweens = %d", e.ActiveTweens())
	}
}

type angle float32

func TestTween_NamedNumericAndRegisteredLerp(t *testing.T) {
	var a angle
	propAngle := NewProperty(50, "angle", func(*bar) angle { return a }, func(_ *bar, v angle) { a = v })

	e := newTestEngine(t)
	mustBind(t, e, laia)
	tr := e.Enter().Transition().Duration(1).Ease(ease.Linear)
	Tween(tr, propAngle, Const[person](angle(90)))
	e.Advance(0.5)
	if !approx(float64(a), 45, 1e-4) {
		t.Errorf("angle = %v, want 45 from the built-in float rule", a)
	}

	type word string
	RegisterLerp(func(from, to word, t float32) word {
		n := int(float32(len(to)) * t)
		return to[:min(max(n, 0), len(to))]
	})
	var w word
	propWord := NewProperty(51, "word", func(*bar) word { return w }, func(_ *bar, v word) { w = v })

	e2 := newTestEngine(t)
	mustBind(t, e2, laia)
	Tween(e2.Enter().Transition().Duration(1).Ease(ease.Linear), propWord, Const[person](word("typewriter")))
	e2.Advance(0.5)
	if w != "typew" {
		t.Errorf("word = %q, want registered lerp result %q", w, "typew")
	}
}

type kelvin float32

func TestTween_RegisterLerpReachesExistingChannel(t *testing.T) {
	var v kelvin
	propKelvin := NewProperty(52, "kelvin", func(*bar) kelvin { return v }, func(_ *bar, x kelvin) { v = x })

	e := newTestEngine(t)
	mustBind(t, e, laia)
	Tween(e.Enter().Transition().Duration(1).Ease(ease.Linear), propKelvin, Const[person](kelvin(100)))
	e.Advance(1)
	if v != 100 || e.ClockState() != ClockIdle {
		t.Fatalf("first tween: v = %v, clock %v", v, e.ClockState())
	}

	RegisterLerp(func(from, to kelvin, t float32) kelvin { return 7 })
	Tween(e.Enter().Transition().Duration(1).Ease(ease.Linear), propKelvin, Const[person](kelvin(0)))
	e.Advance(0.5)
	if v != 7 {
		t.Errorf("v = %v, want 7 from the lerp registered after the first tween", v)
	}
}

func TestTween_FinishedSlotsAreReused(t *testing.T) {
	e := setupK(t)
	Tween(e.Select(laia).Transition().Duration(1e6), propK, Const[person](float32(1)))

	for i := range 1000 {
		Tween(e.Select(pau).Transition().Duration(0.1), propPos, Const[person](Vec2{X: float64(i)}))
		e.Advance(0.2)
	}
	if e.ClockState() != ClockRunning || e.ActiveTweens() != 1 {
		t.Fatalf("clock %v with %d tweens, want the long tween still running", e.ClockState(), e.ActiveTweens())
	}
	if got := e.Select(pau).Visuals()[0].pos.X; got != 999 {
		t.Errorf("pau pos.X = %v, want 999", got)
	}
	ch := e.tweens.channels[reflect.TypeFor[Vec2]()].(*channel[person, *bar, Vec2])
	if n := len(ch.slots); n != 1 {
		t.Errorf("vec2 slots = %d, want 1 reused slot", n)
	}

	// Tweens dropped with their destroyed visual free their slots too.
	Tween(e.Select(pau).Transition().Duration(0.1), propK, Const[person](float32(0))).Remove()
	Tween(e.Select(pau).Transition().Duration(0.1), propPos, Const[person](Vec2{}))
	e.Advance(0.2)
	if n := len(ch.free); n != 1 {
		t.Errorf("vec2 free slots = %d, want 1", n)
	}
}

func TestAdvance_IgnoresBadDelta(t *testing.T) {
	e := setupK(t)
	var buf bytes.Buffer
	e.SetDebugMode(true)
	e.debugOut = &buf

	Tween(e.Enter().Transition().Duration(1), propK, Const[person](float32(1)))
	e.Advance(0.5)
	e.Advance(-1)
	e.Advance(float32(math.NaN()))
	if !approx(float64(e.Clock()), 0.5, 1e-6) {
		t.Errorf("clock = %v, want 0.5", e.Clock())
	}
	if !strings.Contains(buf.String(), "ignoring dt") {
		t.Errorf("debug output %q should report ignored dt", buf.String())
	}
	if !strings.Contains(buf.String(), "[join] advance: clock 0.500 | in-flight 3 | done 0 | destroyed 0") {
		t.Errorf("debug output %q missing advance stats", buf.String())
	}
}

func TestAdvance_EmitsTweenEvents(t *testing.T) {
	rec := &recorder{}
	e, err := New(Config[person, int, *bar]{Key: personKey, Compare: byName, NewVisual: newBar, Events: rec})
	if err != nil {
		t.Fatal(err)
	}
	mustBind(t, e, laia, pau)
	Tween(e.Enter().Filter(func(_ person, pos int) bool { return pos == 0 }).Transition().Duration(0.5), propK, Const[person](float32(1)))
	Tween(e.Enter().Filter(func(_ person, pos int) bool { return pos == 1 }).Transition().Duration(0.5), propK, Const[person](float32(1))).Remove()
	rec.events = nil

	e.Advance(0.5)
	if got := rec.count(EventTweenDone); got != 2 {
		t.Errorf("tween-done events = %d, want 2", got)
	}
	if got := rec.count(EventDestroyed); got != 1 {
		t.Errorf("destroyed events = %d, want 1", got)
	}
	for _, ev := range rec.events {
		if ev.Property != idK || ev.Clock != 0.5 {
			t.Errorf("event %+v: want property k at clock 0.5", ev)
		}
	}
	if EventTweenDone.String() != "tween-done" {
		t.Errorf("EventTweenDone.String() = %q", EventTweenDone.String())
	}
}

func TestCompact_RemapsPendingTweens(t *testing.T) {
	e := setupK(t)
	mustBind(t, e, laia, pau) // helena exits (index 0)
	Tween(e.Update().Transition().Duration(1).Ease(ease.Linear), propK, Const[person](float32(1)))
	Tween(e.Exit().Transition().Duration(1), propK, Const[person](float32(1)))

	if n := e.Compact(); n != 1 {
		t.Fatalf("Compact = %d, want 1", n)
	}
	if e.ActiveTweens() != 2 {
		t.Errorf("ActiveTweens = %d, want 2 (tween on reclaimed slot dropped)", e.ActiveTweens())
	}
	e.Advance(0.5)
	for i := 0; i < e.Len(); i++ {
		if got := e.Visual(i).k; !approx(float64(got), 0.5, 1e-5) {
			t.Errorf("visual %d (%s) k = %v, want 0.5", i, e.Subject(i).name, got)
		}
	}
}
