package join

import (
	"math"
	"strings"
	"testing"
)

// person is the subject used throughout the tests: keyed by key, ordered by
// name.
type person struct {
	name string
	key  int
}

func personKey(p person) int { return p.key }

func byName(a, b person) int { return strings.Compare(a.name, b.name) }

// bar is a test visual with one float property reachable through Accessor and
// a few typed fields reachable through NewProperty.
type bar struct {
	x0, y0    int
	k         float32
	pos       Vec2
	tint      Color
	label     string
	count     int
	destroyed int
	writes    int
}

func newBar() *bar { return &bar{x0: 100, k: -1} }

func (b *bar) Destroy() {
	b.destroyed++
	b.x0, b.y0 = -1, -1
}

func (b *bar) Property(PropertyID) float32 { return b.k }

func (b *bar) SetProperty(_ PropertyID, v float32) {
	b.k = v
	b.writes++
}

const (
	idK PropertyID = iota
	idPos
	idTint
	idLabel
	idCount
)

var (
	propK     = Attr[*bar, float32](idK, "k")
	propPos   = NewProperty(idPos, "pos", func(b *bar) Vec2 { return b.pos }, func(b *bar, v Vec2) { b.pos = v; b.writes++ })
	propTint  = NewProperty(idTint, "tint", func(b *bar) Color { return b.tint }, func(b *bar, v Color) { b.tint = v; b.writes++ })
	propLabel = NewProperty(idLabel, "label", func(b *bar) string { return b.label }, func(b *bar, v string) { b.label = v; b.writes++ })
	propCount = NewProperty(idCount, "count", func(b *bar) int { return b.count }, func(b *bar, v int) { b.count = v; b.writes++ })
)

type testEngine = Engine[person, *bar]

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	e, err := New(Config[person, int, *bar]{
		Key:       personKey,
		Compare:   byName,
		NewVisual: newBar,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustBind(t *testing.T, e *testEngine, batch ...person) Selection[person, *bar] {
	t.Helper()
	sel, err := e.Bind(batch)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return sel
}

func names(sel Selection[person, *bar]) []string {
	out := []string{}
	for _, p := range sel.Subjects() {
		out = append(out, p.name)
	}
	return out
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// recorder is an EventSink that keeps every event.
type recorder struct {
	events []Event
}

func (r *recorder) EmitEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}
