// Package scenario holds the reference subject and visual used by joinplay
// and the examples, and a script runner that drives an engine through a
// sequence of binds and clock steps.
package scenario

import (
	"strings"

	"github.com/phanxgames/join"
)

// Person is the reference subject: identified by Key, ordered by Name.
type Person struct {
	Name string `yaml:"name"`
	Key  int    `yaml:"key"`
}

// PersonKey is the key function for Person.
func PersonKey(p Person) int { return p.Key }

// ByName orders people by name.
func ByName(a, b Person) int { return strings.Compare(a.Name, b.Name) }

// Property ids understood by Bar.
const (
	PropWidth join.PropertyID = iota
	PropPosition
	PropTint
)

// Bar is the reference visual: a horizontal bar whose width K is animated.
// X0 and Y0 record the position and key it was appended with.
type Bar struct {
	X0, Y0 int
	K      float32
	Pos    join.Vec2
	Tint   join.Color

	destroyed bool
}

// NewBar returns the visual created for a subject that has no appended
// visual yet.
func NewBar() *Bar {
	return &Bar{X0: 100, K: -1, Tint: join.ColorWhite}
}

// Destroy marks the bar as torn down. Calling it again is a no-op.
func (b *Bar) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.X0, b.Y0 = -1, -1
}

// Destroyed reports whether Destroy was called.
func (b *Bar) Destroyed() bool { return b.destroyed }

// Property implements join.Accessor for the width.
func (b *Bar) Property(join.PropertyID) float32 { return b.K }

// SetProperty implements join.Accessor for the width.
func (b *Bar) SetProperty(_ join.PropertyID, v float32) { b.K = v }

// Bar properties.
var (
	Width    = join.Attr[*Bar, float32](PropWidth, "width")
	Position = join.NewProperty(PropPosition, "position",
		func(b *Bar) join.Vec2 { return b.Pos },
		func(b *Bar, v join.Vec2) { b.Pos = v })
	Tint = join.NewProperty(PropTint, "tint",
		func(b *Bar) join.Color { return b.Tint },
		func(b *Bar, v join.Color) { b.Tint = v })
)

// Engine is the engine type the runner drives.
type Engine = join.Engine[Person, *Bar]

// NewEngine returns an engine over people and bars.
func NewEngine(cfg join.Config[Person, int, *Bar]) (*Engine, error) {
	cfg.Key = PersonKey
	cfg.Compare = ByName
	if cfg.NewVisual == nil {
		cfg.NewVisual = NewBar
	}
	return join.New(cfg)
}
