package ease

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ID identifies a built-in curve. The first thirteen values keep the order
// of the classic d3 easing table so numeric ids stay stable.
type ID uint8

const (
	IDLinear ID = iota
	IDCubicIn
	IDCubicOut
	IDCubic
	IDBounceIn
	IDBounceOut
	IDBounce
	IDElasticIn
	IDElasticOut
	IDElastic
	IDBackIn
	IDBackOut
	IDBack
	IDQuadIn
	IDQuadOut
	IDQuad
	IDSineIn
	IDSineOut
	IDSine
	IDExpoIn
	IDExpoOut
	IDExpo
	IDCircIn
	IDCircOut
	IDCirc

	idCount
)

type entry struct {
	name string
	fn   Func
}

var builtins = [idCount]entry{
	IDLinear:     {"Linear", Linear},
	IDCubicIn:    {"Cubic In", CubicIn},
	IDCubicOut:   {"Cubic Out", CubicOut},
	IDCubic:      {"Cubic", Cubic},
	IDBounceIn:   {"Bounce In", BounceIn},
	IDBounceOut:  {"Bounce Out", BounceOut},
	IDBounce:     {"Bounce", Bounce},
	IDElasticIn:  {"Elastic In", ElasticIn},
	IDElasticOut: {"Elastic Out", ElasticOut},
	IDElastic:    {"Elastic", Elastic},
	IDBackIn:     {"Back In", BackIn},
	IDBackOut:    {"Back Out", BackOut},
	IDBack:       {"Back", Back},
	IDQuadIn:     {"Quad In", QuadIn},
	IDQuadOut:    {"Quad Out", QuadOut},
	IDQuad:       {"Quad", Quad},
	IDSineIn:     {"Sine In", SineIn},
	IDSineOut:    {"Sine Out", SineOut},
	IDSine:       {"Sine", Sine},
	IDExpoIn:     {"Expo In", ExpoIn},
	IDExpoOut:    {"Expo Out", ExpoOut},
	IDExpo:       {"Expo", Expo},
	IDCircIn:     {"Circ In", CircIn},
	IDCircOut:    {"Circ Out", CircOut},
	IDCirc:       {"Circ", Circ},
}

var (
	mu     sync.RWMutex
	byName = map[string]entry{}
)

func init() {
	for _, e := range builtins {
		byName[normalize(e.name)] = e
	}
}

// normalize folds case and drops separators so "Cubic In", "cubic-in" and
// "cubicin" all resolve to the same curve.
func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '-', '_', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ByID returns the built-in curve with the given id.
func ByID(id ID) (Func, error) {
	if id >= idCount {
		return nil, fmt.Errorf("ease: unknown curve id %d", id)
	}
	return builtins[id].fn, nil
}

// Name returns the display name of a built-in curve, or "" for an unknown id.
func Name(id ID) string {
	if id >= idCount {
		return ""
	}
	return builtins[id].name
}

// ByName looks up a built-in or registered curve by name.
func ByName(name string) (Func, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := byName[normalize(name)]
	return e.fn, ok
}

// Register adds a host-defined curve. Names are matched the same way as
// [ByName]; registering an empty or already-taken name is an error.
func Register(name string, fn Func) error {
	key := normalize(name)
	if key == "" {
		return fmt.Errorf("ease: empty curve name")
	}
	if fn == nil {
		return fmt.Errorf("ease: nil curve %q", name)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := byName[key]; ok {
		return fmt.Errorf("ease: curve %q already registered", name)
	}
	byName[key] = entry{name: name, fn: fn}
	return nil
}

// Names returns the display names of every known curve: built-ins first in id
// order, then registered curves sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(builtins))
	seen := make(map[string]bool, len(builtins))
	for _, e := range builtins {
		names = append(names, e.name)
		seen[normalize(e.name)] = true
	}

	mu.RLock()
	var extra []string
	for k, e := range byName {
		if !seen[k] {
			extra = append(extra, e.name)
		}
	}
	mu.RUnlock()

	sort.Strings(extra)
	return append(names, extra...)
}
