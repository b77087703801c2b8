package ecs

import (
	"github.com/phanxgames/join"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// JoinEventType is the Donburi event type for join lifecycle events.
var JoinEventType = events.NewEventType[join.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on JoinEventType and delivered by events.ProcessAllEvents or
// JoinEventType.ProcessEvents.
func NewDonburiSink(world donburi.World) join.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event join.Event) {
	JoinEventType.Publish(s.world, event)
}

// SpriteData is the component join animates on each entity.
type SpriteData struct {
	Width    float32
	Position join.Vec2
	Tint     join.Color
}

// Sprite is the component type holding SpriteData.
var Sprite = donburi.NewComponentType[SpriteData](SpriteData{Tint: join.ColorWhite})

// Property ids of a Visual.
const (
	PropWidth join.PropertyID = iota
	PropPosition
	PropTint
)

// Visual is a join visual stored as a Donburi entity. Destroy removes the
// entity from the world.
type Visual struct {
	world  donburi.World
	entity donburi.Entity
}

// NewVisualFactory returns a join.Config NewVisual function that creates
// one entity with a Sprite component per call.
func NewVisualFactory(world donburi.World) func() *Visual {
	return func() *Visual {
		return &Visual{world: world, entity: world.Create(Sprite)}
	}
}

// Entity returns the entity backing v.
func (v *Visual) Entity() donburi.Entity { return v.entity }

// Valid reports whether the entity still exists.
func (v *Visual) Valid() bool { return v.world.Valid(v.entity) }

// Destroy removes the entity. It is a no-op once the entity is gone.
func (v *Visual) Destroy() {
	if v.world.Valid(v.entity) {
		v.world.Remove(v.entity)
	}
}

// data returns the sprite component, or nil after Destroy.
func (v *Visual) data() *SpriteData {
	if !v.world.Valid(v.entity) {
		return nil
	}
	return Sprite.Get(v.world.Entry(v.entity))
}

// Visual properties. Reads of a destroyed visual return the zero value and
// writes are dropped.
var (
	Width = join.NewProperty(PropWidth, "width",
		func(v *Visual) float32 {
			if d := v.data(); d != nil {
				return d.Width
			}
			return 0
		},
		func(v *Visual, w float32) {
			if d := v.data(); d != nil {
				d.Width = w
			}
		})

	Position = join.NewProperty(PropPosition, "position",
		func(v *Visual) join.Vec2 {
			if d := v.data(); d != nil {
				return d.Position
			}
			return join.Vec2{}
		},
		func(v *Visual, p join.Vec2) {
			if d := v.data(); d != nil {
				d.Position = p
			}
		})

	Tint = join.NewProperty(PropTint, "tint",
		func(v *Visual) join.Color {
			if d := v.data(); d != nil {
				return d.Tint
			}
			return join.Color{}
		},
		func(v *Visual, c join.Color) {
			if d := v.data(); d != nil {
				d.Tint = c
			}
		})
)
