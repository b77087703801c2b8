// Package ecs bridges join into a [Donburi] world.
//
// [NewDonburiSink] publishes join lifecycle events (enter, update, exit,
// tween-done, destroyed) as typed Donburi events; subscribe to
// [JoinEventType] in your systems to receive them. [NewVisualFactory] makes
// every bound subject an entity with a [Sprite] component, animated through
// the [Width], [Position] and [Tint] properties.
//
// Usage:
//
//	world := donburi.NewWorld()
//	eng, _ := join.New(join.Config[Item, string, *ecs.Visual]{
//		Key:       itemKey,
//		Compare:   byName,
//		NewVisual: ecs.NewVisualFactory(world),
//		Events:    ecs.NewDonburiSink(world),
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
