// Package ecs provides ECS adapters for visor's entity events.
//
// The primary adapter is [NewDonburiStore], which bridges visor entity events
// (component attach/detach, look start/end, gestures and custom events) into
// a [Donburi] world as typed events. Subscribe to [EntityEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
