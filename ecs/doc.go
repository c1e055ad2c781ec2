// Package ecs provides ECS adapters for bramble's event bus.
//
// The primary adapter is [NewDonburiBus], which publishes bramble broadcasts
// (for example the clickButton event fired by clickables) into a [Donburi]
// world as typed events. Subscribe to [EventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	bus := ecs.NewDonburiBus(world)
//	ctx := &bramble.Context{Events: bus}
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
