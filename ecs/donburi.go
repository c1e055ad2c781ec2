package ecs

import (
	"github.com/phanxgames/bramble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventType is the Donburi event type for bramble broadcasts.
var EventType = events.NewEventType[bramble.Event]()

// ClickButtonType carries only clickButton broadcasts, already unwrapped.
var ClickButtonType = events.NewEventType[bramble.ClickButtonEvent]()

type donburiBus struct {
	world donburi.World
}

// NewDonburiBus creates an EventBus backed by a Donburi world. Every
// broadcast is published to EventType; clickButton payloads are also
// published to ClickButtonType. Events are queued until ProcessEvents.
func NewDonburiBus(world donburi.World) bramble.EventBus {
	return &donburiBus{world: world}
}

func (b *donburiBus) Fire(name string, payload any) {
	EventType.Publish(b.world, bramble.Event{Name: name, Payload: payload})
	if ev, ok := payload.(bramble.ClickButtonEvent); ok && name == bramble.EventClickButton {
		ClickButtonType.Publish(b.world, ev)
	}
}
