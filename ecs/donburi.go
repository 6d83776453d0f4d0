package ecs

import (
	"github.com/phanxgames/visor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EntityEventType is the Donburi event type for visor entity events.
var EntityEventType = events.NewEventType[visor.EntityEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Entity events are published to EntityEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) visor.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event visor.EntityEvent) {
	EntityEventType.Publish(s.world, event)
}
