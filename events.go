package visor

// Event is delivered to listeners registered with Entity.On.
type Event struct {
	Name   string
	Target *Entity
	// Frame is the App's frame number at emission, or 0 when the target is
	// not attached to an App.
	Frame int
	Data  any
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, every event emitted inside the scene is forwarded.
type EntityStore interface {
	EmitEvent(event EntityEvent)
}

// EntityEvent carries an entity event for the ECS bridge.
type EntityEvent struct {
	Name     string
	EntityID uint64
	Frame    int
	Data     any
}

type listener struct {
	id uint32
	fn func(Event)
}

// listenerSet holds the listeners of one entity, keyed by event name.
type listenerSet struct {
	byName map[string][]listener
	nextID uint32
}

// EventHandle allows removing a registered listener.
type EventHandle struct {
	id   uint32
	name string
	set  *listenerSet
}

// Remove unregisters the listener so it no longer fires. Calling Remove more
// than once, or on the zero EventHandle, is harmless.
func (h EventHandle) Remove() {
	if h.set == nil {
		return
	}
	s := h.set.byName[h.name]
	for i := range s {
		if s[i].id == h.id {
			// Emit iterates over a snapshot, so the backing array may be
			// rewritten in place.
			n := make([]listener, 0, len(s)-1)
			n = append(n, s[:i]...)
			n = append(n, s[i+1:]...)
			if len(n) == 0 {
				delete(h.set.byName, h.name)
			} else {
				h.set.byName[h.name] = n
			}
			return
		}
	}
}

// On registers fn for events called name on this entity. Listeners run in
// registration order.
func (e *Entity) On(name string, fn func(Event)) EventHandle {
	if fn == nil {
		panic("visor: On requires a listener")
	}
	if globalDebug {
		e.debugCheckThread("On")
	}
	if e.listeners == nil {
		e.listeners = &listenerSet{byName: make(map[string][]listener)}
	}
	ls := e.listeners
	ls.nextID++
	ls.byName[name] = append(ls.byName[name], listener{id: ls.nextID, fn: fn})
	return EventHandle{id: ls.nextID, name: name, set: ls}
}

// Off removes every listener registered for name.
func (e *Entity) Off(name string) {
	if globalDebug {
		e.debugCheckThread("Off")
	}
	if e.listeners != nil {
		delete(e.listeners.byName, name)
	}
}

// HasListeners reports whether any listener is registered for name.
func (e *Entity) HasListeners(name string) bool {
	return e.listeners != nil && len(e.listeners.byName[name]) > 0
}

// Emit delivers an event to this entity's listeners and, if the entity is in
// a scene with an EntityStore, to the store.
func (e *Entity) Emit(name string, data any) {
	if globalDebug {
		e.debugCheckThread("Emit")
	}
	e.emit(name, data)
}

func (e *Entity) emit(name string, data any) {
	frame := 0
	if e.app != nil {
		frame = e.app.frameNumber
	}
	if e.listeners != nil {
		if ls := e.listeners.byName[name]; len(ls) > 0 {
			ev := Event{Name: name, Target: e, Frame: frame, Data: data}
			for _, l := range ls {
				l.fn(ev)
			}
		}
	}
	if s := e.Root().scene; s != nil && s.store != nil {
		s.store.EmitEvent(EntityEvent{Name: name, EntityID: e.ID, Frame: frame, Data: data})
	}
}
