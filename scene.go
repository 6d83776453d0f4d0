package visor

// KeyHandler handles one kind of key event. It returns true if the event was
// consumed.
type KeyHandler func(code KeyCode, repeat int) bool

// Scene is the root of an entity tree that an App renders. It embeds its root
// entity, so entity operations apply to the root directly.
type Scene struct {
	*Entity

	store       EntityStore
	initialized bool

	// OnInit runs once, the first time the scene is made current.
	OnInit func(s *Scene)
	// OnStart runs every time the scene becomes the App's current scene.
	OnStart func(s *Scene)
	// OnStop runs when another scene replaces this one.
	OnStop func(s *Scene)

	OnKeyPressed      KeyHandler
	OnKeyDoubleTapped KeyHandler
	OnKeyLongPressed  KeyHandler
	OnKeyDown         KeyHandler
	OnKeyUp           KeyHandler
	OnKeyMax          KeyHandler
}

// NewScene creates a scene with a fresh root entity named "scene".
func NewScene() *Scene {
	root := NewEntity()
	root.SetStringID("scene")
	return NewSceneFrom(root)
}

// NewSceneFrom makes root the root of a new scene. Panics if root already
// has a parent or already roots a scene.
func NewSceneFrom(root *Entity) *Scene {
	if root == nil {
		panic("visor: nil scene root")
	}
	if root.parent != nil {
		panic("visor: scene root must not have a parent")
	}
	if root.scene != nil {
		panic("visor: entity already roots a scene")
	}
	s := &Scene{Entity: root}
	root.scene = s
	return s
}

// Root returns the scene's root entity.
func (s *Scene) Root() *Entity {
	return s.Entity
}

// SetEntityStore sets the optional ECS bridge. Every event emitted on an
// entity in this scene is forwarded to it.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// init runs OnInit the first time only.
func (s *Scene) init() {
	if s.initialized {
		return
	}
	s.initialized = true
	if s.OnInit != nil {
		s.OnInit(s)
	}
}

// HandleKey dispatches ev to the hook matching its type. Returns false when
// no hook is set or the hook did not consume the event.
func (s *Scene) HandleKey(ev KeyEvent) bool {
	var h KeyHandler
	switch ev.Type {
	case KeyEventPressed:
		h = s.OnKeyPressed
	case KeyEventDoubleTapped:
		h = s.OnKeyDoubleTapped
	case KeyEventLongPressed:
		h = s.OnKeyLongPressed
	case KeyEventDown:
		h = s.OnKeyDown
	case KeyEventUp:
		h = s.OnKeyUp
	case KeyEventMax:
		h = s.OnKeyMax
	}
	if h == nil {
		return false
	}
	return h(ev.Code, ev.RepeatCount)
}

// DispatchGesture emits the gesture event name on the scene root, then on
// every other entity whose LookDetector currently reports that the user is
// looking at it. The event data is frame.
func (s *Scene) DispatchGesture(name string, frame FrameInput) {
	s.Entity.emit(name, frame)
	for _, child := range s.Entity.children {
		dispatchToLooked(child, name, frame)
	}
}

func dispatchToLooked(e *Entity, name string, frame FrameInput) {
	if ld, ok := GetComponent[*LookDetector](e); ok && ld.Looking() {
		e.emit(name, frame)
	}
	for i := 0; i < len(e.children); i++ {
		dispatchToLooked(e.children[i], name, frame)
	}
}

// gestureForButtons maps the edge-triggered buttons of a frame to gesture
// names, in a fixed order.
func gestureForButtons(frame FrameInput) []string {
	var out []string
	if frame.ButtonPressed&ButtonSwipeUp != 0 {
		out = append(out, GestureSwipeUp)
	}
	if frame.ButtonPressed&ButtonSwipeDown != 0 {
		out = append(out, GestureSwipeDown)
	}
	if frame.ButtonPressed&ButtonSwipeForward != 0 {
		out = append(out, GestureSwipeForward)
	}
	if frame.ButtonPressed&ButtonSwipeBack != 0 {
		out = append(out, GestureSwipeBack)
	}
	if frame.ButtonReleased&ButtonTouch != 0 {
		out = append(out, GestureTouchSingle)
	}
	return out
}
