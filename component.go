package visor

import "reflect"

// Component is a behaviour unit attached to an Entity. An entity holds at
// most one component of each concrete type.
//
// Implementations embed BaseComponent, which supplies the entity
// back-reference and no-op hooks:
//
//	type Spinner struct {
//		visor.BaseComponent
//		Speed float32
//	}
//
//	func (s *Spinner) Update(frame visor.FrameInput) {
//		e := s.Entity()
//		e.SetRotation(e.Rotation().Mul(mgl32.QuatRotate(s.Speed*frame.DeltaSeconds, mgl32.Vec3{0, 1, 0})))
//	}
type Component interface {
	// Entity returns the entity this component is attached to, or nil.
	Entity() *Entity
	// OnAttach runs after the back-reference is set.
	OnAttach(e *Entity)
	// OnDetach runs before the back-reference is cleared.
	OnDetach(e *Entity)
	// Update runs once per frame before the entity's transform is refreshed.
	Update(frame FrameInput)

	base() *BaseComponent
}

// BaseComponent is embedded by every Component implementation.
type BaseComponent struct {
	entity *Entity
}

// Entity returns the owning entity, or nil while unattached.
func (b *BaseComponent) Entity() *Entity { return b.entity }

// OnAttach is a no-op.
func (b *BaseComponent) OnAttach(*Entity) {}

// OnDetach is a no-op.
func (b *BaseComponent) OnDetach(*Entity) {}

// Update is a no-op.
func (b *BaseComponent) Update(FrameInput) {}

func (b *BaseComponent) base() *BaseComponent { return b }

// Kind identifies a concrete component type.
type Kind = reflect.Type

// KindOf returns the kind of c.
func KindOf(c Component) Kind {
	return reflect.TypeOf(c)
}

// KindFor returns the kind for the component type T, typically a pointer
// type such as *LookDetector.
func KindFor[T Component]() Kind {
	return reflect.TypeFor[T]()
}

// AddComponent attaches c. It returns false without modifying anything when
// a component of the same kind is already attached, or when c is attached
// to some entity.
func (e *Entity) AddComponent(c Component) bool {
	if c == nil {
		return false
	}
	if globalDebug {
		debugCheckDisposed(e, "AddComponent")
		e.debugCheckThread("AddComponent")
	}
	kind := KindOf(c)
	if _, ok := e.components[kind]; ok {
		return false
	}
	b := c.base()
	if b.entity != nil {
		return false
	}
	if e.components == nil {
		e.components = make(map[reflect.Type]Component, 4)
	}
	e.components[kind] = c
	e.order = append(e.order, c)
	b.entity = e
	c.OnAttach(e)
	e.refreshRenderable(kind)
	e.emit(EventAttach, c)
	return true
}

// RemoveComponent detaches the component of the given kind. Returns false if
// there is none.
func (e *Entity) RemoveComponent(kind Kind) bool {
	c, ok := e.components[kind]
	if !ok {
		return false
	}
	if globalDebug {
		e.debugCheckThread("RemoveComponent")
	}
	c.OnDetach(e)
	c.base().entity = nil
	delete(e.components, kind)
	for i, o := range e.order {
		if o == c {
			copy(e.order[i:], e.order[i+1:])
			e.order[len(e.order)-1] = nil
			e.order = e.order[:len(e.order)-1]
			break
		}
	}
	e.refreshRenderable(kind)
	e.emit(EventDetach, c)
	return true
}

// RemoveComponentOf detaches c if it is the component attached for its kind.
func (e *Entity) RemoveComponentOf(c Component) bool {
	if c == nil || e.components[KindOf(c)] != c {
		return false
	}
	return e.RemoveComponent(KindOf(c))
}

// Component returns the component of the given kind, or nil.
func (e *Entity) Component(kind Kind) Component {
	return e.components[kind]
}

// Components returns the attached components in attachment order. The
// returned slice MUST NOT be mutated by the caller.
func (e *Entity) Components() []Component {
	return e.order
}

// GetComponent returns e's component of type T.
func GetComponent[T Component](e *Entity) (T, bool) {
	c, ok := e.components[KindFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return c.(T), true
}

// HasComponent reports whether e holds a component of type T.
func HasComponent[T Component](e *Entity) bool {
	_, ok := e.components[KindFor[T]()]
	return ok
}

// Remove detaches e's component of type T.
func Remove[T Component](e *Entity) bool {
	return e.RemoveComponent(KindFor[T]())
}

// GetComponentInChildren searches e's subtree depth-first. Descendants are
// visited before e itself: every child subtree is searched in child order,
// and e is checked only when none of them holds a T.
func GetComponentInChildren[T Component](e *Entity) (T, bool) {
	c := e.componentInChildren(KindFor[T]())
	if c == nil {
		var zero T
		return zero, false
	}
	return c.(T), true
}

func (e *Entity) componentInChildren(kind Kind) Component {
	for _, child := range e.children {
		if c := child.componentInChildren(kind); c != nil {
			return c
		}
	}
	return e.components[kind]
}

// GetComponentInParent returns e's own T if present, otherwise the nearest
// ancestor's.
func GetComponentInParent[T Component](e *Entity) (T, bool) {
	kind := KindFor[T]()
	for p := e; p != nil; p = p.parent {
		if c, ok := p.components[kind]; ok {
			return c.(T), true
		}
	}
	var zero T
	return zero, false
}

// refreshRenderable recomputes the renderable flag when a geometry or
// surface component comes or goes.
func (e *Entity) refreshRenderable(kind Kind) {
	if kind != geometryKind && kind != surfaceKind {
		return
	}
	_, g := e.components[geometryKind]
	_, s := e.components[surfaceKind]
	e.renderable = g && s
}
