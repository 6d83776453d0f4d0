package visor

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Entity is the fundamental scene graph element. It owns its children and
// components, carries a local transform, and caches the derived local and
// world matrices. Entities that should be drawn carry a Geometry and a
// Surface component.
//
// Entities are not safe for concurrent use. Once attached to an App they
// must only be touched from the render thread; use App.RunOnRenderThread
// from other goroutines.
type Entity struct {
	// Identity
	ID   uint64
	Name string

	// Hierarchy
	parent   *Entity
	children []*Entity

	// Transform (local)
	position mgl32.Vec3
	scale    mgl32.Vec3
	rotation mgl32.Quat
	opacity  float32
	visible  bool

	// Computed
	localMatrix  mgl32.Mat4
	worldMatrix  mgl32.Mat4
	localDirty   bool
	worldDirty   bool
	opacityDirty bool

	// Components, keyed by concrete type, plus attachment order for Update.
	components map[reflect.Type]Component
	order      []Component
	renderable bool

	handle    *Handle
	app       *App
	scene     *Scene // non-nil only on a Scene's own root
	listeners *listenerSet
	disposed  bool
}

// NewEntity creates an entity with identity transform, full opacity, and no
// foreign object. Use Handles.NewEntity for one backed by the renderer.
func NewEntity() *Entity {
	e := &Entity{}
	entityDefaults(e)
	return e
}

// entityDefaults sets the default field values shared by all constructors.
func entityDefaults(e *Entity) {
	e.scale = mgl32.Vec3{1, 1, 1}
	e.rotation = mgl32.QuatIdent()
	e.opacity = 1
	e.visible = true
	e.localMatrix = mgl32.Ident4()
	e.worldMatrix = mgl32.Ident4()
	e.localDirty = true
	e.worldDirty = true
	e.opacityDirty = true
}

// HashID derives a numeric entity id from a string id.
func HashID(s string) uint64 {
	return xxhash.Sum64String(s)
}

// SetStringID sets Name to s and ID to HashID(s).
func (e *Entity) SetStringID(s string) {
	e.Name = s
	e.ID = HashID(s)
}

// --- Tree manipulation ---

// Parent returns the parent entity, or nil for a root.
func (e *Entity) Parent() *Entity {
	return e.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity {
	return e.children
}

// NumChildren returns the number of children.
func (e *Entity) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Entity) ChildAt(index int) *Entity {
	return e.children[index]
}

// AddChild appends child to this entity's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this entity (cycle).
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		panic("visor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
		e.debugCheckThread("AddChild")
	}
	if isAncestor(child, e) {
		panic("visor: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	child.setApp(e.app)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
}

// RemoveChild detaches child from this entity and from its App. It reports
// whether child was one of this entity's children.
func (e *Entity) RemoveChild(child *Entity) bool {
	if child == nil || child.parent != e {
		return false
	}
	if globalDebug {
		e.debugCheckThread("RemoveChild")
	}
	if !e.removeChildByPtr(child) {
		return false
	}
	child.parent = nil
	child.setApp(nil)
	markSubtreeDirty(child)
	return true
}

// RemoveFromParent detaches this entity from its parent.
// Reports false if this entity has no parent.
func (e *Entity) RemoveFromParent() bool {
	if e.parent == nil {
		return false
	}
	return e.parent.RemoveChild(e)
}

// FindByID returns this entity if its ID matches, otherwise the first match
// in a depth-first search over the children in order. Returns nil when
// nothing matches.
func (e *Entity) FindByID(id uint64) *Entity {
	if e.ID == id {
		return e
	}
	for _, child := range e.children {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// FindByName is FindByID(HashID(name)).
func (e *Entity) FindByName(name string) *Entity {
	return e.FindByID(HashID(name))
}

// App returns the App this entity is attached to, or nil.
func (e *Entity) App() *App {
	return e.app
}

// Scene returns the Scene whose root is this entity, or nil.
func (e *Entity) Scene() *Scene {
	return e.scene
}

// Root walks parent pointers up to the topmost ancestor.
func (e *Entity) Root() *Entity {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Handle returns the foreign object backing this entity, or nil.
func (e *Entity) Handle() *Handle {
	return e.handle
}

// SetHandle attaches a foreign object to this entity. The cached world
// matrix and opacity are pushed to it on the next Update.
func (e *Entity) SetHandle(h *Handle) {
	e.handle = h
	e.worldDirty = true
	e.opacityDirty = true
}

// --- Disposal ---

// Dispose removes this entity from its parent, detaches every component,
// disposes all descendants, and drops the foreign handle so the next sweep
// after collection can delete it.
func (e *Entity) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Entity) dispose() {
	for _, child := range e.children {
		child.parent = nil
		child.dispose()
	}
	e.children = nil
	for len(e.order) > 0 {
		e.RemoveComponentOf(e.order[len(e.order)-1])
	}
	e.components = nil
	e.listeners = nil
	e.handle = nil
	e.app = nil
	e.scene = nil
	e.parent = nil
	e.disposed = true
}

// IsDisposed returns true if this entity has been disposed.
func (e *Entity) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// setApp propagates the owning App through the subtree.
func (e *Entity) setApp(app *App) {
	e.app = app
	for _, child := range e.children {
		child.setApp(app)
	}
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Entity) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Entity) removeChildByPtr(child *Entity) bool {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return true
		}
	}
	return false
}

// markSubtreeDirty flags world matrix and opacity on node and all its
// descendants. Used when the ancestor chain changes.
func markSubtreeDirty(node *Entity) {
	node.worldDirty = true
	node.opacityDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
