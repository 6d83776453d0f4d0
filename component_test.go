package visor

import "testing"

// hookComponent records its lifecycle.
type hookComponent struct {
	BaseComponent
	onAttach func()
	onDetach func()
	updates  int

	entityAtAttach *Entity
	entityAtDetach *Entity
}

func (c *hookComponent) OnAttach(e *Entity) {
	c.entityAtAttach = c.Entity()
	if c.onAttach != nil {
		c.onAttach()
	}
}

func (c *hookComponent) OnDetach(e *Entity) {
	c.entityAtDetach = c.Entity()
	if c.onDetach != nil {
		c.onDetach()
	}
}

func (c *hookComponent) Update(FrameInput) { c.updates++ }

type otherComponent struct {
	BaseComponent
	label string
}

func TestAddComponent(t *testing.T) {
	e := NewEntity()
	c := &hookComponent{}
	if !e.AddComponent(c) {
		t.Fatal("AddComponent = false, want true")
	}
	if c.Entity() != e {
		t.Error("back-reference not set")
	}
	if c.entityAtAttach != e {
		t.Error("back-reference should be set before OnAttach runs")
	}
	got, ok := GetComponent[*hookComponent](e)
	if !ok || got != c {
		t.Error("GetComponent should return the attached instance")
	}
	if !HasComponent[*hookComponent](e) {
		t.Error("HasComponent = false, want true")
	}
	if e.Component(KindOf(c)) != c {
		t.Error("Component(kind) should return the attached instance")
	}
}

func TestAddComponentDuplicateKind(t *testing.T) {
	e := NewEntity()
	first := &otherComponent{label: "first"}
	second := &otherComponent{label: "second"}

	e.AddComponent(first)
	if e.AddComponent(second) {
		t.Error("second AddComponent of the same kind = true, want false")
	}
	got, _ := GetComponent[*otherComponent](e)
	if got != first {
		t.Error("duplicate add must keep the original instance")
	}
	if second.Entity() != nil {
		t.Error("rejected component must stay unattached")
	}
	if len(e.Components()) != 1 {
		t.Errorf("len(Components) = %d, want 1", len(e.Components()))
	}
}

func TestAddComponentAttachedElsewhere(t *testing.T) {
	a, b := NewEntity(), NewEntity()
	c := &otherComponent{}
	a.AddComponent(c)
	if b.AddComponent(c) {
		t.Error("AddComponent of a component attached elsewhere = true, want false")
	}
	if c.Entity() != a {
		t.Error("component should remain on its first entity")
	}
}

func TestAddComponentNil(t *testing.T) {
	if NewEntity().AddComponent(nil) {
		t.Error("AddComponent(nil) = true, want false")
	}
}

func TestRemoveComponent(t *testing.T) {
	e := NewEntity()
	c := &hookComponent{}
	e.AddComponent(c)

	if !e.RemoveComponent(KindFor[*hookComponent]()) {
		t.Fatal("RemoveComponent = false, want true")
	}
	if c.entityAtDetach != e {
		t.Error("back-reference should still be set while OnDetach runs")
	}
	if c.Entity() != nil {
		t.Error("back-reference should be cleared after detach")
	}
	if HasComponent[*hookComponent](e) {
		t.Error("component should be gone")
	}
}

func TestRemoveComponentAbsent(t *testing.T) {
	e := NewEntity()
	e.AddComponent(&otherComponent{})
	if e.RemoveComponent(KindFor[*hookComponent]()) {
		t.Error("RemoveComponent of an absent kind = true, want false")
	}
	if Remove[*hookComponent](e) {
		t.Error("Remove of an absent kind = true, want false")
	}
	if !HasComponent[*otherComponent](e) {
		t.Error("other components must be untouched")
	}
}

func TestRemoveComponentOf(t *testing.T) {
	e := NewEntity()
	attached := &otherComponent{}
	stranger := &otherComponent{}
	e.AddComponent(attached)

	if e.RemoveComponentOf(stranger) {
		t.Error("RemoveComponentOf a different instance of the kind = true, want false")
	}
	if !e.RemoveComponentOf(attached) {
		t.Error("RemoveComponentOf attached instance = false, want true")
	}
}

func TestComponentReattach(t *testing.T) {
	a, b := NewEntity(), NewEntity()
	c := &otherComponent{}
	a.AddComponent(c)
	a.RemoveComponentOf(c)
	if !b.AddComponent(c) {
		t.Error("a detached component should attach to another entity")
	}
}

func TestComponentUpdateOrder(t *testing.T) {
	e := NewEntity()
	var order []string
	e.AddComponent(&funcComponent{fn: func() { order = append(order, "first") }})
	e.AddComponent(&hookComponent{onAttach: nil})
	e.AddComponent(&otherFuncComponent{fn: func() { order = append(order, "third") }})

	e.Update(FrameInput{})

	if len(order) != 2 || order[0] != "first" || order[1] != "third" {
		t.Errorf("update order = %v, want [first third]", order)
	}
}

func TestComponentRemovedDuringUpdate(t *testing.T) {
	e := NewEntity()
	var order []string
	self := &funcComponent{}
	self.fn = func() {
		order = append(order, "self")
		e.RemoveComponentOf(self)
	}
	e.AddComponent(self)
	e.AddComponent(&otherFuncComponent{fn: func() { order = append(order, "next") }})

	e.Update(FrameInput{})
	if len(order) != 2 || order[1] != "next" {
		t.Fatalf("update order = %v, want [self next]", order)
	}

	order = nil
	later := &otherFuncComponent{fn: func() { order = append(order, "later") }}
	e2 := NewEntity()
	e2.AddComponent(&funcComponent{fn: func() {
		order = append(order, "remover")
		e2.RemoveComponentOf(later)
	}})
	e2.AddComponent(later)
	e2.Update(FrameInput{})
	if len(order) != 1 || order[0] != "remover" {
		t.Errorf("update order = %v, want [remover]; a removed component must not update", order)
	}
}

type funcComponent struct {
	BaseComponent
	fn func()
}

func (c *funcComponent) Update(FrameInput) { c.fn() }

type otherFuncComponent struct {
	BaseComponent
	fn func()
}

func (c *otherFuncComponent) Update(FrameInput) { c.fn() }

func TestAttachDetachEvents(t *testing.T) {
	e := NewEntity()
	var names []string
	e.On(EventAttach, func(ev Event) { names = append(names, ev.Name) })
	e.On(EventDetach, func(ev Event) { names = append(names, ev.Name) })

	c := &otherComponent{}
	e.AddComponent(c)
	e.RemoveComponentOf(c)

	if len(names) != 2 || names[0] != EventAttach || names[1] != EventDetach {
		t.Errorf("events = %v, want [attach detach]", names)
	}
}

// --- Hierarchy search ---

func TestGetComponentInChildrenPrefersDescendants(t *testing.T) {
	root := NewEntity()
	child := NewEntity()
	root.AddChild(child)

	onRoot := &otherComponent{label: "root"}
	onChild := &otherComponent{label: "child"}
	root.AddComponent(onRoot)
	child.AddComponent(onChild)

	got, ok := GetComponentInChildren[*otherComponent](root)
	if !ok || got != onChild {
		t.Error("GetComponentInChildren should return a descendant's component before self")
	}
}

func TestGetComponentInChildrenFallsBackToSelf(t *testing.T) {
	root := NewEntity()
	root.AddChild(NewEntity())
	onRoot := &otherComponent{}
	root.AddComponent(onRoot)

	got, ok := GetComponentInChildren[*otherComponent](root)
	if !ok || got != onRoot {
		t.Error("GetComponentInChildren should fall back to self")
	}
	if _, ok := GetComponentInChildren[*hookComponent](root); ok {
		t.Error("GetComponentInChildren should report absent kinds")
	}
}

func TestGetComponentInChildrenChildOrder(t *testing.T) {
	root := NewEntity()
	a, b := NewEntity(), NewEntity()
	root.AddChild(a)
	root.AddChild(b)
	inA := &otherComponent{label: "a"}
	inB := &otherComponent{label: "b"}
	b.AddComponent(inB)
	a.AddComponent(inA)

	got, _ := GetComponentInChildren[*otherComponent](root)
	if got != inA {
		t.Errorf("got %q, want the first child's component", got.label)
	}
}

func TestGetComponentInParent(t *testing.T) {
	root := NewEntity()
	mid := NewEntity()
	leaf := NewEntity()
	root.AddChild(mid)
	mid.AddChild(leaf)

	onRoot := &otherComponent{label: "root"}
	root.AddComponent(onRoot)

	got, ok := GetComponentInParent[*otherComponent](leaf)
	if !ok || got != onRoot {
		t.Error("GetComponentInParent should find the ancestor's component")
	}

	onLeaf := &otherComponent{label: "leaf"}
	leaf.AddComponent(onLeaf)
	got, _ = GetComponentInParent[*otherComponent](leaf)
	if got != onLeaf {
		t.Error("GetComponentInParent should prefer self")
	}
}

// --- Renderable flag ---

func TestRenderableFlag(t *testing.T) {
	e := NewEntity()
	g := NewGeometry(Plane(1, 1), nil)
	s := NewSurface("solid", [4]float32{1, 1, 1, 1}, nil)

	e.AddComponent(g)
	if e.IsRenderable() {
		t.Error("geometry alone should not be renderable")
	}
	e.AddComponent(s)
	if !e.IsRenderable() {
		t.Error("geometry and surface should be renderable")
	}
	e.RemoveComponentOf(g)
	if e.IsRenderable() {
		t.Error("removing geometry should clear renderable")
	}
}

func TestGeometryBindsToEntityHandle(t *testing.T) {
	native := newRecordingNative()
	hs := NewHandles(native)
	e := hs.NewEntity()
	mesh := hs.Allocate(ResourceGeometry)

	g := NewGeometry(Plane(2, 1), mesh)
	e.AddComponent(g)
	if got := native.bound[e.Handle().Addr()]; len(got) != 1 || got[0] != mesh.Addr() {
		t.Errorf("bound = %v, want [%#x]", got, mesh.Addr())
	}
	e.RemoveComponentOf(g)
	if got := native.bound[e.Handle().Addr()]; len(got) != 0 {
		t.Errorf("bound after detach = %v, want empty", got)
	}
}
