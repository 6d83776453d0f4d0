package preview

import (
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/visor"
)

// Object is the in-memory state of one foreign object.
type Object struct {
	Addr    uintptr
	Kind    visor.ResourceKind
	World   mgl32.Mat4
	Opacity float32
	Bound   []uintptr
}

// Native is an in-memory visor.Native. Deleted addresses are reused, most
// recently freed first.
type Native struct {
	mu      sync.Mutex
	next    uintptr
	free    []uintptr
	objects map[uintptr]*Object
	deleted int
}

// NewNative returns an empty Native.
func NewNative() *Native {
	return &Native{next: 0x1000, objects: make(map[uintptr]*Object)}
}

func (n *Native) Allocate(kind visor.ResourceKind) uintptr {
	n.mu.Lock()
	defer n.mu.Unlock()
	var addr uintptr
	if k := len(n.free); k > 0 {
		addr = n.free[k-1]
		n.free = n.free[:k-1]
	} else {
		addr = n.next
		n.next += 0x10
	}
	n.objects[addr] = &Object{Addr: addr, Kind: kind, World: mgl32.Ident4(), Opacity: 1}
	return addr
}

func (n *Native) Bind(owner, resource uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if o, ok := n.objects[owner]; ok && !slices.Contains(o.Bound, resource) {
		o.Bound = append(o.Bound, resource)
	}
}

func (n *Native) Unbind(owner, resource uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if o, ok := n.objects[owner]; ok {
		if i := slices.Index(o.Bound, resource); i >= 0 {
			o.Bound = slices.Delete(o.Bound, i, i+1)
		}
	}
}

func (n *Native) SetWorldMatrix(addr uintptr, m mgl32.Mat4) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if o, ok := n.objects[addr]; ok {
		o.World = m
	}
}

func (n *Native) SetOpacity(addr uintptr, v float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if o, ok := n.objects[addr]; ok {
		o.Opacity = v
	}
}

func (n *Native) Delete(addr uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.objects[addr]; !ok {
		return
	}
	delete(n.objects, addr)
	n.free = append(n.free, addr)
	n.deleted++
}

// Object returns a copy of the object at addr.
func (n *Native) Object(addr uintptr) (Object, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	o, ok := n.objects[addr]
	if !ok {
		return Object{}, false
	}
	c := *o
	c.Bound = slices.Clone(o.Bound)
	return c, true
}

// Len returns the number of live objects.
func (n *Native) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.objects)
}

// Deleted returns how many objects have been deleted.
func (n *Native) Deleted() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deleted
}
