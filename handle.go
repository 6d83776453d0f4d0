package visor

import (
	"runtime"
	"sync"
	"weak"

	"github.com/go-gl/mathgl/mgl32"
)

// ResourceKind selects what Native.Allocate creates.
type ResourceKind uint8

const (
	ResourceEntity   ResourceKind = iota // a scene object with a world matrix and opacity
	ResourceGeometry                     // a mesh
	ResourceSurface                      // a material / texture surface
)

// String returns the kind's lower-case name.
func (k ResourceKind) String() string {
	switch k {
	case ResourceEntity:
		return "entity"
	case ResourceGeometry:
		return "geometry"
	case ResourceSurface:
		return "surface"
	default:
		return "unknown"
	}
}

// Native is the foreign renderer that owns the objects handles point at. All
// methods are called on the render thread.
type Native interface {
	// Allocate creates a foreign object and returns its address. Addresses
	// may be reused after Delete.
	Allocate(kind ResourceKind) uintptr
	// Bind attaches resource (geometry or surface) to the owner object.
	Bind(owner, resource uintptr)
	// Unbind reverses Bind.
	Unbind(owner, resource uintptr)
	SetWorldMatrix(addr uintptr, m mgl32.Mat4)
	SetOpacity(addr uintptr, v float32)
	// Delete destroys the foreign object. It is called exactly once per
	// reclaimed handle.
	Delete(addr uintptr)
}

// Handle wraps one foreign address. While any *Handle for an address is
// reachable, Handles.Acquire returns that same pointer; once it becomes
// unreachable the next Sweep deletes the foreign object.
type Handle struct {
	addr   uintptr
	serial uint64
	owner  *Handles
}

// Addr returns the foreign address.
func (h *Handle) Addr() uintptr { return h.addr }

// Kind-agnostic pushes. Render thread only.

func (h *Handle) pushWorldMatrix(m mgl32.Mat4) {
	h.owner.native.SetWorldMatrix(h.addr, m)
}

func (h *Handle) pushOpacity(v float32) {
	h.owner.native.SetOpacity(h.addr, v)
}

type liveHandle struct {
	ptr    weak.Pointer[Handle]
	serial uint64
}

type reclaim struct {
	addr   uintptr
	serial uint64
}

// Handles is the registry of live handles for one Native. Acquire, Allocate
// and Sweep belong to the render thread; the garbage collector's cleanups
// only append to the pending list, which is mutex-guarded.
type Handles struct {
	native Native

	mu      sync.Mutex
	live    map[uintptr]liveHandle
	pending []reclaim
	serial  uint64
}

// NewHandles creates an empty registry over native.
func NewHandles(native Native) *Handles {
	if native == nil {
		panic("visor: NewHandles requires a Native")
	}
	return &Handles{
		native: native,
		live:   make(map[uintptr]liveHandle),
	}
}

// Native returns the renderer this registry deletes through.
func (hs *Handles) Native() Native { return hs.native }

// Acquire returns the live handle for addr, creating one if no reachable
// handle exists. Two calls for the same address while the first result is
// reachable return the same pointer.
func (hs *Handles) Acquire(addr uintptr) *Handle {
	if addr == 0 {
		panic("visor: Acquire of null address")
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if lh, ok := hs.live[addr]; ok {
		if h := lh.ptr.Value(); h != nil {
			return h
		}
	}
	hs.serial++
	h := &Handle{addr: addr, serial: hs.serial, owner: hs}
	hs.live[addr] = liveHandle{ptr: weak.Make(h), serial: h.serial}
	runtime.AddCleanup(h, hs.enqueue, reclaim{addr: addr, serial: h.serial})
	return h
}

// Allocate creates a foreign object of the given kind and returns its handle.
func (hs *Handles) Allocate(kind ResourceKind) *Handle {
	return hs.Acquire(hs.native.Allocate(kind))
}

// NewEntity returns an entity backed by a freshly allocated foreign object.
func (hs *Handles) NewEntity() *Entity {
	e := NewEntity()
	e.handle = hs.Allocate(ResourceEntity)
	return e
}

// enqueue runs on the runtime's cleanup goroutine.
func (hs *Handles) enqueue(r reclaim) {
	hs.mu.Lock()
	hs.pending = append(hs.pending, r)
	hs.mu.Unlock()
}

// Sweep deletes the foreign objects of handles the collector has found
// unreachable and returns how many were deleted. Entries whose address has
// since been re-acquired by a newer handle are dropped without deletion.
func (hs *Handles) Sweep() int {
	hs.mu.Lock()
	batch := hs.pending
	hs.pending = nil
	var doomed []uintptr
	for _, r := range batch {
		lh, ok := hs.live[r.addr]
		if !ok || lh.serial != r.serial {
			continue
		}
		delete(hs.live, r.addr)
		doomed = append(doomed, r.addr)
	}
	hs.mu.Unlock()

	for _, addr := range doomed {
		hs.native.Delete(addr)
	}
	return len(doomed)
}

// Pending returns the number of reclamations waiting for the next Sweep.
func (hs *Handles) Pending() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.pending)
}

// Live returns the number of addresses with a registered handle that has not
// been swept yet.
func (hs *Handles) Live() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.live)
}
