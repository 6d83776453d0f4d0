package visor

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingNative is an in-memory Native that records every call.
type recordingNative struct {
	mu       sync.Mutex
	next     uintptr
	kinds    map[uintptr]ResourceKind
	matrices map[uintptr][]mgl32.Mat4
	opacity  map[uintptr][]float32
	bound    map[uintptr][]uintptr
	deleted  map[uintptr]int
}

func newRecordingNative() *recordingNative {
	return &recordingNative{
		next:     0x1000,
		kinds:    make(map[uintptr]ResourceKind),
		matrices: make(map[uintptr][]mgl32.Mat4),
		opacity:  make(map[uintptr][]float32),
		bound:    make(map[uintptr][]uintptr),
		deleted:  make(map[uintptr]int),
	}
}

func (n *recordingNative) Allocate(kind ResourceKind) uintptr {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next += 0x10
	n.kinds[n.next] = kind
	return n.next
}

func (n *recordingNative) Bind(owner, resource uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bound[owner] = append(n.bound[owner], resource)
}

func (n *recordingNative) Unbind(owner, resource uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	list := n.bound[owner]
	for i, r := range list {
		if r == resource {
			n.bound[owner] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (n *recordingNative) SetWorldMatrix(addr uintptr, m mgl32.Mat4) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matrices[addr] = append(n.matrices[addr], m)
}

func (n *recordingNative) SetOpacity(addr uintptr, v float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opacity[addr] = append(n.opacity[addr], v)
}

func (n *recordingNative) Delete(addr uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted[addr]++
}

func (n *recordingNative) matrixPushes(addr uintptr) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.matrices[addr])
}

func (n *recordingNative) opacityPushes(addr uintptr) []float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]float32(nil), n.opacity[addr]...)
}

func (n *recordingNative) deletes(addr uintptr) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deleted[addr]
}

func (n *recordingNative) totalDeletes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, c := range n.deleted {
		total += c
	}
	return total
}

const epsilon = 1e-4

func approx(a, b float32) bool {
	d := a - b
	return d < epsilon && d > -epsilon
}

func approxVec(a, b mgl32.Vec3) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}
