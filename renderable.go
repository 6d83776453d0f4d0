package visor

import "fmt"

// PrimitiveType selects the shape a Geometry describes.
type PrimitiveType uint8

const (
	PrimitivePlane       PrimitiveType = iota // flat quad, Width x Height, facing +Z
	PrimitiveGlobe                            // full sphere seen from inside
	PrimitiveDome                             // sphere cap above Lat degrees
	PrimitiveSpherePatch                      // patch of a sphere spanning FOV degrees
)

// String returns the name used in markup.
func (p PrimitiveType) String() string {
	switch p {
	case PrimitivePlane:
		return "plane"
	case PrimitiveGlobe:
		return "globe"
	case PrimitiveDome:
		return "dome"
	case PrimitiveSpherePatch:
		return "spherePatch"
	default:
		return "unknown"
	}
}

// ParsePrimitiveType is the inverse of PrimitiveType.String.
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	for p := PrimitivePlane; p <= PrimitiveSpherePatch; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown primitive %q", s)
}

// Primitive is a parametric shape description. Only the fields relevant to
// Type are read.
type Primitive struct {
	Type   PrimitiveType
	Width  float32 // plane
	Height float32 // plane
	Lat    float32 // dome, degrees
	FOV    float32 // spherePatch, degrees
}

// Plane returns a plane primitive.
func Plane(width, height float32) Primitive {
	return Primitive{Type: PrimitivePlane, Width: width, Height: height}
}

var (
	geometryKind = KindFor[*Geometry]()
	surfaceKind  = KindFor[*Surface]()
)

// Geometry gives an entity a shape. Together with a Surface it makes the
// entity renderable.
type Geometry struct {
	BaseComponent
	Primitive Primitive
	handle    *Handle
}

// NewGeometry returns a geometry component for p. h may be nil when no
// foreign mesh backs it.
func NewGeometry(p Primitive, h *Handle) *Geometry {
	return &Geometry{Primitive: p, handle: h}
}

// Handle returns the foreign mesh, or nil.
func (g *Geometry) Handle() *Handle { return g.handle }

// OnAttach binds the mesh to the entity's foreign object.
func (g *Geometry) OnAttach(e *Entity) { bindResource(e, g.handle) }

// OnDetach unbinds the mesh.
func (g *Geometry) OnDetach(e *Entity) { unbindResource(e, g.handle) }

// Surface describes how an entity's geometry is shaded.
type Surface struct {
	BaseComponent
	// Renderer names the surface implementation, e.g. "solid".
	Renderer string
	// Color is linear RGBA.
	Color [4]float32
	// Props holds renderer-specific settings.
	Props  map[string]string
	handle *Handle
}

// NewSurface returns a surface component. h may be nil.
func NewSurface(renderer string, color [4]float32, h *Handle) *Surface {
	return &Surface{Renderer: renderer, Color: color, handle: h}
}

// Handle returns the foreign surface, or nil.
func (s *Surface) Handle() *Handle { return s.handle }

// OnAttach binds the surface to the entity's foreign object.
func (s *Surface) OnAttach(e *Entity) { bindResource(e, s.handle) }

// OnDetach unbinds the surface.
func (s *Surface) OnDetach(e *Entity) { unbindResource(e, s.handle) }

func bindResource(e *Entity, res *Handle) {
	if e.handle == nil || res == nil {
		return
	}
	e.handle.owner.native.Bind(e.handle.addr, res.addr)
}

func unbindResource(e *Entity, res *Handle) {
	if e.handle == nil || res == nil {
		return
	}
	e.handle.owner.native.Unbind(e.handle.addr, res.addr)
}
