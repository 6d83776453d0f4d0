package preview

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/visor"
)

// quad is a projected plane ready for DrawTriangles.
type quad struct {
	pts   [4][2]float32
	depth float32
	color [4]float32 // premultiplied
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// projectPlane projects a plane draw item. Planes with any corner behind
// the camera are dropped rather than clipped.
func projectPlane(item visor.DrawItem, vp mgl32.Mat4, w, h int) (quad, bool) {
	p := item.Geometry.Primitive
	hw, hh := p.Width/2, p.Height/2
	world := mgl32.Mat4(item.World)
	corners := [4]mgl32.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}}

	var q quad
	for i, c := range corners {
		x, y, depth, ok := project(vp, mgl32.TransformCoordinate(c, world), w, h)
		if !ok {
			return quad{}, false
		}
		q.pts[i] = [2]float32{x, y}
		q.depth += depth / 4
	}
	col := item.Surface.Color
	a := col[3] * item.Opacity
	q.color = [4]float32{col[0] * a, col[1] * a, col[2] * a, a}
	return q, true
}

// buildQuads projects every plane item and orders them far to near.
func buildQuads(dst []quad, items []visor.DrawItem, vp mgl32.Mat4, w, h int) []quad {
	for _, it := range items {
		if it.Geometry.Primitive.Type != visor.PrimitivePlane || it.Opacity <= 0 {
			continue
		}
		if q, ok := projectPlane(it, vp, w, h); ok {
			dst = append(dst, q)
		}
	}
	sort.SliceStable(dst, func(i, j int) bool { return dst[i].depth > dst[j].depth })
	return dst
}

// skyColor returns the surface color of the first globe or dome, which the
// preview uses as the background.
func skyColor(items []visor.DrawItem) ([4]float32, bool) {
	for _, it := range items {
		switch it.Geometry.Primitive.Type {
		case visor.PrimitiveGlobe, visor.PrimitiveDome:
			return it.Surface.Color, true
		}
	}
	return [4]float32{}, false
}

func appendQuadVertices(dst []ebiten.Vertex, q quad) []ebiten.Vertex {
	for _, p := range q.pts {
		dst = append(dst, ebiten.Vertex{
			DstX: p[0], DstY: p[1],
			SrcX: 0.5, SrcY: 0.5,
			ColorR: q.color[0], ColorG: q.color[1], ColorB: q.color[2], ColorA: q.color[3],
		})
	}
	return dst
}
