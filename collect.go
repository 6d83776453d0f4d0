package visor

// DrawItem is one renderable entity as seen by the renderer.
type DrawItem struct {
	Entity   *Entity
	World    [16]float32 // column-major
	Opacity  float32
	Geometry *Geometry
	Surface  *Surface
}

// Collect appends a DrawItem for every shown, renderable entity under root
// (root included) in pre-order and returns the extended slice. Hidden
// subtrees are skipped entirely. Pass buf[:0] to reuse storage across frames.
func Collect(root *Entity, buf []DrawItem) []DrawItem {
	if root == nil {
		return buf
	}
	parentOpacity := float32(1)
	for p := root.parent; p != nil; p = p.parent {
		if !p.visible {
			return buf
		}
		parentOpacity *= p.opacity
	}
	return collect(root, parentOpacity, buf)
}

func collect(e *Entity, parentOpacity float32, buf []DrawItem) []DrawItem {
	if !e.visible {
		return buf
	}
	opacity := parentOpacity * e.opacity
	if e.renderable {
		buf = append(buf, DrawItem{
			Entity:   e,
			World:    e.worldMatrix,
			Opacity:  opacity,
			Geometry: e.components[geometryKind].(*Geometry),
			Surface:  e.components[surfaceKind].(*Surface),
		})
	}
	for _, child := range e.children {
		buf = collect(child, opacity, buf)
	}
	return buf
}
