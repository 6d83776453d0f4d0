package visor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// composeLocal builds the local matrix T * R * S from the entity's transform
// properties.
func composeLocal(e *Entity) mgl32.Mat4 {
	p, s := e.position, e.scale
	m := e.rotation.Mat4()
	// Right-multiplying by the scale matrix scales the rotation columns.
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= s[col]
		}
	}
	m[12], m[13], m[14] = p[0], p[1], p[2]
	return m
}

// refreshTransform brings the cached matrices and pushed opacity of e up to
// date. Ancestors must already be fresh.
func (e *Entity) refreshTransform() {
	if e.localDirty {
		e.localMatrix = composeLocal(e)
		markWorldDirty(e)
		e.localDirty = false
	}
	if e.worldDirty {
		if e.parent != nil {
			e.worldMatrix = e.parent.worldMatrix.Mul4(e.localMatrix)
		} else {
			e.worldMatrix = e.localMatrix
		}
		if e.handle != nil {
			e.handle.pushWorldMatrix(e.worldMatrix)
		}
		e.worldDirty = false
	}
	if e.opacityDirty {
		parentOpacity := float32(1)
		if e.parent != nil {
			parentOpacity = e.parent.RenderingOpacity()
		}
		pushOpacity(e, parentOpacity)
	}
}

// Update runs one frame on this entity and its subtree: components first in
// attachment order, then the transform cache, then the children in order.
func (e *Entity) Update(frame FrameInput) {
	if globalDebug {
		debugCheckDisposed(e, "Update")
	}
	// Components removed during the loop skip their update; ones added
	// during it wait for the next frame.
	var buf [8]Component
	for _, c := range append(buf[:0], e.order...) {
		if c.Entity() != e {
			continue
		}
		c.Update(frame)
	}
	e.refreshTransform()
	for i := 0; i < len(e.children); i++ {
		e.children[i].Update(frame)
	}
}

// markWorldDirty flags the world matrix of node and every descendant.
func markWorldDirty(node *Entity) {
	node.worldDirty = true
	for _, child := range node.children {
		markWorldDirty(child)
	}
}

// pushOpacity sends the rendering opacity of node and every descendant to
// their handles and clears their opacity flags.
func pushOpacity(node *Entity, parentOpacity float32) {
	v := parentOpacity * node.opacity
	if node.handle != nil {
		node.handle.pushOpacity(v)
	}
	node.opacityDirty = false
	for _, child := range node.children {
		pushOpacity(child, v)
	}
}

// --- Transform property setters ---

// SetPosition sets the local position and marks the local matrix dirty.
func (e *Entity) SetPosition(p mgl32.Vec3) {
	if globalDebug {
		e.debugCheckThread("SetPosition")
	}
	e.position = p
	e.localDirty = true
}

// SetX sets the local X coordinate.
func (e *Entity) SetX(x float32) {
	if globalDebug {
		e.debugCheckThread("SetX")
	}
	e.position[0] = x
	e.localDirty = true
}

// SetY sets the local Y coordinate.
func (e *Entity) SetY(y float32) {
	if globalDebug {
		e.debugCheckThread("SetY")
	}
	e.position[1] = y
	e.localDirty = true
}

// SetZ sets the local Z coordinate.
func (e *Entity) SetZ(z float32) {
	if globalDebug {
		e.debugCheckThread("SetZ")
	}
	e.position[2] = z
	e.localDirty = true
}

// SetScale sets the local scale and marks the local matrix dirty.
func (e *Entity) SetScale(s mgl32.Vec3) {
	if globalDebug {
		e.debugCheckThread("SetScale")
	}
	e.scale = s
	e.localDirty = true
}

// SetScaleXYZ sets each scale axis.
func (e *Entity) SetScaleXYZ(x, y, z float32) {
	e.SetScale(mgl32.Vec3{x, y, z})
}

// SetScaleUniform sets all three scale axes to s.
func (e *Entity) SetScaleUniform(s float32) {
	e.SetScale(mgl32.Vec3{s, s, s})
}

// SetRotation sets the local rotation and marks the local matrix dirty.
func (e *Entity) SetRotation(q mgl32.Quat) {
	if globalDebug {
		e.debugCheckThread("SetRotation")
	}
	e.rotation = q
	e.localDirty = true
}

// SetRotationEuler sets the rotation from angles in degrees about X, Y and
// Z, applied in the given order.
func (e *Entity) SetRotationEuler(x, y, z float32, order mgl32.RotationOrder) {
	e.SetRotation(EulerToQuat(x, y, z, order))
}

// EulerToQuat converts per-axis angles in degrees to a quaternion. order
// names the axis sequence; angles are always given as x, y, z.
func EulerToQuat(x, y, z float32, order mgl32.RotationOrder) mgl32.Quat {
	x, y, z = mgl32.DegToRad(x), mgl32.DegToRad(y), mgl32.DegToRad(z)
	switch order {
	case mgl32.XZY:
		return mgl32.AnglesToQuat(x, z, y, order)
	case mgl32.YXZ:
		return mgl32.AnglesToQuat(y, x, z, order)
	case mgl32.YZX:
		return mgl32.AnglesToQuat(y, z, x, order)
	case mgl32.ZYX:
		return mgl32.AnglesToQuat(z, y, x, order)
	case mgl32.ZXY:
		return mgl32.AnglesToQuat(z, x, y, order)
	default:
		return mgl32.AnglesToQuat(x, y, z, mgl32.XYZ)
	}
}

// SetOpacity clamps v to [0, 1] and stores it. Setting the current value is a
// no-op and does not schedule a push. NaN is ignored.
func (e *Entity) SetOpacity(v float32) {
	if v != v {
		return
	}
	if globalDebug {
		e.debugCheckThread("SetOpacity")
	}
	v = float32(math.Max(0, math.Min(1, float64(v))))
	if v == e.opacity {
		return
	}
	e.opacity = v
	e.opacityDirty = true
}

// SetVisible sets the visibility flag. Effective visibility is derived on
// read by IsShown.
func (e *Entity) SetVisible(v bool) {
	if globalDebug {
		e.debugCheckThread("SetVisible")
	}
	e.visible = v
}

// MarkDirty forces the local matrix and opacity to be recomputed and pushed
// on the next Update.
func (e *Entity) MarkDirty() {
	if globalDebug {
		e.debugCheckThread("MarkDirty")
	}
	e.localDirty = true
	e.opacityDirty = true
}

// --- Readers ---

// Position returns the local position.
func (e *Entity) Position() mgl32.Vec3 { return e.position }

// Scale returns the local scale.
func (e *Entity) Scale() mgl32.Vec3 { return e.scale }

// Rotation returns the local rotation.
func (e *Entity) Rotation() mgl32.Quat { return e.rotation }

// Opacity returns the entity's own opacity.
func (e *Entity) Opacity() float32 { return e.opacity }

// Visible returns the entity's own visibility flag.
func (e *Entity) Visible() bool { return e.visible }

// RenderingOpacity is the product of this entity's opacity and every
// ancestor's.
func (e *Entity) RenderingOpacity() float32 {
	v := e.opacity
	for p := e.parent; p != nil; p = p.parent {
		v *= p.opacity
	}
	return v
}

// IsShown reports whether this entity and every ancestor are visible.
func (e *Entity) IsShown() bool {
	for p := e; p != nil; p = p.parent {
		if !p.visible {
			return false
		}
	}
	return true
}

// LocalMatrix returns the cached local matrix as of the last Update.
func (e *Entity) LocalMatrix() mgl32.Mat4 { return e.localMatrix }

// WorldMatrix returns the cached world matrix as of the last Update.
func (e *Entity) WorldMatrix() mgl32.Mat4 { return e.worldMatrix }

// IsRenderable reports whether the entity carries both a Geometry and a
// Surface.
func (e *Entity) IsRenderable() bool { return e.renderable }

// --- Coordinate conversion ---

// WorldPosition returns the translation of the cached world matrix.
func (e *Entity) WorldPosition() mgl32.Vec3 {
	return e.worldMatrix.Col(3).Vec3()
}

// LocalToWorld converts a point in this entity's space to world space.
func (e *Entity) LocalToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, e.worldMatrix)
}

// WorldToLocal converts a world-space point to this entity's space. Returns
// p unchanged if the world matrix is singular.
func (e *Entity) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	if det := e.worldMatrix.Det(); det > -1e-12 && det < 1e-12 {
		return p
	}
	return mgl32.TransformCoordinate(p, e.worldMatrix.Inv())
}
