package preview

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/visor"
)

const maxPitch = 89

// Camera is the viewer's head pose. Yaw turns about +Y and pitch about +X,
// both in degrees; the camera looks down -Z at zero rotation.
type Camera struct {
	Position   mgl32.Vec3
	Yaw, Pitch float32
	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32
}

// NewCamera returns a camera at the origin with the given vertical FOV.
func NewCamera(fov float32) *Camera {
	return &Camera{FOV: fov, Near: 0.05, Far: 100}
}

// Turn adds to yaw and pitch. Pitch is clamped short of straight up or down
// and yaw wraps to [-180, 180).
func (c *Camera) Turn(dyaw, dpitch float32) {
	c.Yaw += dyaw
	for c.Yaw >= 180 {
		c.Yaw -= 360
	}
	for c.Yaw < -180 {
		c.Yaw += 360
	}
	c.Pitch = min(max(c.Pitch+dpitch, -maxPitch), maxPitch)
}

// Rotation returns the head orientation.
func (c *Camera) Rotation() mgl32.Quat {
	return visor.EulerToQuat(c.Pitch, c.Yaw, 0, mgl32.YXZ)
}

// Forward returns the unit view direction in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	p := c.Position
	return c.Rotation().Inverse().Mat4().Mul4(mgl32.Translate3D(-p[0], -p[1], -p[2]))
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection is Projection(aspect) * View().
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

// project maps a world point to screen pixels. ok is false for points
// behind the near plane.
func project(vp mgl32.Mat4, p mgl32.Vec3, w, h int) (x, y, depth float32, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x = (ndc[0] + 1) / 2 * float32(w)
	y = (1 - ndc[1]) / 2 * float32(h)
	return x, y, ndc[2], true
}
