package preview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/visor"
)

// Gaze is a visor.GazeOracle that casts the camera's forward ray, the
// centre of the screen, against plane geometry. Other primitives are never
// looked at.
type Gaze struct {
	Camera *Camera
}

// NewGaze returns an oracle following cam.
func NewGaze(cam *Camera) *Gaze {
	return &Gaze{Camera: cam}
}

// IsLookingAt reports whether the view ray hits e's plane in front of the
// camera. It uses e's world matrix as of the last update.
func (g *Gaze) IsLookingAt(e *visor.Entity) bool {
	geo, ok := visor.GetComponent[*visor.Geometry](e)
	if !ok || geo.Primitive.Type != visor.PrimitivePlane || !e.IsShown() {
		return false
	}
	world := e.WorldMatrix()
	if math.Abs(float64(world.Det())) < 1e-9 {
		return false
	}
	inv := world.Inv()
	o := mgl32.TransformCoordinate(g.Camera.Position, inv)
	d := mgl32.TransformNormal(g.Camera.Forward(), inv)
	if math.Abs(float64(d[2])) < 1e-6 {
		return false
	}
	t := -o[2] / d[2]
	if t < 0 {
		return false
	}
	hit := o.Add(d.Mul(t))
	return abs32(hit[0]) <= geo.Primitive.Width/2 && abs32(hit[1]) <= geo.Primitive.Height/2
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
