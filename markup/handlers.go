package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/visor"
)

// ParseInline splits "k: v; k: v" into a map. Keys and values are trimmed;
// empty segments are ignored and a segment without a colon maps to "".
func ParseInline(s string) map[string]string {
	out := make(map[string]string)
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, ":")
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// parseFloats parses whitespace or comma separated numbers.
func parseFloats(s string) ([]float32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out = append(out, float32(v))
	}
	return out, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float32(v), nil
}

func idAttr(_ *Loader, e *visor.Entity, value string) error {
	if value == "" {
		return fmt.Errorf("empty id")
	}
	e.SetStringID(value)
	return nil
}

func positionAttr(_ *Loader, e *visor.Entity, value string) error {
	v, err := parseFloats(value)
	if err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("position needs 3 values, got %d", len(v))
	}
	e.SetPosition(mgl32.Vec3{v[0], v[1], v[2]})
	return nil
}

// scaleAttr accepts "s", "x y" (z stays 1) or "x y z".
func scaleAttr(_ *Loader, e *visor.Entity, value string) error {
	v, err := parseFloats(value)
	if err != nil {
		return err
	}
	switch len(v) {
	case 1:
		e.SetScaleUniform(v[0])
	case 2:
		e.SetScaleXYZ(v[0], v[1], 1)
	case 3:
		e.SetScaleXYZ(v[0], v[1], v[2])
	default:
		return fmt.Errorf("scale needs 1 to 3 values, got %d", len(v))
	}
	return nil
}

var rotationOrders = map[string]mgl32.RotationOrder{
	"XYZ": mgl32.XYZ,
	"XZY": mgl32.XZY,
	"YXZ": mgl32.YXZ,
	"YZX": mgl32.YZX,
	"ZXY": mgl32.ZXY,
	"ZYX": mgl32.ZYX,
}

// rotationAttr accepts "x y z" in degrees with an optional order suffix.
func rotationAttr(_ *Loader, e *visor.Entity, value string) error {
	fields := strings.Fields(value)
	order := mgl32.XYZ
	if n := len(fields); n == 4 {
		o, ok := rotationOrders[strings.ToUpper(fields[3])]
		if !ok {
			return fmt.Errorf("unknown rotation order %q", fields[3])
		}
		order = o
		fields = fields[:3]
	}
	v, err := parseFloats(strings.Join(fields, " "))
	if err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("rotation needs 3 angles, got %d", len(v))
	}
	e.SetRotationEuler(v[0], v[1], v[2], order)
	return nil
}

func opacityAttr(_ *Loader, e *visor.Entity, value string) error {
	v, err := parseFloat(value)
	if err != nil {
		return err
	}
	e.SetOpacity(v)
	return nil
}

func visibleAttr(_ *Loader, e *visor.Entity, value string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid bool %q", value)
	}
	e.SetVisible(v)
	return nil
}

// Defaults for geometry parameters left out of the inline value.
const (
	defaultPlaneSize = 1
	defaultDomeLat   = 0
	defaultPatchFOV  = 90
)

// geometryAttr parses "primitive: plane; width: 2; height: 1" and friends.
func geometryAttr(l *Loader, e *visor.Entity, value string) error {
	props := ParseInline(value)
	name, ok := props["primitive"]
	if !ok {
		return fmt.Errorf("geometry needs a primitive")
	}
	typ, err := visor.ParsePrimitiveType(name)
	if err != nil {
		return err
	}
	p := visor.Primitive{Type: typ}
	num := func(key string, def float32) (float32, error) {
		s, ok := props[key]
		if !ok {
			return def, nil
		}
		return parseFloat(s)
	}
	switch typ {
	case visor.PrimitivePlane:
		if p.Width, err = num("width", defaultPlaneSize); err != nil {
			return err
		}
		if p.Height, err = num("height", defaultPlaneSize); err != nil {
			return err
		}
	case visor.PrimitiveDome:
		if p.Lat, err = num("lat", defaultDomeLat); err != nil {
			return err
		}
	case visor.PrimitiveSpherePatch:
		if p.FOV, err = num("fov", defaultPatchFOV); err != nil {
			return err
		}
	}
	if old, ok := visor.GetComponent[*visor.Geometry](e); ok {
		e.RemoveComponentOf(old)
	}
	e.AddComponent(visor.NewGeometry(p, l.allocate(visor.ResourceGeometry)))
	return nil
}

// surfaceAttr parses "renderer: solid; color: #rrggbb" and hands the
// properties to the registered surface factory.
func surfaceAttr(l *Loader, e *visor.Entity, value string) error {
	props := ParseInline(value)
	renderer, ok := props["renderer"]
	if !ok {
		return fmt.Errorf("surface needs a renderer")
	}
	fn, ok := l.Registry.surfaces[renderer]
	if !ok {
		return fmt.Errorf("unknown surface renderer %q", renderer)
	}
	s, err := fn(l, props)
	if err != nil {
		return err
	}
	if old, ok := visor.GetComponent[*visor.Surface](e); ok {
		e.RemoveComponentOf(old)
	}
	e.AddComponent(s)
	return nil
}

func solidSurface(l *Loader, props map[string]string) (*visor.Surface, error) {
	color := [4]float32{1, 1, 1, 1}
	if c, ok := props["color"]; ok {
		var err error
		if color, err = ParseColor(c); err != nil {
			return nil, err
		}
	}
	s := visor.NewSurface("solid", color, l.allocate(visor.ResourceSurface))
	s.Props = props
	return s, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into RGBA components in [0,1].
func ParseColor(s string) ([4]float32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return [4]float32{}, fmt.Errorf("invalid color %q", s)
	}
	out := [4]float32{0, 0, 0, 1}
	for i := 0; i < len(s); i += 2 {
		v, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return [4]float32{}, fmt.Errorf("invalid color %q", s)
		}
		out[i/2] = float32(v) / 255
	}
	return out, nil
}

// componentAttr attaches every space-separated registered component.
// Unknown names are reported but do not stop the others from attaching.
func componentAttr(l *Loader, e *visor.Entity, value string) error {
	var unknown []string
	for _, name := range strings.Fields(value) {
		c, err := l.Registry.NewComponent(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if !e.AddComponent(c) {
			l.logf("component %q already attached to %q", name, e.Name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown components %v", unknown)
	}
	return nil
}
