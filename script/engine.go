package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/visor"
	"github.com/tanema/gween/ease"
)

// newEngine builds the engine object scripts use to drive e.
func newEngine(s *Script, e *visor.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("id", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: fmt.Sprintf("%d", e.ID)}, nil
	})
	fn("name", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: e.Name}, nil
	})

	fn("position", func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(e.Position()), nil
	})
	fn("set_position", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := vecArgs("set_position", args)
		if err != nil {
			return nil, err
		}
		e.SetPosition(v)
		return tengo.UndefinedValue, nil
	})
	fn("move_by", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := vecArgs("move_by", args)
		if err != nil {
			return nil, err
		}
		e.SetPosition(e.Position().Add(v))
		return tengo.UndefinedValue, nil
	})
	fn("world_position", func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(e.WorldPosition()), nil
	})

	fn("scale", func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(e.Scale()), nil
	})
	fn("set_scale", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) == 1 {
			if f, ok := tengo.ToFloat64(args[0]); ok {
				e.SetScaleUniform(float32(f))
				return tengo.UndefinedValue, nil
			}
		}
		v, err := vecArgs("set_scale", args)
		if err != nil {
			return nil, err
		}
		e.SetScale(v)
		return tengo.UndefinedValue, nil
	})

	fn("rotation", func(args ...tengo.Object) (tengo.Object, error) {
		q := e.Rotation()
		return floatArray(q.V[0], q.V[1], q.V[2], q.W), nil
	})
	fn("set_rotation", func(args ...tengo.Object) (tengo.Object, error) {
		x, y, z, order, err := eulerArgs("set_rotation", args)
		if err != nil {
			return nil, err
		}
		e.SetRotationEuler(x, y, z, order)
		return tengo.UndefinedValue, nil
	})
	fn("rotate_by", func(args ...tengo.Object) (tengo.Object, error) {
		x, y, z, order, err := eulerArgs("rotate_by", args)
		if err != nil {
			return nil, err
		}
		e.SetRotation(e.Rotation().Mul(visor.EulerToQuat(x, y, z, order)).Normalize())
		return tengo.UndefinedValue, nil
	})

	fn("opacity", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: float64(e.Opacity())}, nil
	})
	fn("set_opacity", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		f, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, invalidArg("value", "float", args[0])
		}
		e.SetOpacity(float32(f))
		return tengo.UndefinedValue, nil
	})
	fn("rendering_opacity", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: float64(e.RenderingOpacity())}, nil
	})

	fn("visible", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.Visible()), nil
	})
	fn("set_visible", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e.SetVisible(!args[0].IsFalsy())
		return tengo.UndefinedValue, nil
	})
	fn("is_shown", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.IsShown()), nil
	})

	fn("find", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, ok := tengo.ToString(args[0])
		if !ok {
			return nil, invalidArg("name", "string", args[0])
		}
		found := e.Root().FindByName(name)
		if found == nil {
			return tengo.UndefinedValue, nil
		}
		if found == e {
			return s.engine, nil
		}
		return newEngine(s, found), nil
	})

	fn("add_component", func(args ...tengo.Object) (tengo.Object, error) {
		c, err := s.componentArg("add_component", args)
		if err != nil || c == nil {
			return tengo.FalseValue, err
		}
		return boolObject(e.AddComponent(c)), nil
	})
	fn("remove_component", func(args ...tengo.Object) (tengo.Object, error) {
		c, err := s.componentArg("remove_component", args)
		if err != nil || c == nil {
			return tengo.FalseValue, err
		}
		return boolObject(e.RemoveComponent(visor.KindOf(c))), nil
	})
	fn("has_component", func(args ...tengo.Object) (tengo.Object, error) {
		c, err := s.componentArg("has_component", args)
		if err != nil || c == nil {
			return tengo.FalseValue, err
		}
		return boolObject(e.Component(visor.KindOf(c)) != nil), nil
	})

	fn("animate", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		a, err := buildAnimator(e, args[0])
		if err != nil {
			return nil, err
		}
		a.Start()
		return tengo.TrueValue, nil
	})

	fn("on", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := nameArg(args)
		if err != nil {
			return nil, err
		}
		if e != s.Entity() {
			return tengo.FalseValue, nil
		}
		return boolObject(s.subscribe(name)), nil
	})
	fn("off", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := nameArg(args)
		if err != nil {
			return nil, err
		}
		if e != s.Entity() {
			return tengo.FalseValue, nil
		}
		return boolObject(s.unsubscribe(name)), nil
	})
	fn("emit", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, ok := tengo.ToString(args[0])
		if !ok {
			return nil, invalidArg("name", "string", args[0])
		}
		var data any
		if len(args) == 2 {
			data = tengo.ToInterface(args[1])
		}
		e.Emit(name, data)
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// componentArg resolves a component name through the factory. A nil
// component with a nil error means the name is unknown.
func (s *Script) componentArg(fname string, args []tengo.Object) (visor.Component, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	name, ok := tengo.ToString(args[0])
	if !ok {
		return nil, invalidArg("name", "string", args[0])
	}
	if s.opts.Components == nil {
		return nil, fmt.Errorf("%s: no component factory configured", fname)
	}
	c, err := s.opts.Components.NewComponent(name)
	if err != nil {
		return nil, nil
	}
	return c, nil
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"inback":       ease.InBack,
	"outback":      ease.OutBack,
	"inoutback":    ease.InOutBack,
	"outbounce":    ease.OutBounce,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
}

// animation step keys, applied in this order when given in one map.
var stepKeys = []string{"move_to", "move_by", "scale_to", "scale_by", "rotate_to", "rotate_by", "fade_to"}

// buildAnimator reads an animation description:
//
//	{duration: 0.5, delay: 0, easing: "linear", sequential: true,
//	 steps: [{move_to: [0, 1, -3]}, {fade_to: 0}]}
//
// Step keys may also appear directly in the top-level map.
func buildAnimator(e *visor.Entity, obj tengo.Object) (*visor.Animator, error) {
	opts, ok := mapValue(obj)
	if !ok {
		return nil, invalidArg("options", "map", obj)
	}
	a := e.Animate()
	if v, ok := opts["duration"]; ok {
		f, ok := tengo.ToFloat64(v)
		if !ok {
			return nil, invalidArg("duration", "float", v)
		}
		a.Duration = float32(f)
	}
	if v, ok := opts["delay"]; ok {
		f, ok := tengo.ToFloat64(v)
		if !ok {
			return nil, invalidArg("delay", "float", v)
		}
		a.Delay = float32(f)
	}
	if v, ok := opts["sequential"]; ok {
		a.Sequential = !v.IsFalsy()
	}
	if v, ok := opts["easing"]; ok {
		name, _ := tengo.ToString(v)
		fn, ok := easings[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("animate: unknown easing %q", name)
		}
		a.Easing = fn
	}
	if err := addSteps(a, opts); err != nil {
		return nil, err
	}
	if v, ok := opts["steps"]; ok {
		arr, ok := v.(*tengo.Array)
		if !ok {
			return nil, invalidArg("steps", "array", v)
		}
		for _, item := range arr.Value {
			step, ok := mapValue(item)
			if !ok {
				return nil, invalidArg("step", "map", item)
			}
			if err := addSteps(a, step); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func addSteps(a *visor.Animator, m map[string]tengo.Object) error {
	for _, key := range stepKeys {
		v, ok := m[key]
		if !ok {
			continue
		}
		if key == "fade_to" {
			f, ok := tengo.ToFloat64(v)
			if !ok {
				return invalidArg(key, "float", v)
			}
			a.FadeTo(float32(f))
			continue
		}
		vec, err := vecArgs(key, []tengo.Object{v})
		if err != nil {
			return err
		}
		switch key {
		case "move_to":
			a.MoveTo(vec)
		case "move_by":
			a.MoveBy(vec)
		case "scale_to":
			a.ScaleTo(vec)
		case "scale_by":
			a.ScaleBy(vec)
		case "rotate_to":
			a.RotateToEuler(vec[0], vec[1], vec[2])
		case "rotate_by":
			a.RotateByEuler(vec[0], vec[1], vec[2])
		}
	}
	return nil
}

var rotationOrders = map[string]mgl32.RotationOrder{
	"XYZ": mgl32.XYZ, "XZY": mgl32.XZY, "YXZ": mgl32.YXZ,
	"YZX": mgl32.YZX, "ZXY": mgl32.ZXY, "ZYX": mgl32.ZYX,
}

// eulerArgs reads (x, y, z[, order]) or ([x, y, z][, order]) in degrees.
func eulerArgs(fname string, args []tengo.Object) (x, y, z float32, order mgl32.RotationOrder, err error) {
	order = mgl32.XYZ
	if n := len(args); n == 2 || n == 4 {
		name, ok := tengo.ToString(args[n-1])
		o, known := rotationOrders[strings.ToUpper(name)]
		if !ok || !known {
			return 0, 0, 0, 0, fmt.Errorf("%s: unknown rotation order %s", fname, args[n-1])
		}
		order = o
		args = args[:n-1]
	}
	v, err := vecArgs(fname, args)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return v[0], v[1], v[2], order, nil
}
