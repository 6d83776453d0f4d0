package script

import (
	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl32"
)

func floatArray(vs ...float32) *tengo.Array {
	out := make([]tengo.Object, len(vs))
	for i, v := range vs {
		out[i] = &tengo.Float{Value: float64(v)}
	}
	return &tengo.Array{Value: out}
}

func vecObject(v mgl32.Vec3) *tengo.Array {
	return floatArray(v[0], v[1], v[2])
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func invalidArg(name, expected string, found tengo.Object) error {
	return tengo.ErrInvalidArgumentType{Name: name, Expected: expected, Found: found.TypeName()}
}

// vecArgs accepts three numbers or a single array of three numbers.
func vecArgs(fname string, args []tengo.Object) (mgl32.Vec3, error) {
	if len(args) == 1 {
		switch arr := args[0].(type) {
		case *tengo.Array:
			args = arr.Value
		case *tengo.ImmutableArray:
			args = arr.Value
		}
	}
	if len(args) != 3 {
		return mgl32.Vec3{}, tengo.ErrWrongNumArguments
	}
	var v mgl32.Vec3
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return mgl32.Vec3{}, invalidArg(fname, "number", a)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func nameArg(args []tengo.Object) (string, error) {
	if len(args) != 1 {
		return "", tengo.ErrWrongNumArguments
	}
	name, ok := tengo.ToString(args[0])
	if !ok {
		return "", invalidArg("name", "string", args[0])
	}
	return name, nil
}

func mapValue(obj tengo.Object) (map[string]tengo.Object, bool) {
	switch m := obj.(type) {
	case *tengo.Map:
		return m.Value, true
	case *tengo.ImmutableMap:
		return m.Value, true
	}
	return nil, false
}
