package script

import (
	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/physics"
)

// bodyMap exposes b to a script. Every function is safe to call on a body
// that is not initialized; actions then do nothing and queries return zero.
func bodyMap(b *physics.Body, state *tengo.Map) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"name":  &tengo.String{Value: b.Item.Name},
		"state": state,
	}

	values["apply_force"] = fn("apply_force", func(args ...tengo.Object) (tengo.Object, error) {
		force, point, err := vectorAndPoint(b, args)
		if err != nil {
			return nil, err
		}
		b.ApplyForce(force, point)
		return tengo.UndefinedValue, nil
	})

	values["apply_torque"] = fn("apply_torque", func(args ...tengo.Object) (tengo.Object, error) {
		t, err := floatArgs(args, 1)
		if err != nil {
			return nil, err
		}
		b.ApplyTorque(t[0])
		return tengo.UndefinedValue, nil
	})

	values["apply_impulse"] = fn("apply_impulse", func(args ...tengo.Object) (tengo.Object, error) {
		impulse, point, err := vectorAndPoint(b, args)
		if err != nil {
			return nil, err
		}
		b.ApplyLinearImpulse(impulse, point)
		return tengo.UndefinedValue, nil
	})

	values["apply_angular_impulse"] = fn("apply_angular_impulse", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floatArgs(args, 1)
		if err != nil {
			return nil, err
		}
		b.ApplyAngularImpulse(v[0])
		return tengo.UndefinedValue, nil
	})

	values["mass"] = getter("mass", func() tengo.Object { return &tengo.Float{Value: b.Mass()} })
	values["inertia"] = getter("inertia", func() tengo.Object { return &tengo.Float{Value: b.Inertia()} })
	values["world_center"] = getter("world_center", func() tengo.Object { return pair(b.WorldCenter()) })
	values["local_center"] = getter("local_center", func() tengo.Object { return pair(b.LocalCenter()) })
	values["velocity"] = getter("velocity", func() tengo.Object { return pair(b.LinearVelocity()) })
	values["angular_velocity"] = getter("angular_velocity", func() tengo.Object { return &tengo.Float{Value: b.AngularVelocity()} })
	values["position"] = getter("position", func() tengo.Object { return pair(cp.Vector{X: b.X(), Y: b.Y()}) })
	values["rotation"] = getter("rotation", func() tengo.Object { return &tengo.Float{Value: b.Rotation()} })
	values["awake"] = getter("awake", func() tengo.Object { return boolObject(b.IsAwake()) })

	values["set_velocity"] = fn("set_velocity", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floatArgs(args, 2)
		if err != nil {
			return nil, err
		}
		b.SetLinearVelocity(cp.Vector{X: v[0], Y: v[1]})
		return tengo.UndefinedValue, nil
	})

	values["set_angular_velocity"] = fn("set_angular_velocity", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floatArgs(args, 1)
		if err != nil {
			return nil, err
		}
		b.SetAngularVelocity(v[0])
		return tengo.UndefinedValue, nil
	})

	values["set_awake"] = fn("set_awake", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		awake, ok := tengo.ToBool(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "bool", Found: args[0].TypeName()}
		}
		b.SetAwake(awake)
		return tengo.UndefinedValue, nil
	})

	values["velocity_at"] = fn("velocity_at", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floatArgs(args, 2)
		if err != nil {
			return nil, err
		}
		return pair(b.LinearVelocityFromWorldPoint(cp.Vector{X: v[0], Y: v[1]})), nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func fn(name string, f tengo.CallableFunc) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: f}
}

func getter(name string, f func() tengo.Object) *tengo.UserFunction {
	return fn(name, func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 0 {
			return nil, tengo.ErrWrongNumArguments
		}
		return f(), nil
	})
}

var argNames = []string{"first", "second", "third", "fourth"}

func floatArgs(args []tengo.Object, n int) ([]float64, error) {
	if len(args) != n {
		return nil, tengo.ErrWrongNumArguments
	}
	out := make([]float64, n)
	for i, a := range args {
		v, ok := toFloat(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: argNames[i], Expected: "float", Found: a.TypeName()}
		}
		out[i] = v
	}
	return out, nil
}

// vectorAndPoint reads (x, y) or (x, y, px, py). The point defaults to the
// body's center of mass.
func vectorAndPoint(b *physics.Body, args []tengo.Object) (cp.Vector, cp.Vector, error) {
	switch len(args) {
	case 2:
		v, err := floatArgs(args, 2)
		if err != nil {
			return cp.Vector{}, cp.Vector{}, err
		}
		return cp.Vector{X: v[0], Y: v[1]}, b.WorldCenter(), nil
	case 4:
		v, err := floatArgs(args, 4)
		if err != nil {
			return cp.Vector{}, cp.Vector{}, err
		}
		return cp.Vector{X: v[0], Y: v[1]}, cp.Vector{X: v[2], Y: v[3]}, nil
	}
	return cp.Vector{}, cp.Vector{}, tengo.ErrWrongNumArguments
}

func toFloat(o tengo.Object) (float64, bool) {
	switch v := o.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}

func pair(v cp.Vector) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
