// Package replay drives the player from a tengo script instead of a
// keyboard, for headless runs and reproducible tests.
package replay

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/prefabs"
)

var ErrNoScript = errors.New("replay: script defines no input function")

// The script's `input(engine, tick)` result lands in __out.
const dispatch = `
if __phase == "tick" {
	__out = input(__engine, __tick)
}
`

// Observation is what a script may read about the player each tick.
type Observation struct {
	Position cp.Vector
	Velocity cp.Vector
	State    string
	Selected bool
}

// Script is an InputSource backed by a compiled tengo script.
type Script struct {
	name     string
	compiled *tengo.Compiled
	observe  func() Observation
	err      error
}

// Load compiles a script from prefabs/scripts.
func Load(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("replay: load %s: %w", name, err)
	}
	return Compile(name, src)
}

func Compile(name string, src []byte) (*Script, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + dispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__tick", 0)
	_ = script.Add("__out", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		if strings.Contains(err.Error(), "unresolved reference 'input'") {
			return nil, fmt.Errorf("%w: %s", ErrNoScript, name)
		}
		return nil, fmt.Errorf("replay: compile %s: %w", name, err)
	}

	// Run once with no phase so top-level definitions exist.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("replay: run %s: %w", name, err)
	}
	if !compiled.IsDefined("input") {
		return nil, fmt.Errorf("%w: %s", ErrNoScript, name)
	}

	return &Script{name: name, compiled: compiled}, nil
}

func (s *Script) Name() string { return s.name }

// Observe sets the callback behind the script's engine functions.
func (s *Script) Observe(fn func() Observation) { s.observe = fn }

// Err returns the first runtime error the script raised, if any.
func (s *Script) Err() error { return s.err }

// Poll runs the script for tick. A failing script yields no input and is
// not run again.
func (s *Script) Poll(tick uint64) component.Input {
	if s == nil || s.compiled == nil || s.err != nil {
		return component.Input{}
	}
	out, err := s.run(tick)
	if err != nil {
		s.err = err
		slog.Error("replay script failed", "script", s.name, "tick", tick, "err", err)
		return component.Input{}
	}
	return out
}

func (s *Script) run(tick uint64) (in component.Input, err error) {
	// tengo panics on some runtime faults, integer division by zero among them.
	defer func() {
		if r := recover(); r != nil {
			in, err = component.Input{}, fmt.Errorf("replay: %s: %v", s.name, r)
		}
	}()

	if err := s.compiled.Set("__phase", "tick"); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Set("__engine", s.engine()); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Set("__tick", int64(tick)); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return component.Input{}, err
	}
	return decodeInput(s.compiled.Get("__out").Object())
}

func (s *Script) engine() *tengo.ImmutableMap {
	obs := Observation{State: "idle"}
	if s.observe != nil {
		obs = s.observe()
	}
	vec := func(v cp.Vector) tengo.Object {
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
	}
	values := map[string]tengo.Object{}
	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vec(obs.Position), nil
	}}
	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vec(obs.Velocity), nil
	}}
	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: obs.State}, nil
	}}
	values["selected"] = &tengo.UserFunction{Name: "selected", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if obs.Selected {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}
	return &tengo.ImmutableMap{Value: values}
}

func decodeInput(obj tengo.Object) (component.Input, error) {
	var fields map[string]tengo.Object
	switch v := obj.(type) {
	case *tengo.Map:
		fields = v.Value
	case *tengo.ImmutableMap:
		fields = v.Value
	case *tengo.Undefined, nil:
		return component.Input{}, nil
	default:
		return component.Input{}, fmt.Errorf("input must return a map, got %s", obj.TypeName())
	}

	var in component.Input
	for key, value := range fields {
		switch strings.ToLower(key) {
		case "move_x":
			x, ok := asFloat(value)
			if !ok {
				return component.Input{}, fmt.Errorf("move_x must be a number")
			}
			switch {
			case x > 0:
				in.MoveX = 1
			case x < 0:
				in.MoveX = -1
			}
		case "jump":
			in.Jump = !value.IsFalsy()
		case "grapple":
			in.Grapple = !value.IsFalsy()
		case "restart":
			in.Restart = !value.IsFalsy()
		case "pointer_x":
			in.Pointer.X, _ = asFloat(value)
		case "pointer_y":
			in.Pointer.Y, _ = asFloat(value)
		}
	}
	return in, nil
}

func asFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Int:
		return float64(v.Value), true
	case *tengo.Float:
		return v.Value, true
	}
	return 0, false
}
