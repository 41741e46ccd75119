package replay

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs/component"
)

func mustCompile(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Compile("test", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return s
}

func TestPollDecodesInput(t *testing.T) {
	s := mustCompile(t, `
input := func(engine, tick) {
	return {
		move_x: tick < 2 ? -3 : 0.5,
		jump: tick == 1,
		grapple: tick >= 2,
		restart: false,
		pointer_x: 10,
		pointer_y: -2.5
	}
}
`)

	tests := []struct {
		tick uint64
		want component.Input
	}{
		{0, component.Input{MoveX: -1, Pointer: cp.Vector{X: 10, Y: -2.5}}},
		{1, component.Input{MoveX: -1, Jump: true, Pointer: cp.Vector{X: 10, Y: -2.5}}},
		{2, component.Input{MoveX: 1, Grapple: true, Pointer: cp.Vector{X: 10, Y: -2.5}}},
	}
	for _, tt := range tests {
		if got := s.Poll(tt.tick); got != tt.want {
			t.Fatalf("tick %d: got %+v want %+v", tt.tick, got, tt.want)
		}
	}
	if s.Err() != nil {
		t.Fatalf("unexpected error: %v", s.Err())
	}
}

func TestPollMissingKeysAreZero(t *testing.T) {
	s := mustCompile(t, `input := func(engine, tick) { return {jump: true} }`)
	if got := s.Poll(0); got != (component.Input{Jump: true}) {
		t.Fatalf("got %+v", got)
	}
}

func TestCompileWithoutInput(t *testing.T) {
	_, err := Compile("empty", []byte(`x := 1`))
	if !errors.Is(err, ErrNoScript) {
		t.Fatalf("expected ErrNoScript, got %v", err)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("broken", []byte(`input := func(engine, tick {`))
	if err == nil || errors.Is(err, ErrNoScript) {
		t.Fatalf("expected a compile error, got %v", err)
	}
}

func TestPollStopsAfterRuntimeError(t *testing.T) {
	s := mustCompile(t, `
input := func(engine, tick) {
	if tick == 1 {
		return 1 / 0
	}
	return {move_x: 1}
}
`)
	if got := s.Poll(0); got.MoveX != 1 {
		t.Fatalf("tick 0: got %+v", got)
	}
	if got := s.Poll(1); got != (component.Input{}) {
		t.Fatalf("tick 1: expected zero input, got %+v", got)
	}
	if s.Err() == nil {
		t.Fatal("expected runtime error to be recorded")
	}
	if got := s.Poll(2); got != (component.Input{}) {
		t.Fatalf("tick 2: expected script to stay stopped, got %+v", got)
	}
}

func TestPollRecoversFromScriptPanic(t *testing.T) {
	s := mustCompile(t, `
input := func(engine, tick) {
	x := 0
	return {move_x: 1 / x}
}
`)
	if got := s.Poll(0); got != (component.Input{}) {
		t.Fatalf("expected zero input, got %+v", got)
	}
	if s.Err() == nil {
		t.Fatal("expected the fault to be recorded")
	}
	if got := s.Poll(1); got != (component.Input{}) {
		t.Fatalf("expected script to stay stopped, got %+v", got)
	}
}

func TestPollRejectsNonMap(t *testing.T) {
	s := mustCompile(t, `input := func(engine, tick) { return "left" }`)
	s.Poll(0)
	if s.Err() == nil {
		t.Fatal("expected error for non-map result")
	}
}

func TestEngineObservation(t *testing.T) {
	s := mustCompile(t, `
input := func(engine, tick) {
	pos := engine.position()
	vel := engine.velocity()
	return {
		move_x: pos[0] > 100 ? -1 : 1,
		grapple: engine.selected() && engine.state() == "fall",
		pointer_x: vel[0],
		pointer_y: vel[1]
	}
}
`)
	s.Observe(func() Observation {
		return Observation{
			Position: cp.Vector{X: 150, Y: 0},
			Velocity: cp.Vector{X: 3, Y: -4},
			State:    "fall",
			Selected: true,
		}
	})
	want := component.Input{MoveX: -1, Grapple: true, Pointer: cp.Vector{X: 3, Y: -4}}
	if got := s.Poll(0); got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestEmbeddedScriptsCompile(t *testing.T) {
	for _, name := range []string{"run_right", "swing.tengo"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			s.Poll(0)
			s.Poll(40)
			if s.Err() != nil {
				t.Fatalf("poll: %v", s.Err())
			}
		})
	}
}
