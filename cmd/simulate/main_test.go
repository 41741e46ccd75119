package main

import (
	"testing"

	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/movement"
)

func TestSimulationRunsScripts(t *testing.T) {
	for _, script := range []string{"swing", "run_right"} {
		t.Run(script, func(t *testing.T) {
			sim, err := newSimulation("arena", script, 1)
			if err != nil {
				t.Fatalf("new simulation: %v", err)
			}
			for i := 0; i < 300; i++ {
				sim.step()
				p, ok := ecs.Get[component.Player](sim.world, sim.scene.Player, component.PlayerComponent.Kind())
				if !ok {
					t.Fatalf("tick %d: player missing", i)
				}
				if !p.Controller.State().Atomic() {
					t.Fatalf("tick %d: state %v is not a single state", i, p.Controller.State())
				}
			}
			if err := sim.finish(); err != nil {
				t.Fatalf("finish: %v", err)
			}
		})
	}
}

func TestSimulationUnknownLevel(t *testing.T) {
	if _, err := newSimulation("missing", "swing", 1); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestObserverReportsPlayer(t *testing.T) {
	sim, err := newSimulation("arena", "run_right", 1)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	obs := observer(sim.world, sim.scene)()
	if obs.State == "" {
		t.Fatal("expected a state name")
	}
	if obs.State != movement.Idle.String() && obs.State != movement.Fall.String() {
		t.Fatalf("unexpected spawn state %q", obs.State)
	}
}
