package system

import (
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

// InputSource produces the player's input for one tick.
type InputSource interface {
	Poll(tick uint64) component.Input
}

// InputSystem copies the source's input into every Input component.
// Restart is edge-triggered: holding it reports a single press.
type InputSystem struct {
	source      InputSource
	tick        uint64
	restartHeld bool
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

func (s *InputSystem) Update(w *ecs.World) {
	if w == nil || s.source == nil {
		return
	}
	in := s.source.Poll(s.tick)
	s.tick++
	held := in.Restart
	in.Restart = held && !s.restartHeld
	s.restartHeld = held
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, dst *component.Input) {
		*dst = in
	})
}
