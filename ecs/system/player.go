package system

import (
	"log/slog"

	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/movement"
)

// PlayerSystem advances every movement controller by one tick and publishes
// its effects as events.
type PlayerSystem struct {
	dt   float64
	tick uint64
}

func NewPlayerSystem(dt float64) *PlayerSystem {
	return &PlayerSystem{dt: dt}
}

func (s *PlayerSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(),
		func(e ecs.Entity, p *component.Player, input *component.Input) {
			in := input.Movement()
			if a, ok := pw.Actor(e); ok && a.TakeHazard() {
				in.Restart = true
			}

			prev := p.Controller.State()
			state, effects := p.Controller.Advance(s.dt, in)
			if state != prev {
				slog.Debug("player transition", "entity", e, "from", prev, "to", state, "tick", s.tick)
			}
			for _, eff := range effects {
				if eff.Kind == movement.EffectRespawn {
					slog.Info("player respawned", "entity", e, "at", eff.Vector, "tick", s.tick)
				}
				w.Events().Push(ecs.Event{Entity: e, Data: eff})
			}

			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				t.SetPosition(p.Controller.Body().Position)
			}
		})
	s.tick++
}
