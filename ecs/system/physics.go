package system

import (
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

// PhysicsSystem pushes controller bodies into the space, steps it and reads
// the resolved positions and velocities back.
type PhysicsSystem struct {
	dt float64
}

func NewPhysicsSystem(dt float64) *PhysicsSystem {
	return &PhysicsSystem{dt: dt}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		if a, ok := pw.Actor(e); ok {
			b := p.Controller.Body()
			a.Sync(b.Position, b.Velocity)
		}
	})
	pw.Step(s.dt)
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		if a, ok := pw.Actor(e); ok {
			b := p.Controller.Body()
			b.Position = a.Position()
			b.Velocity = a.Velocity()
		}
	})
}
