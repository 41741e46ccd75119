package system

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/movement"
)

const (
	brakeRate     = 40.0 // particles per second while braking
	brakeLife     = 0.35
	brakeSpread   = 0.4 // radians either side of the emission direction
	dustCount     = 10
	dustLife      = 0.4
	dustSpeed     = 90.0
	particleDrag  = 3.0
	particleFall  = 400.0
	maxParticles  = 256
	dustHalfAngle = math.Pi / 3
)

// ParticleSystem turns movement effects into short-lived particles at the
// player's feet and ages them.
type ParticleSystem struct {
	dt  float64
	rng *rand.Rand
}

func NewParticleSystem(dt float64, seed int64) *ParticleSystem {
	return &ParticleSystem{dt: dt, rng: rand.New(rand.NewSource(seed))}
}

func (s *ParticleSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		eff, ok := evt.Data.(movement.Effect)
		if !ok {
			continue
		}
		ps, ok := ecs.Get(w, evt.Entity, component.ParticlesComponent.Kind())
		if !ok {
			continue
		}
		s.apply(w, evt.Entity, ps, eff)
	}

	ecs.ForEach(w, component.ParticlesComponent.Kind(), func(e ecs.Entity, ps *component.Particles) {
		if ps.Braking {
			ps.Spawn += brakeRate * s.dt
			feet, _ := feetOf(w, e)
			for ; ps.Spawn >= 1; ps.Spawn-- {
				dir := ps.BrakeDirection.Rotate(cp.ForAngle((s.rng.Float64()*2 - 1) * brakeSpread))
				speed := ps.BrakeSpeed * (0.5 + s.rng.Float64()/2)
				s.emit(ps, feet, dir.Mult(speed), brakeLife)
			}
		}
		s.age(ps)
	})
}

func (s *ParticleSystem) apply(w *ecs.World, e ecs.Entity, ps *component.Particles, eff movement.Effect) {
	switch eff.Kind {
	case movement.EffectBrakingStart:
		ps.Braking = true
		ps.Spawn = 0
	case movement.EffectBrakingStop:
		ps.Braking = false
	case movement.EffectBrakingSpray:
		ps.BrakeSpeed = eff.Value
		ps.BrakeDirection = eff.Vector
	case movement.EffectJumpDust:
		feet, _ := feetOf(w, e)
		base := movement.Up.Rotate(cp.ForAngle(eff.Value))
		for i := 0; i < dustCount; i++ {
			a := (float64(i)/float64(dustCount-1)*2 - 1) * dustHalfAngle
			dir := base.Rotate(cp.ForAngle(a))
			s.emit(ps, feet, dir.Mult(dustSpeed*(0.6+0.4*s.rng.Float64())), dustLife)
		}
	case movement.EffectRespawn:
		ps.Braking = false
		ps.Live = ps.Live[:0]
	}
}

func (s *ParticleSystem) emit(ps *component.Particles, at, vel cp.Vector, life float64) {
	if len(ps.Live) >= maxParticles {
		return
	}
	ps.Live = append(ps.Live, component.Particle{Position: at, Velocity: vel, Life: life, MaxLife: life})
}

func (s *ParticleSystem) age(ps *component.Particles) {
	live := ps.Live[:0]
	for _, p := range ps.Live {
		p.Life -= s.dt
		if p.Life <= 0 {
			continue
		}
		p.Velocity = p.Velocity.Mult(math.Max(0, 1-particleDrag*s.dt))
		p.Velocity.Y += particleFall * s.dt
		p.Position = p.Position.Add(p.Velocity.Mult(s.dt))
		live = append(live, p)
	}
	ps.Live = live
}

// feetOf is the bottom centre of the player's box.
func feetOf(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	pos := t.Position()
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		pos.Y += p.Height / 2
	}
	return pos, true
}
