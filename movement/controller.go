package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/grapple"
)

// Input is the per-tick player input.
type Input struct {
	// MoveX is move_right strength minus move_left strength. Only its sign
	// is used.
	MoveX   float64
	Jump    bool
	Grapple bool
	Restart bool
}

// Environment is the collision world as seen by the controller.
type Environment interface {
	// FloorContact returns the normal of the surface under the body, if any.
	FloorContact() (normal cp.Vector, ok bool)
	// Obstructed reports whether terrain blocks the segment from..to.
	Obstructed(from, to cp.Vector) bool
}

// Body is the player body. Only the Controller mutates it during a tick;
// the physics world moves Position between ticks.
type Body struct {
	Position cp.Vector
	Velocity cp.Vector
	State    State
	Hook     Hook
}

// Controller is the player's movement state machine.
type Controller struct {
	cfg     Config
	body    Body
	spawn   cp.Vector
	coyote  CoyoteTimer
	arbiter *grapple.Arbiter
	env     Environment

	floorNormal cp.Vector
	effects     []Effect
}

func NewController(cfg Config, spawn cp.Vector, arbiter *grapple.Arbiter, env Environment) *Controller {
	return &Controller{
		cfg:         cfg,
		body:        Body{Position: spawn, State: Idle, Hook: newHook()},
		spawn:       spawn,
		coyote:      NewCoyoteTimer(cfg.CoyoteTime),
		arbiter:     arbiter,
		env:         env,
		floorNormal: Up,
	}
}

func (c *Controller) Body() *Body { return &c.body }

func (c *Controller) State() State { return c.body.State }

func (c *Controller) Config() Config { return c.cfg }

// SetConfig swaps the tuning. The coyote window applies from the next arm.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	c.coyote.SetDuration(cfg.CoyoteTime)
}

func (c *Controller) Spawn() cp.Vector { return c.spawn }

func (c *Controller) SetSpawn(p cp.Vector) { c.spawn = p }

func (c *Controller) CoyoteTimeLeft() float64 { return c.coyote.TimeLeft() }

// Advance runs one physics tick. The candidate state is rewritten by an
// ordered list of guarded rules and each rule sees the candidate left by the
// rules before it, so one tick can pass through several states. The returned
// effects are valid until the next call.
func (c *Controller) Advance(dt float64, in Input) (State, []Effect) {
	c.effects = c.effects[:0]
	c.coyote.Tick(dt)

	cfg := &c.cfg
	b := &c.body
	onFloor := c.sampleFloor()
	dir := common.Sign(in.MoveX)
	prev := b.State
	next := prev

	if in.Restart {
		next = Destroyed
	}

	if next == Land {
		next = Idle
	}

	if next.In(Static) {
		b.Velocity = Decelerate(b.Velocity, cfg.MoveAcceleration*dt)
		if dir != 0 {
			next = Move
		}
	}

	if next == Move {
		b.Velocity = Accelerate(b.Velocity, cfg.MoveAcceleration*dt, dir, cfg.MaxSpeed)
		if dir == 0 {
			next = Idle
		}
	}

	if next == Brake {
		b.Velocity = Decelerate(b.Velocity, cfg.MoveAcceleration*dt*cfg.BrakingDecelerationMod)
		vx := b.Velocity.X
		c.emit(Effect{
			Kind:   EffectBrakingSpray,
			Value:  math.Abs(vx),
			Vector: rotate(c.floorNormal, math.Pi/2.2*float64(common.Sign(vx))),
		})
		if dir == 0 {
			next = Idle
		} else if dir == common.Sign(vx) || math.Abs(vx) < cfg.BrakeExitSpeed {
			next = Move
		}
	}

	if next.In(Grounded) {
		b.Velocity.Y += cfg.GroundedGravity * dt
		vx := b.Velocity.X
		if !onFloor {
			next = Fall
		} else if in.Jump {
			next = Jump
		} else if dir != common.Sign(vx) && math.Abs(vx) > cfg.BrakingSpeed {
			next = Brake
		}
	}

	if next == Fall {
		if onFloor {
			next = Land
		} else if in.Jump && c.coyote.TimeLeft() > 0 {
			next = Jump
		}
	}

	// Jump lives for exactly the tick whose commit applies the impulse.
	if next == Jump && prev == Jump {
		next = Fall
	}

	if next.In(Airborne) {
		b.Velocity = ApplyGravity(b.Velocity, cfg.Gravity, dt, cfg.TerminalVelocity)
		accel := cfg.MoveAcceleration * cfg.AirControlMod * dt
		if dir != 0 {
			b.Velocity = Accelerate(b.Velocity, accel, dir, cfg.MaxSpeed)
		} else {
			b.Velocity = DecelerateBoth(b.Velocity, accel/2)
		}
	}

	if next == Grapple {
		c.swing(dt, dir)
		if !in.Grapple || !b.Hook.Attached() {
			next = Fall
		}
	} else {
		next = c.updateHook(next, in)
	}

	respawned := c.commit(next)

	// The tick after a jump may still report floor contact; arming then
	// would hand out a second jump.
	if onFloor && !respawned && b.State != Jump && prev != Jump {
		c.coyote.Start()
		c.coyote.Pause()
	} else {
		c.coyote.Resume()
	}

	return b.State, c.effects
}

// sampleFloor reports whether the body stands on a walkable surface and
// remembers its normal.
func (c *Controller) sampleFloor() bool {
	if c.env == nil {
		return false
	}
	normal, ok := c.env.FloorContact()
	if !ok || !Walkable(normal, c.cfg.floorMaxAngleRad()) {
		return false
	}
	c.floorNormal = normal.Normalize()
	return true
}

func (c *Controller) swing(dt float64, dir int) {
	b := &c.body
	if !b.Hook.Attached() {
		return
	}
	cfg := &c.cfg
	// Gravity only pulls while the anchor hangs below the body.
	if cfg.GrappleHasGravity && b.Hook.Target.Position().Y > b.Position.Y {
		b.Velocity.Y += cfg.Gravity * dt
	}
	accel := cfg.MoveAcceleration * cfg.AirControlMod * dt
	if dir != 0 && cfg.GrappleAirControl {
		b.Velocity = Accelerate(b.Velocity, accel, dir, cfg.MaxSpeed)
	} else if dir == 0 && cfg.GrappleHasAirRes {
		b.Velocity = DecelerateBoth(b.Velocity, accel)
	}
	b.Velocity = GrapplePull(
		b.Velocity,
		b.Position,
		b.Hook.Target.Position(),
		cfg.GrappleCoefficient,
		cfg.MinGrappleAcceleration,
		cfg.GrapplePowerDistanceCutoff,
		cfg.MaxGrappleSpeed,
	)
}

// updateHook launches, extends or retracts the rope outside the Grapple
// state and returns Grapple once a launched rope reaches its anchor.
func (c *Controller) updateHook(next State, in Input) State {
	h := &c.body.Hook
	switch {
	case h.Idle():
		target := c.arbiter.Selected()
		if target == nil || next == Destroyed || !in.Grapple {
			return next
		}
		if c.obstructed(target.Position()) {
			return next
		}
		h.launch(target)
		c.emit(Effect{Kind: EffectHookLaunch, Vector: h.TargetPos})
	case h.Shooting:
		if h.extend(c.cfg.HookExtendWeight) && next != Destroyed {
			return Grapple
		}
	default:
		h.retract(c.cfg.HookRetractWeight)
	}
	return next
}

// obstructed probes from the body toward p, stopping just short of it so
// the anchor's own geometry does not count.
func (c *Controller) obstructed(p cp.Vector) bool {
	if c.env == nil {
		return false
	}
	from := c.body.Position
	offset := p.Sub(from)
	if l := offset.Length(); l > 0 {
		offset = offset.Sub(offset.Mult(math.Min(c.cfg.HookProbeMargin, l) / l))
	}
	return c.env.Obstructed(from, from.Add(offset))
}

// commit runs exit then enter effects when the state changes. Destroyed is
// consumed here: respawn, then enter Fall. It reports whether a respawn ran.
func (c *Controller) commit(next State) bool {
	prev := c.body.State
	if next == prev {
		return false
	}
	c.exit(prev)
	respawned := false
	if next == Destroyed {
		c.respawn()
		respawned = true
		next = Fall
	}
	c.enter(next)
	c.body.State = next
	return respawned
}

func (c *Controller) exit(s State) {
	switch s {
	case Brake:
		c.emit(Effect{Kind: EffectBrakingStop})
	case Grapple:
		c.releaseHook()
	}
}

func (c *Controller) enter(s State) {
	b := &c.body
	switch s {
	case Brake:
		c.emit(Effect{Kind: EffectBrakingStart})
	case Jump:
		b.Velocity = b.Velocity.Add(c.floorNormal.Mult(c.cfg.JumpSpeed))
		c.coyote.Stop()
		c.emit(Effect{Kind: EffectJumpDust, Value: c.floorNormal.ToAngle() - Up.ToAngle()})
	case Grapple:
		b.Hook.attach()
		c.coyote.Stop()
		c.emit(Effect{Kind: EffectAttach, Vector: b.Hook.TargetPos})
	}
}

func (c *Controller) respawn() {
	b := &c.body
	b.Position = c.spawn
	b.Velocity = cp.Vector{}
	c.releaseHook()
	c.coyote.Stop()
	c.floorNormal = Up
	c.emit(Effect{Kind: EffectRespawn, Vector: c.spawn})
}

func (c *Controller) releaseHook() {
	h := &c.body.Hook
	if h.Target == nil && !h.Shooting {
		return
	}
	h.release()
	c.emit(Effect{Kind: EffectRelease, Vector: h.TargetPos})
}

func (c *Controller) emit(e Effect) {
	c.effects = append(c.effects, e)
}

// Rope appends the current rope polyline onto dst[:0].
func (c *Controller) Rope(dst []cp.Vector) []cp.Vector {
	return c.body.Hook.Curve(c.body.Position, c.cfg.RopeAmplitude, c.cfg.RopeFrequency, dst)
}

// HookSprite returns the hook transform while the rope is out.
func (c *Controller) HookSprite() (HookSprite, bool) {
	return c.body.Hook.Sprite(c.body.Position, c.cfg.RopeAmplitude, c.cfg.RopeFrequency, c.cfg.HookScale)
}
