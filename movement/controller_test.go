package movement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/grapple"
)

func TestAdvanceLandCascadesThroughIdleToMove(t *testing.T) {
	env := &fakeEnv{floor: true}
	c, _ := newTestController(env)
	c.body.State = Land

	state, _ := c.Advance(tick, Input{MoveX: 1})
	if state != Move {
		t.Fatalf("state = %v, want move", state)
	}
	approxEqual(t, c.body.Velocity.X, c.cfg.MoveAcceleration*tick, 1e-9, "velocity.x")

	c.body.State = Land
	c.body.Velocity = cp.Vector{}
	if state, _ := c.Advance(tick, Input{}); state != Idle {
		t.Fatalf("state = %v, want idle", state)
	}
}

func TestAdvanceGroundedRulesAreExclusive(t *testing.T) {
	starts := []State{Idle, Move, Brake, Land}
	axes := []float64{-1, 0, 1}
	speeds := []float64{-400, -260, -100, -20, 0, 20, 100, 260, 400}

	for _, start := range starts {
		for _, axis := range axes {
			for _, vx := range speeds {
				for _, floor := range []bool{true, false} {
					for _, jump := range []bool{true, false} {
						env := &fakeEnv{floor: floor}
						c, _ := newTestController(env)
						c.body.State = start
						c.body.Velocity = cp.Vector{X: vx}

						got, _ := c.Advance(tick, Input{MoveX: axis, Jump: jump})
						dir := int(axis)
						sign := 0
						if v := c.body.Velocity.X; v > 0 {
							sign = 1
						} else if v < 0 {
							sign = -1
						}

						ok := got.Atomic()
						switch {
						case !floor:
							ok = ok && got == Fall
						case jump:
							ok = ok && got == Jump
						case got == Idle:
							ok = ok && dir == 0
						case got == Move:
							ok = ok && dir != 0
						case got == Brake:
							ok = ok && dir != sign
						default:
							ok = false
						}
						if !ok {
							t.Fatalf("start=%v axis=%v vx=%v floor=%v jump=%v: got %v (vx after %v)",
								start, axis, vx, floor, jump, got, c.body.Velocity.X)
						}
					}
				}
			}
		}
	}
}

func TestAdvanceJumpIsPassThrough(t *testing.T) {
	env := &fakeEnv{floor: true}
	c, _ := newTestController(env)

	state, effects := c.Advance(tick, Input{Jump: true, MoveX: 1})
	if state != Jump {
		t.Fatalf("state = %v, want jump", state)
	}
	if !hasEffect(effects, EffectJumpDust) {
		t.Fatalf("expected jump dust effect, got %v", effects)
	}
	wantVy := (c.cfg.GroundedGravity+c.cfg.Gravity)*tick - c.cfg.JumpSpeed
	approxEqual(t, c.body.Velocity.Y, wantVy, 1e-9, "velocity.y")

	// Still touching the floor on the next tick: the jump does not repeat.
	state, effects = c.Advance(tick, Input{Jump: true})
	if state != Fall || hasEffect(effects, EffectJumpDust) {
		t.Fatalf("state = %v effects = %v, want fall without a second impulse", state, effects)
	}

	env.floor = false
	for i := 0; i < 10; i++ {
		state, _ = c.Advance(tick, Input{Jump: true})
		if state != Fall {
			t.Fatalf("tick %d: state = %v, want fall", i, state)
		}
	}
}

func TestAdvanceCoyoteWindow(t *testing.T) {
	const dt = 0.05
	cases := []struct {
		name    string
		jumpAt  int // ticks after leaving the ground
		want    State
		impulse bool
	}{
		{"inside_window", 2, Jump, true},
		{"after_window", 4, Fall, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := &fakeEnv{floor: true}
			c, _ := newTestController(env)
			for i := 0; i < 3; i++ {
				c.Advance(dt, Input{})
			}
			if !c.coyote.Paused() {
				t.Fatalf("timer should be armed and paused while grounded")
			}

			env.floor = false
			if state, _ := c.Advance(dt, Input{}); state != Fall {
				t.Fatalf("leaving ground: state = %v, want fall", state)
			}
			for i := 1; i < tc.jumpAt; i++ {
				c.Advance(dt, Input{})
			}
			state, effects := c.Advance(dt, Input{Jump: true})
			if state != tc.want {
				t.Fatalf("state = %v, want %v (time left %v)", state, tc.want, c.CoyoteTimeLeft())
			}
			if hasEffect(effects, EffectJumpDust) != tc.impulse {
				t.Fatalf("jump impulse = %v, want %v", !tc.impulse, tc.impulse)
			}
			if tc.impulse {
				if state, _ := c.Advance(dt, Input{Jump: true}); state != Fall {
					t.Fatalf("coyote jump should cascade to fall, got %v", state)
				}
			}
		})
	}
}

func TestAdvanceBrakeCycle(t *testing.T) {
	env := &fakeEnv{floor: true}
	c, _ := newTestController(env)
	c.body.State = Move
	c.body.Velocity = cp.Vector{X: 280}

	state, effects := c.Advance(tick, Input{MoveX: -1})
	if state != Brake || !hasEffect(effects, EffectBrakingStart) {
		t.Fatalf("state = %v effects = %v, want brake with braking_start", state, effects)
	}

	state, effects = c.Advance(tick, Input{MoveX: -1})
	if state != Brake {
		t.Fatalf("state = %v, want brake", state)
	}
	var spray Effect
	for _, e := range effects {
		if e.Kind == EffectBrakingSpray {
			spray = e
		}
	}
	approxEqual(t, spray.Value, math.Abs(c.body.Velocity.X), 1e-9, "spray velocity")
	want := rotate(Up, math.Pi/2.2)
	approxEqual(t, spray.Vector.X, want.X, 1e-9, "spray dir x")
	approxEqual(t, spray.Vector.Y, want.Y, 1e-9, "spray dir y")

	for i := 0; i < 120 && state == Brake; i++ {
		state, effects = c.Advance(tick, Input{MoveX: -1})
	}
	if state != Move || !hasEffect(effects, EffectBrakingStop) {
		t.Fatalf("state = %v effects = %v, want move with braking_stop", state, effects)
	}
}

func TestAdvanceHookRoundTrip(t *testing.T) {
	env := &fakeEnv{}
	c, arb := newTestController(env)
	anchor := grapple.NewPoint(cp.Vector{X: 100, Y: -200}, arb)
	arb.ProposeSelect(anchor)

	state, effects := c.Advance(tick, Input{Grapple: true})
	if state != Fall || !hasEffect(effects, EffectHookLaunch) {
		t.Fatalf("state = %v effects = %v, want fall with hook_launch", state, effects)
	}
	if c.body.Hook.Ratio != 0 || !c.body.Hook.Shooting || c.body.Hook.Target != anchor {
		t.Fatalf("hook = %+v, want launched at anchor", c.body.Hook)
	}
	if !anchor.OutlineSuppressed() {
		t.Fatalf("grappled anchor outline should be suppressed")
	}

	prev := c.body.Hook.Ratio
	reached := false
	for i := 0; i < 60; i++ {
		state, effects = c.Advance(tick, Input{Grapple: true})
		if state == Grapple {
			reached = true
			break
		}
		if c.body.Hook.Ratio <= prev {
			t.Fatalf("tick %d: ratio %v did not increase from %v", i, c.body.Hook.Ratio, prev)
		}
		prev = c.body.Hook.Ratio
	}
	if !reached {
		t.Fatalf("hook never reached the anchor, ratio=%v", c.body.Hook.Ratio)
	}
	if c.body.Hook.Ratio != 1 || c.body.Hook.Shooting || !hasEffect(effects, EffectAttach) {
		t.Fatalf("hook = %+v effects = %v, want taut and attached", c.body.Hook, effects)
	}

	vy := c.body.Velocity.Y
	for i := 0; i < 5; i++ {
		if state, _ = c.Advance(tick, Input{Grapple: true}); state != Grapple {
			t.Fatalf("holding grapple: state = %v", state)
		}
		if c.body.Velocity.Y >= vy {
			t.Fatalf("pull should draw the body up toward the anchor, vy %v after %v", c.body.Velocity.Y, vy)
		}
		vy = c.body.Velocity.Y
	}

	state, effects = c.Advance(tick, Input{})
	if state != Fall || !hasEffect(effects, EffectRelease) {
		t.Fatalf("state = %v effects = %v, want fall with release", state, effects)
	}
	if c.body.Hook.Target != nil || anchor.OutlineSuppressed() {
		t.Fatalf("release should drop the anchor and restore its outline")
	}

	prev = c.body.Hook.Ratio
	for i := 0; i < 60 && !c.body.Hook.Idle(); i++ {
		c.Advance(tick, Input{})
		r := c.body.Hook.Ratio
		if r != RatioIdle && (r >= prev || r < 0) {
			t.Fatalf("tick %d: ratio %v after %v", i, r, prev)
		}
		prev = r
	}
	if c.body.Hook.Ratio != RatioIdle {
		t.Fatalf("ratio = %v, want fully retracted", c.body.Hook.Ratio)
	}
}

func TestAdvanceObstructedProbeBlocksLaunch(t *testing.T) {
	env := &fakeEnv{blocked: true}
	c, arb := newTestController(env)
	arb.ProposeSelect(grapple.NewPoint(cp.Vector{X: 100, Y: -200}, arb))

	c.Advance(tick, Input{Grapple: true})
	if !c.body.Hook.Idle() {
		t.Fatalf("blocked probe must not launch, ratio=%v", c.body.Hook.Ratio)
	}
	if len(env.probes) != 1 {
		t.Fatalf("expected one probe, got %d", len(env.probes))
	}
	end := env.probes[0][1]
	approxEqual(t, end.X, 100, 1e-9, "probe end x")
	approxEqual(t, end.Y, -195, 1e-9, "probe end y")
}

func TestAdvanceNoLaunchWithoutButton(t *testing.T) {
	env := &fakeEnv{}
	c, arb := newTestController(env)
	arb.ProposeSelect(grapple.NewPoint(cp.Vector{X: 300}, arb))
	c.Advance(tick, Input{})
	if !c.body.Hook.Idle() || len(env.probes) != 0 {
		t.Fatalf("no grapple press: ratio=%v probes=%d", c.body.Hook.Ratio, len(env.probes))
	}
}

func attachedController(t *testing.T, env *fakeEnv) (*Controller, *grapple.Point) {
	t.Helper()
	c, arb := newTestController(env)
	anchor := grapple.NewPoint(cp.Vector{X: 300, Y: -100}, arb)
	arb.ProposeSelect(anchor)
	c.body.Hook.launch(anchor)
	c.body.Hook.attach()
	c.body.State = Grapple
	return c, anchor
}

func TestAdvanceRestartRespawnsIntoFall(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, env *fakeEnv) (*Controller, *grapple.Point)
		want  []EffectKind
	}{
		{
			name: "idle",
			setup: func(t *testing.T, env *fakeEnv) (*Controller, *grapple.Point) {
				env.floor = true
				c, _ := newTestController(env)
				return c, nil
			},
			want: []EffectKind{EffectRespawn},
		},
		{
			name: "brake",
			setup: func(t *testing.T, env *fakeEnv) (*Controller, *grapple.Point) {
				env.floor = true
				c, _ := newTestController(env)
				c.body.State = Brake
				return c, nil
			},
			want: []EffectKind{EffectBrakingStop, EffectRespawn},
		},
		{
			name: "fall",
			setup: func(t *testing.T, env *fakeEnv) (*Controller, *grapple.Point) {
				c, _ := newTestController(env)
				c.body.State = Fall
				return c, nil
			},
			want: []EffectKind{EffectRespawn},
		},
		{
			name:  "grapple",
			setup: attachedController,
			want:  []EffectKind{EffectRelease, EffectRespawn},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := &fakeEnv{}
			c, anchor := tc.setup(t, env)
			c.body.Position = cp.Vector{X: 900, Y: 40}
			c.body.Velocity = cp.Vector{X: 250, Y: -90}

			state, effects := c.Advance(tick, Input{Restart: true, Grapple: true, MoveX: 1})
			if state != Fall || c.State() != Fall {
				t.Fatalf("state = %v, want fall", state)
			}
			if c.body.Position != c.Spawn() || c.body.Velocity != (cp.Vector{}) {
				t.Fatalf("body = %+v, want reset to spawn %v", c.body, c.Spawn())
			}
			for _, k := range tc.want {
				if !hasEffect(effects, k) {
					t.Fatalf("missing %v in %v", k, effects)
				}
			}
			if anchor != nil && (anchor.OutlineSuppressed() || c.body.Hook.Target != nil) {
				t.Fatalf("respawn should release the grappled anchor")
			}
		})
	}
}

func TestAdvanceGrappleEndsWhenAnchorRemoved(t *testing.T) {
	env := &fakeEnv{}
	c, anchor := attachedController(t, env)
	anchor.Remove()

	state, effects := c.Advance(tick, Input{Grapple: true})
	if state != Fall || !hasEffect(effects, EffectRelease) {
		t.Fatalf("state = %v effects = %v, want fall with release", state, effects)
	}
	if c.body.Hook.TargetPos != anchor.Position() {
		t.Fatalf("rope snapshot should survive the anchor, got %v", c.body.Hook.TargetPos)
	}
}

func TestAdvanceGrappleOverlapIsSafe(t *testing.T) {
	env := &fakeEnv{}
	c, anchor := attachedController(t, env)
	c.body.Position = anchor.Position()
	c.body.Velocity = cp.Vector{X: 10}

	if state, _ := c.Advance(tick, Input{Grapple: true}); state != Grapple {
		t.Fatalf("state = %v, want grapple", state)
	}
	v := c.body.Velocity
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		t.Fatalf("velocity = %v after overlapping pull", v)
	}
}

func TestAdvanceGrappleGravityOnlyBelowAnchor(t *testing.T) {
	cases := []struct {
		name  string
		bodyY float64
		want  float64
	}{
		{name: "anchor above", bodyY: 100, want: 0},
		{name: "anchor below", bodyY: -300, want: DefaultConfig().Gravity * tick},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vy := func(gravity bool) float64 {
				c, _ := attachedController(t, &fakeEnv{})
				c.cfg.GrappleHasGravity = gravity
				c.body.Position = cp.Vector{X: 100, Y: tc.bodyY}
				c.body.Velocity = cp.Vector{X: 20}
				if state, _ := c.Advance(tick, Input{Grapple: true}); state != Grapple {
					t.Fatalf("state = %v, want grapple", state)
				}
				return c.body.Velocity.Y
			}
			approxEqual(t, vy(true)-vy(false), tc.want, 1e-9, "gravity contribution")
		})
	}
}

func TestAdvanceCommittedStateAlwaysAtomic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	env := &fakeEnv{}
	c, arb := newTestController(env)
	anchors := []*grapple.Point{
		grapple.NewPoint(cp.Vector{X: 300, Y: -50}, arb),
		grapple.NewPoint(cp.Vector{X: -200, Y: -80}, arb),
	}

	prev := c.State()
	for i := 0; i < 5000; i++ {
		env.floor = rng.Intn(3) > 0
		env.blocked = rng.Intn(4) == 0
		if rng.Intn(5) == 0 {
			p := anchors[rng.Intn(len(anchors))]
			if rng.Intn(2) == 0 {
				arb.ProposeSelect(p)
			} else {
				arb.ProposeDeselect(p)
			}
		}
		in := Input{
			MoveX:   float64(rng.Intn(3) - 1),
			Jump:    rng.Intn(4) == 0,
			Grapple: rng.Intn(2) == 0,
			Restart: rng.Intn(200) == 0,
		}
		state, _ := c.Advance(tick, in)
		if !state.Atomic() || state == Destroyed {
			t.Fatalf("tick %d: committed %v", i, state)
		}
		if prev == Jump && state == Jump {
			t.Fatalf("tick %d: jump committed on consecutive ticks", i)
		}
		r := c.body.Hook.Ratio
		if r != RatioIdle && (r < 0 || r > 1.05) {
			t.Fatalf("tick %d: ratio %v out of range", i, r)
		}
		prev = state
	}
}

func TestTelemetry(t *testing.T) {
	env := &fakeEnv{}
	c, anchor := attachedController(t, env)
	c.body.Position = cp.Vector{X: 300, Y: 200}
	c.body.Velocity = cp.Vector{X: 3, Y: 4}

	tel := c.Telemetry()
	if tel.State != Grapple || !tel.HasAnchor || tel.Ratio != 1 {
		t.Fatalf("telemetry = %+v", tel)
	}
	approxEqual(t, tel.Speed, 5, 1e-12, "speed")
	approxEqual(t, tel.AnchorDistance, anchor.Position().Distance(c.body.Position), 1e-12, "distance")
	lines := tel.Lines()
	if len(lines) != 4 || lines[0][1] != "grapple" {
		t.Fatalf("lines = %v", lines)
	}
}
