package movement

import "github.com/jakecoffman/cp"

// EffectKind identifies a side effect for the rendering/effects layer.
type EffectKind uint8

const (
	// EffectBrakingStart turns braking particle emission on.
	EffectBrakingStart EffectKind = iota + 1
	// EffectBrakingStop turns braking particle emission off.
	EffectBrakingStop
	// EffectBrakingSpray updates braking particles: Value is the initial
	// velocity, Vector the emission direction.
	EffectBrakingSpray
	// EffectJumpDust restarts jump particles rotated by Value radians.
	EffectJumpDust
	// EffectRespawn reports a respawn at Vector.
	EffectRespawn
	// EffectHookLaunch reports a hook launched toward Vector.
	EffectHookLaunch
	// EffectAttach reports the hook going taut at Vector.
	EffectAttach
	// EffectRelease reports the rope letting go of its anchor.
	EffectRelease
)

var effectNames = map[EffectKind]string{
	EffectBrakingStart: "braking_start",
	EffectBrakingStop:  "braking_stop",
	EffectBrakingSpray: "braking_spray",
	EffectJumpDust:     "jump_dust",
	EffectRespawn:      "respawn",
	EffectHookLaunch:   "hook_launch",
	EffectAttach:       "attach",
	EffectRelease:      "release",
}

func (k EffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return "unknown"
}

// Effect is a write-only record emitted by Advance.
type Effect struct {
	Kind   EffectKind
	Vector cp.Vector
	Value  float64
}
