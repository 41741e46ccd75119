package movement

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the movement tuning. Distances are pixels, times seconds,
// angles degrees.
type Config struct {
	TerminalVelocity float64 `yaml:"terminal_velocity"`

	MoveAcceleration float64 `yaml:"move_acceleration"`
	MaxSpeed         float64 `yaml:"max_speed"`
	JumpSpeed        float64 `yaml:"jump_speed"`
	BrakingSpeed     float64 `yaml:"braking_speed"`
	BrakeExitSpeed   float64 `yaml:"brake_exit_speed"`
	GroundedGravity  float64 `yaml:"grounded_gravity"`
	FloorMaxAngle    float64 `yaml:"floor_max_angle"`

	AirControlMod          float64 `yaml:"air_control_mod"`
	Gravity                float64 `yaml:"gravity"`
	BrakingDecelerationMod float64 `yaml:"braking_deceleration_mod"`

	MinGrappleAcceleration     float64 `yaml:"min_grapple_acceleration"`
	MaxGrappleSpeed            float64 `yaml:"max_grapple_speed"`
	GrappleCoefficient         float64 `yaml:"grapple_coefficient"`
	GrapplePowerDistanceCutoff float64 `yaml:"grapple_power_distance_cutoff"`
	GrappleHasGravity          bool    `yaml:"grapple_has_gravity"`
	GrappleHasAirRes           bool    `yaml:"grapple_has_air_res"`
	GrappleAirControl          bool    `yaml:"grapple_air_control"`

	CoyoteTime float64 `yaml:"coyote_time"`

	HookExtendWeight  float64 `yaml:"hook_extend_weight"`
	HookRetractWeight float64 `yaml:"hook_retract_weight"`
	HookProbeMargin   float64 `yaml:"hook_probe_margin"`

	RopeAmplitude float64 `yaml:"rope_amplitude"`
	RopeFrequency float64 `yaml:"rope_frequency"`
	HookScale     float64 `yaml:"hook_scale"`
}

func DefaultConfig() Config {
	const gravity = 1300
	return Config{
		TerminalVelocity: 1800,

		MoveAcceleration: 850,
		MaxSpeed:         300,
		JumpSpeed:        350,
		BrakingSpeed:     250,
		BrakeExitSpeed:   50,
		GroundedGravity:  gravity,
		FloorMaxAngle:    60,

		AirControlMod:          1,
		Gravity:                gravity,
		BrakingDecelerationMod: 2.5,

		MinGrappleAcceleration:     40,
		MaxGrappleSpeed:            1400,
		GrappleCoefficient:         0.4,
		GrapplePowerDistanceCutoff: 400,
		GrappleAirControl:          true,

		CoyoteTime: 0.15,

		HookExtendWeight:  0.2,
		HookRetractWeight: 0.25,
		HookProbeMargin:   5,

		RopeAmplitude: 20,
		RopeFrequency: 0.2,
		HookScale:     0.15,
	}
}

var ErrInvalidConfig = errors.New("movement: invalid config")

// Validate rejects tunings the controller cannot run with.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"move_acceleration", c.MoveAcceleration},
		{"max_speed", c.MaxSpeed},
		{"terminal_velocity", c.TerminalVelocity},
		{"max_grapple_speed", c.MaxGrappleSpeed},
		{"grapple_coefficient", c.GrappleCoefficient},
		{"rope_frequency", c.RopeFrequency},
	}
	for _, p := range positive {
		if p.value <= 0 || math.IsNaN(p.value) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.HookExtendWeight <= 0 || c.HookExtendWeight > 1 {
		return fmt.Errorf("%w: hook_extend_weight must be in (0,1], got %v", ErrInvalidConfig, c.HookExtendWeight)
	}
	if c.HookRetractWeight <= 0 || c.HookRetractWeight > 1 {
		return fmt.Errorf("%w: hook_retract_weight must be in (0,1], got %v", ErrInvalidConfig, c.HookRetractWeight)
	}
	if c.FloorMaxAngle <= 0 || c.FloorMaxAngle >= 90 {
		return fmt.Errorf("%w: floor_max_angle must be in (0,90), got %v", ErrInvalidConfig, c.FloorMaxAngle)
	}
	if c.CoyoteTime < 0 {
		return fmt.Errorf("%w: coyote_time must not be negative, got %v", ErrInvalidConfig, c.CoyoteTime)
	}
	if c.MinGrappleAcceleration/c.GrappleCoefficient > c.GrapplePowerDistanceCutoff {
		return fmt.Errorf("%w: grapple_power_distance_cutoff below minimum pull distance", ErrInvalidConfig)
	}
	return nil
}

func (c Config) floorMaxAngleRad() float64 {
	return c.FloorMaxAngle * math.Pi / 180
}
