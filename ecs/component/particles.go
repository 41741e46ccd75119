package component

import "github.com/jakecoffman/cp"

type Particle struct {
	Position cp.Vector
	Velocity cp.Vector
	Life     float64
	MaxLife  float64
}

// Particles holds the braking spray and jump dust emitted around the player.
type Particles struct {
	Braking        bool
	BrakeSpeed     float64
	BrakeDirection cp.Vector
	// Spawn accumulates fractional particles between ticks.
	Spawn float64

	Live []Particle
}

var ParticlesComponent = NewComponent[Particles]()
