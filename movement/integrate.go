package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
)

// Up points away from gravity. The world is y-down.
var Up = cp.Vector{X: 0, Y: -1}

// Accelerate moves the horizontal velocity toward dir*maxSpeed by amount.
// A body already past the target in dir keeps its speed.
func Accelerate(v cp.Vector, amount float64, dir int, maxSpeed float64) cp.Vector {
	switch {
	case dir > 0 && v.X < maxSpeed:
		v.X = math.Min(v.X+amount, maxSpeed)
	case dir < 0 && v.X > -maxSpeed:
		v.X = math.Max(v.X-amount, -maxSpeed)
	}
	return v
}

// Decelerate reduces horizontal speed by amount, stopping at zero.
func Decelerate(v cp.Vector, amount float64) cp.Vector {
	if math.Abs(v.X) > amount {
		v.X -= amount * float64(common.Sign(v.X))
	} else {
		v.X = 0
	}
	return v
}

// DecelerateBoth reduces the speed along the velocity direction by amount.
func DecelerateBoth(v cp.Vector, amount float64) cp.Vector {
	speed := v.Length()
	if speed <= amount {
		return cp.Vector{}
	}
	return v.Sub(v.Mult(amount / speed))
}

// ApplyGravity adds g*dt to the vertical velocity without passing terminal.
func ApplyGravity(v cp.Vector, g, dt, terminal float64) cp.Vector {
	if v.Y < terminal {
		v.Y = math.Min(v.Y+g*dt, terminal)
	}
	return v
}

// GrapplePull adds the spring pull toward anchor. The result never exceeds
// max(speed before the pull, maxSpeed) and never slows a swing that was
// already faster than maxSpeed below its own speed. An anchor exactly on
// the body contributes no pull.
func GrapplePull(v, body, anchor cp.Vector, coeff, minAccel, cutoff, maxSpeed float64) cp.Vector {
	prev := v.Length()
	offset := anchor.Sub(body)
	if dist := offset.Length(); dist > 0 {
		v = v.Add(offset.Mult(coeff * common.Clamp(dist, minAccel/coeff, cutoff) / dist))
	}
	if prev < maxSpeed {
		return limitLength(v, maxSpeed)
	}
	return limitLength(v, prev)
}

func limitLength(v cp.Vector, limit float64) cp.Vector {
	l := v.Length()
	if l <= limit || l == 0 {
		return v
	}
	return v.Mult(limit / l)
}

// Walkable reports whether a surface normal is within maxAngle radians of Up.
func Walkable(normal cp.Vector, maxAngle float64) bool {
	l := normal.Length()
	if l == 0 {
		return false
	}
	return normal.Dot(Up)/l > math.Cos(maxAngle)
}

func rotate(v cp.Vector, angle float64) cp.Vector {
	s, c := math.Sincos(angle)
	return cp.Vector{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}
