package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/grapple"
)

const (
	// RatioIdle marks a fully retracted rope.
	RatioIdle = -1.0

	extendTarget  = 1.05
	retractTarget = -0.05
)

// Hook is the grapple rope's extension state. Ratio is RatioIdle or in
// [0,1]; 0 is just launched and 1 is taut.
type Hook struct {
	Ratio    float64
	Shooting bool

	// Target is the anchor the rope was launched at. The body does not own it.
	Target *grapple.Point
	// TargetPos is the anchor position captured at launch; the rope is drawn
	// to it even after Target goes away.
	TargetPos cp.Vector
}

func newHook() Hook {
	return Hook{Ratio: RatioIdle}
}

func (h *Hook) Idle() bool { return h.Ratio == RatioIdle }

// Attached reports whether the rope holds a live anchor.
func (h *Hook) Attached() bool { return h.Target.Active() }

func (h *Hook) launch(p *grapple.Point) {
	h.Ratio = 0
	h.Shooting = true
	h.Target = p
	h.TargetPos = p.Position()
	p.SetSuppressOutline(true)
}

// extend advances a shooting rope and reports when it has reached the anchor.
func (h *Hook) extend(weight float64) bool {
	h.Ratio = common.Lerp(h.Ratio, extendTarget, weight)
	if h.Ratio >= 1 {
		h.Ratio = 1
		return true
	}
	return false
}

func (h *Hook) retract(weight float64) {
	h.Ratio = common.Lerp(h.Ratio, retractTarget, weight)
	if h.Ratio <= 0 {
		h.Ratio = RatioIdle
	}
}

func (h *Hook) attach() {
	h.Ratio = 1
	h.Shooting = false
}

// release drops the anchor reference and lets the rope retract.
func (h *Hook) release() {
	if h.Target != nil {
		h.Target.SetSuppressOutline(false)
	}
	h.Target = nil
	h.Shooting = false
}

// HookSprite is the transform of the hook drawn at the rope's end.
type HookSprite struct {
	Position cp.Vector
	Rotation float64
	Scale    float64
}

// Curve appends the rope polyline from body to the captured anchor position
// onto dst[:0]. It returns dst[:0] when the rope is idle.
func (h *Hook) Curve(from cp.Vector, amplitude, frequency float64, dst []cp.Vector) []cp.Vector {
	dst = dst[:0]
	if h.Ratio <= RatioIdle {
		return dst
	}
	r := h.rope(from, amplitude, frequency)
	for i := 0; i <= r.points; i++ {
		dst = append(dst, from.Add(r.at(i)))
	}
	return dst
}

// Sprite returns the hook transform, or false while the rope is idle.
func (h *Hook) Sprite(from cp.Vector, amplitude, frequency, scale float64) (HookSprite, bool) {
	if h.Ratio <= RatioIdle {
		return HookSprite{}, false
	}
	r := h.rope(from, amplitude, frequency)
	return HookSprite{
		Position: from.Add(r.at(r.points)),
		Rotation: r.dir.ToAngle(),
		Scale:    h.Ratio * scale,
	}, true
}

type ropeShape struct {
	dir, normal cp.Vector
	points      int
	amplitude   float64
	frequency   float64
	ratio       float64
}

func (h *Hook) rope(from cp.Vector, amplitude, frequency float64) ropeShape {
	offset := h.TargetPos.Sub(from)
	dist := offset.Length()
	r := ropeShape{amplitude: amplitude, frequency: frequency, ratio: h.Ratio}
	if dist == 0 || frequency <= 0 {
		return r
	}
	r.dir = offset.Mult(1 / dist)
	r.normal = r.dir.Perp()
	r.points = int(math.Max(0, dist*frequency*h.Ratio))
	return r
}

// at is the offset of rope point i from the body. The sine wave fades toward
// the hook and vanishes as the rope goes taut.
func (r ropeShape) at(i int) cp.Vector {
	if r.points == 0 {
		return cp.Vector{}
	}
	along := r.dir.Mult(float64(i) / r.frequency)
	wave := math.Sin(float64(i)) * float64(r.points-i) / float64(r.points) * r.amplitude * (1 - r.ratio)
	return along.Add(r.normal.Mult(wave))
}
