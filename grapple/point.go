package grapple

import "github.com/jakecoffman/cp"

// MinSelectionPriority is the priority a point must exceed to propose itself.
const MinSelectionPriority = 0.7

// View is the camera state a point needs to rank itself.
type View struct {
	// Camera is the camera position in world space.
	Camera cp.Vector
	// Pointer is the pointer offset from the viewport centre.
	Pointer cp.Vector
	// Bounds is the visible world rectangle. A zero BB disables culling.
	Bounds cp.BB
}

func (v View) visible(pos cp.Vector) bool {
	if v.Bounds == (cp.BB{}) {
		return true
	}
	return pos.X >= v.Bounds.L && pos.X <= v.Bounds.R && pos.Y >= v.Bounds.B && pos.Y <= v.Bounds.T
}

// Point is a grapple anchor candidate. Level content owns its lifetime.
type Point struct {
	pos      cp.Vector
	priority float64

	current         bool
	suppressOutline bool
	removed         bool

	arbiter *Arbiter
}

func NewPoint(pos cp.Vector, arbiter *Arbiter) *Point {
	return &Point{pos: pos, arbiter: arbiter}
}

func (p *Point) Position() cp.Vector { return p.pos }

func (p *Point) SetPosition(pos cp.Vector) { p.pos = pos }

// Priority is the value computed by the last Update.
func (p *Point) Priority() float64 { return p.priority }

// Selected reports whether the arbiter currently holds this point.
func (p *Point) Selected() bool { return p.current }

// Highlighted reports whether the selection outline should be drawn.
func (p *Point) Highlighted() bool { return p.current && !p.suppressOutline }

func (p *Point) OutlineSuppressed() bool { return p.suppressOutline }

// SetSuppressOutline force-hides the outline while the point is grappled.
func (p *Point) SetSuppressOutline(v bool) { p.suppressOutline = v }

// Active is false once the point has been removed from the level.
func (p *Point) Active() bool { return p != nil && !p.removed }

// Remove withdraws the point from arbitration.
func (p *Point) Remove() {
	if p.removed {
		return
	}
	p.arbiter.ProposeDeselect(p)
	p.removed = true
}

// Update recomputes the priority and proposes to the arbiter. Off-screen
// points always propose deselection.
func (p *Point) Update(view View) {
	if p.removed {
		return
	}
	p.priority = SelectionPriority(p.pos, view)
	if !view.visible(p.pos) {
		p.arbiter.ProposeDeselect(p)
		return
	}
	if p.priority > MinSelectionPriority {
		// Rank against the incumbent under this view, not its last update.
		if cur := p.arbiter.Selected(); cur != nil && cur != p && !cur.removed {
			cur.priority = SelectionPriority(cur.pos, view)
		}
		p.arbiter.ProposeSelect(p)
	} else {
		p.arbiter.ProposeDeselect(p)
	}
}

// ExitScreen is the visibility notifier hook: it deselects unconditionally.
func (p *Point) ExitScreen() {
	p.arbiter.ProposeDeselect(p)
}

// SelectionPriority is the cosine between the camera-to-point direction and
// the pointer offset. Zero-length inputs rank 0.
func SelectionPriority(pos cp.Vector, view View) float64 {
	toPoint := pos.Sub(view.Camera)
	if toPoint.LengthSq() == 0 || view.Pointer.LengthSq() == 0 {
		return 0
	}
	return toPoint.Normalize().Dot(view.Pointer.Normalize())
}

func (p *Point) setCurrent(v bool) { p.current = v }
