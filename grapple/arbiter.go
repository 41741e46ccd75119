package grapple

// Arbiter holds at most one selected Point. Points propose themselves every
// tick and the arbiter keeps whichever has the highest priority.
//
// The arbiter is shared by reference between the points and the movement
// controller. Within a tick the controller may read the selection before or
// after some points have proposed, so it can observe the previous tick's
// winner. That is accepted: there is a single mutator and the next tick
// settles it.
type Arbiter struct {
	selected *Point
}

func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// Selected returns the current selection, or nil.
func (a *Arbiter) Selected() *Point {
	if a == nil {
		return nil
	}
	return a.selected
}

// ProposeSelect replaces the selection with p when nothing is selected or p
// strictly outranks the incumbent. Ties keep the incumbent.
func (a *Arbiter) ProposeSelect(p *Point) {
	if a == nil || p == nil || p.removed {
		return
	}
	if a.selected == p {
		return
	}
	if a.selected != nil && p.priority <= a.selected.priority {
		return
	}
	a.setSelected(p)
}

// ProposeDeselect clears the selection only if p is the selection.
func (a *Arbiter) ProposeDeselect(p *Point) {
	if a == nil || p == nil || a.selected != p {
		return
	}
	a.setSelected(nil)
}

func (a *Arbiter) setSelected(p *Point) {
	if a.selected != nil {
		a.selected.setCurrent(false)
	}
	a.selected = p
	if p != nil {
		p.setCurrent(true)
	}
}
