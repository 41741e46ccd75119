package movement

import "fmt"

// Telemetry is a read-only debug snapshot.
type Telemetry struct {
	State          State
	Speed          float64
	AnchorDistance float64
	HasAnchor      bool
	Ratio          float64
}

func (c *Controller) Telemetry() Telemetry {
	b := &c.body
	t := Telemetry{
		State: b.State,
		Speed: b.Velocity.Length(),
		Ratio: b.Hook.Ratio,
	}
	if b.Hook.Target != nil {
		t.HasAnchor = true
		t.AnchorDistance = b.Hook.Target.Position().Distance(b.Position)
	}
	return t
}

// Lines renders the snapshot as label/value pairs in display order.
func (t Telemetry) Lines() [][2]string {
	dist := "-"
	if t.HasAnchor {
		dist = fmt.Sprintf("%.1f", t.AnchorDistance)
	}
	return [][2]string{
		{"State:", t.State.String()},
		{"Speed:", fmt.Sprintf("%.1f", t.Speed)},
		{"Distance from point:", dist},
		{"Relative grapple pos:", fmt.Sprintf("%.3f", t.Ratio)},
	}
}
