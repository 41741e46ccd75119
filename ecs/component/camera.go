package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/grapple"
)

// Camera follows the player and leans toward the pointer.
type Camera struct {
	// Position is the world point at the viewport centre.
	Position cp.Vector
	// Offset is the current lean added to the followed target.
	Offset cp.Vector
	// Pointer is the cursor relative to the viewport centre.
	Pointer cp.Vector

	Width  float64
	Height float64

	MaxOffset  float64
	LookWeight float64
}

// View is what anchors see of the camera this tick.
func (c *Camera) View() grapple.View {
	hw, hh := c.Width/2, c.Height/2
	return grapple.View{
		Camera:  c.Position,
		Pointer: c.Pointer,
		Bounds: cp.BB{
			L: c.Position.X - hw,
			B: c.Position.Y - hh,
			R: c.Position.X + hw,
			T: c.Position.Y + hh,
		},
	}
}

// ToScreen maps a world point into viewport pixels.
func (c *Camera) ToScreen(p cp.Vector) cp.Vector {
	return cp.Vector{X: p.X - c.Position.X + c.Width/2, Y: p.Y - c.Position.Y + c.Height/2}
}

var CameraComponent = NewComponent[Camera]()
