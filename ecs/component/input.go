package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/movement"
)

// Input stores the per-tick input state for an entity.
type Input struct {
	MoveX   float64
	Jump    bool
	Grapple bool
	Restart bool

	// Pointer is the cursor relative to the viewport centre.
	Pointer cp.Vector
}

func (in *Input) Movement() movement.Input {
	return movement.Input{
		MoveX:   in.MoveX,
		Jump:    in.Jump,
		Grapple: in.Grapple,
		Restart: in.Restart,
	}
}

var InputComponent = NewComponent[Input]()
