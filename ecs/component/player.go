package component

import "github.com/milk9111/grapple/movement"

// Player binds an entity to its movement controller. The physics body lives
// in the physics world under the same entity.
type Player struct {
	Controller *movement.Controller
	Width      float64
	Height     float64
}

var PlayerComponent = NewComponent[Player]()
