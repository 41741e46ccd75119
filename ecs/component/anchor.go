package component

import "github.com/milk9111/grapple/grapple"

// Anchor is a grapple point placed by the level.
type Anchor struct {
	Point *grapple.Point
}

var AnchorComponent = NewComponent[Anchor]()
