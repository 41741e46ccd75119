package system

import (
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/grapple"
)

// AnchorSystem lets every grapple point re-rank itself against the camera
// and propose to the arbiter. It runs before the player so the controller
// sees this tick's selection.
type AnchorSystem struct{}

func NewAnchorSystem() *AnchorSystem { return &AnchorSystem{} }

func (s *AnchorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	var view grapple.View
	if _, cam, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
		view = cam.View()
	}
	ecs.ForEach2(w, component.AnchorComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, a *component.Anchor, t *component.Transform) {
			if !a.Point.Active() {
				return
			}
			a.Point.SetPosition(t.Position())
			a.Point.Update(view)
		})
}
