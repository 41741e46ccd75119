package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

// CameraSystem centres the camera on the player and leans it toward the
// pointer.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	_, cam, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	player, _, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	if in, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok {
		cam.Pointer = in.Pointer
	}
	target, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}

	lean := leanTarget(cam)
	cam.Offset = cp.Vector{
		X: common.Lerp(cam.Offset.X, lean.X, cam.LookWeight),
		Y: common.Lerp(cam.Offset.Y, lean.Y, cam.LookWeight),
	}
	cam.Position = target.Position().Add(cam.Offset)
}

// leanTarget scales the pointer offset by the half viewport and clamps it,
// so the camera leans at most MaxOffset toward the screen edge.
func leanTarget(cam *component.Camera) cp.Vector {
	hw, hh := cam.Width/2, cam.Height/2
	if hw <= 0 || hh <= 0 {
		return cp.Vector{}
	}
	return cp.Vector{
		X: common.Clamp(cam.Pointer.X/hw, -1, 1) * cam.MaxOffset,
		Y: common.Clamp(cam.Pointer.Y/hh, -1, 1) * cam.MaxOffset,
	}
}
