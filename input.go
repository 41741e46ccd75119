package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs/component"
)

const (
	stickDeadzone = 0.2
	// stickReach is how far from the viewport centre the right stick aims.
	stickReach = 300.0
)

// deviceInput reads keyboard, mouse and the first gamepad.
type deviceInput struct {
	restart bool
}

// requestRestart makes the next poll report the restart button.
func (d *deviceInput) requestRestart() { d.restart = true }

func (d *deviceInput) Poll(uint64) component.Input {
	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX += 1
	}
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyW)
	in.Grapple = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Restart = inpututil.IsKeyJustPressed(ebiten.KeyR) || d.restart
	d.restart = false

	cx, cy := ebiten.CursorPosition()
	in.Pointer = cp.Vector{X: float64(cx) - common.BaseWidth/2, Y: float64(cy) - common.BaseHeight/2}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			in.MoveX = math.Copysign(1, leftX)
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			in.MoveX = -1
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			in.MoveX = 1
		}
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Grapple = in.Grapple || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.Restart = in.Restart || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterLeft)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if l := math.Hypot(rx, ry); l > stickDeadzone {
			in.Pointer = cp.Vector{X: rx / l * stickReach, Y: ry / l * stickReach}
		}
	}

	return in
}
