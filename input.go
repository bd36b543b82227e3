package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/stealth/common"
)

const stickDeadZone = 0.3

// Input holds the viewer's per-frame controls. Move is a ground-plane
// direction in world space: screen up is +Z.
type Input struct {
	Move         common.Vec3
	PausePressed bool
	ResetPressed bool
	DebugPressed bool
	StepPressed  bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls keyboard and the first gamepad.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	var mx, mz float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		mx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		mx += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		mz += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		mz -= 1
	}

	var gpPause, gpReset bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx < -stickDeadZone || lx > stickDeadZone {
			mx = lx
		}
		if ly < -stickDeadZone || ly > stickDeadZone {
			// stick down is positive
			mz = -ly
		}
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
		gpReset = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterLeft)
	}

	i.Move = common.SafeNormalize(common.Vec3{mx, 0, mz})
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
	i.ResetPressed = inpututil.IsKeyJustPressed(ebiten.KeyR) || gpReset
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.StepPressed = inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
}
