package app

import (
	"cubeviewer/internal/camera"
	"cubeviewer/internal/input"
)

// move translates the camera by step for every held movement key and
// reports whether Escape is held. Opposing keys cancel out.
func move(cam *camera.Camera, keys *input.State, step float32) (quit bool) {
	if keys.IsDown(input.KeyW) {
		cam.Position = cam.Position.Add(cam.Front.Mul(step))
	}
	if keys.IsDown(input.KeyS) {
		cam.Position = cam.Position.Sub(cam.Front.Mul(step))
	}

	right := cam.Right()
	if keys.IsDown(input.KeyA) {
		cam.Position = cam.Position.Sub(right.Mul(step))
	}
	if keys.IsDown(input.KeyD) {
		cam.Position = cam.Position.Add(right.Mul(step))
	}

	if keys.IsDown(input.KeySpace) {
		cam.Position = cam.Position.Add(cam.Up.Mul(step))
	}
	if keys.IsDown(input.KeyLeftControl) {
		cam.Position = cam.Position.Sub(cam.Up.Mul(step))
	}

	return keys.IsDown(input.KeyEscape)
}
