package main

import (
	"math"

	m "github.com/go-gl/mathgl/mgl32"
)

type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Camera is a fly camera driven by keyboard movement and mouse look.
type Camera struct {
	Position, Front, Up m.Vec3

	// Yaw and Pitch are in degrees.
	Yaw, Pitch float32

	FOV       float32
	Near, Far float32

	Speed       float32
	Sensitivity float32

	cursorX, cursorY float32
	cursorValid      bool
}

// NewCamera looks at the origin from +Z. Textures are uploaded top row first,
// so the camera is upside down to show them the right way up.
func NewCamera() *Camera {
	return &Camera{
		Position: m.Vec3{0, 0, 6},
		Front:    m.Vec3{0, 0, -1},
		Up:       m.Vec3{0, -1, 0},

		Yaw:   -90,
		Pitch: 0,

		FOV:  45,
		Near: 0.1,
		Far:  100,

		Speed:       1,
		Sensitivity: 0.05,
	}
}

func (camera *Camera) Move(dir Direction, dt float32) {
	step := camera.Speed * dt
	switch dir {
	case Forward:
		camera.Position = camera.Position.Add(camera.Front.Mul(step))
	case Backward:
		camera.Position = camera.Position.Sub(camera.Front.Mul(step))
	case Left:
		camera.Position = camera.Position.Sub(camera.right().Mul(step))
	case Right:
		camera.Position = camera.Position.Add(camera.right().Mul(step))
	}
}

func (camera *Camera) right() m.Vec3 {
	return camera.Front.Cross(camera.Up).Normalize()
}

// Look turns the camera by the cursor movement since the previous call.
// The first call only records the cursor position.
func (camera *Camera) Look(x, y float32) {
	if !camera.cursorValid {
		camera.cursorX, camera.cursorY = x, y
		camera.cursorValid = true
		return
	}

	dx := (x - camera.cursorX) * camera.Sensitivity
	dy := (camera.cursorY - y) * camera.Sensitivity
	camera.cursorX, camera.cursorY = x, y

	// up is -Y, so both axes are mirrored
	camera.Yaw -= dx
	camera.Pitch -= dy
	if camera.Pitch > 89 {
		camera.Pitch = 89
	}
	if camera.Pitch < -89 {
		camera.Pitch = -89
	}

	yaw := float64(m.DegToRad(camera.Yaw))
	pitch := float64(m.DegToRad(camera.Pitch))
	camera.Front = m.Vec3{
		float32(math.Cos(pitch) * math.Cos(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Sin(yaw)),
	}.Normalize()
}

func (camera *Camera) View() m.Mat4 {
	return m.LookAtV(camera.Position, camera.Position.Add(camera.Front), camera.Up)
}

func (camera *Camera) Projection(aspect float32) m.Mat4 {
	return m.Perspective(m.DegToRad(camera.FOV), aspect, camera.Near, camera.Far)
}
