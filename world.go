package main

import (
	"log"

	"github.com/adinfinit/g"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	m "github.com/go-gl/mathgl/mgl32"
)

// World is the per-frame state owned by the render loop.
type World struct {
	ScreenSize g.Vec2
	Camera     Camera

	Projection m.Mat4
	View       m.Mat4

	Time      float64
	DeltaTime float32
}

func NewWorld() *World {
	world := &World{}
	world.Camera = *NewCamera()
	world.Time = 0
	return world
}

func (world *World) NextFrameGLFW(window *glfw.Window) {
	width, height := window.GetFramebufferSize()
	screenSize := g.V2(float32(width), float32(height))
	now := glfw.GetTime()

	if world.ScreenSize != screenSize {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
	world.NextFrame(screenSize, now)
}

func (world *World) NextFrame(screenSize g.Vec2, now float64) {
	if world.ScreenSize != screenSize {
		log.Println(screenSize, screenSize.X/screenSize.Y)
	}
	world.ScreenSize = screenSize
	world.DeltaTime = float32(now - world.Time)
	world.Time = now

	// minimized windows report a zero sized framebuffer
	if screenSize.X > 0 && screenSize.Y > 0 {
		world.Projection = world.Camera.Projection(screenSize.X / screenSize.Y)
	}
	world.View = world.Camera.View()
}
