package main

import (
	"github.com/adinfinit/g"
	m "github.com/go-gl/mathgl/mgl32"
)

// Body is a textured mesh that orbits its parent and spins around its own axis.
type Body struct {
	Name   string
	Parent *Body

	OrbitRadius float32
	// OrbitRate is in radians per second.
	OrbitRate float32

	// Scale of zero is treated as 1.
	Scale float32
	// SpinRate is in degrees per second.
	SpinRate float32
	SpinAxis m.Vec3

	// Emissive bodies are not shaded by the light.
	Emissive bool

	Mesh    *Mesh
	Texture *Texture
}

// Model returns the model matrix at time t.
func (body *Body) Model(t float32) m.Mat4 {
	model := body.frame(t)
	if body.SpinRate != 0 {
		model = model.Mul4(m.HomogRotate3D(m.DegToRad(body.SpinRate*t), body.SpinAxis))
	}
	return model
}

// frame is the transform children orbit in: parent frame, orbit and scale.
// The spin of a body is not inherited by its children.
func (body *Body) frame(t float32) m.Mat4 {
	model := m.Ident4()
	if body.Parent != nil {
		model = body.Parent.frame(t)
	}

	if body.OrbitRadius != 0 {
		sn, cs := g.Sincos(body.OrbitRate * t)
		model = model.Mul4(m.Translate3D(body.OrbitRadius*sn, 0, body.OrbitRadius*cs))
	}

	if body.Scale != 0 && body.Scale != 1 {
		model = model.Mul4(m.Scale3D(body.Scale, body.Scale, body.Scale))
	}

	return model
}

// Position returns the world position of the body center at time t.
func (body *Body) Position(t float32) m.Vec3 {
	return body.Model(t).Col(3).Vec3()
}

// LightPosition returns the position of the first emissive body,
// or the origin when there is none.
func LightPosition(bodies []*Body, t float32) m.Vec3 {
	for _, body := range bodies {
		if body.Emissive {
			return body.Position(t)
		}
	}
	return m.Vec3{}
}
