package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	m "github.com/go-gl/mathgl/mgl32"
)

// Program wraps a linked shader program and caches uniform locations.
type Program struct {
	ID            uint32
	locationCache map[string]int32
}

func NewProgram(id uint32) *Program {
	return &Program{
		ID:            id,
		locationCache: map[string]int32{},
	}
}

func (program *Program) Begin() { gl.UseProgram(program.ID) }

func (program *Program) Delete() {
	gl.DeleteProgram(program.ID)
	program.ID = 0
}

func (program *Program) uniformLocation(name string) int32 {
	location, ok := program.locationCache[name]
	if !ok {
		location = gl.GetUniformLocation(program.ID, gl.Str(name+"\x00"))
		program.locationCache[name] = location
	}
	return location
}

func (program *Program) UniformInt(name string, v int32) {
	location := program.uniformLocation(name)
	if location < 0 {
		return
	}
	gl.Uniform1i(location, v)
}

func (program *Program) UniformFloat32(name string, v float32) {
	location := program.uniformLocation(name)
	if location < 0 {
		return
	}
	gl.Uniform1f(location, v)
}

func (program *Program) UniformVec3(name string, v m.Vec3) {
	location := program.uniformLocation(name)
	if location < 0 {
		return
	}
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (program *Program) UniformMatrix(name string, v m.Mat4) {
	location := program.uniformLocation(name)
	if location < 0 {
		return
	}
	gl.UniformMatrix4fv(location, 1, false, &v[0])
}
