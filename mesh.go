package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	m "github.com/go-gl/mathgl/mgl32"

	"github.com/adinfit/solarsystem/obj"
)

// Attribute locations shared with the shaders.
const (
	PositionAttrib = 0
	UVAttrib       = 1
	NormalAttrib   = 2
)

// Mesh is a flattened obj.Mesh uploaded to the GPU.
type Mesh struct {
	VAO uint32

	PositionVBO uint32
	UVVBO       uint32
	NormalVBO   uint32

	Count int32
}

// UploadMesh copies the mesh streams into vertex buffers.
// The caller may discard data once UploadMesh returns.
func UploadMesh(data *obj.Mesh) *Mesh {
	mesh := &Mesh{}
	mesh.Count = int32(len(data.Positions))

	gl.GenVertexArrays(1, &mesh.VAO)
	gl.BindVertexArray(mesh.VAO)

	mesh.PositionVBO = uploadVec3(PositionAttrib, data.Positions)
	mesh.UVVBO = uploadVec2(UVAttrib, data.TexCoords)
	mesh.NormalVBO = uploadVec3(NormalAttrib, data.Normals)

	gl.BindVertexArray(0)
	return mesh
}

func uploadVec3(attrib uint32, data []m.Vec3) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*3*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	gl.EnableVertexAttribArray(attrib)
	gl.VertexAttribPointer(attrib, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	return vbo
}

func uploadVec2(attrib uint32, data []m.Vec2) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*2*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	gl.EnableVertexAttribArray(attrib)
	gl.VertexAttribPointer(attrib, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	return vbo
}

func (mesh *Mesh) Draw() {
	gl.BindVertexArray(mesh.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, mesh.Count)
}

func (mesh *Mesh) Delete() {
	buffers := []uint32{mesh.PositionVBO, mesh.UVVBO, mesh.NormalVBO}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	gl.DeleteVertexArrays(1, &mesh.VAO)
	*mesh = Mesh{}
}
