package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// loadProgram compiles a program from shader files on disk.
func loadProgram(vertexPath, fragmentPath string) (uint32, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return 0, fmt.Errorf("unable to read vertex shader: %w", err)
	}
	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return 0, fmt.Errorf("unable to read fragment shader: %w", err)
	}
	return newProgram(string(vertexSource)+"\x00", string(fragmentSource)+"\x00")
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()

	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)

	gl.BindAttribLocation(program, PositionAttrib, gl.Str("VertexPosition\x00"))
	gl.BindAttribLocation(program, UVAttrib, gl.Str("VertexUV\x00"))
	gl.BindAttribLocation(program, NormalAttrib, gl.Str("VertexNormal\x00"))
	gl.BindFragDataLocation(program, 0, gl.Str("OutputColor\x00"))

	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile %v: %v", shaderName(shaderType), log)
	}

	return shader, nil
}

func shaderName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex shader"
	case gl.FRAGMENT_SHADER:
		return "fragment shader"
	default:
		return fmt.Sprintf("shader 0x%x", shaderType)
	}
}

var vertexShader = `
#version 330

uniform mat4 ProjectionMatrix;
uniform mat4 CameraMatrix;
uniform mat4 ModelMatrix;

in vec3 VertexPosition;
in vec2 VertexUV;
in vec3 VertexNormal;

out vec2 FragmentUV;
out vec3 FragmentNormal;
out vec3 FragmentPosition;

void main() {
	vec4 worldPosition = ModelMatrix * vec4(VertexPosition, 1);
	gl_Position = ProjectionMatrix * CameraMatrix * worldPosition;

	FragmentUV = VertexUV;
	FragmentNormal = mat3(transpose(inverse(ModelMatrix))) * VertexNormal;
	FragmentPosition = worldPosition.xyz;
}
` + "\x00"

var fragmentShader = `
#version 330

uniform sampler2D AlbedoTexture;
uniform vec3 LightPosition;
uniform float Emissive;

in vec2 FragmentUV;
in vec3 FragmentNormal;
in vec3 FragmentPosition;

out vec4 OutputColor;

const float AMBIENT = 0.15;

void main() {
	vec3 albedo = texture(AlbedoTexture, FragmentUV).rgb;

	vec3 normal = normalize(FragmentNormal);
	vec3 lightDirection = normalize(LightPosition - FragmentPosition);
	float diffuse = clamp(dot(normal, lightDirection), 0.0, 1.0);
	float shade = mix(AMBIENT + diffuse, 1.0, Emissive);

	OutputColor = vec4(albedo * shade, 1);
}
` + "\x00"
