package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/loov/hrtime"

	"github.com/adinfit/solarsystem/obj"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "profile")

	windowWidth  = flag.Int("width", 1920, "window width")
	windowHeight = flag.Int("height", 1080, "window height")
	samples      = flag.Int("samples", 4, "multisample count")

	resources = flag.String("resources", "resources", "directory containing objects/ and textures/")
	lenient   = flag.Bool("lenient", false, "skip malformed mesh records instead of failing")
	capture   = flag.Bool("capture", false, "capture the cursor for mouse look")

	vertexPath   = flag.String("vertex", "", "vertex shader file, uses the builtin shader when empty")
	fragmentPath = flag.String("fragment", "", "fragment shader file, uses the builtin shader when empty")
)

func init() { runtime.LockOSThread() }

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatalf("unable to create cpu-profile %q: %v", *cpuprofile, err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("unable to start cpu-profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := glfw.Init(); err != nil {
		log.Fatalln("failed to initialize glfw:", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, *samples)

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(*windowWidth, *windowHeight, "Solar System", nil, nil)
	if err != nil {
		log.Fatalln("failed to create window: ", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalln("failed to initialize glow: ", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	world := NewWorld()
	world.NextFrameGLFW(window)

	if *capture {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
			world.Camera.Look(float32(x), float32(y))
		})
	}

	programID, err := compileProgram(*vertexPath, *fragmentPath)
	if err != nil {
		log.Fatalln(err)
	}
	program := NewProgram(programID)
	defer program.Delete()

	program.Begin()
	program.UniformInt("AlbedoTexture", 0)

	loader := &obj.Loader{}
	if *lenient {
		loader.Policy = obj.Lenient
		loader.Logf = log.Printf
	}

	loadStart := hrtime.Now()
	bodies, err := LoadScene(loader, *resources, defaultScene)
	if err != nil {
		log.Fatalln(err)
	}
	defer DeleteScene(bodies)
	log.Printf("loaded %d bodies in %v", len(bodies), hrtime.Now()-loadStart)

	// Configure global settings
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	gl.ClearColor(0, 0, 0, 1)
	if code := gl.GetError(); code != gl.NO_ERROR {
		log.Println("ERROR: ", code)
	}

	for !window.ShouldClose() {
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		// Update
		updateStart := hrtime.Now()
		processInput(window, world)
		world.NextFrameGLFW(window)
		updateStop := hrtime.Now()

		// Rendering
		renderStart := hrtime.Now()
		render(program, world, bodies)
		renderStop := hrtime.Now()

		window.SetTitle(fmt.Sprintf("Update:\t%v\tRender:\t%v", updateStop-updateStart, renderStop-renderStart))

		// Maintenance
		window.SwapBuffers()
		glfw.PollEvents()
	}
}

func compileProgram(vertexPath, fragmentPath string) (uint32, error) {
	if vertexPath == "" && fragmentPath == "" {
		return newProgram(vertexShader, fragmentShader)
	}
	if vertexPath == "" || fragmentPath == "" {
		return 0, fmt.Errorf("both -vertex and -fragment must be specified")
	}
	return loadProgram(vertexPath, fragmentPath)
}

var movementKeys = []struct {
	key glfw.Key
	dir Direction
}{
	{glfw.KeyW, Forward},
	{glfw.KeyS, Backward},
	{glfw.KeyA, Left},
	{glfw.KeyD, Right},
}

func processInput(window *glfw.Window, world *World) {
	for _, binding := range movementKeys {
		if window.GetKey(binding.key) == glfw.Press {
			world.Camera.Move(binding.dir, world.DeltaTime)
		}
	}
}

func render(program *Program, world *World, bodies []*Body) {
	t := float32(world.Time)

	program.Begin()
	program.UniformMatrix("ProjectionMatrix", world.Projection)
	program.UniformMatrix("CameraMatrix", world.View)

	program.UniformVec3("LightPosition", LightPosition(bodies, t))

	for _, body := range bodies {
		program.UniformMatrix("ModelMatrix", body.Model(t))
		if body.Emissive {
			program.UniformFloat32("Emissive", 1)
		} else {
			program.UniformFloat32("Emissive", 0)
		}

		body.Texture.Bind(0)
		body.Mesh.Draw()
	}
}
