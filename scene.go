package main

import (
	"fmt"
	"path/filepath"

	m "github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/adinfit/solarsystem/obj"
)

// BodyConfig describes a body and where its resources live,
// relative to the resources directory.
type BodyConfig struct {
	Name    string
	Parent  string
	Mesh    string
	Texture string

	OrbitRadius float32
	OrbitRate   float32
	Scale       float32
	SpinRate    float32
	SpinAxis    m.Vec3
	Emissive    bool
}

var defaultScene = []BodyConfig{
	{
		Name:    "sun",
		Mesh:    "objects/sun.obj",
		Texture: "textures/2k_sun.jpg",

		Scale:    1,
		SpinRate: 3.4,
		SpinAxis: m.Vec3{0, 1, 0},
		Emissive: true,
	},
	{
		Name:    "earth",
		Parent:  "sun",
		Mesh:    "objects/earth.obj",
		Texture: "textures/2k_earth.jpg",

		OrbitRadius: 4,
		OrbitRate:   0.06,
		Scale:       0.8,
		SpinRate:    18,
		SpinAxis:    m.Vec3{0, 1, 0},
	},
	{
		Name:    "moon",
		Parent:  "earth",
		Mesh:    "objects/moon.obj",
		Texture: "textures/2k_moon.jpg",

		OrbitRadius: 2,
		OrbitRate:   0.06,
		Scale:       0.4,
		SpinRate:    60,
		SpinAxis:    m.Vec3{0, -1, 0},
	},
}

// buildBodies creates the body hierarchy without any GPU resources.
// A parent must be listed before its children.
func buildBodies(configs []BodyConfig) ([]*Body, error) {
	byName := map[string]*Body{}
	bodies := make([]*Body, 0, len(configs))
	for _, config := range configs {
		if _, exists := byName[config.Name]; exists {
			return nil, fmt.Errorf("body %q defined twice", config.Name)
		}

		body := &Body{
			Name:        config.Name,
			OrbitRadius: config.OrbitRadius,
			OrbitRate:   config.OrbitRate,
			Scale:       config.Scale,
			SpinRate:    config.SpinRate,
			SpinAxis:    config.SpinAxis,
			Emissive:    config.Emissive,
		}
		if config.Parent != "" {
			parent, ok := byName[config.Parent]
			if !ok {
				return nil, fmt.Errorf("body %q: unknown parent %q", config.Name, config.Parent)
			}
			body.Parent = parent
		}

		byName[config.Name] = body
		bodies = append(bodies, body)
	}
	return bodies, nil
}

// loadMeshes loads all meshes concurrently; result i belongs to configs[i].
func loadMeshes(loader *obj.Loader, resources string, configs []BodyConfig) ([]*obj.Mesh, error) {
	meshes := make([]*obj.Mesh, len(configs))

	var group errgroup.Group
	for i, config := range configs {
		i, config := i, config
		group.Go(func() error {
			mesh, err := loader.Load(filepath.Join(resources, config.Mesh))
			if err != nil {
				return fmt.Errorf("body %q: %w", config.Name, err)
			}
			meshes[i] = mesh
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// LoadScene loads meshes and textures and uploads them.
// It must be called from the thread that owns the GL context.
func LoadScene(loader *obj.Loader, resources string, configs []BodyConfig) ([]*Body, error) {
	bodies, err := buildBodies(configs)
	if err != nil {
		return nil, err
	}

	meshes, err := loadMeshes(loader, resources, configs)
	if err != nil {
		return nil, err
	}

	for i, body := range bodies {
		texture, err := LoadTexture(filepath.Join(resources, configs[i].Texture))
		if err != nil {
			DeleteScene(bodies)
			return nil, fmt.Errorf("body %q: %w", body.Name, err)
		}
		body.Texture = texture
		body.Mesh = UploadMesh(meshes[i])
	}

	return bodies, nil
}

func DeleteScene(bodies []*Body) {
	for _, body := range bodies {
		if body.Mesh != nil {
			body.Mesh.Delete()
			body.Mesh = nil
		}
		if body.Texture != nil {
			body.Texture.Destroy()
			body.Texture = nil
		}
	}
}
