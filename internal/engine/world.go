package engine

import (
	"Isle3D/internal/config"
	"Isle3D/internal/landmark"
	"Isle3D/internal/loader"
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// NewExterior builds the island scene with its lights and the procedural
// ocean. The island asset is added once it has loaded.
func NewExterior(cfg config.Config) *renderer.Scene {
	scene := renderer.NewScene("exterior", mgl32.Vec3(cfg.Window.ClearColor))
	scene.AddLight(renderer.CreateAmbientLight(renderer.HexColor(0xffffff), 0.35))
	scene.AddLight(renderer.CreateDirectionalLight(mgl32.Vec3{40, 60, -30}, renderer.HexColor(0xfff4e0), 1.0))
	scene.Add(loader.OceanSurface(cfg.Exterior.OceanSize, cfg.Exterior.OceanDetail, cfg.Exterior.OceanSeed))
	return scene
}

// NewInterior builds the empty cabin interior scene.
func NewInterior(cfg config.Config) *renderer.Scene {
	scene := renderer.NewScene("interior", renderer.HexColor(0x2b2118))
	scene.AddLight(renderer.CreateAmbientLight(renderer.HexColor(0xffe8c8), 0.5))
	scene.AddLight(renderer.CreatePointLight(mgl32.Vec3{0, 4, 2}, renderer.HexColor(0xffd9a0), 1.2))
	return scene
}

// ExteriorProps stands in for the island asset when it cannot be loaded.
func ExteriorProps() []*renderer.Model {
	island := loader.Cylinder(landmark.Island, 14, 10, 2, 32)
	island.SetPosition(0, -0.5, 0)
	island.SetDiffuseColor(0.36, 0.55, 0.25)

	beach := loader.Cylinder(landmark.Beach, 16, 15, 0.6, 32)
	beach.SetPosition(0, -0.3, 0)
	beach.SetDiffuseColor(0.93, 0.85, 0.62)

	dock := loader.Box(landmark.Dock, mgl32.Vec3{2, 0.3, 8})
	dock.SetPosition(0, 0.3, -19)
	dock.SetDiffuseColor(0.45, 0.3, 0.18)

	boat := loader.Box(landmark.Boat, mgl32.Vec3{1.6, 0.8, 4})
	boat.SetPosition(3, 0.3, -20)
	boat.SetDiffuseColor(0.7, 0.2, 0.15)

	lighthouse := loader.Cylinder(landmark.Lighthouse, 1.2, 0.8, 9, 16)
	lighthouse.SetPosition(8, 1.5, 4)
	lighthouse.SetDiffuseColor(0.95, 0.95, 0.92)

	cabin := loader.Box(landmark.Cabin, mgl32.Vec3{4, 3, 4})
	cabin.SetPosition(-4, 3, -4)
	cabin.SetDiffuseColor(0.55, 0.38, 0.25)

	forest := loader.Sphere(landmark.Forest, 3, 12)
	forest.SetPosition(-3, 3.5, 6)
	forest.SetDiffuseColor(0.16, 0.42, 0.18)

	return []*renderer.Model{island, beach, dock, boat, lighthouse, cabin, forest}
}

// InteriorProps stands in for the interior asset when it cannot be loaded.
// Only the model boat on the table is a landmark.
func InteriorProps() []*renderer.Model {
	floor := loader.Box("floor", mgl32.Vec3{12, 0.2, 12})
	floor.SetPosition(0, -0.1, 0)
	floor.SetDiffuseColor(0.4, 0.28, 0.18)

	table := loader.Box("table", mgl32.Vec3{3, 1, 1.6})
	table.SetPosition(0, 0.5, 0)
	table.SetDiffuseColor(0.5, 0.34, 0.2)

	boat := loader.Box(landmark.Boat, mgl32.Vec3{1.2, 0.5, 0.4})
	boat.SetPosition(0, 1.25, 0)
	boat.SetDiffuseColor(0.7, 0.2, 0.15)

	return []*renderer.Model{floor, table, boat}
}

// populate loads path into scene in the background. When the load fails
// the scene gets props instead, or nothing if props is nil.
func populate(assets *loader.Async, scene *renderer.Scene, path string, props func() []*renderer.Model) {
	var onError func(error)
	if props != nil {
		onError = func(error) {
			logger.Log.Info("Using placeholder props", zap.String("scene", scene.Name))
			scene.Add(props()...)
		}
	}
	assets.LoadAsync(path,
		func(models []*renderer.Model) {
			for _, m := range models {
				if _, ok := landmark.Parse(m.Name); !ok {
					logger.Log.Debug("Unlabeled model will not be pickable", zap.String("scene", scene.Name), zap.String("model", m.Name))
				}
			}
			scene.Add(models...)
		},
		onError)
}
