// Package picking turns a pointer position into the landmark under it.
package picking

import (
	"Isle3D/internal/landmark"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Target is a resolved pick: the model that was hit and its label.
type Target struct {
	Model    *renderer.Model
	Label    landmark.Label
	Distance float32
}

// Normalize maps window coordinates (origin top-left, Y down) to [-1, 1] on
// both axes with the origin at the center and Y up. width and height must
// be the viewport size at the time of the event.
func Normalize(x, y float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(x/float64(width)*2 - 1),
		float32(-(y/float64(height))*2 + 1),
	}
}

// Resolver casts pointer rays from a camera.
type Resolver struct {
	camera    *renderer.Camera
	raycaster *renderer.Raycaster
}

func NewResolver(camera *renderer.Camera) *Resolver {
	return &Resolver{camera: camera, raycaster: renderer.NewRaycaster()}
}

// Resolve returns the nearest model under ndc in scene. Only the nearest hit
// counts: if its name is not a known label the result is none, even when a
// labeled model lies behind it.
func (r *Resolver) Resolve(ndc mgl32.Vec2, scene *renderer.Scene) (Target, bool) {
	if scene == nil {
		return Target{}, false
	}
	r.raycaster.SetFromCamera(ndc, r.camera)
	hits := r.raycaster.IntersectObjects(scene.Children())
	if len(hits) == 0 {
		return Target{}, false
	}

	nearest := hits[0]
	label, ok := landmark.Parse(nearest.Model.Name)
	if !ok {
		return Target{}, false
	}
	return Target{Model: nearest.Model, Label: label, Distance: nearest.Distance}, true
}
