package loader

import (
	"math"

	"Isle3D/internal/landmark"
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Box builds a labeled box prop centered on the origin.
func Box(label landmark.Label, size mgl32.Vec3) *renderer.Model {
	return renderer.NewBox(label.String(), size)
}

// Sphere builds a labeled UV sphere centered on the origin.
func Sphere(label landmark.Label, radius float32, segments int) *renderer.Model {
	if segments < 3 {
		segments = 3
	}
	var vertices, normals []mgl32.Vec3
	var indices []int32

	for i := 0; i <= segments; i++ {
		lat := float64(i) * math.Pi / float64(segments)
		for j := 0; j <= segments; j++ {
			lon := float64(j) * 2.0 * math.Pi / float64(segments)

			n := mgl32.Vec3{
				float32(math.Sin(lat) * math.Cos(lon)),
				float32(math.Cos(lat)),
				float32(math.Sin(lat) * math.Sin(lon)),
			}
			vertices = append(vertices, n.Mul(radius))
			normals = append(normals, n)
		}
	}

	for i := 0; i < segments; i++ {
		for j := 0; j < segments; j++ {
			first := int32(i*(segments+1) + j)
			second := first + int32(segments+1)

			indices = append(indices,
				first, first+1, second,
				second, first+1, second+1,
			)
		}
	}

	return renderer.CreateModelWithNormals(label.String(), vertices, normals, indices)
}

// Cylinder builds a labeled capped cylinder standing on the origin.
func Cylinder(label landmark.Label, radiusBottom, radiusTop, height float32, segments int) *renderer.Model {
	if segments < 3 {
		segments = 3
	}
	var vertices []mgl32.Vec3
	var indices []int32

	for j := 0; j <= segments; j++ {
		a := float64(j) * 2 * math.Pi / float64(segments)
		s, c := float32(math.Sin(a)), float32(math.Cos(a))
		vertices = append(vertices,
			mgl32.Vec3{radiusBottom * s, 0, radiusBottom * c},
			mgl32.Vec3{radiusTop * s, height, radiusTop * c},
		)
	}
	for j := 0; j < segments; j++ {
		b0, t0 := int32(2*j), int32(2*j+1)
		b1, t1 := b0+2, t0+2
		indices = append(indices, b0, b1, t0, t0, b1, t1)
	}

	bottom := int32(len(vertices))
	top := bottom + 1
	vertices = append(vertices, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, height, 0})
	for j := 0; j < segments; j++ {
		b0, t0 := int32(2*j), int32(2*j+1)
		indices = append(indices, bottom, b0+2, b0, top, t0, t0+2)
	}

	return renderer.CreateModel(label.String(), vertices, indices)
}

// OceanSurface builds the ocean landmark: a size x size grid centered on the
// origin with resolution vertices per side, gently displaced by Perlin noise.
func OceanSurface(size float32, resolution int, seed int64) *renderer.Model {
	if resolution < 2 {
		resolution = 2
	}
	const (
		amplitude = 0.35
		frequency = 0.08
	)
	noise := perlin.NewPerlin(2, 2, 3, seed)

	vertices := make([]mgl32.Vec3, 0, resolution*resolution)
	indices := make([]int32, 0, (resolution-1)*(resolution-1)*6)

	stepSize := size / float32(resolution-1)
	start := -size * 0.5

	for x := 0; x < resolution; x++ {
		for z := 0; z < resolution; z++ {
			posX := start + float32(x)*stepSize
			posZ := start + float32(z)*stepSize
			h := float32(noise.Noise2D(float64(posX)*frequency, float64(posZ)*frequency)) * amplitude
			vertices = append(vertices, mgl32.Vec3{posX, h, posZ})
		}
	}

	for x := 0; x < resolution-1; x++ {
		for z := 0; z < resolution-1; z++ {
			topLeft := int32(x*resolution + z)
			topRight := topLeft + 1
			bottomLeft := int32((x+1)*resolution + z)
			bottomRight := bottomLeft + 1

			// Counter-clockwise seen from above.
			indices = append(indices, topLeft, topRight, bottomRight)
			indices = append(indices, topLeft, bottomRight, bottomLeft)
		}
	}

	model := renderer.CreateModel(landmark.Ocean.String(), vertices, indices)
	model.SetDiffuseColor(0.09, 0.38, 0.55)

	logger.Log.Info("Ocean surface created",
		zap.Int("vertices", len(vertices)),
		zap.Int("triangles", len(indices)/3),
		zap.Float32("size", size),
		zap.Int("resolution", resolution))
	return model
}
