package renderer

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var FaceCullingEnabled bool = false

// Debug checks for GL errors after every compositing pass.
var Debug bool = false

// ErrShaderCompile is wrapped by shader compile and link failures.
var ErrShaderCompile = errors.New("shader compile failed")

type Light struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Mode      string // "ambient", "directional", "point"
}

// CreateAmbientLight creates a light that shades every surface evenly.
func CreateAmbientLight(color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Color:     color,
		Intensity: intensity,
		Mode:      "ambient",
	}
}

// CreateDirectionalLight creates a directional light (like the sun) shining
// from position towards the origin.
func CreateDirectionalLight(position mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Position:  position,
		Direction: position.Mul(-1).Normalize(),
		Color:     color,
		Intensity: intensity,
		Mode:      "directional",
	}
}

// CreatePointLight creates a light radiating from position.
func CreatePointLight(position mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Position:  position,
		Color:     color,
		Intensity: intensity,
		Mode:      "point",
	}
}

// HexColor converts 0xRRGGBB to a color vector.
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
