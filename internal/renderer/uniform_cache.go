package renderer

import (
	"Isle3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// UniformCache remembers uniform locations of one program, including the
// misses, so each name is looked up once.
type UniformCache struct {
	program   uint32
	locations map[string]int32
	lookup    func(program uint32, name string) int32
}

func NewUniformCache(program uint32) *UniformCache {
	return newUniformCache(program, glUniformLocation)
}

func newUniformCache(program uint32, lookup func(uint32, string) int32) *UniformCache {
	return &UniformCache{
		program:   program,
		locations: make(map[string]int32),
		lookup:    lookup,
	}
}

func glUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Location returns the location of name, or -1 when the program has no such
// active uniform.
func (uc *UniformCache) Location(name string) int32 {
	if loc, ok := uc.locations[name]; ok {
		return loc
	}
	loc := uc.lookup(uc.program, name)
	uc.locations[name] = loc
	if loc == -1 {
		// Uniforms the compiler optimized out report -1.
		logger.Log.Debug("Uniform not active", zap.Uint32("program", uc.program), zap.String("name", name))
	}
	return loc
}

func (uc *UniformCache) SetFloat(name string, value float32) {
	if loc := uc.Location(name); loc != -1 {
		gl.Uniform1f(loc, value)
	}
}

func (uc *UniformCache) SetVec2(name string, x, y float32) {
	if loc := uc.Location(name); loc != -1 {
		gl.Uniform2f(loc, x, y)
	}
}

func (uc *UniformCache) SetVec3(name string, x, y, z float32) {
	if loc := uc.Location(name); loc != -1 {
		gl.Uniform3f(loc, x, y, z)
	}
}

func (uc *UniformCache) SetVec4(name string, x, y, z, w float32) {
	if loc := uc.Location(name); loc != -1 {
		gl.Uniform4f(loc, x, y, z, w)
	}
}

func (uc *UniformCache) SetMat4(name string, m mgl32.Mat4) {
	if loc := uc.Location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (uc *UniformCache) SetInt(name string, value int32) {
	if loc := uc.Location(name); loc != -1 {
		gl.Uniform1i(loc, value)
	}
}
