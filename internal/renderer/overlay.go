package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Overlay draws screen-space rectangles over the finished frame. Rects are
// in window pixels with the origin at the top-left.
type Overlay struct {
	shader *Shader
	failed bool
	width  int32
	height int32
}

func NewOverlay() *Overlay {
	return &Overlay{shader: NewShader(overlayVertexSource, overlayFragmentSource)}
}

// Begin sets the screen size for the following draws and enables blending.
// It reports false if the overlay shader could not be built.
func (o *Overlay) Begin(width, height int32) bool {
	if o.failed {
		return false
	}
	if err := o.shader.Compile(); err != nil {
		o.failed = true
		return false
	}
	o.width, o.height = width, height
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	o.shader.Use()
	o.shader.SetVec2("screen", mgl32.Vec2{float32(width), float32(height)})
	return true
}

func (o *Overlay) End() {
	gl.Disable(gl.BLEND)
}

// Fill draws a flat colored rectangle.
func (o *Overlay) Fill(rect mgl32.Vec4, color mgl32.Vec4) {
	o.shader.SetVec4("rect", rect)
	o.shader.SetVec4("color", color)
	o.shader.SetInt("useTexture", 0)
	drawFullscreenQuad()
}

// Image draws texture stretched over rect, multiplied by tint.
func (o *Overlay) Image(texture uint32, rect mgl32.Vec4, tint mgl32.Vec4) {
	bindTexture(0, texture)
	o.shader.SetInt("tDiffuse", 0)
	o.shader.SetVec4("rect", rect)
	o.shader.SetVec4("color", tint)
	o.shader.SetInt("useTexture", 1)
	drawFullscreenQuad()
}

func (o *Overlay) Dispose() {
	o.shader.Delete()
}
