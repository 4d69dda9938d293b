package renderer

import (
	"math"

	"Isle3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// passBase handles lazy GL setup. A pass whose setup fails disables itself
// so the rest of the chain keeps rendering.
type passBase struct {
	name        string
	disabled    bool
	initialized bool
	cleanup     Unwind
}

func (p *passBase) Name() string    { return p.name }
func (p *passBase) Enabled() bool   { return !p.disabled }
func (p *passBase) NeedsSwap() bool { return true }

func (p *passBase) SetEnabled(enabled bool) {
	p.disabled = !enabled
}

func (p *passBase) ensure(setup func() error) bool {
	if p.initialized {
		return true
	}
	if err := setup(); err != nil {
		logger.Log.Error("Pass setup failed, disabling", zap.String("pass", p.name), zap.Error(err))
		p.cleanup.Unwind()
		p.disabled = true
		return false
	}
	p.initialized = true
	return true
}

func (p *passBase) Dispose() {
	p.cleanup.Unwind()
	p.initialized = false
}

func (p *passBase) compile(s *Shader) error {
	if err := s.Compile(); err != nil {
		return err
	}
	p.cleanup.Add(s.Delete)
	return nil
}

func bindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

// RenderPass draws a scene from a camera.
type RenderPass struct {
	passBase
	Scene    *Scene
	Camera   *Camera
	renderer *SceneRenderer
}

func NewRenderPass(scene *Scene, camera *Camera, renderer *SceneRenderer) *RenderPass {
	return &RenderPass{passBase: passBase{name: "render"}, Scene: scene, Camera: camera, renderer: renderer}
}

func (p *RenderPass) SetSize(width, height int32) {}

func (p *RenderPass) Render(ctx *PassContext) {
	ctx.BindOutput()
	bg := srgbToLinear(p.Scene.ClearColor)
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	p.renderer.Draw(p.Scene, p.Camera)
	gl.Disable(gl.DEPTH_TEST)
}

func srgbToLinear(c mgl32.Vec3) mgl32.Vec3 {
	conv := func(v float32) float32 {
		if v <= 0.04045 {
			return v / 12.92
		}
		return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
	}
	return mgl32.Vec3{conv(c[0]), conv(c[1]), conv(c[2])}
}

// OutlineStyle holds the edge constants of an OutlinePass.
type OutlineStyle struct {
	EdgeStrength     float32
	EdgeGlow         float32
	EdgeThickness    float32
	VisibleEdgeColor mgl32.Vec3
	HiddenEdgeColor  mgl32.Vec3
}

// DefaultOutlineStyle is a crisp white edge.
var DefaultOutlineStyle = OutlineStyle{
	EdgeStrength:     7.5,
	EdgeGlow:         0,
	EdgeThickness:    1.5,
	VisibleEdgeColor: mgl32.Vec3{1, 1, 1},
	HiddenEdgeColor:  mgl32.Vec3{1, 1, 1},
}

// OutlinePass draws an edge around SelectedObjects. Edges of parts hidden
// behind other geometry use HiddenEdgeColor.
type OutlinePass struct {
	passBase
	OutlineStyle
	Scene           *Scene
	Camera          *Camera
	SelectedObjects []*Model
	Resolution      mgl32.Vec2

	renderer *SceneRenderer
	mask     *RenderTarget
	edge     *Shader
	copy     *Shader
}

func NewOutlinePass(resolution mgl32.Vec2, scene *Scene, camera *Camera, renderer *SceneRenderer, style OutlineStyle) *OutlinePass {
	return &OutlinePass{
		passBase:     passBase{name: "outline"},
		OutlineStyle: style,
		Scene:        scene,
		Camera:       camera,
		Resolution:   resolution,
		renderer:     renderer,
		mask:         NewRenderTarget(int32(resolution.X()), int32(resolution.Y())),
		edge:         NewShader(fullscreenVertexSource, edgeFragmentSource),
		copy:         NewShader(fullscreenVertexSource, copyFragmentSource),
	}
}

func (p *OutlinePass) SetSize(width, height int32) {
	p.Resolution = mgl32.Vec2{float32(width), float32(height)}
	p.mask.SetSize(width, height)
}

func (p *OutlinePass) setup() error {
	if err := p.compile(p.edge); err != nil {
		return err
	}
	if err := p.compile(p.copy); err != nil {
		return err
	}
	p.cleanup.Add(p.mask.Release)
	return nil
}

func (p *OutlinePass) Render(ctx *PassContext) {
	if !p.ensure(p.setup) {
		return
	}

	if len(p.SelectedObjects) == 0 {
		ctx.BindOutput()
		p.copy.Use()
		bindTexture(0, ctx.Read.Texture())
		p.copy.SetInt("tDiffuse", 0)
		drawFullscreenQuad()
		return
	}

	// Mask: red = selected and visible, green = whole selected silhouette.
	p.mask.Bind()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	p.renderer.DrawDepth(p.Scene.Children(), p.Camera)
	gl.ColorMask(true, false, false, false)
	p.renderer.DrawMask(p.SelectedObjects, p.Camera, mgl32.Vec4{1, 0, 0, 1})
	gl.Disable(gl.DEPTH_TEST)
	gl.ColorMask(false, true, false, false)
	p.renderer.DrawMask(p.SelectedObjects, p.Camera, mgl32.Vec4{0, 1, 0, 1})
	gl.ColorMask(true, true, true, true)
	gl.DepthFunc(gl.LESS)

	ctx.BindOutput()
	p.edge.Use()
	bindTexture(0, ctx.Read.Texture())
	bindTexture(1, p.mask.Texture())
	p.edge.SetInt("tDiffuse", 0)
	p.edge.SetInt("tMask", 1)
	p.edge.SetVec2("texelSize", mgl32.Vec2{1 / p.Resolution.X(), 1 / p.Resolution.Y()})
	p.edge.SetFloat("edgeStrength", p.EdgeStrength)
	p.edge.SetFloat("edgeThickness", p.EdgeThickness)
	p.edge.SetFloat("edgeGlow", p.EdgeGlow)
	p.edge.SetVec3("visibleEdgeColor", p.VisibleEdgeColor)
	p.edge.SetVec3("hiddenEdgeColor", p.HiddenEdgeColor)
	drawFullscreenQuad()
	gl.ActiveTexture(gl.TEXTURE0)
}

// ShaderPass runs a fullscreen fragment shader over the previous output.
type ShaderPass struct {
	passBase
	Uniforms map[string]any
	shader   *Shader
}

func NewShaderPass(name, fragmentSource string) *ShaderPass {
	return &ShaderPass{
		passBase: passBase{name: name},
		Uniforms: map[string]any{},
		shader:   NewShader(fullscreenVertexSource, fragmentSource),
	}
}

func (p *ShaderPass) SetSize(width, height int32) {}

func (p *ShaderPass) Render(ctx *PassContext) {
	if !p.ensure(func() error { return p.compile(p.shader) }) {
		return
	}
	ctx.BindOutput()
	p.shader.Use()
	bindTexture(0, ctx.Read.Texture())
	p.shader.SetInt("tDiffuse", 0)
	for name, value := range p.Uniforms {
		switch v := value.(type) {
		case float32:
			p.shader.SetFloat(name, v)
		case int32:
			p.shader.SetInt(name, v)
		case mgl32.Vec2:
			p.shader.SetVec2(name, v)
		case mgl32.Vec3:
			p.shader.SetVec3(name, v)
		}
	}
	drawFullscreenQuad()
}

// NewOutputPass converts the linear working color to sRGB.
func NewOutputPass() *ShaderPass {
	return NewShaderPass("output", outputFragmentSource)
}

// FXAAPass is the anti-alias pass. Its resolution uniform holds the size of
// one pixel, (1/width, 1/height).
type FXAAPass struct {
	*ShaderPass
}

func NewFXAAPass(width, height int32) *FXAAPass {
	p := &FXAAPass{ShaderPass: NewShaderPass("fxaa", fxaaFragmentSource)}
	p.SetSize(width, height)
	return p
}

func (p *FXAAPass) SetSize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	p.Uniforms["resolution"] = mgl32.Vec2{1 / float32(width), 1 / float32(height)}
}

func (p *FXAAPass) Resolution() mgl32.Vec2 {
	v, _ := p.Uniforms["resolution"].(mgl32.Vec2)
	return v
}
