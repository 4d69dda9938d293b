package renderer

import (
	"errors"

	"Isle3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var errNoScene = errors.New("pipeline has no active scene")

// Pipeline owns the composer and the passes bound to the active scene. It
// is the only thing allowed to add or remove passes.
type Pipeline struct {
	camera   *Camera
	renderer *SceneRenderer
	style    OutlineStyle

	scene    *Scene
	composer *Composer
	outline  *OutlinePass
	fxaa     *FXAAPass
	selected []*Model

	width, height int32
	builds        int
}

func NewPipeline(camera *Camera, renderer *SceneRenderer, style OutlineStyle, width, height int32) *Pipeline {
	return &Pipeline{
		camera:   camera,
		renderer: renderer,
		style:    style,
		width:    width,
		height:   height,
	}
}

// SetActiveScene points the pipeline at scene. Passes keep rendering the
// previous scene until Rebuild.
func (p *Pipeline) SetActiveScene(scene *Scene) {
	p.scene = scene
}

func (p *Pipeline) Scene() *Scene {
	return p.scene
}

// Rebuild tears down every pass and creates a fresh chain (render, outline,
// output, anti-alias) for the active scene and camera. The outline starts
// empty.
func (p *Pipeline) Rebuild() error {
	if p.scene == nil {
		return errNoScene
	}
	if p.composer != nil {
		p.composer.Dispose()
	}

	composer := NewComposer(p.width, p.height)
	composer.AddPass(NewRenderPass(p.scene, p.camera, p.renderer))

	outline := NewOutlinePass(mgl32.Vec2{float32(p.width), float32(p.height)}, p.scene, p.camera, p.renderer, p.style)
	composer.AddPass(outline)

	composer.AddPass(NewOutputPass())

	fxaa := NewFXAAPass(p.width, p.height)
	composer.AddPass(fxaa)

	p.composer = composer
	p.outline = outline
	p.fxaa = fxaa
	p.selected = nil
	p.builds++

	logger.Log.Info("Pipeline rebuilt",
		zap.String("scene", p.scene.Name),
		zap.Int("passes", len(composer.Passes())),
		zap.Int("builds", p.builds))
	return nil
}

// SetOutline replaces the outlined set.
func (p *Pipeline) SetOutline(models []*Model) {
	p.selected = append(p.selected[:0:0], models...)
	if p.outline != nil {
		p.outline.SelectedObjects = p.selected
	}
}

// Outline returns the currently outlined models.
func (p *Pipeline) Outline() []*Model {
	return p.selected
}

// SetSize resizes every pass and the anti-alias resolution uniform.
func (p *Pipeline) SetSize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	p.width, p.height = width, height
	if p.composer != nil {
		p.composer.SetSize(width, height)
	}
}

func (p *Pipeline) Size() (int32, int32) {
	return p.width, p.height
}

// Resolution returns the anti-alias pass's resolution uniform.
func (p *Pipeline) Resolution() mgl32.Vec2 {
	if p.fxaa == nil {
		return mgl32.Vec2{}
	}
	return p.fxaa.Resolution()
}

// Passes lists the current chain, in render order.
func (p *Pipeline) Passes() []Pass {
	if p.composer == nil {
		return nil
	}
	return p.composer.Passes()
}

// Builds counts how many times the chain has been rebuilt.
func (p *Pipeline) Builds() int {
	return p.builds
}

func (p *Pipeline) Render() {
	if p.composer != nil {
		p.composer.Render()
	}
}

func (p *Pipeline) Dispose() {
	if p.composer != nil {
		p.composer.Dispose()
		p.composer = nil
	}
}
