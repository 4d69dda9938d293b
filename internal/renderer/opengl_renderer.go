package renderer

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"Isle3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// SceneRenderer draws a scene's models with a single lit shader. Mesh data
// is uploaded lazily on first draw, so models can be built off the GL thread.
type SceneRenderer struct {
	shader *Shader
	mask   *Shader
}

func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		shader: NewShader(sceneVertexSource, sceneFragmentSource),
		mask:   NewShader(sceneVertexSource, maskFragmentSource),
	}
}

func (rend *SceneRenderer) Init() error {
	if err := rend.shader.Compile(); err != nil {
		return err
	}
	return rend.mask.Compile()
}

// Draw renders every visible model of scene into the bound framebuffer.
func (rend *SceneRenderer) Draw(scene *Scene, camera *Camera) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}

	shader := rend.shader
	shader.Use()
	shader.SetMat4("viewProjection", camera.GetViewProjection())
	shader.SetVec3("viewPos", camera.Position)

	ambient := mgl32.Vec3{}
	if scene.Ambient != nil {
		ambient = scene.Ambient.Color.Mul(scene.Ambient.Intensity)
	}
	shader.SetVec3("ambientColor", ambient)

	if light := scene.KeyLight(); light != nil {
		shader.SetInt("hasLight", 1)
		shader.SetVec3("light.position", light.Position)
		shader.SetVec3("light.direction", light.Direction)
		shader.SetVec3("light.color", light.Color)
		shader.SetFloat("light.intensity", light.Intensity)
		isDirectional := int32(0)
		if light.Mode == "directional" {
			isDirectional = 1
		}
		shader.SetInt("light.isDirectional", isDirectional)
	} else {
		shader.SetInt("hasLight", 0)
	}

	for _, model := range scene.Children() {
		if !model.Visible {
			continue
		}
		material := model.Material
		if material == nil {
			material = DefaultMaterial
		}
		shader.SetVec3("diffuseColor", mgl32.Vec3(material.DiffuseColor))
		shader.SetVec3("specularColor", mgl32.Vec3(material.SpecularColor))
		shader.SetFloat("shininess", material.Shininess)
		rend.drawModel(shader, model)
	}

	gl.Disable(gl.CULL_FACE)
}

// DrawMask renders models in a flat color. The caller sets depth state.
func (rend *SceneRenderer) DrawMask(models []*Model, camera *Camera, color mgl32.Vec4) {
	shader := rend.mask
	shader.Use()
	shader.SetMat4("viewProjection", camera.GetViewProjection())
	shader.SetVec4("maskColor", color)
	for _, model := range models {
		if model.Visible {
			rend.drawModel(shader, model)
		}
	}
}

// DrawDepth fills the depth buffer with models without writing color.
func (rend *SceneRenderer) DrawDepth(models []*Model, camera *Camera) {
	gl.ColorMask(false, false, false, false)
	rend.DrawMask(models, camera, mgl32.Vec4{})
	gl.ColorMask(true, true, true, true)
}

func (rend *SceneRenderer) drawModel(shader *Shader, model *Model) {
	if !model.uploaded {
		uploadModel(model)
	}
	if model.IsDirty {
		model.updateModelMatrix()
	}
	shader.SetMat4("model", model.ModelMatrix)
	gl.BindVertexArray(model.VAO)
	gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (rend *SceneRenderer) Cleanup() {
	rend.shader.Delete()
	rend.mask.Delete()
}

func uploadModel(model *Model) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(model.InterleavedData)*4, gl.Ptr(model.InterleavedData), gl.STATIC_DRAW)

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Faces)*4, gl.Ptr(model.Faces), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	model.VAO = vao
	model.VBO = vbo
	model.EBO = ebo
	model.uploaded = true
}

// ReleaseModel frees a model's GPU buffers. The CPU copy stays usable.
func ReleaseModel(model *Model) {
	if !model.uploaded {
		return
	}
	gl.DeleteVertexArrays(1, &model.VAO)
	gl.DeleteBuffers(1, &model.VBO)
	gl.DeleteBuffers(1, &model.EBO)
	model.uploaded = false
}

// Fullscreen triangle strip shared by every post-process pass.
var quadVAO, quadVBO uint32

func drawFullscreenQuad() {
	if quadVAO == 0 {
		vertices := []float32{-1, -1, 1, -1, -1, 1, 1, 1}
		gl.GenVertexArrays(1, &quadVAO)
		gl.BindVertexArray(quadVAO)
		gl.GenBuffers(1, &quadVBO)
		gl.BindBuffer(gl.ARRAY_BUFFER, quadVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
		gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
		gl.EnableVertexAttribArray(0)
	}
	gl.BindVertexArray(quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// CreateTextureFromImage uploads img as an RGBA texture.
func CreateTextureFromImage(img image.Image) (uint32, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != rgba.Rect.Size().X*4 {
		// Convert to a tightly packed *image.RGBA
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	if rgba.Rect.Empty() {
		return 0, fmt.Errorf("create texture: empty image")
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(rgba.Rect.Size().X), int32(rgba.Rect.Size().Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return textureID, nil
}

func DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shader type", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("%w: link: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

// UpdateViewport updates the OpenGL viewport to match the framebuffer size.
func UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}
