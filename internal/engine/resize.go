package engine

import (
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"go.uber.org/zap"
)

// Sizer is anything that tracks the framebuffer size.
type Sizer interface {
	SetSize(width, height int32)
}

// Resizer keeps the camera aspect, the GL viewport and the pipeline in step
// with the framebuffer. It never touches the transition state.
type Resizer struct {
	Camera   *renderer.Camera
	Viewport func(width, height int32)
	Pipeline Sizer
}

// Resize applies a framebuffer size. A minimized window reports 0x0 and is
// ignored.
func (r *Resizer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w, h := int32(width), int32(height)
	r.Camera.SetViewport(w, h)
	if r.Viewport != nil {
		r.Viewport(w, h)
	}
	r.Pipeline.SetSize(w, h)
	logger.Log.Debug("Resized", zap.Int32("width", w), zap.Int32("height", h))
}
