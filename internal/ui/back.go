package ui

import (
	"image"

	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// BackButton is the "back to the island" affordance in the top-left corner.
type BackButton struct {
	Label string
	X, Y  float64
	W, H  float64

	visible bool
	texture uint32
}

func NewBackButton() *BackButton {
	return &BackButton{Label: "< Back", X: 24, Y: 24, W: 96, H: 32}
}

func (b *BackButton) SetVisible(visible bool) {
	if b.visible != visible {
		logger.Log.Debug("Back button", zap.Bool("visible", visible))
	}
	b.visible = visible
}

func (b *BackButton) Visible() bool { return b.visible }

// Contains reports whether the window point (x, y) hits the button. A hidden
// button is never hit.
func (b *BackButton) Contains(x, y float64) bool {
	return b.visible && x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

func (b *BackButton) Draw(o *renderer.Overlay) {
	if !b.visible {
		return
	}
	if b.texture == 0 {
		tex, err := Textures.Acquire("button:"+b.Label, func() image.Image {
			return Rasterize(b.Label, "", int(b.W))
		})
		if err != nil {
			logger.Log.Error("Back button texture failed", zap.Error(err))
			return
		}
		b.texture = tex
	}
	o.Image(b.texture, mgl32.Vec4{float32(b.X), float32(b.Y), float32(b.W), float32(b.H)}, mgl32.Vec4{1, 1, 1, 1})
}

func (b *BackButton) Dispose() {
	Textures.Release(b.texture)
	b.texture = 0
}
