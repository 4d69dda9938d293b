package ui

import (
	"time"

	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fader is a fullscreen color overlay whose opacity is tweened. Update must
// be called once per frame with the frame time.
type Fader struct {
	Color mgl32.Vec3
	Ease  ease.TweenFunc

	alpha float32
	tween *gween.Tween
}

func NewFader(color mgl32.Vec3) *Fader {
	return &Fader{Color: color, Ease: ease.InOutQuad}
}

// FadeOut tweens to fully opaque over d.
func (f *Fader) FadeOut(d time.Duration) {
	f.to(1, d)
}

// FadeIn tweens from fully opaque to fully transparent over d. Any fade-out
// still running is dropped, so the first frame after FadeIn is covered.
func (f *Fader) FadeIn(d time.Duration) {
	f.alpha, f.tween = 1, nil
	f.to(0, d)
}

func (f *Fader) to(alpha float32, d time.Duration) {
	if d <= 0 {
		f.alpha, f.tween = alpha, nil
		return
	}
	f.tween = gween.New(f.alpha, alpha, float32(d.Seconds()), f.Ease)
}

// Update advances the running tween by dt seconds.
func (f *Fader) Update(dt float32) {
	if f.tween == nil {
		return
	}
	alpha, done := f.tween.Update(dt)
	f.alpha = mgl32.Clamp(alpha, 0, 1)
	if done {
		f.tween = nil
	}
}

func (f *Fader) Alpha() float32 { return f.alpha }

// Animating reports whether a tween is still running.
func (f *Fader) Animating() bool { return f.tween != nil }

func (f *Fader) Draw(o *renderer.Overlay, width, height int32) {
	if f.alpha <= 0 {
		return
	}
	o.Fill(mgl32.Vec4{0, 0, float32(width), float32(height)}, f.Color.Vec4(f.alpha))
}
