// Package ui draws the 2D overlays: description panels, the back button and
// the transition fade.
package ui

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"Isle3D/internal/config"
	"Isle3D/internal/landmark"
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	panelWidth   = 320
	panelPadding = 12
	panelMargin  = 24
	lineHeight   = 16
)

// Textures holds every overlay texture the ui package uploads.
var Textures = renderer.NewTextureCache()

var (
	panelBackground = color.RGBA{R: 12, G: 18, B: 28, A: 210}
	panelTitle      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	panelBody       = color.RGBA{R: 200, G: 214, B: 228, A: 255}
)

type panel struct {
	title, body string
	visible     bool
	texture     uint32
	size        image.Point
	stale       bool
}

// Panels is one description panel per landmark. Only labels in the fixed
// set have a panel.
type Panels struct {
	panels map[landmark.Label]*panel
}

func NewPanels(text map[landmark.Label]config.Panel) *Panels {
	p := &Panels{panels: make(map[landmark.Label]*panel, len(landmark.All))}
	for _, label := range landmark.All {
		p.panels[label] = &panel{stale: true}
	}
	p.SetText(text)
	return p
}

func (p *Panels) PanelVisible(label landmark.Label) bool {
	pn, ok := p.panels[label]
	return ok && pn.visible
}

func (p *Panels) SetPanelVisible(label landmark.Label, visible bool) {
	pn, ok := p.panels[label]
	if !ok {
		return
	}
	pn.visible = visible
	logger.Log.Debug("Panel visibility", zap.String("label", label.String()), zap.Bool("visible", visible))
}

// SetText replaces panel text. Labels missing from text fall back to their
// own name with no body.
func (p *Panels) SetText(text map[landmark.Label]config.Panel) {
	for label, pn := range p.panels {
		t, ok := text[label]
		if !ok {
			t = config.Panel{Title: label.String()}
		}
		if t.Title != pn.title || t.Body != pn.body {
			pn.title, pn.body = t.Title, t.Body
			pn.stale = true
		}
	}
}

// Text returns a panel's title and body.
func (p *Panels) Text(label landmark.Label) (string, string) {
	pn, ok := p.panels[label]
	if !ok {
		return "", ""
	}
	return pn.title, pn.body
}

// Visible lists the shown panels in label order.
func (p *Panels) Visible() []landmark.Label {
	var out []landmark.Label
	for _, label := range landmark.All {
		if p.panels[label].visible {
			out = append(out, label)
		}
	}
	return out
}

// Draw renders visible panels in the bottom-left corner. Textures are
// rebuilt lazily after the text changes.
func (p *Panels) Draw(o *renderer.Overlay, width, height int32) {
	for _, label := range p.Visible() {
		pn := p.panels[label]
		if pn.stale {
			Textures.Release(pn.texture)
			pn.texture = 0
			title, body := pn.title, pn.body
			tex, err := Textures.Acquire("panel:"+label.String(), func() image.Image {
				img := Rasterize(title, body, panelWidth)
				pn.size = img.Bounds().Size()
				return img
			})
			if err != nil {
				logger.Log.Error("Panel texture failed", zap.String("label", label.String()), zap.Error(err))
				continue
			}
			pn.texture, pn.stale = tex, false
		}
		rect := mgl32.Vec4{
			panelMargin,
			float32(height) - panelMargin - float32(pn.size.Y),
			float32(pn.size.X),
			float32(pn.size.Y),
		}
		o.Image(pn.texture, rect, mgl32.Vec4{1, 1, 1, 1})
	}
}

func (p *Panels) Dispose() {
	for _, pn := range p.panels {
		Textures.Release(pn.texture)
		pn.texture, pn.stale = 0, true
	}
}

// Rasterize lays out a title and word-wrapped body in the fixed 7x13 face.
func Rasterize(title, body string, width int) *image.RGBA {
	face := basicfont.Face7x13
	charsPerLine := (width - 2*panelPadding) / face.Advance
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lines := wrap(body, charsPerLine)

	height := 2*panelPadding + lineHeight*(1+len(lines))
	if len(lines) > 0 {
		height += lineHeight / 2
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(panelBackground), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: face}
	y := panelPadding + face.Ascent
	d.Src = image.NewUniform(panelTitle)
	d.Dot = fixed.P(panelPadding, y)
	d.DrawString(title)

	y += lineHeight + lineHeight/2
	d.Src = image.NewUniform(panelBody)
	for _, line := range lines {
		d.Dot = fixed.P(panelPadding, y)
		d.DrawString(line)
		y += lineHeight
	}
	return img
}

// wrap breaks text on spaces into lines of at most max characters. Words
// longer than max are split.
func wrap(text string, max int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		for len(word) > max {
			if line.Len() > 0 {
				lines = append(lines, line.String())
				line.Reset()
			}
			lines = append(lines, word[:max])
			word = word[max:]
		}
		if line.Len() > 0 && line.Len()+1+len(word) > max {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
