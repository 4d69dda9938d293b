// Package presenter keeps the outline and the description panels in step
// with the current pick.
package presenter

import (
	"Isle3D/internal/landmark"
	"Isle3D/internal/picking"
	"Isle3D/internal/renderer"
)

// Outliner owns the set of outlined models.
type Outliner interface {
	Outline() []*renderer.Model
	SetOutline(models []*renderer.Model)
}

// Panels shows and hides the per-label description panels.
type Panels interface {
	PanelVisible(label landmark.Label) bool
	SetPanelVisible(label landmark.Label, visible bool)
}

type Presenter struct {
	outliner Outliner
	panels   Panels
}

func New(outliner Outliner, panels Panels) *Presenter {
	return &Presenter{outliner: outliner, panels: panels}
}

// Present outlines target and shows its panel alone, or clears both when
// ok is false. Only flags that differ from the wanted state are changed.
func (p *Presenter) Present(target picking.Target, ok bool) {
	if !ok || target.Model == nil {
		p.Clear()
		return
	}
	if !outlineIs(p.outliner.Outline(), target.Model) {
		p.outliner.SetOutline([]*renderer.Model{target.Model})
	}
	for _, label := range landmark.All {
		p.setVisible(label, label == target.Label)
	}
}

// Clear empties the outline and hides every panel.
func (p *Presenter) Clear() {
	if len(p.outliner.Outline()) > 0 {
		p.outliner.SetOutline(nil)
	}
	for _, label := range landmark.All {
		p.setVisible(label, false)
	}
}

func (p *Presenter) setVisible(label landmark.Label, visible bool) {
	if p.panels.PanelVisible(label) != visible {
		p.panels.SetPanelVisible(label, visible)
	}
}

func outlineIs(outline []*renderer.Model, model *renderer.Model) bool {
	return len(outline) == 1 && outline[0] == model
}
