package presenter

import (
	"testing"

	"Isle3D/internal/landmark"
	"Isle3D/internal/picking"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type spyOutliner struct {
	models []*renderer.Model
	sets   int
}

func (s *spyOutliner) Outline() []*renderer.Model { return s.models }

func (s *spyOutliner) SetOutline(models []*renderer.Model) {
	s.models = models
	s.sets++
}

type spyPanels struct {
	visible map[landmark.Label]bool
	toggles int
}

func newSpyPanels() *spyPanels {
	return &spyPanels{visible: map[landmark.Label]bool{}}
}

func (s *spyPanels) PanelVisible(label landmark.Label) bool { return s.visible[label] }

func (s *spyPanels) SetPanelVisible(label landmark.Label, visible bool) {
	s.visible[label] = visible
	s.toggles++
}

func (s *spyPanels) shown() []landmark.Label {
	var out []landmark.Label
	for _, l := range landmark.All {
		if s.visible[l] {
			out = append(out, l)
		}
	}
	return out
}

func target(label landmark.Label) picking.Target {
	return picking.Target{Model: renderer.NewBox(string(label), mgl32.Vec3{1, 1, 1}), Label: label}
}

func TestPresentShowsOnlyTargetPanel(t *testing.T) {
	outliner, panels := &spyOutliner{}, newSpyPanels()
	for _, l := range landmark.All {
		panels.visible[l] = true
	}
	p := New(outliner, panels)

	dock := target(landmark.Dock)
	p.Present(dock, true)

	assert.Equal(t, []landmark.Label{landmark.Dock}, panels.shown())
	assert.Equal(t, 7, panels.toggles, "seven panels hidden, dock left alone")
	assert.Equal(t, []*renderer.Model{dock.Model}, outliner.models)
}

func TestPresentNoneHidesEverything(t *testing.T) {
	outliner, panels := &spyOutliner{}, newSpyPanels()
	p := New(outliner, panels)
	p.Present(target(landmark.Beach), true)

	p.Present(picking.Target{}, false)

	assert.Empty(t, panels.shown())
	assert.Empty(t, outliner.models)
}

func TestPresentIsIdempotent(t *testing.T) {
	outliner, panels := &spyOutliner{}, newSpyPanels()
	p := New(outliner, panels)
	forest := target(landmark.Forest)

	p.Present(forest, true)
	toggles, sets := panels.toggles, outliner.sets
	p.Present(forest, true)

	assert.Equal(t, toggles, panels.toggles)
	assert.Equal(t, sets, outliner.sets)

	p.Present(picking.Target{}, false)
	toggles, sets = panels.toggles, outliner.sets
	p.Present(picking.Target{}, false)

	assert.Equal(t, toggles, panels.toggles)
	assert.Equal(t, sets, outliner.sets)
}

func TestPresentSwitchesTarget(t *testing.T) {
	outliner, panels := &spyOutliner{}, newSpyPanels()
	p := New(outliner, panels)
	p.Present(target(landmark.Dock), true)
	panels.toggles = 0

	boat := target(landmark.Boat)
	p.Present(boat, true)

	assert.Equal(t, []landmark.Label{landmark.Boat}, panels.shown())
	assert.Equal(t, 2, panels.toggles)
	assert.Same(t, boat.Model, outliner.models[0])
}

func TestPresentLeavesUnknownPanelsAlone(t *testing.T) {
	outliner, panels := &spyOutliner{}, newSpyPanels()
	panels.visible["credits"] = true
	p := New(outliner, panels)

	p.Present(picking.Target{}, false)

	assert.True(t, panels.visible["credits"])
	assert.Zero(t, panels.toggles)
}

func TestPresentSameLabelNewModel(t *testing.T) {
	outliner, panels := &spyOutliner{}, newSpyPanels()
	p := New(outliner, panels)
	p.Present(target(landmark.Ocean), true)

	other := target(landmark.Ocean)
	p.Present(other, true)

	assert.Equal(t, 2, outliner.sets)
	assert.Same(t, other.Model, outliner.models[0])
	assert.Equal(t, 1, panels.toggles)
}
