package transition

import (
	"testing"
	"time"

	"Isle3D/internal/input"
	"Isle3D/internal/landmark"
	"Isle3D/internal/picking"
	"Isle3D/internal/presenter"
	"Isle3D/internal/renderer"
	"Isle3D/internal/schedule"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutliner struct{ models []*renderer.Model }

func (f *fakeOutliner) Outline() []*renderer.Model          { return f.models }
func (f *fakeOutliner) SetOutline(models []*renderer.Model) { f.models = models }

type fakePanels struct {
	visible map[landmark.Label]bool
	toggles int
}

func (f *fakePanels) PanelVisible(l landmark.Label) bool { return f.visible[l] }
func (f *fakePanels) SetPanelVisible(l landmark.Label, v bool) {
	f.visible[l] = v
	f.toggles++
}

func (f *fakePanels) shown() []landmark.Label {
	var out []landmark.Label
	for _, l := range landmark.All {
		if f.visible[l] {
			out = append(out, l)
		}
	}
	return out
}

type fakeStage struct{ scene *renderer.Scene }

func (f *fakeStage) SetActiveScene(s *renderer.Scene) { f.scene = s }

type fakePipeline struct {
	stage  *fakeStage
	builds []*renderer.Scene
}

func (f *fakePipeline) Rebuild() error {
	f.builds = append(f.builds, f.stage.scene)
	return nil
}

type fakeRig struct{ calls []string }

func (f *fakeRig) ResetExterior() { f.calls = append(f.calls, "reset") }
func (f *fakeRig) LockInterior()  { f.calls = append(f.calls, "lock") }
func (f *fakeRig) RelaxInterior() { f.calls = append(f.calls, "relax") }

type fakeFader struct{ calls []string }

func (f *fakeFader) FadeOut(d time.Duration) { f.calls = append(f.calls, "out:"+d.String()) }
func (f *fakeFader) FadeIn(d time.Duration)  { f.calls = append(f.calls, "in:"+d.String()) }

type fakeBack struct{ visible bool }

func (f *fakeBack) SetVisible(v bool) { f.visible = v }

type harness struct {
	ctrl     *Controller
	clock    *schedule.ManualClock
	sched    *schedule.Scheduler
	pointer  *input.Dispatcher
	outliner *fakeOutliner
	panels   *fakePanels
	stage    *fakeStage
	pipeline *fakePipeline
	rig      *fakeRig
	fader    *fakeFader
	back     *fakeBack
	exterior *renderer.Scene
	interior *renderer.Scene
	dock     *renderer.Model
}

const (
	viewW = 800
	viewH = 800
)

func newHarness(t *testing.T) *harness {
	t.Helper()

	exterior := renderer.NewScene("exterior", mgl32.Vec3{})
	interior := renderer.NewScene("interior", mgl32.Vec3{})
	dock := renderer.NewBox("dock", mgl32.Vec3{2, 2, 2})
	exterior.Add(dock)
	cabin := renderer.NewBox("cabin", mgl32.Vec3{2, 2, 2})
	interior.Add(cabin)

	cam := renderer.NewDefaultCamera(viewW, viewH)
	cam.Position = mgl32.Vec3{0, 0, 20}
	cam.LookAt(mgl32.Vec3{})

	h := &harness{
		clock:    schedule.NewManualClock(time.Unix(0, 0)),
		outliner: &fakeOutliner{},
		panels:   &fakePanels{visible: map[landmark.Label]bool{}},
		stage:    &fakeStage{},
		rig:      &fakeRig{},
		fader:    &fakeFader{},
		back:     &fakeBack{visible: true},
		exterior: exterior,
		interior: interior,
		dock:     dock,
	}
	h.sched = schedule.New(h.clock)
	h.pipeline = &fakePipeline{stage: h.stage}
	h.pointer = input.NewDispatcher(func() (int, int) { return viewW, viewH })

	h.ctrl = New(Options{
		Exterior:  exterior,
		Interior:  interior,
		Resolver:  picking.NewResolver(cam),
		Presenter: presenter.New(h.outliner, h.panels),
		Stage:     h.stage,
		Pipeline:  h.pipeline,
		Rig:       h.rig,
		Fader:     h.fader,
		Back:      h.back,
		Pointer:   h.pointer,
		Scheduler: h.sched,
	})
	require.NoError(t, h.ctrl.Start())
	return h
}

// hover moves the pointer to the window center, over the dock.
func (h *harness) hover() { h.pointer.CursorMoved(viewW/2, viewH/2) }

// away moves the pointer to a corner where nothing is drawn.
func (h *harness) away() { h.pointer.CursorMoved(5, 5) }

func (h *harness) tick(d time.Duration) {
	h.clock.Advance(d)
	h.sched.Poll()
}

func TestStartIsIdleExterior(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, Idle, h.ctrl.State())
	assert.Same(t, h.exterior, h.ctrl.ActiveScene())
	assert.Same(t, h.exterior, h.stage.scene)
	assert.Equal(t, []*renderer.Scene{h.exterior}, h.pipeline.builds)
	assert.False(t, h.back.visible)
	assert.Equal(t, 1, h.pointer.PointerListeners())
}

func TestPointerMissShowsNothing(t *testing.T) {
	h := newHarness(t)

	h.away()

	_, ok := h.ctrl.Selection()
	assert.False(t, ok)
	assert.Empty(t, h.panels.shown())
	assert.Empty(t, h.outliner.models)
}

func TestPointerHitShowsOnePanel(t *testing.T) {
	h := newHarness(t)

	h.hover()

	sel, ok := h.ctrl.Selection()
	require.True(t, ok)
	assert.Same(t, h.dock, sel.Model)
	assert.Equal(t, []landmark.Label{landmark.Dock}, h.panels.shown())
	assert.Equal(t, []*renderer.Model{h.dock}, h.outliner.models)

	toggles := h.panels.toggles
	h.hover()
	assert.Equal(t, toggles, h.panels.toggles, "same target toggles nothing")

	h.away()
	assert.Empty(t, h.panels.shown())
}

func TestClickWithoutSelectionDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.away()

	assert.False(t, h.ctrl.HandleClick())
	assert.Equal(t, Idle, h.ctrl.State())
	assert.Empty(t, h.fader.calls)
}

func TestBackFromExteriorDoesNothing(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.ctrl.Back())
	assert.Equal(t, Idle, h.ctrl.State())
}

func TestClickDockScenario(t *testing.T) {
	h := newHarness(t)
	h.hover()

	require.True(t, h.ctrl.HandleClick())

	assert.Equal(t, FadingOut, h.ctrl.State())
	assert.Equal(t, 0, h.pointer.PointerListeners(), "picking detached")
	assert.Empty(t, h.panels.shown())
	assert.Empty(t, h.outliner.models)
	assert.Equal(t, []string{"out:1s"}, h.fader.calls)
	assert.Same(t, h.exterior, h.ctrl.ActiveScene(), "no swap before the screen is covered")

	h.tick(999 * time.Millisecond)
	assert.Equal(t, FadingOut, h.ctrl.State())

	h.tick(time.Millisecond)
	assert.Equal(t, FadingIn, h.ctrl.State())
	assert.Same(t, h.interior, h.ctrl.ActiveScene())
	assert.Same(t, h.interior, h.stage.scene)
	assert.Equal(t, []*renderer.Scene{h.exterior, h.interior}, h.pipeline.builds)
	assert.Equal(t, []string{"reset", "lock", "relax"}, h.rig.calls)
	assert.True(t, h.back.visible)
	assert.True(t, h.ctrl.Interior())
	assert.Equal(t, 0, h.pointer.PointerListeners())

	h.tick(time.Second)
	assert.Equal(t, Idle, h.ctrl.State())
	assert.Equal(t, 1, h.pointer.PointerListeners(), "picking resumed")
	assert.Equal(t, []string{"out:1s", "in:1s"}, h.fader.calls)

	// The interior's cabin sits where the dock was.
	h.hover()
	sel, ok := h.ctrl.Selection()
	require.True(t, ok)
	assert.Equal(t, landmark.Cabin, sel.Label)
}

func TestPointerMovesDuringTransitionAreIgnored(t *testing.T) {
	h := newHarness(t)
	h.hover()
	h.ctrl.HandleClick()

	for _, step := range []time.Duration{0, 500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond} {
		h.tick(step)
		require.NotEqual(t, Idle, h.ctrl.State())
		for i := 0; i < 5; i++ {
			h.hover()
		}
		_, ok := h.ctrl.Selection()
		assert.False(t, ok)
		assert.Empty(t, h.panels.shown())
		assert.Empty(t, h.outliner.models)
	}
}

func TestClicksDuringTransitionAreIgnored(t *testing.T) {
	h := newHarness(t)
	h.hover()
	h.ctrl.HandleClick()

	assert.False(t, h.ctrl.HandleClick())
	assert.False(t, h.ctrl.Back())
	h.tick(time.Second)
	assert.False(t, h.ctrl.Back(), "back is ignored while fading in")
	h.tick(time.Second)

	assert.Equal(t, Idle, h.ctrl.State())
	assert.Len(t, h.pipeline.builds, 2)
}

func TestClickInsideInteriorDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.hover()
	h.ctrl.HandleClick()
	h.tick(time.Second)
	h.tick(time.Second)
	h.hover()

	assert.False(t, h.ctrl.HandleClick())
	assert.Equal(t, Idle, h.ctrl.State())
	assert.True(t, h.ctrl.Interior())
}

func TestRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.hover()
	h.ctrl.HandleClick()
	h.tick(time.Second)
	h.tick(time.Second)
	h.hover()

	require.True(t, h.ctrl.Back())
	assert.Empty(t, h.panels.shown(), "back clears the interior selection")
	h.tick(time.Second)
	assert.False(t, h.back.visible)
	h.tick(time.Second)

	assert.Equal(t, Idle, h.ctrl.State())
	assert.Same(t, h.exterior, h.ctrl.ActiveScene())
	_, ok := h.ctrl.Selection()
	assert.False(t, ok)
	assert.Empty(t, h.panels.shown())
	assert.Empty(t, h.outliner.models)
	assert.False(t, h.back.visible)
	assert.Equal(t, []string{"reset", "lock", "relax", "reset"}, h.rig.calls)
	assert.Equal(t, []*renderer.Scene{h.exterior, h.interior, h.exterior}, h.pipeline.builds)
	assert.Equal(t, 1, h.pointer.PointerListeners())
}

func TestStalledFrameStillSwapsAtDeadline(t *testing.T) {
	h := newHarness(t)
	h.hover()
	h.ctrl.HandleClick()

	// One frame long enough to cover both halves runs both steps, in order.
	h.tick(3 * time.Second)

	assert.Equal(t, Idle, h.ctrl.State())
	assert.Same(t, h.interior, h.ctrl.ActiveScene())
	assert.Equal(t, []string{"out:1s", "in:1s"}, h.fader.calls)
	assert.Equal(t, 1, h.pointer.PointerListeners())
}

func TestCustomFadeDuration(t *testing.T) {
	h := newHarness(t)
	h.ctrl.fade = 250 * time.Millisecond
	h.hover()
	h.ctrl.HandleClick()

	h.tick(250 * time.Millisecond)
	h.tick(250 * time.Millisecond)
	assert.Equal(t, Idle, h.ctrl.State())
	assert.Equal(t, []string{"out:250ms", "in:250ms"}, h.fader.calls)
}

func TestCloseDropsPendingStep(t *testing.T) {
	h := newHarness(t)
	h.hover()
	h.ctrl.HandleClick()

	h.ctrl.Close()
	h.tick(time.Hour)

	assert.Equal(t, FadingOut, h.ctrl.State())
	assert.Equal(t, 0, h.pointer.PointerListeners())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "fading-out", FadingOut.String())
	assert.Equal(t, "swapping", Swapping.String())
	assert.Equal(t, "fading-in", FadingIn.String())
	assert.Equal(t, "state(9)", State(9).String())
}
