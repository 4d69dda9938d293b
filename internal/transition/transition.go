// Package transition switches the view between the exterior and interior
// scenes. A transition fades to opaque, swaps the active scene and rebuilds
// the render pipeline while the screen is covered, then fades back in.
// Picking is detached for the whole transition.
package transition

import (
	"fmt"
	"time"

	"Isle3D/internal/input"
	"Isle3D/internal/logger"
	"Isle3D/internal/picking"
	"Isle3D/internal/presenter"
	"Isle3D/internal/renderer"
	"Isle3D/internal/schedule"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	FadingOut
	Swapping
	FadingIn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FadingOut:
		return "fading-out"
	case Swapping:
		return "swapping"
	case FadingIn:
		return "fading-in"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultFadeDuration is the length of each half of a transition.
const DefaultFadeDuration = time.Second

type Resolver interface {
	Resolve(ndc mgl32.Vec2, scene *renderer.Scene) (picking.Target, bool)
}

// Stage decides which scene is rendered.
type Stage interface {
	SetActiveScene(scene *renderer.Scene)
}

// Pipeline is the compositing chain. Rebuild discards every pass and binds
// fresh ones to the stage's active scene.
type Pipeline interface {
	Rebuild() error
}

// Rig frames the camera for each scene.
type Rig interface {
	// ResetExterior removes every orbit bound and restores the initial
	// exterior viewpoint.
	ResetExterior()
	// LockInterior pins distance and angles to the interior viewpoint.
	LockInterior()
	// RelaxInterior reopens the angle bounds. Distance stays locked.
	RelaxInterior()
}

// Fader covers and uncovers the screen.
type Fader interface {
	FadeOut(d time.Duration)
	FadeIn(d time.Duration)
}

// Back is the affordance that returns to the exterior.
type Back interface {
	SetVisible(visible bool)
}

// PointerSource delivers pointer moves to attached listeners.
type PointerSource interface {
	OnPointerMove(fn func(input.PointerEvent)) input.ListenerID
	OffPointerMove(id input.ListenerID) bool
}

// Options wires a Controller to its collaborators.
type Options struct {
	Exterior     *renderer.Scene
	Interior     *renderer.Scene
	Resolver     Resolver
	Presenter    *presenter.Presenter
	Stage        Stage
	Pipeline     Pipeline
	Rig          Rig
	Fader        Fader
	Back         Back
	Pointer      PointerSource
	Scheduler    *schedule.Scheduler
	FadeDuration time.Duration
}

// Controller owns the active scene, the selection and the transition state.
// All methods must be called on the render thread.
type Controller struct {
	exterior *renderer.Scene
	interior *renderer.Scene
	active   *renderer.Scene

	state        State
	selection    picking.Target
	hasSelection bool

	resolver  Resolver
	presenter *presenter.Presenter
	stage     Stage
	pipeline  Pipeline
	rig       Rig
	fader     Fader
	back      Back
	pointer   PointerSource
	scheduler *schedule.Scheduler
	fade      time.Duration

	listener input.ListenerID
	attached bool
	pending  []*schedule.Task
}

func New(opts Options) *Controller {
	fade := opts.FadeDuration
	if fade <= 0 {
		fade = DefaultFadeDuration
	}
	return &Controller{
		exterior:  opts.Exterior,
		interior:  opts.Interior,
		resolver:  opts.Resolver,
		presenter: opts.Presenter,
		stage:     opts.Stage,
		pipeline:  opts.Pipeline,
		rig:       opts.Rig,
		fader:     opts.Fader,
		back:      opts.Back,
		pointer:   opts.Pointer,
		scheduler: opts.Scheduler,
		fade:      fade,
	}
}

// Start activates the exterior and enables picking.
func (c *Controller) Start() error {
	c.active = c.exterior
	c.stage.SetActiveScene(c.exterior)
	if err := c.pipeline.Rebuild(); err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	c.rig.ResetExterior()
	c.back.SetVisible(false)
	c.presenter.Clear()
	c.state = Idle
	c.attach()
	logger.Log.Info("Transition controller started", zap.String("scene", c.exterior.Name))
	return nil
}

func (c *Controller) State() State { return c.state }

func (c *Controller) ActiveScene() *renderer.Scene { return c.active }

// Selection returns the highlighted target, if any.
func (c *Controller) Selection() (picking.Target, bool) {
	return c.selection, c.hasSelection
}

// Interior reports whether the interior scene is active.
func (c *Controller) Interior() bool {
	return c.active == c.interior
}

// HandleClick starts the move into the interior when the exterior is
// active and something is selected. It reports whether a transition began.
func (c *Controller) HandleClick() bool {
	if c.state != Idle || !c.hasSelection || c.Interior() {
		return false
	}
	logger.Log.Info("Entering landmark", zap.String("label", c.selection.Label.String()))
	c.begin(c.interior)
	return true
}

// Back starts the move out to the exterior. It reports whether a
// transition began.
func (c *Controller) Back() bool {
	if c.state != Idle || !c.Interior() {
		return false
	}
	c.begin(c.exterior)
	return true
}

func (c *Controller) onPointerMove(ev input.PointerEvent) {
	if c.state != Idle {
		return
	}
	ndc := picking.Normalize(ev.X, ev.Y, ev.Width, ev.Height)
	target, ok := c.resolver.Resolve(ndc, c.active)
	if ok != c.hasSelection || target.Model != c.selection.Model {
		logger.Log.Debug("Selection changed", zap.String("label", target.Label.String()), zap.Bool("hit", ok))
	}
	c.selection, c.hasSelection = target, ok
	c.presenter.Present(target, ok)
}

func (c *Controller) begin(next *renderer.Scene) {
	c.setState(FadingOut)
	c.detach()
	c.selection, c.hasSelection = picking.Target{}, false
	c.presenter.Clear()
	c.fader.FadeOut(c.fade)
	// Both steps are timed from the start of the transition.
	c.pending = []*schedule.Task{
		c.scheduler.After(c.fade, func() { c.swap(next) }),
		c.scheduler.After(2*c.fade, c.finish),
	}
}

func (c *Controller) swap(next *renderer.Scene) {
	c.setState(Swapping)
	c.active = next
	c.stage.SetActiveScene(next)
	if err := c.pipeline.Rebuild(); err != nil {
		logger.Log.Error("Pipeline rebuild failed", zap.String("scene", next.Name), zap.Error(err))
	}
	if next == c.interior {
		c.rig.LockInterior()
		c.rig.RelaxInterior()
	} else {
		c.rig.ResetExterior()
	}
	c.back.SetVisible(next == c.interior)

	c.setState(FadingIn)
	c.fader.FadeIn(c.fade)
}

func (c *Controller) finish() {
	c.pending = nil
	c.setState(Idle)
	c.attach()
}

// Close detaches picking and drops any pending timer. It is for shutdown;
// a running transition is never interrupted otherwise.
func (c *Controller) Close() {
	c.detach()
	for _, task := range c.pending {
		if task.Cancel() {
			logger.Log.Debug("Dropped pending transition step", zap.Stringer("state", c.state))
		}
	}
	c.pending = nil
}

func (c *Controller) setState(s State) {
	logger.Log.Info("Transition state",
		zap.Stringer("from", c.state),
		zap.Stringer("to", s),
		zap.String("scene", c.active.Name))
	c.state = s
}

func (c *Controller) attach() {
	if c.attached {
		return
	}
	c.listener = c.pointer.OnPointerMove(c.onPointerMove)
	c.attached = true
}

func (c *Controller) detach() {
	if !c.attached {
		return
	}
	c.pointer.OffPointerMove(c.listener)
	c.attached = false
}
