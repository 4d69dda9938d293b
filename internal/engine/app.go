package engine

import (
	"fmt"
	"runtime"

	"Isle3D/internal/config"
	"Isle3D/internal/input"
	"Isle3D/internal/loader"
	"Isle3D/internal/logger"
	"Isle3D/internal/picking"
	"Isle3D/internal/presenter"
	"Isle3D/internal/renderer"
	"Isle3D/internal/schedule"
	"Isle3D/internal/transition"
	"Isle3D/internal/ui"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// App owns the window and every long-lived object of the viewer. All fields
// are touched only from the render thread.
type App struct {
	cfg        config.Config
	configPath string

	window    *glfw.Window
	camera    *renderer.Camera
	controls  *renderer.OrbitControls
	scenes    *renderer.SceneRenderer
	pipeline  *renderer.Pipeline
	overlay   *renderer.Overlay
	resizer   *Resizer
	exterior  *renderer.Scene
	interior  *renderer.Scene
	panels    *ui.Panels
	back      *ui.BackButton
	fader     *ui.Fader
	input     *input.Dispatcher
	scheduler *schedule.Scheduler
	assets    *loader.Async
	watcher   *config.Watcher
	ctrl      *transition.Controller
}

// New prepares an App. configPath is watched for description edits; pass ""
// to disable hot reload.
func New(cfg config.Config, configPath string) *App {
	return &App{cfg: cfg, configPath: configPath}
}

// Run opens the window and blocks until it is closed.
func (app *App) Run() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(app.cfg.Window.Width), int(app.cfg.Window.Height), app.cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	app.window = window
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init opengl: %w", err)
	}
	glfw.SwapInterval(1)
	logger.Log.Info("OpenGL ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	applyTitleBarColor(window, mgl32.Vec3(app.cfg.Window.ClearColor))
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)

	if err := app.setup(); err != nil {
		return err
	}
	defer app.dispose()

	app.RenderLoop()
	return nil
}

func (app *App) setup() error {
	fbWidth, fbHeight := app.window.GetFramebufferSize()

	app.camera = renderer.NewDefaultCamera(int32(fbWidth), int32(fbHeight))
	app.camera.Position = mgl32.Vec3(app.cfg.Exterior.CameraPosition)
	app.camera.LookAt(mgl32.Vec3{})
	// Records the exterior viewpoint that every return trip restores.
	app.controls = renderer.NewOrbitControls(app.camera)

	app.scenes = renderer.NewSceneRenderer()
	if err := app.scenes.Init(); err != nil {
		return fmt.Errorf("scene shaders: %w", err)
	}
	app.pipeline = renderer.NewPipeline(app.camera, app.scenes, outlineStyle(app.cfg.Outline), int32(fbWidth), int32(fbHeight))
	app.overlay = renderer.NewOverlay()
	app.resizer = &Resizer{Camera: app.camera, Viewport: renderer.UpdateViewport, Pipeline: app.pipeline}
	app.resizer.Resize(fbWidth, fbHeight)

	app.panels = ui.NewPanels(app.cfg.Description)
	app.back = ui.NewBackButton()
	app.fader = ui.NewFader(mgl32.Vec3(app.cfg.Transition.FadeColor))

	app.input = input.NewDispatcher(app.window.GetSize)
	app.input.Bind(app.window)
	app.scheduler = schedule.New(schedule.SystemClock)

	app.exterior = NewExterior(app.cfg)
	app.interior = NewInterior(app.cfg)
	app.assets = loader.NewAsync()
	var exteriorProps, interiorProps func() []*renderer.Model
	if app.cfg.PlaceholderProps {
		exteriorProps, interiorProps = ExteriorProps, InteriorProps
	}
	populate(app.assets, app.exterior, app.cfg.Exterior.Asset, exteriorProps)
	populate(app.assets, app.interior, app.cfg.Interior.Asset, interiorProps)

	app.ctrl = transition.New(transition.Options{
		Exterior:     app.exterior,
		Interior:     app.interior,
		Resolver:     picking.NewResolver(app.camera),
		Presenter:    presenter.New(app.pipeline, app.panels),
		Stage:        app.pipeline,
		Pipeline:     app.pipeline,
		Rig:          NewOrbitRig(app.controls, app.cfg.Interior),
		Fader:        app.fader,
		Back:         app.back,
		Pointer:      app.input,
		Scheduler:    app.scheduler,
		FadeDuration: app.cfg.Transition.Fade,
	})
	if err := app.ctrl.Start(); err != nil {
		return err
	}

	app.bindControls()
	app.watchConfig()
	return nil
}

// bindControls wires navigation, clicks and the back key. Picking
// itself is attached by the transition controller.
func (app *App) bindControls() {
	bindNavigation(app.input, app.controls, app.ctrl)
	app.input.OnClick(func(ev input.ClickEvent) {
		if ev.Button != glfw.MouseButtonLeft {
			return
		}
		if app.back.Contains(ev.X, ev.Y) {
			app.ctrl.Back()
			return
		}
		app.ctrl.HandleClick()
	})
	app.input.OnKey(func(ev input.KeyEvent) {
		if ev.Key == glfw.KeyEscape && ev.Action == glfw.Press {
			app.ctrl.Back()
		}
	})
	app.input.OnResize(func(ev input.ResizeEvent) {
		app.resizer.Resize(ev.Width, ev.Height)
	})
}

// bindNavigation wires right-drag orbiting and scroll dollying. Both are
// ignored while a transition runs.
func bindNavigation(d *input.Dispatcher, controls *renderer.OrbitControls, ctrl *transition.Controller) {
	d.OnPointerMove(func(ev input.PointerEvent) {
		if ev.Right && ctrl.State() == transition.Idle {
			controls.Rotate(float32(ev.DX), float32(ev.DY), int32(ev.Height))
		}
	})
	d.OnScroll(func(ev input.ScrollEvent) {
		if ctrl.State() == transition.Idle {
			controls.Dolly(float32(ev.DY))
		}
	})
}

func (app *App) watchConfig() {
	if app.configPath == "" {
		return
	}
	w, err := config.Watch(app.configPath)
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		return
	}
	app.watcher = w
}

func (app *App) applyConfigUpdates() {
	if app.watcher == nil {
		return
	}
	select {
	case cfg := <-app.watcher.Updates():
		app.panels.SetText(cfg.Description)
	default:
	}
}

func (app *App) RenderLoop() {
	lastTime := glfw.GetTime()

	for !app.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		app.scheduler.Poll()
		app.assets.Drain()
		app.applyConfigUpdates()
		app.fader.Update(float32(deltaTime))
		app.controls.Update()

		app.pipeline.Render()

		width, height := app.window.GetSize()
		w, h := int32(width), int32(height)
		if app.overlay.Begin(w, h) {
			app.panels.Draw(app.overlay, w, h)
			app.back.Draw(app.overlay)
			app.fader.Draw(app.overlay, w, h)
			app.overlay.End()
		}

		app.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (app *App) dispose() {
	app.ctrl.Close()
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			logger.Log.Warn("Closing config watcher", zap.Error(err))
		}
	}
	app.panels.Dispose()
	app.back.Dispose()
	ui.Textures.LogStats()
	ui.Textures.Clear()
	app.overlay.Dispose()
	app.pipeline.Dispose()
	for _, scene := range []*renderer.Scene{app.exterior, app.interior} {
		for _, m := range scene.Children() {
			renderer.ReleaseModel(m)
		}
	}
	app.scenes.Cleanup()
	logger.Log.Info("Isle3D shut down")
}

func outlineStyle(c config.Outline) renderer.OutlineStyle {
	return renderer.OutlineStyle{
		EdgeStrength:     c.EdgeStrength,
		EdgeGlow:         c.EdgeGlow,
		EdgeThickness:    c.EdgeThickness,
		VisibleEdgeColor: mgl32.Vec3(c.VisibleEdgeColor),
		HiddenEdgeColor:  mgl32.Vec3(c.HiddenEdgeColor),
	}
}
