package app

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"cubeviewer/internal/camera"
	"cubeviewer/internal/config"
	"cubeviewer/internal/gpu"
	"cubeviewer/internal/input"
	"cubeviewer/internal/logging"
	"cubeviewer/internal/renderer"
	"cubeviewer/pkg/cube"
)

// Window is the platform window the render loop drives. All methods are
// called from the thread that created it.
type Window interface {
	PollEvents()
	// KeyEvents returns the key events queued since the last call.
	KeyEvents() []input.Event
	CursorPos() (x, y float64)
	// Size returns the framebuffer size in pixels.
	Size() (width, height int)
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(bool)
	SetTitle(string)
}

type App struct {
	window   Window
	renderer *renderer.Renderer
	camera   *camera.Camera
	keys     input.State

	// Cursor position seen on the previous frame. The window resets the
	// cursor to the origin when it is captured, so both start at zero.
	lastX, lastY float64

	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New builds the renderer for the unit cube on ctx and sets up the camera
// from cfg. texture is uploaded as the cube's texture.
func New(window Window, ctx gpu.Context, cfg *config.Config, texture *image.RGBA, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	width, height := window.Size()
	r, err := renderer.NewRenderer(ctx, cube.Unit(), renderer.Options{
		VertexShader:   cfg.Assets.VertexShader,
		FragmentShader: cfg.Assets.FragmentShader,
		Texture:        texture,
		ClearColor:     cfg.Rendering.ClearColor,
		CullFaces:      cfg.Rendering.CullFaces,
		Width:          width,
		Height:         height,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer creation failed: %w", err)
	}

	app := &App{
		window:   window,
		renderer: r,
		camera:   camera.New(cfg.Camera.Position, cfg.Camera.Up, cfg.Camera.Front, cfg.Camera.Sensitivity),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}

	logger.Info("renderer ready", "width", width, "height", height, "indices", cube.VertexCount)
	return app, nil
}

// Camera returns the camera driven by the loop.
func (app *App) Camera() *camera.Camera {
	return app.camera
}

func (app *App) frame() {
	app.window.PollEvents()

	x, y := app.window.CursorPos()
	app.camera.ProcessMouseMovement(x-app.lastX, y-app.lastY)
	app.lastX, app.lastY = x, y

	app.keys.Apply(app.window.KeyEvents())
	if move(app.camera, &app.keys, app.cfg.Camera.MoveStep) {
		app.window.SetShouldClose(true)
	}

	width, height := app.window.Size()
	app.renderer.Resize(width, height)

	projection := camera.Perspective(
		camera.Aspect(width, height),
		app.cfg.Projection.FOV,
		app.cfg.Projection.Near,
		app.cfg.Projection.Far,
	)
	app.renderer.Render(app.camera.ViewMatrix(), projection)

	app.window.SwapBuffers()
}

// Run drives frames until the window is asked to close.
func (app *App) Run() error {
	lastTime := app.now()
	frames := 0

	for !app.window.ShouldClose() {
		app.frame()

		frames++
		if elapsed := app.now().Sub(lastTime); elapsed >= time.Second {
			app.window.SetTitle(fmt.Sprintf("%s | FPS: %d", app.cfg.Window.Title, frames))
			app.logger.Debug("frame stats", "frames", frames, "elapsed", elapsed, "position", app.camera.Position)
			frames = 0
			lastTime = app.now()
		}
	}

	return nil
}

// Cleanup releases the GPU resources. The window is owned by the caller.
func (app *App) Cleanup() {
	if app.renderer != nil {
		app.renderer.Release()
	}
}
