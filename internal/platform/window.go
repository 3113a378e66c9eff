// Package platform opens the glfw window and OpenGL context the viewer draws into.
package platform

import (
	"fmt"
	"image"

	"github.com/go-gl/glfw/v3.3/glfw"

	"cubeviewer/internal/config"
	"cubeviewer/internal/input"
)

// Window is a glfw window with a current OpenGL 4.1 core context.
type Window struct {
	window *glfw.Window
	events []input.Event

	width, height int
}

// NewWindow initializes glfw and creates the window. It must be called from
// the main thread, which must stay locked for the life of the window.
func NewWindow(cfg config.Window, icons []image.Image) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("GLFW init failed: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window creation failed: %w", err)
	}
	window.MakeContextCurrent()

	if len(icons) > 0 {
		window.SetIcon(icons)
	}
	if cfg.CaptureCursor {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	}
	// The render loop's last cursor position starts at the origin.
	window.SetCursorPos(0, 0)

	w := &Window{window: window}
	w.width, w.height = window.GetFramebufferSize()
	w.setupCallbacks()
	return w, nil
}

func (w *Window) setupCallbacks() {
	w.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
	})

	w.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := mapKey(key)
		if k == input.KeyUnknown {
			return
		}
		w.events = append(w.events, input.Event{Key: k, Action: mapAction(action)})
	})
}

func mapKey(key glfw.Key) input.Key {
	switch key {
	case glfw.KeyW:
		return input.KeyW
	case glfw.KeyA:
		return input.KeyA
	case glfw.KeyS:
		return input.KeyS
	case glfw.KeyD:
		return input.KeyD
	case glfw.KeySpace:
		return input.KeySpace
	case glfw.KeyLeftControl:
		return input.KeyLeftControl
	case glfw.KeyLeftShift:
		return input.KeyLeftShift
	case glfw.KeyEscape:
		return input.KeyEscape
	}
	return input.KeyUnknown
}

func mapAction(action glfw.Action) input.Action {
	switch action {
	case glfw.Press:
		return input.Press
	case glfw.Repeat:
		return input.Repeat
	}
	return input.Release
}

func (w *Window) PollEvents() { glfw.PollEvents() }

// KeyEvents returns and clears the events queued by the key callback.
func (w *Window) KeyEvents() []input.Event {
	events := w.events
	w.events = nil
	return events
}

func (w *Window) CursorPos() (float64, float64) { return w.window.GetCursorPos() }

// Size returns the framebuffer size, which differs from the window size on HiDPI displays.
func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) SwapBuffers() { w.window.SwapBuffers() }

func (w *Window) ShouldClose() bool { return w.window.ShouldClose() }

func (w *Window) SetShouldClose(v bool) { w.window.SetShouldClose(v) }

func (w *Window) SetTitle(title string) { w.window.SetTitle(title) }

// Destroy closes the window and terminates glfw.
func (w *Window) Destroy() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	glfw.Terminate()
}
