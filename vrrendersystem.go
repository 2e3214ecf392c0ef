// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package main

import (
	"github.com/pkg/errors"

	glfw "github.com/go-gl/glfw/v3.1/glfw"

	fizzle "github.com/tbogdala/fizzle"
	graphics "github.com/tbogdala/fizzle/graphicsprovider"
	opengl "github.com/tbogdala/fizzle/graphicsprovider/opengl"
	scene "github.com/tbogdala/fizzle/scene"

	"github.com/tbogdala/vrcube/frameloop"
	"github.com/tbogdala/vrcube/gldevice"
	"github.com/tbogdala/vrcube/openvrrt"
)

const (
	vrRenderSystemPriority = 100.0
	vrRenderSystemName     = "VRRenderSystem"
)

// VRRenderSystem implements fizzle/scene/System and runs one pass of the VR
// frame loop on every Update.
type VRRenderSystem struct {
	MainWindow *glfw.Window

	gfx     graphics.GraphicsProvider
	device  *gldevice.Device
	runtime *openvrrt.Runtime
	loop    *frameloop.Coordinator

	// lastStatus and lastErr are the outcome of the most recent frame.
	lastStatus frameloop.Status
	lastErr    error
}

// NewVRRenderSystem allocates a new VRRenderSystem object.
func NewVRRenderSystem() *VRRenderSystem {
	return new(VRRenderSystem)
}

// GetMainWindow returns the mirror window.
func (rs *VRRenderSystem) GetMainWindow() *glfw.Window {
	return rs.MainWindow
}

// Initialize creates the mirror window and OpenGL context, then starts the
// VR session. The window is resized to the mirror once the session is up.
func (rs *VRRenderSystem) Initialize(windowName string, w int, h int, reporter frameloop.Reporter) error {
	err := rs.initGraphics(windowName, w, h)
	if err != nil {
		return err
	}

	cfg := frameloop.DefaultConfig()
	cfg.Reporter = reporter

	rs.device = gldevice.New(rs.gfx)
	rs.runtime = openvrrt.New(rs.gfx, cfg.Near, cfg.Far)
	rs.loop = frameloop.New(rs.runtime, rs.device, glfwWindow{rs.MainWindow}, cfg)

	if err := rs.loop.Startup(); err != nil {
		return errors.Wrap(err, "failed to start the VR session")
	}
	return nil
}

// initGraphics creates an OpenGL window and initializes the required graphics libraries.
func (rs *VRRenderSystem) initGraphics(title string, w int, h int) error {
	// GLFW must be initialized before it's called
	err := glfw.Init()
	if err != nil {
		return errors.Wrap(err, "failed to initialize GLFW")
	}

	// request a OpenGL 3.3 core context
	glfw.WindowHint(glfw.Samples, 0)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// do the actual window creation
	rs.MainWindow, err = glfw.CreateWindow(w, h, title, nil, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create the main window")
	}
	rs.MainWindow.MakeContextCurrent()

	// vsync off, the compositor paces the frames
	glfw.SwapInterval(0)

	// initialize OpenGL
	rs.gfx, err = opengl.InitOpenGL()
	if err != nil {
		return errors.Wrap(err, "failed to initialize OpenGL")
	}
	fizzle.SetGraphics(rs.gfx)

	return nil
}

// LastFrame returns the outcome of the most recent Update.
func (rs *VRRenderSystem) LastFrame() (frameloop.Status, error) {
	return rs.lastStatus, rs.lastErr
}

// GetRequestedPriority returns the requested priority level for the System
// which may be of significance to a Manager if they want to order Update() calls.
func (rs *VRRenderSystem) GetRequestedPriority() float32 {
	return vrRenderSystemPriority
}

// GetName returns the name of the system that can be used to identify
// the System within Manager.
func (rs *VRRenderSystem) GetName() string {
	return vrRenderSystemName
}

// OnAddEntity should get called by the scene Manager each time a new entity
// has been added to the scene. The cube is drawn by the frame loop itself.
func (rs *VRRenderSystem) OnAddEntity(newEntity scene.Entity) {}

// OnRemoveEntity should get called by the scene Manager each time an entity
// has been removed from the scene.
func (rs *VRRenderSystem) OnRemoveEntity(oldEntity scene.Entity) {}

// Update runs one frame. A fatal frame has already shut the session down, so
// the window is flagged to close.
func (rs *VRRenderSystem) Update(frameDelta float32) {
	if rs.loop == nil {
		return
	}
	rs.lastStatus, rs.lastErr = rs.loop.Frame(frameDelta)
	if rs.lastStatus == frameloop.StatusFatal {
		rs.MainWindow.SetShouldClose(true)
	}
}

// Destroy shuts the session down, then flushes GL and releases the window
// and its context.
func (rs *VRRenderSystem) Destroy() {
	if rs.loop != nil {
		rs.loop.Shutdown()
	}
	if rs.device != nil {
		rs.device.Finish()
	}
	if rs.MainWindow != nil {
		glfw.DetachCurrentContext()
		rs.MainWindow.Destroy()
		rs.MainWindow = nil
	}
	glfw.Terminate()
}

// glfwWindow adapts a glfw window to frameloop.Window.
type glfwWindow struct {
	w *glfw.Window
}

func (gw glfwWindow) Resize(w, h int) { gw.w.SetSize(w, h) }
func (gw glfwWindow) SwapBuffers()    { gw.w.SwapBuffers() }
