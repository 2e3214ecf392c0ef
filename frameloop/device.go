// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Device is the graphics boundary used by the coordinator.
type Device interface {
	// Init compiles the mesh program and uploads the mesh buffers.
	Init(mesh *Mesh, vertexShader, fragmentShader string) error
	// Release deletes what Init created. Safe to call when Init failed.
	Release()

	CreateDepthBuffer(size Size) (Handle, error)
	DeleteDepthBuffer(h Handle)

	// SetAndClearRenderSurface binds color and depth as the draw target and
	// clears both.
	SetAndClearRenderSurface(color TextureID, depth Handle, size Size, clear mgl.Vec4)
	UnsetRenderSurface()
	DrawMesh(viewProj, world mgl.Mat4)

	CreateReadFramebuffer(tex TextureID) (Handle, error)
	DeleteFramebuffer(h Handle)
	// BlitToBackbuffer copies the color attachment of fb into the window.
	BlitToBackbuffer(fb Handle, src, dst Rect)
}

// Window is the desktop window showing the mirror.
type Window interface {
	Resize(w, h int)
	SwapBuffers()
}

// Reporter surfaces fatal errors to the user.
type Reporter interface {
	ReportFatal(title, message string)
}

type nopReporter struct{}

func (nopReporter) ReportFatal(string, string) {}
