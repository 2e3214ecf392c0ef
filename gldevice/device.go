// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

// Package gldevice implements the frameloop graphics boundary with fizzle's
// OpenGL graphics provider.
package gldevice

import (
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	fizzle "github.com/tbogdala/fizzle"
	graphics "github.com/tbogdala/fizzle/graphicsprovider"

	"github.com/tbogdala/vrcube/frameloop"
)

var _ frameloop.Device = (*Device)(nil)

// Device draws the cube mesh into eye targets and blits the mirror.
type Device struct {
	gfx graphics.GraphicsProvider

	shader     *fizzle.RenderShader
	vpLoc      int32
	worldLoc   int32
	vao        uint32
	posBuf     graphics.Buffer
	colBuf     graphics.Buffer
	idxBuf     graphics.Buffer
	indexCount int32

	// drawFbo is the framebuffer eye textures get attached to.
	drawFbo graphics.Buffer
}

// New returns a Device on gfx. The GL context must be current.
func New(gfx graphics.GraphicsProvider) *Device {
	return &Device{gfx: gfx}
}

// Init compiles the shader program and uploads the mesh once.
func (d *Device) Init(mesh *frameloop.Mesh, vertexShader, fragmentShader string) error {
	gfx := d.gfx

	shader, err := fizzle.LoadShaderProgram(vertexShader, fragmentShader, nil)
	if err != nil {
		return errors.Wrap(err, "failed to compile and link the cube shader program")
	}
	d.shader = shader
	d.vpLoc = shader.GetUniformLocation(frameloop.UniformViewProject)
	d.worldLoc = shader.GetUniformLocation(frameloop.UniformWorld)
	posLoc := shader.GetAttribLocation(frameloop.AttribPosition)
	colLoc := shader.GetAttribLocation(frameloop.AttribColor)
	if posLoc < 0 || colLoc < 0 {
		return errors.Errorf("cube shader is missing attributes (position=%d, color=%d)", posLoc, colLoc)
	}

	positions := make([]float32, 0, len(mesh.Vertices)*3)
	for _, v := range mesh.Vertices {
		positions = append(positions, v[0], v[1], v[2])
	}
	colors := make([]float32, 0, len(mesh.Colors)*4)
	for _, c := range mesh.Colors {
		colors = append(colors, c[0], c[1], c[2], c[3])
	}

	d.vao = gfx.GenVertexArray()
	gfx.BindVertexArray(d.vao)

	const floatSize = 4
	d.colBuf = gfx.GenBuffer()
	gfx.BindBuffer(graphics.ARRAY_BUFFER, d.colBuf)
	gfx.BufferData(graphics.ARRAY_BUFFER, floatSize*len(colors), gfx.Ptr(&colors[0]), graphics.STATIC_DRAW)
	gfx.EnableVertexAttribArray(uint32(colLoc))
	gfx.VertexAttribPointer(uint32(colLoc), 4, graphics.FLOAT, false, 0, gfx.PtrOffset(0))

	d.posBuf = gfx.GenBuffer()
	gfx.BindBuffer(graphics.ARRAY_BUFFER, d.posBuf)
	gfx.BufferData(graphics.ARRAY_BUFFER, floatSize*len(positions), gfx.Ptr(&positions[0]), graphics.STATIC_DRAW)
	gfx.EnableVertexAttribArray(uint32(posLoc))
	gfx.VertexAttribPointer(uint32(posLoc), 3, graphics.FLOAT, false, 0, gfx.PtrOffset(0))

	d.idxBuf = gfx.GenBuffer()
	gfx.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, d.idxBuf)
	gfx.BufferData(graphics.ELEMENT_ARRAY_BUFFER, 4*len(mesh.Indices), gfx.Ptr(&mesh.Indices[0]), graphics.STATIC_DRAW)
	d.indexCount = int32(len(mesh.Indices))

	gfx.BindVertexArray(0)

	d.drawFbo = gfx.GenFramebuffer()
	gfx.Enable(graphics.DEPTH_TEST)

	frameloop.Logger().Debug("cube mesh uploaded", "vertices", len(mesh.Vertices), "indices", len(mesh.Indices))
	return nil
}

// Release deletes the program, buffers and draw framebuffer.
func (d *Device) Release() {
	gfx := d.gfx
	if d.drawFbo != 0 {
		gfx.DeleteFramebuffer(d.drawFbo)
		d.drawFbo = 0
	}
	for _, b := range []*graphics.Buffer{&d.posBuf, &d.colBuf, &d.idxBuf} {
		if *b != 0 {
			gfx.DeleteBuffer(*b)
			*b = 0
		}
	}
	if d.vao != 0 {
		gfx.DeleteVertexArray(d.vao)
		d.vao = 0
	}
	if d.shader != nil {
		d.shader.Destroy()
		d.shader = nil
	}
}

// CreateDepthBuffer allocates a depth renderbuffer of size.
func (d *Device) CreateDepthBuffer(size frameloop.Size) (frameloop.Handle, error) {
	gfx := d.gfx
	rb := gfx.GenRenderbuffer()
	if rb == 0 {
		return 0, errors.New("glGenRenderbuffers returned 0")
	}
	gfx.BindRenderbuffer(graphics.RENDERBUFFER, rb)
	gfx.RenderbufferStorage(graphics.RENDERBUFFER, graphics.DEPTH_COMPONENT24, size.W, size.H)
	gfx.BindRenderbuffer(graphics.RENDERBUFFER, 0)
	return frameloop.Handle(rb), nil
}

// DeleteDepthBuffer frees a renderbuffer from CreateDepthBuffer.
func (d *Device) DeleteDepthBuffer(h frameloop.Handle) {
	d.gfx.DeleteRenderbuffer(graphics.Buffer(h))
}

// SetAndClearRenderSurface attaches color and depth to the draw framebuffer,
// binds it and clears it.
func (d *Device) SetAndClearRenderSurface(color frameloop.TextureID, depth frameloop.Handle, size frameloop.Size, clear mgl.Vec4) {
	gfx := d.gfx
	gfx.BindFramebuffer(graphics.FRAMEBUFFER, d.drawFbo)
	gfx.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, graphics.TEXTURE_2D, graphics.Texture(color), 0)
	gfx.FramebufferRenderbuffer(graphics.FRAMEBUFFER, graphics.DEPTH_ATTACHMENT, graphics.RENDERBUFFER, graphics.Buffer(depth))

	gfx.Viewport(0, 0, size.W, size.H)
	gfx.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gfx.Clear(graphics.COLOR_BUFFER_BIT | graphics.DEPTH_BUFFER_BIT)
	gfx.Enable(graphics.DEPTH_TEST)
}

// UnsetRenderSurface detaches the eye texture so the runtime can take it.
func (d *Device) UnsetRenderSurface() {
	gfx := d.gfx
	gfx.BindFramebuffer(graphics.FRAMEBUFFER, d.drawFbo)
	gfx.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, graphics.TEXTURE_2D, 0, 0)
	gfx.FramebufferRenderbuffer(graphics.FRAMEBUFFER, graphics.DEPTH_ATTACHMENT, graphics.RENDERBUFFER, 0)
	gfx.BindFramebuffer(graphics.FRAMEBUFFER, 0)
}

// DrawMesh issues one indexed draw of the mesh.
func (d *Device) DrawMesh(viewProj, world mgl.Mat4) {
	gfx := d.gfx
	gfx.UseProgram(d.shader.Prog)
	gfx.UniformMatrix4fv(d.vpLoc, 1, false, viewProj)
	gfx.UniformMatrix4fv(d.worldLoc, 1, false, world)

	// the vao keeps the attribute and index buffer bindings
	gfx.BindVertexArray(d.vao)
	gfx.DrawElements(graphics.TRIANGLES, d.indexCount, graphics.UNSIGNED_INT, gfx.PtrOffset(0))
	gfx.BindVertexArray(0)
	gfx.UseProgram(0)
}

// CreateReadFramebuffer wraps tex in a framebuffer usable as a blit source.
func (d *Device) CreateReadFramebuffer(tex frameloop.TextureID) (frameloop.Handle, error) {
	gfx := d.gfx
	fbo := gfx.GenFramebuffer()
	gfx.BindFramebuffer(graphics.READ_FRAMEBUFFER, fbo)
	gfx.FramebufferTexture2D(graphics.READ_FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, graphics.TEXTURE_2D, graphics.Texture(tex), 0)
	gfx.FramebufferRenderbuffer(graphics.READ_FRAMEBUFFER, graphics.DEPTH_ATTACHMENT, graphics.RENDERBUFFER, 0)
	status := gfx.CheckFramebufferStatus(graphics.READ_FRAMEBUFFER)
	gfx.BindFramebuffer(graphics.READ_FRAMEBUFFER, 0)
	if status != graphics.FRAMEBUFFER_COMPLETE {
		gfx.DeleteFramebuffer(fbo)
		return 0, errors.Errorf("mirror framebuffer incomplete (status 0x%x)", status)
	}
	return frameloop.Handle(fbo), nil
}

// DeleteFramebuffer frees a framebuffer from CreateReadFramebuffer.
func (d *Device) DeleteFramebuffer(h frameloop.Handle) {
	d.gfx.DeleteFramebuffer(graphics.Buffer(h))
}

// BlitToBackbuffer copies fb's color attachment into the window's back buffer.
func (d *Device) BlitToBackbuffer(fb frameloop.Handle, src, dst frameloop.Rect) {
	gfx := d.gfx
	gfx.BindFramebuffer(graphics.READ_FRAMEBUFFER, graphics.Buffer(fb))
	gfx.BindFramebuffer(graphics.DRAW_FRAMEBUFFER, 0)
	gfx.BlitFramebuffer(src.X0, src.Y0, src.X1, src.Y1, dst.X0, dst.Y0, dst.X1, dst.Y1, graphics.COLOR_BUFFER_BIT, graphics.NEAREST)
	gfx.BindFramebuffer(graphics.READ_FRAMEBUFFER, 0)
}

// Finish blocks until all issued GL commands have completed.
func (d *Device) Finish() {
	d.gfx.BindTexture(graphics.TEXTURE_2D, 0)
	d.gfx.Finish()
}
