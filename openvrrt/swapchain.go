// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package openvrrt

import (
	graphics "github.com/tbogdala/fizzle/graphicsprovider"
	fizzlevr "github.com/tbogdala/openvr-go/util/fizzlevr"

	"github.com/tbogdala/vrcube/frameloop"
)

// swapChain is a two slot ring of eye framebuffers. The slot not being drawn
// holds the last committed image.
type swapChain struct {
	gfx      graphics.GraphicsProvider
	eye      frameloop.Eye
	size     frameloop.Size
	slots    [2]*fizzlevr.EyeFramebuffer
	current  int
	hasFrame bool
}

// CreateSwapChain allocates a ring of two render targets for eye.
func (rt *Runtime) CreateSwapChain(eye frameloop.Eye, size frameloop.Size) (frameloop.SwapChain, frameloop.Result) {
	if size.W <= 0 || size.H <= 0 {
		return nil, rt.fail(frameloop.ResultInvalidParameter, "invalid swap chain size %dx%d", size.W, size.H)
	}

	// a stereo pair of identical targets makes the two slots of one ring
	a, b := fizzlevr.CreateStereoRenderTargets(uint32(size.W), uint32(size.H))
	if a == nil || b == nil {
		return nil, rt.fail(frameloop.ResultTextureSwapChainFailed, "failed to create the %s eye render targets", eye)
	}
	// the device draws straight into the resolve textures
	releaseMultisample(rt.gfx, a)
	releaseMultisample(rt.gfx, b)
	return &swapChain{
		gfx:   rt.gfx,
		eye:   eye,
		size:  size,
		slots: [2]*fizzlevr.EyeFramebuffer{a, b},
	}, frameloop.ResultSuccess
}

func (sc *swapChain) CurrentTexture() frameloop.TextureID {
	return frameloop.TextureID(sc.slots[sc.current].ResolveTexture)
}

func (sc *swapChain) Size() frameloop.Size { return sc.size }

func (sc *swapChain) Commit() frameloop.Result {
	sc.current = (sc.current + 1) % len(sc.slots)
	sc.hasFrame = true
	return frameloop.ResultSuccess
}

// committed returns the slot last handed over by Commit.
func (sc *swapChain) committed() *fizzlevr.EyeFramebuffer {
	if !sc.hasFrame {
		return sc.slots[sc.current]
	}
	return sc.slots[(sc.current+1)%len(sc.slots)]
}

// glDeleter is the part of graphics.GraphicsProvider that frees targets.
type glDeleter interface {
	DeleteFramebuffer(fbo graphics.Buffer)
	DeleteTexture(tex graphics.Texture)
	DeleteRenderbuffer(rbo graphics.Buffer)
}

// releaseMultisample frees the multisampled half of fb and zeroes its names.
func releaseMultisample(gfx glDeleter, fb *fizzlevr.EyeFramebuffer) {
	if fb.RenderFramebuffer != 0 {
		gfx.DeleteFramebuffer(fb.RenderFramebuffer)
		fb.RenderFramebuffer = 0
	}
	if fb.RenderTexture != 0 {
		gfx.DeleteTexture(fb.RenderTexture)
		fb.RenderTexture = 0
	}
	if fb.DepthBuffer != 0 {
		gfx.DeleteRenderbuffer(fb.DepthBuffer)
		fb.DepthBuffer = 0
	}
}

func (sc *swapChain) Destroy() {
	for i, fb := range sc.slots {
		if fb == nil {
			continue
		}
		releaseMultisample(sc.gfx, fb)
		sc.gfx.DeleteFramebuffer(fb.ResolveFramebuffer)
		sc.gfx.DeleteTexture(fb.ResolveTexture)
		sc.slots[i] = nil
	}
}

// mirrorTexture shows both eyes side by side.
type mirrorTexture struct {
	gfx     graphics.GraphicsProvider
	size    frameloop.Size
	texture graphics.Texture
	fbo     graphics.Buffer
}

// CreateMirrorTexture allocates the mirror texture and its draw framebuffer.
func (rt *Runtime) CreateMirrorTexture(size frameloop.Size) (frameloop.MirrorTexture, frameloop.Result) {
	if size.W <= 0 || size.H <= 0 {
		return nil, rt.fail(frameloop.ResultInvalidParameter, "invalid mirror size %dx%d", size.W, size.H)
	}
	gfx := rt.gfx

	tex := gfx.GenTexture()
	gfx.BindTexture(graphics.TEXTURE_2D, tex)
	gfx.TexImage2D(graphics.TEXTURE_2D, 0, graphics.RGBA8, size.W, size.H, 0, graphics.RGBA, graphics.UNSIGNED_BYTE, nil, 0)
	gfx.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, graphics.LINEAR)
	gfx.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, graphics.LINEAR)
	gfx.BindTexture(graphics.TEXTURE_2D, 0)

	fbo := gfx.GenFramebuffer()
	gfx.BindFramebuffer(graphics.DRAW_FRAMEBUFFER, fbo)
	gfx.FramebufferTexture2D(graphics.DRAW_FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, graphics.TEXTURE_2D, tex, 0)
	status := gfx.CheckFramebufferStatus(graphics.DRAW_FRAMEBUFFER)
	gfx.BindFramebuffer(graphics.DRAW_FRAMEBUFFER, 0)
	if status != graphics.FRAMEBUFFER_COMPLETE {
		gfx.DeleteFramebuffer(fbo)
		gfx.DeleteTexture(tex)
		return nil, rt.fail(frameloop.ResultError, "mirror framebuffer incomplete (status 0x%x)", status)
	}

	rt.mirror = &mirrorTexture{gfx: gfx, size: size, texture: tex, fbo: fbo}
	return rt.mirror, frameloop.ResultSuccess
}

func (m *mirrorTexture) Texture() frameloop.TextureID { return frameloop.TextureID(m.texture) }

func (m *mirrorTexture) Size() frameloop.Size { return m.size }

// update blits each eye's committed image into its half of the mirror.
func (m *mirrorTexture) update(chains [frameloop.EyeCount]*swapChain) {
	if m.fbo == 0 {
		return
	}
	gfx := m.gfx
	half := m.size.W / 2
	gfx.BindFramebuffer(graphics.DRAW_FRAMEBUFFER, m.fbo)
	for i, sc := range chains {
		src := sc.committed()
		x0 := int32(i) * half
		gfx.BindFramebuffer(graphics.READ_FRAMEBUFFER, src.ResolveFramebuffer)
		gfx.BlitFramebuffer(0, 0, sc.size.W, sc.size.H, x0, 0, x0+half, m.size.H, graphics.COLOR_BUFFER_BIT, graphics.LINEAR)
	}
	gfx.BindFramebuffer(graphics.READ_FRAMEBUFFER, 0)
	gfx.BindFramebuffer(graphics.DRAW_FRAMEBUFFER, 0)
}

func (m *mirrorTexture) Destroy() {
	if m.fbo != 0 {
		m.gfx.DeleteFramebuffer(m.fbo)
		m.fbo = 0
	}
	if m.texture != 0 {
		m.gfx.DeleteTexture(m.texture)
		m.texture = 0
	}
}
