// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

// Package frameloop drives one VR session: startup, one call to Frame per
// display refresh, and an ordered shutdown.
//
// The Coordinator owns every runtime and GPU handle it creates and is used
// from a single thread. Runtime calls are checked; a failure tears the session
// down before the error is returned to the caller. The one non-fatal outcome is
// a frame the compositor reports as not visible.
package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// State is the lifecycle state of a Coordinator.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return "terminated"
	}
}

// eyeTarget is one eye's color swap chain and depth buffer.
type eyeTarget struct {
	chain SwapChain
	depth Handle
}

// Coordinator holds the owned state of one session.
type Coordinator struct {
	rt  Runtime
	dev Device
	win Window
	cfg Config

	state State

	runtimeUp bool
	sessionUp bool
	meshUp    bool

	hmd        HMDInfo
	eyes       [EyeCount]eyeTarget
	mirror     MirrorTexture
	mirrorFbo  Handle
	mirrorSize Size

	layer    LayerEyeFov
	layerSet bool

	// per-frame buffers, reused
	renderDesc [EyeCount]EyeRenderDesc
	offsets    [EyeCount]mgl.Vec3
	poses      [EyeCount]Pose

	frameIndex int64
	elapsed    float32
	visible    bool
}

// New returns a Coordinator in StateUninitialized. A nil cfg.Reporter
// discards fatal reports.
func New(rt Runtime, dev Device, win Window, cfg Config) *Coordinator {
	if cfg.Reporter == nil {
		cfg.Reporter = nopReporter{}
	}
	return &Coordinator{
		rt:      rt,
		dev:     dev,
		win:     win,
		cfg:     cfg,
		visible: true,
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State { return c.state }

// FrameIndex returns the index the next frame will use.
func (c *Coordinator) FrameIndex() int64 { return c.frameIndex }

// Visible reports whether the next frame will be drawn.
func (c *Coordinator) Visible() bool { return c.visible }

// Elapsed returns the accumulated animation time in seconds.
func (c *Coordinator) Elapsed() float32 { return c.elapsed }

// MirrorSize returns the size of the mirror texture once started.
func (c *Coordinator) MirrorSize() Size { return c.mirrorSize }

// HMD returns the display description once started.
func (c *Coordinator) HMD() HMDInfo { return c.hmd }

// Startup initializes the runtime, opens the session and allocates the eye
// and mirror targets. On failure everything partially built is released and
// the coordinator ends in StateTerminated.
func (c *Coordinator) Startup() error {
	if c.state != StateUninitialized {
		return errors.Errorf("startup called in state %s", c.state)
	}
	if err := c.startup(); err != nil {
		c.Shutdown()
		return err
	}
	c.setState(StateRunning)
	return nil
}

func (c *Coordinator) startup() error {
	if err := c.dev.Init(&CubeMesh, VertexShader, FragmentShader); err != nil {
		c.meshUp = true // Release copes with a partial Init
		err = errors.Wrap(err, "failed to initialize the cube mesh")
		c.fatal("Failed to initialize the cube mesh", err)
		return err
	}
	c.meshUp = true

	if r := c.rt.Initialize(InitParams{Flags: InitDebug}); r.Failed() {
		return c.failWith(r, "Uh oh", ErrRuntimeAbsent)
	}
	c.runtimeUp = true

	hmd, r := c.rt.CreateSession()
	if r.Failed() {
		return c.failWith(r, "Uh oh", ErrHMDNotDetected)
	}
	c.sessionUp = true
	if hmd.ProductName == "" {
		c.fatal("There's a tear in the Rift", ErrHMDDisabled)
		return ErrHMDDisabled
	}
	c.hmd = hmd
	Logger().Info("vr session created", "product", hmd.ProductName, "runtime", c.rt.Version(),
		"resolution_w", hmd.Resolution.W, "resolution_h", hmd.Resolution.H)

	for i := 0; i < EyeCount; i++ {
		eye := Eye(i)
		size := c.rt.FovTextureSize(eye, hmd.DefaultEyeFov[i], 1)
		chain, r := c.rt.CreateSwapChain(eye, size)
		if err := c.checkResult(r, "Failed to create the "+eye.String()+" eye swap chain"); err != nil {
			return err
		}
		c.eyes[i].chain = chain

		depth, err := c.dev.CreateDepthBuffer(chain.Size())
		if err != nil {
			err = errors.Wrapf(err, "failed to create the %s eye depth buffer", eye)
			c.fatal("Failed to create depth buffer", err)
			return err
		}
		c.eyes[i].depth = depth
		Logger().Info("eye target allocated", "eye", eye.String(), "w", chain.Size().W, "h", chain.Size().H)
	}

	mirrorSize := Size{
		W: int32(float32(hmd.Resolution.W) * c.cfg.MirrorScale),
		H: int32(float32(hmd.Resolution.H) * c.cfg.MirrorScale),
	}
	mirror, r := c.rt.CreateMirrorTexture(mirrorSize)
	if err := c.checkResult(r, "Failed to create mirror texture"); err != nil {
		return err
	}
	c.mirror = mirror
	c.mirrorSize = mirror.Size()

	c.layer = LayerEyeFov{Flags: LayerTextureOriginAtBottomLeft}
	c.layerSet = true

	fbo, err := c.dev.CreateReadFramebuffer(mirror.Texture())
	if err != nil {
		err = errors.Wrap(err, "failed to retrieve the texture from the created mirror texture buffer")
		c.fatal("Failed to create mirror framebuffer", err)
		return err
	}
	c.mirrorFbo = fbo
	c.win.Resize(int(c.mirrorSize.W), int(c.mirrorSize.H))

	r = c.rt.SetTrackingOrigin(c.cfg.TrackingOrigin)
	if err := c.checkResult(r, "Failed to set tracking origin type"); err != nil {
		return err
	}
	Logger().Info("tracking origin set", "origin", c.cfg.TrackingOrigin.String())
	return nil
}

// Frame runs one pass of the frame loop. frameDelta is the wall-clock time
// since the previous frame in seconds.
//
// A StatusFatal result means the session has already been shut down.
func (c *Coordinator) Frame(frameDelta float32) (Status, error) {
	if c.state != StateRunning {
		return StatusFatal, ErrNotRunning
	}
	status, err := c.frame(frameDelta)
	if err != nil {
		Logger().Info("frame loop stopping", "frame", c.frameIndex, "err", err.Error())
		c.Shutdown()
		return StatusFatal, err
	}
	return status, nil
}

func (c *Coordinator) frame(frameDelta float32) (Status, error) {
	// render descriptors can change at runtime, so query them every frame
	for i := 0; i < EyeCount; i++ {
		c.renderDesc[i] = c.rt.RenderDesc(Eye(i), c.hmd.DefaultEyeFov[i])
		c.offsets[i] = c.renderDesc[i].HmdToEyeOffset
	}

	poses, sampleTime, r := c.rt.EyePoses(c.frameIndex, c.offsets)
	if err := c.checkResult(r, "Failed to get the eye poses"); err != nil {
		return StatusFatal, err
	}
	c.poses = poses

	c.elapsed += frameDelta
	world := WorldTransform(c.elapsed)

	if c.visible {
		for i := 0; i < EyeCount; i++ {
			target := &c.eyes[i]
			c.dev.SetAndClearRenderSurface(target.chain.CurrentTexture(), target.depth, target.chain.Size(), c.cfg.ClearColor)

			view := ViewMatrix(c.poses[i], c.cfg.Origin, c.cfg.Axis)
			proj := c.rt.Projection(c.hmd.DefaultEyeFov[i], c.cfg.Near, c.cfg.Far)
			if c.cfg.TransposeProjection {
				proj = proj.Transpose()
			}
			c.dev.DrawMesh(proj.Mul4(view), world)

			c.dev.UnsetRenderSurface()
			if err := c.checkResult(target.chain.Commit(), "Failed to commit the "+Eye(i).String()+" eye swap chain"); err != nil {
				return StatusFatal, err
			}
		}
	}

	for i := 0; i < EyeCount; i++ {
		target := &c.eyes[i]
		size := target.chain.Size()
		c.layer.ColorTexture[i] = target.chain
		c.layer.Viewport[i] = Rect{X0: 0, Y0: 0, X1: size.W, Y1: size.H}
		c.layer.Fov[i] = c.hmd.DefaultEyeFov[i]
		c.layer.RenderPose[i] = c.poses[i]
	}
	c.layer.SensorSampleTime = sampleTime

	r = c.rt.SubmitFrame(c.frameIndex, &c.layer)
	if err := c.checkResult(r, "Failed to submit the frame of the current layers"); err != nil {
		return StatusFatal, err
	}
	c.visible = r == ResultSuccess
	Logger().Debug("frame submitted", "frame", c.frameIndex, "result", int32(r))

	status, r := c.rt.SessionStatus()
	if err := c.checkResult(r, "Failed to get the session status"); err != nil {
		return StatusFatal, err
	}
	if status.ShouldQuit {
		return StatusFatal, ErrShouldQuit
	}

	src, dst := MirrorBlitRects(c.mirrorSize)
	c.dev.BlitToBackbuffer(c.mirrorFbo, src, dst)
	c.win.SwapBuffers()

	c.frameIndex++
	if !c.visible {
		return StatusNotVisible, nil
	}
	return StatusOK, nil
}

// Shutdown releases everything in dependency order: layer state, mirror
// framebuffer, mirror texture, eye targets, mesh, session, runtime. The
// session is released last because it owns resources the others reference.
// Calling Shutdown more than once, or after a failed Startup, is safe.
func (c *Coordinator) Shutdown() {
	if c.state == StateTerminated {
		return
	}
	c.setState(StateShuttingDown)

	if c.layerSet {
		c.layer = LayerEyeFov{}
		c.layerSet = false
	}
	if c.mirrorFbo != 0 {
		c.dev.DeleteFramebuffer(c.mirrorFbo)
		c.mirrorFbo = 0
	}
	if c.mirror != nil {
		c.mirror.Destroy()
		c.mirror = nil
	}
	for i := range c.eyes {
		if c.eyes[i].chain != nil {
			c.eyes[i].chain.Destroy()
			c.eyes[i].chain = nil
		}
		if c.eyes[i].depth != 0 {
			c.dev.DeleteDepthBuffer(c.eyes[i].depth)
			c.eyes[i].depth = 0
		}
	}
	if c.meshUp {
		c.dev.Release()
		c.meshUp = false
	}
	if c.sessionUp {
		c.rt.DestroySession()
		c.sessionUp = false
	}
	if c.runtimeUp {
		c.rt.Shutdown()
		c.runtimeUp = false
	}

	c.setState(StateTerminated)
}

func (c *Coordinator) setState(s State) {
	if c.state == s {
		return
	}
	Logger().Info("frame loop state", "from", c.state.String(), "to", s.String())
	c.state = s
}
