// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

// Package openvrrt implements the frameloop runtime boundary on OpenVR.
//
// OpenVR has no runtime owned swap chains or mirror texture, so both are
// built here out of GL objects and fed to the compositor on submit.
package openvrrt

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"

	graphics "github.com/tbogdala/fizzle/graphicsprovider"
	vr "github.com/tbogdala/openvr-go"

	"github.com/tbogdala/vrcube/frameloop"
)

var _ frameloop.Runtime = (*Runtime)(nil)

// Runtime talks to the OpenVR system and compositor interfaces.
type Runtime struct {
	gfx       graphics.GraphicsProvider
	near, far float32

	vrSystem     *vr.System
	vrCompositor *vr.Compositor

	renderWidth  uint32
	renderHeight uint32

	hmdPose   mgl.Mat4
	poseValid bool

	// driver is the tracking system name, known once a session exists.
	driver string

	mirror    *mirrorTexture
	lastError frameloop.ErrorInfo
}

// New returns a Runtime that creates GL objects with gfx. near and far are
// passed to OpenVR when querying eye transforms.
func New(gfx graphics.GraphicsProvider, near, far float32) *Runtime {
	return &Runtime{
		gfx:     gfx,
		near:    near,
		far:     far,
		hmdPose: mgl.Ident4(),
	}
}

func (rt *Runtime) fail(r frameloop.Result, format string, args ...interface{}) frameloop.Result {
	rt.lastError = frameloop.ErrorInfo{Result: r, ErrorString: fmt.Sprintf(format, args...)}
	return r
}

// Initialize starts OpenVR.
func (rt *Runtime) Initialize(params frameloop.InitParams) frameloop.Result {
	var err error
	rt.vrSystem, err = vr.Init()
	if err != nil || rt.vrSystem == nil {
		return rt.fail(frameloop.ResultInitializeFailed, "vr.Init() returned an error: %v", err)
	}
	if params.Flags&frameloop.InitDebug != 0 {
		frameloop.Logger().Debug("openvr initialized with debug diagnostics")
	}
	return frameloop.ResultSuccess
}

// Version names the runtime and, once a session exists, its driver.
func (rt *Runtime) Version() string {
	if rt.driver == "" {
		return "OpenVR"
	}
	return "OpenVR (" + rt.driver + ")"
}

// CreateSession reads the HMD properties and acquires the compositor.
func (rt *Runtime) CreateSession() (frameloop.HMDInfo, frameloop.Result) {
	var info frameloop.HMDInfo
	if rt.vrSystem == nil {
		return info, rt.fail(frameloop.ResultNoHMD, "runtime not initialized")
	}

	// driver and serial number are a good smoke test for a connected headset
	driver, errInt := rt.vrSystem.GetStringTrackedDeviceProperty(int(vr.TrackedDeviceIndexHmd), vr.PropTrackingSystemNameString)
	if errInt != vr.TrackedPropSuccess {
		return info, rt.fail(frameloop.ResultNoHMD, "error getting VR driver name (%d)", errInt)
	}
	displaySerial, errInt := rt.vrSystem.GetStringTrackedDeviceProperty(int(vr.TrackedDeviceIndexHmd), vr.PropSerialNumberString)
	if errInt != vr.TrackedPropSuccess {
		return info, rt.fail(frameloop.ResultNoHMD, "error getting VR display name (%d)", errInt)
	}
	if driver != "" {
		info.ProductName = driver + " " + displaySerial
	}
	rt.driver = driver

	rt.renderWidth, rt.renderHeight = rt.vrSystem.GetRecommendedRenderTargetSize()
	info.Resolution = frameloop.Size{W: int32(rt.renderWidth) * 2, H: int32(rt.renderHeight)}

	eyeTransforms := rt.vrSystem.GetEyeTransforms(rt.near, rt.far)
	info.DefaultEyeFov[frameloop.EyeLeft] = fovFromProjection(eyeTransforms.ProjectionLeft)
	info.DefaultEyeFov[frameloop.EyeRight] = fovFromProjection(eyeTransforms.ProjectionRight)

	var err error
	rt.vrCompositor, err = vr.GetCompositor()
	if err != nil {
		return info, rt.fail(frameloop.ResultError, "failed to get the compositor interface: %v", err)
	}

	frameloop.Logger().Info("connected to hmd", "driver", driver, "serial", displaySerial,
		"render_w", rt.renderWidth, "render_h", rt.renderHeight)
	return info, frameloop.ResultSuccess
}

// FovTextureSize returns the recommended render target size. OpenVR reports
// one size for both eyes.
func (rt *Runtime) FovTextureSize(eye frameloop.Eye, fov frameloop.FovPort, pixelsPerDisplayPixel float32) frameloop.Size {
	return frameloop.Size{
		W: int32(float32(rt.renderWidth) * pixelsPerDisplayPixel),
		H: int32(float32(rt.renderHeight) * pixelsPerDisplayPixel),
	}
}

// SetTrackingOrigin accepts the floor level origin of the standing universe.
func (rt *Runtime) SetTrackingOrigin(origin frameloop.TrackingOrigin) frameloop.Result {
	if origin != frameloop.TrackingOriginFloorLevel {
		return rt.fail(frameloop.ResultUnsupported, "tracking origin %s is not supported by the standing universe", origin)
	}
	return frameloop.ResultSuccess
}

// RenderDesc re-reads the eye transforms so IPD changes are picked up.
func (rt *Runtime) RenderDesc(eye frameloop.Eye, fov frameloop.FovPort) frameloop.EyeRenderDesc {
	eyeTransforms := rt.vrSystem.GetEyeTransforms(rt.near, rt.far)
	headToEye := eyeTransforms.PositionLeft
	if eye == frameloop.EyeRight {
		headToEye = eyeTransforms.PositionRight
	}
	return frameloop.EyeRenderDesc{
		Eye:            eye,
		Fov:            fov,
		HmdToEyeOffset: hmdToEyeOffset(headToEye),
	}
}

// EyePoses waits for the compositor's next sync point and returns the render
// pose of each eye.
//
// WaitGetPoses is on a timer to keep 90fps; it blocks for whatever is left of
// the frame budget. When the HMD pose is invalid the last good pose is kept.
func (rt *Runtime) EyePoses(frameIndex int64, hmdToEyeOffset [frameloop.EyeCount]mgl.Vec3) ([frameloop.EyeCount]frameloop.Pose, float64, frameloop.Result) {
	var poses [frameloop.EyeCount]frameloop.Pose
	if rt.vrCompositor == nil {
		return poses, 0, rt.fail(frameloop.ResultNoHMD, "no compositor for frame %d", frameIndex)
	}

	rt.vrCompositor.WaitGetPoses(false)
	sampleTime := hrtime.Now().Seconds()

	rt.poseValid = rt.vrCompositor.IsPoseValid(vr.TrackedDeviceIndexHmd)
	if rt.poseValid {
		pose := rt.vrCompositor.GetRenderPose(vr.TrackedDeviceIndexHmd)
		rt.hmdPose = mgl.Mat4(vr.Mat34ToMat4(&pose.DeviceToAbsoluteTracking))
	}

	for i := range poses {
		poses[i] = eyePose(rt.hmdPose, hmdToEyeOffset[i])
	}
	return poses, sampleTime, frameloop.ResultSuccess
}

// Projection returns the eye projection in row-major order.
func (rt *Runtime) Projection(fov frameloop.FovPort, near, far float32) mgl.Mat4 {
	return projectionFromFov(fov, near, far).Transpose()
}

// SubmitFrame hands each eye's committed texture to the compositor and
// refreshes the mirror. Frames without a valid HMD pose are not visible.
func (rt *Runtime) SubmitFrame(frameIndex int64, layer *frameloop.LayerEyeFov) frameloop.Result {
	if rt.vrCompositor == nil {
		return rt.fail(frameloop.ResultError, "no compositor for frame %d", frameIndex)
	}

	vrEyes := [frameloop.EyeCount]int{vr.EyeLeft, vr.EyeRight}
	var chains [frameloop.EyeCount]*swapChain
	for i := range vrEyes {
		sc, ok := layer.ColorTexture[i].(*swapChain)
		if !ok || sc == nil {
			return rt.fail(frameloop.ResultInvalidParameter, "layer eye %d has no OpenVR swap chain", i)
		}
		chains[i] = sc
		rt.vrCompositor.Submit(vrEyes[i], uint32(sc.committed().ResolveTexture))
	}

	if rt.mirror != nil {
		rt.mirror.update(chains)
	}

	if !rt.poseValid {
		return frameloop.ResultNotVisible
	}
	return frameloop.ResultSuccess
}

// SessionStatus asks the application to quit once the HMD disconnects.
func (rt *Runtime) SessionStatus() (frameloop.SessionStatus, frameloop.Result) {
	if rt.vrSystem == nil {
		return frameloop.SessionStatus{}, rt.fail(frameloop.ResultNoHMD, "runtime not initialized")
	}
	present := rt.vrSystem.IsTrackedDeviceConnected(uint32(vr.TrackedDeviceIndexHmd))
	return frameloop.SessionStatus{
		IsVisible:  rt.poseValid,
		HmdPresent: present,
		ShouldQuit: !present,
	}, frameloop.ResultSuccess
}

// LastError returns the detail of the last failing call.
func (rt *Runtime) LastError() frameloop.ErrorInfo {
	return rt.lastError
}

// DestroySession drops the compositor interface.
func (rt *Runtime) DestroySession() {
	rt.vrCompositor = nil
	rt.mirror = nil
	rt.driver = ""
}

// Shutdown releases OpenVR.
func (rt *Runtime) Shutdown() {
	if rt.vrSystem == nil {
		return
	}
	vr.Shutdown()
	rt.vrSystem = nil
}
