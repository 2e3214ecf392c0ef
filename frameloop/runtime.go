// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Result is a runtime status code. Negative values are failures; zero and
// positive values are successes, some of which carry extra meaning.
type Result int32

const (
	ResultSuccess Result = 0

	// ResultNotVisible means the frame was accepted but is not being shown,
	// for example because another application has focus.
	ResultNotVisible Result = 1000

	ResultError                  Result = -1000
	ResultInitializeFailed       Result = -3000
	ResultNoHMD                  Result = -6000
	ResultInvalidParameter       Result = -1005
	ResultUnsupported            Result = -1009
	ResultTextureSwapChainFull   Result = -1013
	ResultTextureSwapChainFailed Result = -1014
)

// Failed reports whether r is a failure code.
func (r Result) Failed() bool { return r < ResultSuccess }

// ErrorInfo is the detail behind the last failing runtime call.
type ErrorInfo struct {
	Result      Result
	ErrorString string
}

// Runtime is the VR runtime boundary. All calls are made from the render
// thread. EyePoses and SubmitFrame may block on the runtime.
type Runtime interface {
	Initialize(params InitParams) Result
	Version() string
	CreateSession() (HMDInfo, Result)

	FovTextureSize(eye Eye, fov FovPort, pixelsPerDisplayPixel float32) Size
	CreateSwapChain(eye Eye, size Size) (SwapChain, Result)
	CreateMirrorTexture(size Size) (MirrorTexture, Result)
	SetTrackingOrigin(origin TrackingOrigin) Result

	RenderDesc(eye Eye, fov FovPort) EyeRenderDesc
	EyePoses(frameIndex int64, hmdToEyeOffset [EyeCount]mgl.Vec3) ([EyeCount]Pose, float64, Result)

	// Projection returns the projection for fov with its elements in row-major
	// order.
	Projection(fov FovPort, near, far float32) mgl.Mat4

	SubmitFrame(frameIndex int64, layer *LayerEyeFov) Result
	SessionStatus() (SessionStatus, Result)
	LastError() ErrorInfo

	DestroySession()
	Shutdown()
}

// SwapChain is a runtime owned ring of color textures for one eye.
type SwapChain interface {
	// CurrentTexture is the texture to render into this frame.
	CurrentTexture() TextureID
	Size() Size
	// Commit hands the current texture to the runtime and advances the ring.
	Commit() Result
	Destroy()
}

// MirrorTexture is a runtime owned copy of the composited output.
type MirrorTexture interface {
	Texture() TextureID
	Size() Size
	Destroy()
}
