// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Eye identifies one of the two stereo views.
type Eye int

const (
	EyeLeft  Eye = 0
	EyeRight Eye = 1

	// EyeCount is the number of eyes rendered each frame.
	EyeCount = 2
)

func (e Eye) String() string {
	if e == EyeLeft {
		return "left"
	}
	return "right"
}

// Size is a width and height in pixels.
type Size struct {
	W int32
	H int32
}

// Rect is a pair of corners as passed to a framebuffer blit.
type Rect struct {
	X0, Y0 int32
	X1, Y1 int32
}

// FovPort describes a field of view as tangents of the half angles.
type FovPort struct {
	UpTan    float32
	DownTan  float32
	LeftTan  float32
	RightTan float32
}

// Pose is a tracked position and orientation in tracking space.
type Pose struct {
	Orientation mgl.Quat
	Position    mgl.Vec3
}

// EyeRenderDesc is the per-eye rendering descriptor reported by the runtime.
// HmdToEyeOffset can change while the application runs.
type EyeRenderDesc struct {
	Eye            Eye
	Fov            FovPort
	HmdToEyeOffset mgl.Vec3
}

// HMDInfo describes the head mounted display attached to a session.
type HMDInfo struct {
	ProductName   string
	Resolution    Size
	DefaultEyeFov [EyeCount]FovPort
}

// TextureID is a GPU texture name.
type TextureID uint32

// Handle is a device owned GPU object such as a framebuffer or renderbuffer.
type Handle uint32

// TrackingOrigin is the reference frame for reported poses.
type TrackingOrigin int

const (
	TrackingOriginEyeLevel TrackingOrigin = iota
	TrackingOriginFloorLevel
)

func (o TrackingOrigin) String() string {
	if o == TrackingOriginFloorLevel {
		return "floor"
	}
	return "eye"
}

// InitFlags are passed to the runtime on initialization.
type InitFlags uint32

const (
	InitDebug InitFlags = 1 << iota
)

// InitParams are the runtime initialization parameters.
type InitParams struct {
	Flags InitFlags
}

// LayerFlags modify how the compositor reads a layer.
type LayerFlags uint32

const (
	// LayerTextureOriginAtBottomLeft marks GL style texture coordinates.
	LayerTextureOriginAtBottomLeft LayerFlags = 1 << iota
)

// LayerEyeFov is the per-frame layer handed to the compositor.
type LayerEyeFov struct {
	Flags            LayerFlags
	ColorTexture     [EyeCount]SwapChain
	Viewport         [EyeCount]Rect
	Fov              [EyeCount]FovPort
	RenderPose       [EyeCount]Pose
	SensorSampleTime float64
}

// SessionStatus is the status flags reported by the runtime.
type SessionStatus struct {
	IsVisible  bool
	HmdPresent bool
	ShouldQuit bool
}
