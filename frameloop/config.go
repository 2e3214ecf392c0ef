// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Config holds the tunables of a Coordinator.
type Config struct {
	// Near and Far are the projection clip planes.
	Near float32
	Far  float32

	// MirrorScale sizes the mirror texture relative to the HMD resolution.
	MirrorScale float32

	TrackingOrigin TrackingOrigin
	Axis           AxisConvention

	// Origin is where the viewer stands in world space.
	Origin mgl.Vec3

	ClearColor mgl.Vec4

	// TransposeProjection converts the runtime's row-major projection to
	// the column-major layout the shaders expect.
	TransposeProjection bool

	Reporter Reporter
}

// DefaultConfig returns the configuration used by the sample.
func DefaultConfig() Config {
	return Config{
		Near:                0.1,
		Far:                 1000.0,
		MirrorScale:         0.5,
		TrackingOrigin:      TrackingOriginFloorLevel,
		Axis:                DefaultAxisConvention,
		Origin:              mgl.Vec3{0, 0, -10},
		ClearColor:          mgl.Vec4{0.15, 0.15, 0.18, 1.0},
		TransposeProjection: true,
		Reporter:            nopReporter{},
	}
}
