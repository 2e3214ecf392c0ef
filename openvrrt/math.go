// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package openvrrt

import (
	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/tbogdala/vrcube/frameloop"
)

// fovFromProjection recovers the half-angle tangents of an off-axis
// perspective projection in column-major layout.
func fovFromProjection(p mgl.Mat4) frameloop.FovPort {
	// p[0][0] = 2/(l+r), p[2][0] = (r-l)/(r+l); same for y with up/down
	sumX := 2 / p.At(0, 0)
	diffX := p.At(0, 2) * sumX
	sumY := 2 / p.At(1, 1)
	diffY := p.At(1, 2) * sumY
	return frameloop.FovPort{
		RightTan: (sumX + diffX) / 2,
		LeftTan:  (sumX - diffX) / 2,
		UpTan:    (sumY + diffY) / 2,
		DownTan:  (sumY - diffY) / 2,
	}
}

// projectionFromFov builds the column-major off-axis projection for fov.
func projectionFromFov(fov frameloop.FovPort, near, far float32) mgl.Mat4 {
	return mgl.Frustum(-fov.LeftTan*near, fov.RightTan*near, -fov.DownTan*near, fov.UpTan*near, near, far)
}

// eyePose offsets the hmd pose by the head-to-eye offset in head space.
func eyePose(hmd mgl.Mat4, hmdToEye mgl.Vec3) frameloop.Pose {
	rot := mgl.Mat4ToQuat(hmd).Normalize()
	pos := hmd.Col(3).Vec3()
	return frameloop.Pose{
		Orientation: rot,
		Position:    pos.Add(rot.Rotate(hmdToEye)),
	}
}

// hmdToEyeOffset returns the eye position in head space from a head-to-eye
// view matrix.
func hmdToEyeOffset(headToEye mgl.Mat4) mgl.Vec3 {
	return headToEye.Inv().Col(3).Vec3()
}
