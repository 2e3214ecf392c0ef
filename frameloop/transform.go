// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

const (
	cubeScale    = 5.0
	cubeDistance = 10.0
)

// WorldTransform returns the cube's world matrix after t seconds. The cube is
// scaled, rotated about X, then Y, then Z, and finally pushed out along +Z.
func WorldTransform(t float32) mgl.Mat4 {
	return mgl.Translate3D(0, 0, cubeDistance).
		Mul4(mgl.HomogRotate3DZ(t)).
		Mul4(mgl.HomogRotate3DY(t)).
		Mul4(mgl.HomogRotate3DX(t)).
		Mul4(mgl.Scale3D(cubeScale, cubeScale, cubeScale))
}

// AxisConvention converts runtime tracking space into render space.
//
// RotationFlip is the diagonal of S in S*R*S applied to the pose rotation.
// PositionSign multiplies the eye position, component-wise, before it is
// added to the view origin. These depend on both coordinate systems and may
// need flipping per axis when head tracking looks reversed.
type AxisConvention struct {
	RotationFlip mgl.Vec3
	PositionSign mgl.Vec3
}

// DefaultAxisConvention negates X and Z.
var DefaultAxisConvention = AxisConvention{
	RotationFlip: mgl.Vec3{-1, 1, -1},
	PositionSign: mgl.Vec3{-1, 1, -1},
}

// ViewMatrix builds the view for an eye pose seen from origin.
func ViewMatrix(pose Pose, origin mgl.Vec3, conv AxisConvention) mgl.Mat4 {
	s := mgl.Scale3D(conv.RotationFlip[0], conv.RotationFlip[1], conv.RotationFlip[2])
	rot := s.Mul4(pose.Orientation.Normalize().Mat4()).Mul4(s)

	up := rot.Mul4x1(mgl.Vec4{0, 1, 0, 0}).Vec3()
	forward := rot.Mul4x1(mgl.Vec4{0, 0, 1, 0}).Vec3()

	eye := mgl.Vec3{
		origin[0] + conv.PositionSign[0]*pose.Position[0],
		origin[1] + conv.PositionSign[1]*pose.Position[1],
		origin[2] + conv.PositionSign[2]*pose.Position[2],
	}
	return mgl.LookAtV(eye, eye.Add(forward), up)
}

// MirrorBlitRects returns the source and destination corners for copying a
// bottom-left origin mirror texture into a window, flipping it vertically.
func MirrorBlitRects(size Size) (src, dst Rect) {
	src = Rect{X0: 0, Y0: size.H, X1: size.W, Y1: 0}
	dst = Rect{X0: 0, Y0: 0, X1: size.W, Y1: size.H}
	return src, dst
}
