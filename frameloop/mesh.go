// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Mesh is indexed triangle-list geometry with a color per vertex.
type Mesh struct {
	Vertices []mgl.Vec3
	Colors   []mgl.Vec4
	Indices  []uint32
}

// CubeMesh is the unit cube: 8 vertices, 12 triangles.
var CubeMesh = Mesh{
	Vertices: []mgl.Vec3{
		{-1.0, -1.0, 1.0},
		{1.0, -1.0, 1.0},
		{1.0, 1.0, 1.0},
		{-1.0, 1.0, 1.0},
		{-1.0, -1.0, -1.0},
		{1.0, -1.0, -1.0},
		{1.0, 1.0, -1.0},
		{-1.0, 1.0, -1.0},
	},
	Colors: []mgl.Vec4{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{1, 0, 0, 1},
		{0, 1, 0, 1},
	},
	Indices: []uint32{
		// front
		0, 1, 2, 2, 3, 0,
		// top
		3, 2, 6, 6, 7, 3,
		// left
		4, 0, 3, 3, 7, 4,
		// bottom
		5, 1, 0, 0, 4, 5,
		// right
		6, 2, 1, 1, 5, 6,
		// back
		7, 6, 5, 5, 4, 7,
	},
}

// Shader attribute and uniform names shared with the device.
const (
	AttribPosition     = "VERTEX_POSITION"
	AttribColor        = "VERTEX_COLOR"
	UniformViewProject = "VIEWPROJ_MATRIX"
	UniformWorld       = "WORLD_MATRIX"
)

// VertexShader applies the view-projection and world matrices.
const VertexShader = `#version 330
uniform mat4 VIEWPROJ_MATRIX;
uniform mat4 WORLD_MATRIX;
in vec3 VERTEX_POSITION;
in vec4 VERTEX_COLOR;
out vec4 vs_color;

void main()
{
	vs_color = VERTEX_COLOR;
	gl_Position = VIEWPROJ_MATRIX * (WORLD_MATRIX * vec4(VERTEX_POSITION, 1.0));
}
`

// FragmentShader writes the interpolated vertex color unmodified.
const FragmentShader = `#version 330
in vec4 vs_color;
out vec4 frag_color;

void main()
{
	frag_color = vs_color;
}
`
