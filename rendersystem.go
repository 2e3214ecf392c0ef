// Copyright 2017, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package main

import (
	glfw "github.com/go-gl/glfw/v3.1/glfw"
)

// RenderSystem is implemented by systems that own the main window.
type RenderSystem interface {
	GetMainWindow() *glfw.Window
}
