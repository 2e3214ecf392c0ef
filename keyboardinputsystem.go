// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package main

import (
	glfw "github.com/go-gl/glfw/v3.1/glfw"

	input "github.com/tbogdala/fizzle/input/glfwinput"
	"github.com/tbogdala/fizzle/scene"
)

const (
	keyboardInputSystemPriority = -100.0
	keyboardInputSystemName     = "KeyboardInputSystem"
)

// KeyboardInputSystem implements the System interface and polls window
// events. Escape closes the window.
type KeyboardInputSystem struct {
	kbModel    *input.KeyboardModel
	mainWindow *glfw.Window
}

// NewKeyboardInputSystem creates a new KeyboardInputSystem object
func NewKeyboardInputSystem() *KeyboardInputSystem {
	return new(KeyboardInputSystem)
}

// Initialize binds the keys on the window of rs.
func (s *KeyboardInputSystem) Initialize(rs RenderSystem) {
	s.mainWindow = rs.GetMainWindow()

	// set the callback functions for key input
	s.kbModel = input.NewKeyboardModel(s.mainWindow)
	s.kbModel.BindTrigger(glfw.KeyEscape, s.handleEscape)
	s.kbModel.SetupCallbacks()
}

// Update should get called to run updates for the system every frame
// by the owning Manager object.
func (s *KeyboardInputSystem) Update(frameDelta float32) {
	// advise GLFW to poll for input. without this the window appears to hang.
	glfw.PollEvents()

	// handle any keyboard input
	s.kbModel.CheckKeyPresses()
}

// OnAddEntity should get called by the scene Manager each time a new entity
// has been added to the scene.
func (s *KeyboardInputSystem) OnAddEntity(newEntity scene.Entity) {}

// OnRemoveEntity should get called by the scene Manager each time an entity
// has been removed from the scene.
func (s *KeyboardInputSystem) OnRemoveEntity(oldEntity scene.Entity) {}

// GetRequestedPriority returns the requested priority level for the System
// which may be of significance to a Manager if they want to order Update() calls.
func (s *KeyboardInputSystem) GetRequestedPriority() float32 {
	return keyboardInputSystemPriority
}

// GetName returns the name of the system that can be used to identify
// the System within Manager.
func (s *KeyboardInputSystem) GetName() string {
	return keyboardInputSystemName
}

func (s *KeyboardInputSystem) handleEscape() {
	s.mainWindow.SetShouldClose(true)
}
