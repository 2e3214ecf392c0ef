// Copyright 2017, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package main

import (
	scene "github.com/tbogdala/fizzle/scene"
)

// CubeScene runs the keyboard and VR render systems each frame.
type CubeScene struct {
	// embed the basic scene manager
	*scene.BasicSceneManager

	renderSystem *VRRenderSystem
	inputSystem  *KeyboardInputSystem
}

// NewCubeScene creates the scene around an initialized render system.
func NewCubeScene(rs *VRRenderSystem) *CubeScene {
	s := new(CubeScene)
	s.BasicSceneManager = scene.NewBasicSceneManager()

	s.inputSystem = NewKeyboardInputSystem()
	s.inputSystem.Initialize(rs)

	s.renderSystem = rs
	s.AddSystem(s.inputSystem)
	s.AddSystem(s.renderSystem)
	return s
}

// Update should be called each frame to update the scene manager.
func (s *CubeScene) Update(frameDelta float32) {
	s.BasicSceneManager.Update(frameDelta)
}
