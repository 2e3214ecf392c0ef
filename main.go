// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/loov/hrtime"
	"github.com/pkg/errors"
	"github.com/xlab/closer"

	"github.com/tbogdala/vrcube/frameloop"
)

const (
	windowWidth  = int(1280)
	windowHeight = int(720)
	windowTitle  = "Simple VR Cube"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	frameloop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// create the render system and initialize it; this also starts the VR session
	renderSystem := NewVRRenderSystem()
	// closer also runs Destroy from its signal goroutine on SIGINT, off the
	// locked thread; GL teardown there is best effort. Normal exits run it here
	// through the deferred Close.
	closer.Bind(renderSystem.Destroy)
	defer closer.Close()

	err := renderSystem.Initialize(windowTitle, windowWidth, windowHeight, consoleReporter{out: os.Stderr})
	if err != nil {
		fmt.Printf("Failed to initialize the VR render system! %v\n", err)
		closer.Exit(1)
	}

	cubeScene := NewCubeScene(renderSystem)

	////////////////////////////////////////////////////////////////////////////
	// the main application loop
	lastFrame := hrtime.Now()
	for !renderSystem.MainWindow.ShouldClose() {
		// calculate the difference in time to control rotation speed
		thisFrame := hrtime.Now()
		frameDelta := float32((thisFrame - lastFrame).Seconds())

		cubeScene.Update(frameDelta)

		// update our last frame time
		lastFrame = thisFrame
	}

	// a quit requested by the runtime is a clean exit
	status, err := renderSystem.LastFrame()
	if status == frameloop.StatusFatal && errors.Cause(err) != frameloop.ErrShouldQuit {
		fmt.Printf("The VR session ended: %v\n", err)
		closer.Exit(1)
	}
}
