package main

import (
	"io"
	"os"
	"time"

	"github.com/zerx-lab/zerxsite/internal/ogimage"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and the browser used for OpenGraph cards.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// NewCapturer builds the screenshotter behind each OG renderer.
	NewCapturer func(ogimage.BrowserOptions) ogimage.Capturer
}

// DefaultEnv returns the production environment backed by go-rod.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewCapturer: func(opts ogimage.BrowserOptions) ogimage.Capturer {
			return ogimage.NewRodCapturer(opts)
		},
	}
}
