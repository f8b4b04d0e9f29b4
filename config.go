package main

import (
	"os"

	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"github.com/xyproto/las/internal/pe"
)

// Config holds the settings read from the environment
type Config struct {
	Verbose      bool   // LAS_VERBOSE
	MaxImageSize int    // LAS_MAX_IMAGE_SIZE, staging buffer capacity in bytes
	Target       string // LAS_TARGET
	NoColor      bool   // NO_COLOR
}

// LoadConfig reads the LAS_* environment variables, falling back to defaults
func LoadConfig() Config {
	return Config{
		Verbose:      env.Bool("LAS_VERBOSE"),
		MaxImageSize: env.Int("LAS_MAX_IMAGE_SIZE", pe.DefaultMaxImageSize),
		Target:       env.Str("LAS_TARGET", "amd64-windows"),
		NoColor:      env.Bool("NO_COLOR"),
	}
}

// useColor reports whether diagnostics on stderr should be colored
func (c Config) useColor() bool {
	return !c.NoColor && term.IsTerminal(int(os.Stderr.Fd()))
}
