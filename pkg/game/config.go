// Package game runs the shooter gallery: a first-person player walks a
// derived level, the camera frustum culls every category each frame and
// shots are resolved against the target arena.
package game

import (
	"errors"
	"fmt"

	"github.com/taigrr/gallery/pkg/level"
)

// Config holds the tunables of a session. Command-line flags override the
// defaults field by field.
type Config struct {
	FPS int

	FOV  float64 // vertical, degrees
	Near float64
	Far  float64

	EyeHeight    float64
	PlayerRadius float64
	MoveSpeed    float64 // world units per second at full input
	TurnSpeed    float64 // radians per second at full input

	Dims level.Dimensions

	// Workers bounds the culling goroutines; zero means GOMAXPROCS.
	Workers int

	// TargetShape names the primitive drawn for targets (cube, quad,
	// pyramid). TargetModel takes precedence when both are set.
	TargetShape string
	// TargetModel optionally replaces the target mesh with a glTF model.
	TargetModel string
	// TextureDir optionally overrides the built-in textures by material
	// name.
	TextureDir string

	ShowBounds bool
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		FPS:          60,
		FOV:          60,
		Near:         0.1,
		Far:          100,
		EyeHeight:    0.6,
		PlayerRadius: 0.35,
		MoveSpeed:    3,
		TurnSpeed:    2.5,
		Dims:         level.DefaultDimensions(),
		TargetShape:  "cube",
	}
}

var errConfig = errors.New("invalid config")

// Validate reports the first field that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", errConfig, c.FPS)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov must be in (0, 180), got %g", errConfig, c.FOV)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("%w: need 0 < near < far, got %g and %g", errConfig, c.Near, c.Far)
	case c.Dims.Length <= 0 || c.Dims.Height <= 0 || c.Dims.Depth <= 0:
		return fmt.Errorf("%w: wall dimensions must be positive, got %+v", errConfig, c.Dims)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", errConfig, c.Workers)
	}
	return nil
}
