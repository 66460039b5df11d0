package game

import (
	"fmt"

	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/render"
)

// materialFloor names the ground texture.
const materialFloor = "floor"

// NewTextures builds the material registry. Every level material gets a
// procedural texture; image files in dir, when given, replace them by
// material name (wall.png, target.jpg, ...).
func NewTextures(dir string) (*render.Registry, error) {
	reg := render.NewRegistry()

	mortar := render.RGB(190, 180, 165)
	reg.Register(level.MaterialWall, render.NewBrickTexture(32, 32, 4, render.RGB(150, 60, 45), mortar))
	reg.Register(level.MaterialWallAlt, render.NewBrickTexture(32, 32, 4, render.RGB(120, 50, 40), mortar))
	reg.Register(level.MaterialDoor, render.NewCheckerTexture(16, 32, 8, render.RGB(110, 70, 35), render.RGB(90, 55, 25)))
	reg.Register(level.MaterialWindow, render.NewCheckerTexture(16, 16, 8, render.RGB(170, 210, 235), render.RGB(140, 190, 220)))
	reg.Register(level.MaterialTree, render.NewCheckerTexture(16, 16, 4, render.RGB(40, 120, 40), render.RGB(30, 95, 30)))
	reg.Register(level.MaterialTarget, render.NewBullseyeTexture(32, 5, render.ColorRed, render.ColorWhite))
	reg.Register(level.MaterialTargetHit, render.NewBullseyeTexture(32, 5, render.ColorGray, render.RGB(60, 60, 60)))
	reg.Register(materialFloor, render.NewCheckerTexture(256, 256, 8, render.RGB(90, 140, 70), render.RGB(75, 120, 60)))

	if dir == "" {
		return reg, nil
	}
	if _, err := reg.LoadDir(dir); err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}
	return reg, nil
}
