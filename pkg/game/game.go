package game

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/models"
	"github.com/taigrr/gallery/pkg/render"
	"github.com/taigrr/gallery/pkg/scene"
	"github.com/taigrr/gallery/pkg/spatial"
)

var (
	skyTop    = render.RGB(70, 110, 170)
	groundLow = render.RGB(60, 90, 50)
	boundsCol = render.ColorYellow
)

// Action is a player command decoded from terminal input.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionTurnLeft
	ActionTurnRight
	ActionLookUp
	ActionLookDown
	ActionShoot
	ActionReset
	ActionToggleBounds
	ActionQuit
)

// Input is one action. For ActionShoot with Aim set, X and Y are the
// framebuffer pixel aimed at; otherwise shots go through the crosshair.
type Input struct {
	Action Action
	Aim    bool
	X, Y   float64
}

// Game owns everything a session needs. It is driven from a single
// goroutine: Handle, Step and Render must not be called concurrently.
type Game struct {
	Level  *level.Level
	Scene  *scene.Scene
	Player *Player
	Camera *render.Camera

	cfg      Config
	log      *log.Logger
	frustum  *spatial.Frustum
	textures *render.Registry

	meshes         [level.NumCategories]*models.Mesh
	floor          *models.Mesh
	floorTransform math3d.Mat4

	fb     *render.Framebuffer
	raster *render.Rasterizer
	wire   *render.Wireframe

	showBounds bool
	last       *scene.Frame
}

// New derives the level from tm and prepares a session with an initial
// framebuffer of width x height pixels. logger may be nil.
func New(cfg Config, tm *level.Tilemap, width, height int, logger *log.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	lv := level.Derive(tm, cfg.Dims)
	logger.Info("level derived",
		"rows", lv.Rows, "cols", lv.Cols,
		"walls", lv.Instances(level.CategoryWall).Len(),
		"targets", len(lv.Targets),
		"skipped", lv.Skipped)

	textures, err := NewTextures(cfg.TextureDir)
	if err != nil {
		return nil, err
	}

	sc := scene.New(lv, cfg.FPS)
	sc.Workers = cfg.Workers

	g := &Game{
		Level:      lv,
		Scene:      sc,
		Player:     NewPlayer(cfg, lv.StartPosition()),
		Camera:     render.NewCamera(),
		cfg:        cfg,
		log:        logger,
		textures:   textures,
		showBounds: cfg.ShowBounds,
	}
	g.Camera.SetFOV(math3d.Radians(cfg.FOV))
	g.Camera.SetClipPlanes(cfg.Near, cfg.Far)
	g.frustum = spatial.NewFrustum(cfg.Near, cfg.Far, g.Camera.AspectRatio)

	if err := g.loadMeshes(); err != nil {
		return nil, err
	}
	g.Resize(width, height)
	g.Player.Apply(g.Camera)
	return g, nil
}

func (g *Game) loadMeshes() error {
	cube := models.Generate(models.Cube)
	for c := range level.NumCategories {
		g.meshes[c] = cube
	}
	g.meshes[level.CategoryTree] = models.Generate(models.Pyramid)

	if g.cfg.TargetShape != "" {
		shape, err := models.ParsePrimitive(g.cfg.TargetShape)
		if err != nil {
			return fmt.Errorf("target shape: %w", err)
		}
		g.meshes[level.CategoryTarget] = models.Generate(shape)
	}

	if g.cfg.TargetModel != "" {
		mesh, img, err := models.LoadModel(g.cfg.TargetModel)
		if err != nil {
			return fmt.Errorf("load target model: %w", err)
		}
		g.meshes[level.CategoryTarget] = mesh
		if img != nil {
			g.textures.Register(level.MaterialTarget, render.TextureFromImage(img))
		}
		g.log.Info("target model loaded", "path", g.cfg.TargetModel,
			"triangles", mesh.TriangleCount(), "textured", img != nil)
	}

	area := g.Level.Bounds()
	if area.IsEmpty() {
		l := g.cfg.Dims.Length
		area = spatial.NewBoundingBox(math3d.Zero3(), math3d.V3(float64(g.Level.Cols)*l, 0, float64(g.Level.Rows)*l))
	}
	size := area.Size()
	g.floor = models.Generate(models.Quad)
	g.floorTransform = math3d.Translate(math3d.V3(area.Center.X, 0, area.Center.Z)).
		Mul(math3d.Scale(math3d.V3(size.X, 1, size.Z)))
	return nil
}

// Resize reallocates the framebuffer for width x height pixels.
func (g *Game) Resize(width, height int) {
	width, height = max(1, width), max(1, height)
	g.fb = render.NewFramebuffer(width, height)
	g.raster = render.NewRasterizer(g.Camera, g.fb)
	g.wire = render.NewWireframe(g.Camera, g.fb)

	aspect := float64(width) / float64(height)
	g.Camera.SetAspectRatio(aspect)
	g.frustum.SetAspectRatio(aspect)
}

// Framebuffer returns the frame drawn by the last Render.
func (g *Game) Framebuffer() *render.Framebuffer { return g.fb }

// Textures returns the material registry.
func (g *Game) Textures() *render.Registry { return g.textures }

// DrawStats returns the rasterizer counters of the last Render.
func (g *Game) DrawStats() render.DrawStats { return g.raster.Stats }

// Last returns the culling result of the last Render, or nil.
func (g *Game) Last() *scene.Frame { return g.last }

// Handle applies one input. It reports false when the session should end.
func (g *Game) Handle(in Input) bool {
	p := g.Player
	switch in.Action {
	case ActionForward:
		p.Walk(1)
	case ActionBack:
		p.Walk(-1)
	case ActionStrafeLeft:
		p.Strafe(-1)
	case ActionStrafeRight:
		p.Strafe(1)
	case ActionTurnLeft:
		p.Turn(1)
	case ActionTurnRight:
		p.Turn(-1)
	case ActionLookUp:
		p.Look(1)
	case ActionLookDown:
		p.Look(-1)
	case ActionShoot:
		if in.Aim {
			g.Shoot(in.X, in.Y)
		} else {
			g.ShootCenter()
		}
	case ActionReset:
		g.Reset()
	case ActionToggleBounds:
		g.showBounds = !g.showBounds
	case ActionQuit:
		return false
	}
	return true
}

// Shoot fires through framebuffer pixel (x, y) and returns the index of the
// target hit, or -1.
func (g *Game) Shoot(x, y float64) int {
	g.Player.Apply(g.Camera)
	ray := g.Camera.ScreenRay(x, y, g.fb.Width, g.fb.Height)

	hit := g.Scene.Shoot(ray)
	if hit < 0 {
		g.log.Debug("miss", "shots", g.Scene.Shots())
		return hit
	}
	g.log.Info("hit", "target", hit, "tile", g.Scene.Targets[hit].Position,
		"score", g.Scene.Score(), "alive", g.Scene.Alive())
	if g.Scene.Cleared() {
		g.log.Info("level cleared", "shots", g.Scene.Shots())
	}
	return hit
}

// ShootCenter fires through the crosshair.
func (g *Game) ShootCenter() int {
	return g.Shoot(float64(g.fb.Width)/2, float64(g.fb.Height)/2)
}

// Reset stands the targets back up and returns the player to the start.
func (g *Game) Reset() {
	g.Scene.Reset()
	g.Player.Reset(g.Level.StartPosition())
	g.log.Info("reset")
}

// Step advances the player and the target animations by one frame.
func (g *Game) Step() {
	g.Player.Update(g.Level)
	g.Scene.Update()
}

// Render culls the scene against the camera frustum and draws the visible
// instances.
func (g *Game) Render(ctx context.Context) (*scene.Frame, error) {
	g.Player.Apply(g.Camera)
	g.frustum.CalculatePlanes(g.Camera)

	fr, err := g.Scene.Visible(ctx, g.frustum)
	if err != nil {
		return nil, fmt.Errorf("visible set: %w", err)
	}

	g.fb.ClearGradient(skyTop, render.ColorSky, groundLow)
	g.raster.ClearDepth()
	g.raster.ResetStats()

	g.raster.DrawMesh(g.floor, g.floorTransform, render.ColorWhite, g.textures.Lookup(materialFloor))
	for c := range level.NumCategories {
		set := fr.Sets[c]
		g.raster.DrawInstances(g.meshes[c], set.Transforms, set.Materials, g.textures)
	}

	if g.showBounds {
		g.wire.DrawGrid(g.Level.Bounds(), 0.01, g.cfg.Dims.Length, render.ColorGray)
		for c := range level.NumCategories {
			if c == level.CategoryTarget {
				continue
			}
			g.wire.DrawBoxes(g.Level.Instances(c).Bounds, boundsCol)
		}
		for i := range g.Scene.Targets {
			if t := &g.Scene.Targets[i]; !t.Fallen() {
				g.wire.DrawBox(t.Bounds, render.ColorRed)
			}
		}
	}
	g.fb.DrawCrosshair(2, render.ColorWhite)

	g.last = fr
	return fr, nil
}

// Frame runs Step then Render.
func (g *Game) Frame(ctx context.Context) (*scene.Frame, error) {
	g.Step()
	return g.Render(ctx)
}

// Heading is the culling outcome for one camera direction.
type Heading struct {
	Yaw     float64 // radians
	Visible [level.NumCategories]int
	Stats   spatial.Stats
}

// Sweep turns the camera through n evenly spaced headings at the player's
// position with a level gaze and culls the scene at each. The player's
// orientation is restored afterwards.
func (g *Game) Sweep(ctx context.Context, n int) ([]Heading, error) {
	yaw, pitch := g.Player.Yaw, g.Player.Pitch
	defer func() {
		g.Player.Yaw, g.Player.Pitch = yaw, pitch
		g.Player.Apply(g.Camera)
	}()

	out := make([]Heading, 0, n)
	for i := range n {
		g.Player.Yaw = 2 * math.Pi * float64(i) / float64(n)
		g.Player.Pitch = 0
		g.Player.Apply(g.Camera)
		g.frustum.CalculatePlanes(g.Camera)

		fr, err := g.Scene.Visible(ctx, g.frustum)
		if err != nil {
			return nil, fmt.Errorf("heading %d: %w", i, err)
		}
		h := Heading{Yaw: g.Player.Yaw, Stats: fr.Stats}
		for c := range level.NumCategories {
			h.Visible[c] = len(fr.Sets[c].Transforms)
		}
		out = append(out, h)
	}
	return out, nil
}
