package game

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/gallery/pkg/level"
)

func mustParse(t testing.TB, s string) *level.Tilemap {
	t.Helper()
	tm, err := level.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tm
}

// oneTarget places a target three tiles ahead of the player start.
const oneTarget = "X\n.\n.\nP\n"

func newGame(t testing.TB, layout string) *Game {
	t.Helper()
	g, err := New(DefaultConfig(), mustParse(t, layout), 80, 48, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"flat fov", func(c *Config) { c.FOV = 180 }},
		{"near behind eye", func(c *Config) { c.Near = 0 }},
		{"far before near", func(c *Config) { c.Far = c.Near }},
		{"flat walls", func(c *Config) { c.Dims.Depth = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errConfig) {
				t.Errorf("Validate = %v, want errConfig", err)
			}
		})
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = -1
	if _, err := New(cfg, mustParse(t, oneTarget), 10, 10, nil); err == nil {
		t.Error("invalid config: expected error")
	}

	cfg = DefaultConfig()
	cfg.TargetModel = filepath.Join(t.TempDir(), "missing.glb")
	if _, err := New(cfg, mustParse(t, oneTarget), 10, 10, nil); err == nil {
		t.Error("missing target model: expected error")
	}

	cfg = DefaultConfig()
	cfg.TargetShape = "sphere"
	if _, err := New(cfg, mustParse(t, oneTarget), 10, 10, nil); err == nil {
		t.Error("unknown target shape: expected error")
	}

	cfg = DefaultConfig()
	cfg.TextureDir = filepath.Join(t.TempDir(), "missing")
	if _, err := New(cfg, mustParse(t, oneTarget), 10, 10, nil); err == nil {
		t.Error("missing texture dir: expected error")
	}
}

func TestNewTextures(t *testing.T) {
	reg, err := NewTextures("")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []string{
		level.MaterialWall, level.MaterialWallAlt, level.MaterialDoor, level.MaterialWindow,
		level.MaterialTree, level.MaterialTarget, level.MaterialTargetHit, materialFloor,
	} {
		if _, ok := reg.Get(m); !ok {
			t.Errorf("material %q missing", m)
		}
	}
}

func TestShootThroughCrosshair(t *testing.T) {
	g := newGame(t, oneTarget)

	if hit := g.ShootCenter(); hit != 0 {
		t.Fatalf("first shot hit %d, want 0", hit)
	}
	if hit := g.ShootCenter(); hit != -1 {
		t.Fatalf("second shot hit %d, want -1 (target already down)", hit)
	}
	if g.Scene.Score() != 1 || g.Scene.Shots() != 2 || !g.Scene.Cleared() {
		t.Errorf("score %d shots %d cleared %v", g.Scene.Score(), g.Scene.Shots(), g.Scene.Cleared())
	}
}

func TestShootOffTarget(t *testing.T) {
	g := newGame(t, oneTarget)
	// Top-left corner of the screen points well above and left of the target.
	if hit := g.Shoot(0, 0); hit != -1 {
		t.Errorf("corner shot hit %d", hit)
	}
}

func TestRenderDrawsVisibleInstances(t *testing.T) {
	g := newGame(t, "X.T\n...\n.P.\n")
	fr, err := g.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	instances := 0
	for _, set := range fr.Sets {
		if len(set.Transforms) != len(set.Materials) {
			t.Fatalf("set has %d transforms but %d materials", len(set.Transforms), len(set.Materials))
		}
		instances += len(set.Transforms)
	}
	if got := len(fr.Sets[level.CategoryTarget].Transforms); got != 1 {
		t.Errorf("visible targets = %d, want 1", got)
	}
	if got := len(fr.Sets[level.CategoryTree].Transforms); got != 1 {
		t.Errorf("visible trees = %d, want 1", got)
	}
	// One floor plus one mesh per visible instance.
	if got := g.DrawStats().Meshes; got != 1+instances {
		t.Errorf("meshes drawn = %d, want %d", got, 1+instances)
	}
	if g.Last() != fr {
		t.Error("Last does not return the rendered frame")
	}
}

func TestTargetFallsAfterHit(t *testing.T) {
	g := newGame(t, oneTarget)
	ctx := context.Background()

	g.ShootCenter()
	for range 300 {
		if _, err := g.Frame(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(g.Last().Sets[level.CategoryTarget].Transforms); got != 0 {
		t.Errorf("fallen target still drawn: %d", got)
	}

	g.Handle(Input{Action: ActionReset})
	fr, err := g.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(fr.Sets[level.CategoryTarget].Transforms); got != 1 {
		t.Errorf("after reset visible targets = %d, want 1", got)
	}
}

func TestSweep(t *testing.T) {
	g := newGame(t, oneTarget)
	g.Player.Yaw = 0.3

	headings, err := g.Sweep(context.Background(), 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(headings) != 16 {
		t.Fatalf("got %d headings", len(headings))
	}
	if got := headings[0].Visible[level.CategoryTarget]; got != 1 {
		t.Errorf("facing the target: %d visible", got)
	}
	if got := headings[8].Visible[level.CategoryTarget]; got != 0 {
		t.Errorf("facing away: %d visible", got)
	}
	if !approx(headings[4].Yaw, math.Pi/2) {
		t.Errorf("heading 4 yaw = %v", headings[4].Yaw)
	}
	if g.Player.Yaw != 0.3 {
		t.Errorf("yaw not restored: %v", g.Player.Yaw)
	}
}

func TestHandle(t *testing.T) {
	g := newGame(t, oneTarget)

	if !g.Handle(Input{Action: ActionToggleBounds}) || !g.showBounds {
		t.Error("toggle bounds")
	}
	if _, err := g.Render(context.Background()); err != nil {
		t.Fatalf("Render with bounds: %v", err)
	}

	w, h := float64(g.Framebuffer().Width), float64(g.Framebuffer().Height)
	g.Handle(Input{Action: ActionShoot, Aim: true, X: w / 2, Y: h / 2})
	if g.Scene.Alive() != 0 {
		t.Error("aimed shot through the center missed")
	}

	g.Handle(Input{Action: ActionForward})
	g.Step()
	if g.Player.Position.Z >= g.Level.StartPosition().Z {
		t.Error("forward did not move the player toward -Z")
	}

	if g.Handle(Input{Action: ActionQuit}) {
		t.Error("quit did not end the session")
	}
}

func TestResize(t *testing.T) {
	g := newGame(t, oneTarget)
	g.Resize(120, 40)
	if fb := g.Framebuffer(); fb.Width != 120 || fb.Height != 40 {
		t.Errorf("framebuffer %dx%d", fb.Width, fb.Height)
	}
	if !approx(g.Camera.AspectRatio, 3) {
		t.Errorf("aspect = %v, want 3", g.Camera.AspectRatio)
	}
	if _, err := g.Render(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestHUDStatus(t *testing.T) {
	g := newGame(t, oneTarget)
	hud := NewHUD()

	line := hud.Status(g.Scene, nil, 200)
	if !strings.Contains(line, "score 0/1") {
		t.Errorf("status %q lacks the score", line)
	}

	g.ShootCenter()
	fr, err := g.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	line = hud.Status(g.Scene, fr, 200)
	for _, want := range []string{"score 1/1", "shots 1", "CLEARED"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q lacks %q", line, want)
		}
	}
	if w := lipgloss.Width(hud.Status(g.Scene, fr, 20)); w > 20 {
		t.Errorf("status width %d exceeds 20", w)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func BenchmarkFrame(b *testing.B) {
	g, err := New(DefaultConfig(), level.Default(), 160, 90, nil)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	for b.Loop() {
		if _, err := g.Frame(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
