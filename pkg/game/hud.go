package game

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/scene"
)

// HUD formats the one-line status bar drawn over the top terminal row.
type HUD struct {
	base    lipgloss.Style
	score   lipgloss.Style
	stats   lipgloss.Style
	cleared lipgloss.Style

	fps     float64
	frames  int
	fpsTime time.Time
}

// NewHUD creates a HUD with the FPS counter starting now.
func NewHUD() *HUD {
	base := lipgloss.NewStyle().
		Background(lipgloss.Color("#1e1e28")).
		Foreground(lipgloss.Color("#e0e0e0")).
		Padding(0, 1)
	return &HUD{
		base:    base,
		score:   base.Bold(true).Foreground(lipgloss.Color("#ffd75f")),
		stats:   base.Foreground(lipgloss.Color("#5fd7ff")),
		cleared: base.Bold(true).Foreground(lipgloss.Color("#1e1e28")).Background(lipgloss.Color("#87d787")),
		fpsTime: time.Now(),
	}
}

// Tick counts a frame. Call it once per frame.
func (h *HUD) Tick(now time.Time) {
	h.frames++
	if elapsed := now.Sub(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.fpsTime = now
	}
}

// FPS returns the frame rate measured over the last full second.
func (h *HUD) FPS() float64 { return h.fps }

// Status renders the status line for the scene and the last culled frame,
// cut to width cells.
func (h *HUD) Status(s *scene.Scene, fr *scene.Frame, width int) string {
	parts := []string{
		h.score.Render(fmt.Sprintf("score %d/%d", s.Score(), len(s.Targets))),
		h.base.Render(fmt.Sprintf("shots %d", s.Shots())),
	}
	if fr != nil {
		parts = append(parts, h.stats.Render(fmt.Sprintf("drawn %d culled %d", fr.Stats.Drawn, fr.Stats.Culled)))
		tgt := fr.Sets[level.CategoryTarget]
		parts = append(parts, h.base.Render(fmt.Sprintf("targets in view %d", len(tgt.Transforms))))
	}
	parts = append(parts, h.base.Render(fmt.Sprintf("%.0f fps", h.fps)))
	if s.Cleared() {
		parts = append(parts, h.cleared.Render("CLEARED  r to restart"))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return lipgloss.NewStyle().MaxWidth(max(0, width)).Render(line)
}
