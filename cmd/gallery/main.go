// gallery - terminal shooter gallery
// Walk a tile-built level, shoot the targets, watch the frustum cull.
//
// Controls:
//
//	W/S, up/down     - Walk forward/back
//	A/D              - Strafe left/right
//	left/right, Q/E  - Turn
//	PgUp/PgDn        - Look up/down
//	Space, click     - Shoot (crosshair, or where you click)
//	B                - Toggle bounding boxes
//	R                - Reset targets and position
//	Esc              - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/gallery/pkg/game"
	"github.com/taigrr/gallery/pkg/level"
)

// options are the flags shared by every subcommand.
type options struct {
	cfg      game.Config
	logLevel string
	logFile  string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: game.DefaultConfig()}

	root := &cobra.Command{
		Use:   "gallery",
		Short: "Terminal shooter gallery with frustum culling",
		Long: "gallery derives a 3D level from a text tilemap and renders it in the terminal.\n" +
			"Every frame the camera frustum culls walls, doors, windows, trees and targets\n" +
			"before the software rasterizer draws what is left.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.IntVar(&opts.cfg.FPS, "fps", opts.cfg.FPS, "target frames per second")
	pf.Float64Var(&opts.cfg.FOV, "fov", opts.cfg.FOV, "vertical field of view in degrees")
	pf.Float64Var(&opts.cfg.Far, "far", opts.cfg.Far, "far clip distance")
	pf.Float64Var(&opts.cfg.Dims.Length, "wall-length", opts.cfg.Dims.Length, "wall length, also the tile size")
	pf.Float64Var(&opts.cfg.Dims.Height, "wall-height", opts.cfg.Dims.Height, "wall height")
	pf.Float64Var(&opts.cfg.Dims.Depth, "wall-depth", opts.cfg.Dims.Depth, "wall thickness")
	pf.IntVar(&opts.cfg.Workers, "workers", opts.cfg.Workers, "culling goroutines (0 = GOMAXPROCS)")
	pf.StringVar(&opts.cfg.TargetShape, "target-shape", opts.cfg.TargetShape, "primitive drawn for targets (cube, quad, pyramid)")
	pf.StringVar(&opts.cfg.TargetModel, "target-model", "", "glTF/GLB model drawn for targets")
	pf.StringVar(&opts.cfg.TextureDir, "texture-dir", "", "directory of <material>.png textures")
	pf.BoolVar(&opts.cfg.ShowBounds, "bounds", false, "draw bounding boxes")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(newPlayCmd(opts), newStatsCmd(opts), newSnapshotCmd(opts))
	return root
}

// logger builds the logger. fallback receives output when no log file is
// set; the returned closer releases the file.
func (o *options) logger(fallback io.Writer) (*log.Logger, func() error, error) {
	lvl, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	w, closer := fallback, func() error { return nil }
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "gallery",
		ReportTimestamp: true,
	})
	return logger, closer, nil
}

// loadTilemap reads the level named by args, or the built-in one.
func loadTilemap(args []string) (*level.Tilemap, error) {
	if len(args) == 0 {
		return level.Default(), nil
	}
	tm, err := level.Load(args[0])
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	return tm, nil
}
