package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/gallery/pkg/game"
	"github.com/taigrr/gallery/pkg/math3d"
)

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		out           string
		width, height int
		yaw, pitch    float64
		shoot         bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot [level]",
		Short: "Render one frame from the player start to a PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := opts.logger(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			tm, err := loadTilemap(args)
			if err != nil {
				return err
			}
			g, err := game.New(opts.cfg, tm, width, height, logger)
			if err != nil {
				return err
			}

			g.Player.Yaw = math3d.Radians(yaw)
			g.Player.Pitch = math3d.Radians(pitch)
			if shoot {
				g.ShootCenter()
			}

			fr, err := g.Render(cmd.Context())
			if err != nil {
				return err
			}
			if err := g.Framebuffer().SavePNG(out); err != nil {
				return err
			}

			ds := g.DrawStats()
			logger.Info("snapshot written", "path", out,
				"drawn", fr.Stats.Drawn, "culled", fr.Stats.Culled,
				"triangles", ds.Triangles, "backfaces", ds.BackFaces)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "frame.png", "PNG file to write")
	f.IntVar(&width, "width", 320, "image width in pixels")
	f.IntVar(&height, "height", 180, "image height in pixels")
	f.Float64Var(&yaw, "yaw", 0, "camera yaw in degrees (positive turns left)")
	f.Float64Var(&pitch, "pitch", 0, "camera pitch in degrees")
	f.BoolVar(&shoot, "shoot", false, "fire through the crosshair before rendering")
	return cmd
}
