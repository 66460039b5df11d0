package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/gallery/pkg/game"
	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/math3d"
)

func newStatsCmd(opts *options) *cobra.Command {
	var headings, width, height int

	cmd := &cobra.Command{
		Use:   "stats [level]",
		Short: "Report what the frustum keeps at each heading from the player start",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if headings <= 0 {
				return fmt.Errorf("headings must be positive, got %d", headings)
			}
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

			results, err := g.Sweep(cmd.Context(), headings)
			if err != nil {
				return err
			}

			var total game.Heading
			for _, h := range results {
				kv := []any{"yaw", fmt.Sprintf("%.1f", math3d.Degrees(h.Yaw))}
				for c := range level.NumCategories {
					kv = append(kv, c.String(), h.Visible[c])
					total.Visible[c] += h.Visible[c]
				}
				kv = append(kv, "culled", h.Stats.Culled)
				logger.Info("heading", kv...)
				total.Stats.Add(h.Stats.Tested, h.Stats.Drawn)
			}

			logger.Info("sweep",
				"headings", len(results),
				"instances", g.Level.Count(),
				"tested", total.Stats.Tested,
				"drawn", total.Stats.Drawn,
				"culled", total.Stats.Culled)
			return nil
		},
	}

	cmd.Flags().IntVar(&headings, "headings", 16, "number of evenly spaced headings")
	cmd.Flags().IntVar(&width, "width", 160, "viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", 90, "viewport height in pixels")
	return cmd
}
