package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/gallery/pkg/game"
	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/render"
)

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play [level]",
		Short: "Play a level in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the renderer; logs only go to --log-file.
			logger, closeLog, err := opts.logger(io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			tm, err := loadTilemap(args)
			if err != nil {
				return err
			}
			return play(cmd.Context(), opts.cfg, tm, logger)
		},
	}
}

// keyActions maps key names to actions. Entries are matched in order.
var keyActions = []struct {
	keys   []string
	action game.Action
}{
	{[]string{"w", "up"}, game.ActionForward},
	{[]string{"s", "down"}, game.ActionBack},
	{[]string{"a"}, game.ActionStrafeLeft},
	{[]string{"d"}, game.ActionStrafeRight},
	{[]string{"left", "q"}, game.ActionTurnLeft},
	{[]string{"right", "e"}, game.ActionTurnRight},
	{[]string{"pgup"}, game.ActionLookUp},
	{[]string{"pgdown"}, game.ActionLookDown},
	{[]string{"space"}, game.ActionShoot},
	{[]string{"r"}, game.ActionReset},
	{[]string{"b"}, game.ActionToggleBounds},
	{[]string{"escape", "ctrl+c"}, game.ActionQuit},
}

func keyAction(ev uv.KeyPressEvent) game.Action {
	for _, k := range keyActions {
		if ev.MatchString(k.keys...) {
			return k.action
		}
	}
	return game.ActionNone
}

func play(ctx context.Context, cfg game.Config, tm *level.Tilemap, logger *log.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1000h") // mouse click tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1000l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	g, err := game.New(cfg, tm, fbWidth, fbHeight, logger)
	if err != nil {
		return err
	}
	hud := game.NewHUD()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Events are decoded here and applied on the frame loop, which owns the
	// game state.
	inputs := make(chan game.Input, 64)
	resizes := make(chan uv.WindowSizeEvent, 1)
	go func() {
		for ev := range term.Events() {
			var in game.Input
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resizes <- ev:
				default:
				}
				continue
			case uv.KeyPressEvent:
				in.Action = keyAction(ev)
			case uv.MouseClickEvent:
				// Each cell holds two pixel rows.
				in = game.Input{Action: game.ActionShoot, Aim: true, X: float64(ev.X) + 0.5, Y: float64(ev.Y)*2 + 1}
			}
			if in.Action == game.ActionNone {
				continue
			}
			select {
			case inputs <- in:
			case <-ctx.Done():
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.FPS)
	for {
		now := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-resizes:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				g.Resize(termRenderer.FramebufferSize())
				logger.Debug("resize", "cols", width, "rows", height)
			case in := <-inputs:
				if !g.Handle(in) {
					return nil
				}
			default:
				break drain
			}
		}

		fr, err := g.Frame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("frame: %w", err)
		}

		termRenderer.Render(g.Framebuffer())
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		hud.Tick(now)
		fmt.Fprint(os.Stdout, "\x1b[1;1H\x1b[2K"+hud.Status(g.Scene, fr, width))

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
