package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/platform/spectate"
	"github.com/vovakirdan/tui-probot/internal/platform/tui"
)

var flagSpectate string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play ProBot",
	Long: `Start the level selector, or open the given level directly.

Controls:
  Up/Down, j/k  - Move the selection
  Tab           - Switch between the block palette and the program
  Enter         - Place the selected block under the selected program block
  K/J           - Move the selected block up or down
  x/Delete      - Trash the selected block
  c             - Cycle the block's parameter
  e             - Type the block's parameter
  r / s         - Run / stop the program
  h             - Show the level hint
  Ctrl+R        - Remove every block
  Ctrl+S        - Save a screenshot
  Esc           - Back to the level selector
  Q/Ctrl+C      - Quit

Your block layout is saved per level when you leave it.

Examples:
  probot play
  probot play level3
  probot play --spectate :8090   # stream frames to ws://host:8090/ws`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a websocket spectator stream on this address")
}

func runPlay(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog()
	if err != nil {
		return err
	}
	levelID := ""
	if len(args) == 1 {
		levelID = args[0]
		if _, err := cat.Load(levelID); err != nil {
			return fmt.Errorf("unknown level %q; run 'probot list' to see available levels", levelID)
		}
	}

	// The TUI owns the terminal, so logs go to a file.
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	logDir := filepath.Join(home, ".probot")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", logDir, err)
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, "probot.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, "probot")

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("playing without scores", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	root, err := layoutRoot(cfg)
	if err != nil {
		return err
	}

	env := tui.Env{
		Config:     cfg,
		Catalog:    cat,
		Store:      store,
		LayoutRoot: root,
		Player:     player(),
		Logger:     logger,
	}

	addr := flagSpectate
	if addr == "" {
		addr = cfg.Spectate.Addr
	}
	if addr != "" {
		srv := spectate.NewServer(addr, logger)
		srv.Start()
		env.Spectate = srv.Hub()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("spectator shutdown", "error", err)
			}
		}()
	}

	width, height := 100, 30
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: tui.GameTickRate,
	}

	if err := tui.Run(env, rc, levelID); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
