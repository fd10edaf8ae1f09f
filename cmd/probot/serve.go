package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-probot/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ProBot SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the level selector and plays
as its SSH user name: scores and saved layouts are kept per user, and the
scoreboard is shared by everyone on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.probot/host_key

Examples:
  probot serve                           # Listen on :23235 with auto-generated key
  probot serve --ssh :2222               # Listen on port 2222
  probot serve --host-key ./my_host_key  # Use specific host key
  probot serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	RunE: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "probot-ssh")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog()
	if err != nil {
		return err
	}
	root, err := layoutRoot(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}, tui.Env{
		Config:     cfg,
		Catalog:    cat,
		Store:      store,
		LayoutRoot: root,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting ProBot SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
