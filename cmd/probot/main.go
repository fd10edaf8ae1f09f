// probot is a visual-programming puzzle game for the terminal: snap
// blocks into a program and run it to walk the bot to the goal.
//
// Usage:
//
//	probot list                  - List levels and your progress
//	probot play [level]          - Play, starting at the level selector or a level
//	probot serve                 - Start SSH server for remote play
//	probot scores <level>        - Show the fewest-blocks solutions for a level
//	probot layout show <level>   - Print your saved block layout for a level
//	probot layout clear <level>  - Delete your saved block layout for a level
//	probot check <dir>           - Validate level files
//
// Global flags:
//
//	--config <path>  - ProBot config YAML
//	--db <path>      - Set database path (default: ~/.probot/scores.db)
//	--levels <dir>   - Extra level directory
//	--player <name>  - Player name for scores and layouts (default: $USER)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-probot/internal/config"
	_ "github.com/vovakirdan/tui-probot/internal/probot/levels/builtin" // Register the built-in levels
	"github.com/vovakirdan/tui-probot/internal/registry"
	"github.com/vovakirdan/tui-probot/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagLevels  string
	flagPlayer  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "probot",
	Short: "ProBot - program a robot with blocks in your terminal",
	Long: `ProBot is a visual programming puzzle. Snap Move, Turn, If, While and
For blocks under the start block, run the program and guide the bot
through doors, buttons and wormholes to the goal. Fewer blocks score
better.

Available commands:
  list     - Show all levels
  play     - Play, from the level selector or a given level
  serve    - Start SSH server for remote play
  scores   - View the fewest-blocks table of a level
  layout   - Inspect or clear saved block layouts
  check    - Validate a directory of level files

Examples:
  probot list
  probot play
  probot play level1
  probot serve --ssh :2222
  probot scores level2
  probot check ./levels`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to ProBot config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.probot/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory with extra level files")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (default: $USER)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(checkCmd)
}

// newLogger creates the command logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads the config named by --config or the default search path.
func loadConfig() (config.ProBotConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// catalog lists built-in levels plus those in --levels.
func catalog() (*registry.Catalog, error) {
	dir, err := config.ExpandHome(flagLevels)
	if err != nil {
		return nil, err
	}
	return registry.NewCatalog(dir), nil
}

// openStore opens the scores database with the configured default points.
func openStore(cfg config.ProBotConfig) (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	if cfg.Scoring.DefaultPoints > 0 {
		store.SetDefaultPoints(cfg.Scoring.DefaultPoints)
	}
	return store, nil
}

// player is --player, then $USER, then "player".
func player() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// layoutRoot is the configured layout directory with ~ expanded.
func layoutRoot(cfg config.ProBotConfig) (string, error) {
	return config.ExpandHome(cfg.Layout.Dir)
}
