package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-probot/internal/probot/layout"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect or clear saved block layouts",
	Long: `Block layouts are saved per player and level when you leave a level,
and restored when you open it again.`,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show <level>",
	Short: "Print the saved layout of a level",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutShow,
}

var layoutClearCmd = &cobra.Command{
	Use:   "clear <level>",
	Short: "Delete the saved layout of a level",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutClear,
}

func init() {
	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutClearCmd)
}

func playerLayouts() (*layout.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	root, err := layoutRoot(cfg)
	if err != nil {
		return nil, err
	}
	return layout.ForPlayer(root, player(), cfg.Layout.MaxRecords), nil
}

func runLayoutShow(_ *cobra.Command, args []string) error {
	store, err := playerLayouts()
	if err != nil {
		return err
	}
	records, err := store.Load(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No saved layout for %s.\n", args[0])
		return nil
	}

	fmt.Printf("Layout of %s (%d blocks):\n\n", args[0], len(records))
	fmt.Printf("  %-8s  %5s  %5s  %s\n", "Kind", "X", "Y", "Param")
	for _, r := range records {
		fmt.Printf("  %-8s  %5d  %5d  %s\n", r.Kind, r.X, r.Y, r.Param)
	}
	return nil
}

func runLayoutClear(_ *cobra.Command, args []string) error {
	store, err := playerLayouts()
	if err != nil {
		return err
	}
	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Cleared layout of %s.\n", args[0])
	return nil
}
