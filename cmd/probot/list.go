package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long: `Shows every level in play order: the built-in levels plus any found
in the --levels directory. Solved levels show your best block count.`,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	cat, err := catalog()
	if err != nil {
		return err
	}
	infos, err := cat.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	progress := map[string]int{}
	if cfg, cfgErr := loadConfig(); cfgErr == nil {
		if store, storeErr := openStore(cfg); storeErr == nil {
			if p, pErr := store.Progress(player()); pErr == nil {
				progress = p
			}
			store.Close()
		}
	}

	maxIDLen := 2 // "ID" header
	for _, l := range infos {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "ID", "Title", "Best")
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "--", "-----", "----")
	for _, l := range infos {
		best := "-"
		if b, ok := progress[l.ID]; ok {
			best = fmt.Sprintf("%d blocks", b)
		}
		fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, l.ID, l.Title, best)
	}
	fmt.Println()
	fmt.Println("Run 'probot play <id>' to play a level.")
	return nil
}
