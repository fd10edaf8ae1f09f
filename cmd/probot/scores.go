package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagScoreLimit int
	flagClear      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show the fewest-blocks table for a level",
	Long: `Display the best solutions of a level: fewest blocks first, then
fewest ticks.

Examples:
  probot scores level1
  probot scores level2 --limit 25
  probot scores level2 --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoreLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every score of the level")
}

func runScores(_ *cobra.Command, args []string) error {
	levelID := args[0]

	cat, err := catalog()
	if err != nil {
		return err
	}
	lvl, err := cat.Load(levelID)
	if err != nil {
		return fmt.Errorf("unknown level %q; run 'probot list' to see available levels", levelID)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(levelID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s\n", lvl.Name)
		return nil
	}

	scores, err := store.TopScores(levelID, flagScoreLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("Fewest Blocks - %s\n", lvl.Name)
	fmt.Println()
	if len(scores) == 0 {
		fmt.Println("  Nobody has solved this level yet.")
		return nil
	}

	fmt.Printf("  %-5s  %-16s  %6s  %6s  %s\n", "Rank", "Player", "Blocks", "Ticks", "Date")
	fmt.Printf("  %-5s  %-16s  %6s  %6s  %s\n", "----", "------", "------", "-----", "----")
	for i, s := range scores {
		fmt.Printf("  #%-4d  %-16s  %6d  %6d  %s\n", i+1, s.Player, s.Blocks, s.Ticks, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.LevelStats(levelID); err == nil && stats.Solves > 0 {
		fmt.Println()
		fmt.Printf("  %d solves, average %.1f blocks\n", stats.Solves, stats.Average)
	}
	best, err := store.BestScore(player(), levelID)
	if err == nil {
		fmt.Printf("  your best (%s): %d\n", player(), best)
	}
	return nil
}
