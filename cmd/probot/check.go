package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-probot/internal/config"
	"github.com/vovakirdan/tui-probot/internal/probot/levels"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Validate level files",
	Long: `Parse every .yaml and .yml file under dir and report the ones that
do not describe a playable level: schema violations, bad layouts, spawns,
obstacles and links, and duplicate level IDs.

Exits with status 1 when any file fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(_ *cobra.Command, args []string) error {
	dir, err := config.ExpandHome(args[0])
	if err != nil {
		return err
	}
	failures, total, err := levels.NewLoader(dir).Check()
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(failures))
	for p := range failures {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Printf("FAIL  %s\n      %v\n", p, failures[p])
	}
	fmt.Printf("%d files, %d valid, %d failed\n", total, total-len(failures), len(failures))
	if len(failures) > 0 {
		os.Exit(1)
	}
	return nil
}
