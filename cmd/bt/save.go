package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/behavior/internal/core/runner"
	"github.com/zeusync/behavior/internal/demo/door"
)

var saveCmd = &cobra.Command{
	Use:   "save <snapshot> [tree-file]",
	Short: "Tick a tree a few times and save the paused run",
	Long: `Builds the tree, ticks it --ticks times and writes tree and environment to
the snapshot. Files ending in .yaml, .yml or .txt are written as text, anything
else as checksummed binary.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticks, _ := cmd.Flags().GetInt("ticks")
		distance, _ := cmd.Flags().GetFloat32("distance")

		d, _, err := newDoor(cmd, runner.Config{})
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		s := &door.Snapshot{Env: door.Environment{DistanceToDoor: distance}}
		if s.Tree, err = loadTree(d, path); err != nil {
			return err
		}
		for i := 0; i < ticks && !door.Done(&s.Env); i++ {
			s.Tree.Tick(&s.Env)
		}

		if err := door.SaveSnapshot(args[0], s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d nodes to %s\n", s.Tree.Len(), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().Int("ticks", 0, "Ticks to run before saving")
	saveCmd.Flags().Float32("distance", 3, "Starting distance to the door")
}
