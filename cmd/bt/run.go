package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/zeusync/behavior/internal/core/runner"
	"github.com/zeusync/behavior/internal/demo/door"
)

var runCmd = &cobra.Command{
	Use:   "run [tree-file]",
	Short: "Run a tree until the door task is done",
	Long: `Ticks the tree against a fresh door environment until the agent has walked
through and closed the door. Without a tree file the built-in door sequence is
used; --resume continues a saved snapshot instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxTicks, _ := cmd.Flags().GetInt("max-ticks")
		interval, _ := cmd.Flags().GetDuration("interval")
		distance, _ := cmd.Flags().GetFloat32("distance")
		resume, _ := cmd.Flags().GetString("resume")
		savePath, _ := cmd.Flags().GetString("save")

		d, reg, err := newDoor(cmd, runner.Config{MaxTicks: maxTicks, Interval: interval})
		if err != nil {
			return err
		}

		var s *door.Snapshot
		if resume != "" {
			if len(args) > 0 {
				return errors.New("--resume and a tree file cannot be used together")
			}
			if s, err = door.LoadSnapshot(resume, d.TreeOptions()...); err != nil {
				return err
			}
		} else {
			s = &door.Snapshot{Env: door.Environment{DistanceToDoor: distance}}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if s.Tree, err = loadTree(d, path); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, runErr := d.Runner.Run(ctx, s.Tree, &s.Env, door.Done)
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d ticks, last status %s, distance %.2f\n",
			res.RunID, res.Ticks, res.Status, s.Env.DistanceToDoor)

		if savePath != "" {
			if err := door.SaveSnapshot(savePath, s); err != nil {
				return errors.CombineErrors(runErr, err)
			}
		}
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}

		families, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				var labels string
				for _, lp := range m.GetLabel() {
					labels += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
				}
				switch {
				case m.GetCounter() != nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
				case m.GetHistogram() != nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s_count %d\n", mf.GetName(), m.GetHistogram().GetSampleCount())
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("max-ticks", runner.DefaultMaxTicks, "Give up after this many ticks")
	runCmd.Flags().Duration("interval", 0, "Pause between ticks")
	runCmd.Flags().Float32("distance", 3, "Starting distance to the door")
	runCmd.Flags().String("resume", "", "Continue the run saved in this snapshot")
	runCmd.Flags().String("save", "", "Save the final state to this snapshot")
}
