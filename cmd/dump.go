package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mabhi256/gripview/internal/tui"
)

var (
	dumpFlags    sourceFlags
	dumpDepth    int
	dumpParallel int
)

var dumpCmd = &cobra.Command{
	Use:   "dump [snapshot.json]",
	Short: "Print an object tree expanded to a fixed depth",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, &dumpFlags, args)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		depth := cfg.Inspect.Depth
		if cmd.Flags().Changed("depth") {
			depth = dumpDepth
		}
		return tui.Dump(ctx, cmd.OutOrStdout(), s.store, tui.DumpOptions{
			Depth:    depth,
			Parallel: dumpParallel,
			Timeout:  cfg.Remote.Timeout,
		})
	},
}

func init() {
	dumpFlags.register(dumpCmd)
	dumpCmd.Flags().IntVarP(&dumpDepth, "depth", "d", 2, "Levels to expand below the roots")
	dumpCmd.Flags().IntVar(&dumpParallel, "parallel", 8, "Concurrent loads per level")
	rootCmd.AddCommand(dumpCmd)
}
