package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mabhi256/gripview/internal/tui"
)

var inspectFlags sourceFlags

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot.json]",
	Short: "Browse an object tree interactively",
	Long: `Inspect opens a tree browser over the roots of a snapshot file, or over the
results of --eval expressions on a live remote debugging server.

Examples:
  gripview inspect session.json
  gripview inspect --url ws://localhost:6080 --console console1 -e window -e document`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, &inspectFlags, args)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		return tui.Run(s.store, tui.Options{
			Title:   s.title,
			Timeout: cfg.Remote.Timeout,
		})
	},
}

func init() {
	inspectFlags.register(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}
