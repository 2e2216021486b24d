package cmd

import (
	"github.com/spf13/cobra"

	"testtree.dev/pkg/testtree/internal/domain"
)

var watchRunFlag bool

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-run tests whenever sources change",
		Long:  watchLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Watch(cmd.Context(), domain.WatchArgs{
				ListArgs:   listArgs(args),
				RunOnStart: watchRunFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&watchRunFlag, runOnStartFlagName, false, "run every test once after loading")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
