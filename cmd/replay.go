package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"testtree.dev/pkg/testtree/internal/domain"
	m "testtree.dev/pkg/testtree/internal/model"
)

var replaySnapshotFlag string

// replayCmd represents the replay command.
var replayCmd = newReplayCmd()

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>...",
		Short: "Drive the tree from recorded backend events",
		Long: `Load and run the collections described by replay scripts, as written by
'testtree run --record', and print the resulting tree and summary.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Replay(cmd.Context(), domain.ReplayArgs{
				Scripts:  parsePaths(args),
				Snapshot: m.Path(replaySnapshotFlag),
				Timeout:  viper.GetDuration(runTimeoutKey),
			})
		},
	}

	cmd.Flags().StringVarP(&replaySnapshotFlag, snapshotFlagName, "s", "", "write the final tree to this YAML snapshot")

	return cmd
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
