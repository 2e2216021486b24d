package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"testtree.dev/pkg/testtree/internal/domain"
	m "testtree.dev/pkg/testtree/internal/model"
)

var runSnapshotFlag string
var runRecordFlag string
var runTimeoutFlag time.Duration

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run every test once and print the results",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Run(cmd.Context(), domain.RunArgs{
				ListArgs: listArgs(args),
				Snapshot: m.Path(runSnapshotFlag),
				Record:   m.Path(runRecordFlag),
				Timeout:  viper.GetDuration(runTimeoutKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runSnapshotFlag, snapshotFlagName, "s", "", "write the final tree to this YAML snapshot")
	cmd.Flags().StringVar(&runRecordFlag, recordFlagName, "", "record every backend event and write them as a replay script")
	cmd.Flags().DurationVarP(&runTimeoutFlag, timeoutFlagName, "t", viper.GetDuration(runTimeoutKey), "abort the run after this long (0 means no limit)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), runTimeoutKey)
}
