package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"testtree.dev/pkg/testtree/internal/domain"
	m "testtree.dev/pkg/testtree/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old.yaml> <new.yaml>",
		Short: "Compare two saved snapshots",
		Long:  "Print the node states that differ between two snapshots as a unified diff.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := workflow.Diff(cmd.Context(), domain.DiffArgs{
				Old: m.Path(args[0]),
				New: m.Path(args[1]),
			})
			if err != nil {
				return err
			}

			if text == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "snapshots are identical")
				return nil
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), text)

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
