package cmd

import (
	"github.com/spf13/cobra"

	"testtree.dev/pkg/testtree/internal/domain"
	m "testtree.dev/pkg/testtree/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <snapshot.yaml>",
		Short: "View a saved snapshot",
		Long:  "View the tree saved by 'testtree run --snapshot'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.View(cmd.Context(), domain.ViewArgs{Snapshot: m.Path(args[0])})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
