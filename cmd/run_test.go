package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"testtree.dev/pkg/testtree/internal/domain"
	domainmocks "testtree.dev/pkg/testtree/internal/domain/mocks"
	m "testtree.dev/pkg/testtree/internal/model"
)

// newTestRootCmd builds a root command with sub and routes the workflow to mockWorkflow.
func newTestRootCmd(t *testing.T, sub *cobra.Command, mockWorkflow domain.Workflow) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(sub)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return cmd, out
}

func TestRunCmd_DefaultsToCurrentModule(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd(), mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Paths) == 1 &&
			args.Paths[0] == m.Path(".") &&
			len(args.Replays) == 0 &&
			args.Snapshot == "" &&
			args.Record == ""
	})).Return(nil)

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_MultiplePaths(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd(), mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Paths) == 3 &&
			args.Paths[0] == m.Path("./cmd") &&
			args.Paths[1] == m.Path("./pkg") &&
			args.Paths[2] == m.Path("./internal")
	})).Return(nil)

	cmd.SetArgs([]string{"run", "./cmd", "./pkg", "./internal"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_SnapshotRecordAndTimeout(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd(), mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Snapshot == m.Path("out.yaml") &&
			args.Record == m.Path("events.yaml") &&
			args.Timeout == 90*time.Second
	})).Return(nil)

	cmd.SetArgs([]string{"run", "--snapshot", "out.yaml", "--record", "events.yaml", "--timeout", "90s", "."})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_ReplayFlagAddsScripts(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd(), mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Paths) == 0 &&
			len(args.Replays) == 2 &&
			args.Replays[0] == m.Path("a.yaml") &&
			args.Replays[1] == m.Path("b.yaml")
	})).Return(nil)

	cmd.SetArgs([]string{"--replay", "a.yaml", "--replay", "b.yaml", "run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_PropagatesFailure(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd(), mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.Anything).Return(domain.ErrTestsFailed)

	cmd.SetArgs([]string{"run"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTestsFailed))
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)

	assert.NotNil(t, cmd.Flags().Lookup(snapshotFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(recordFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(timeoutFlagName))
}
