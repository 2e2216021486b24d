// Package cmd provides the root command and CLI setup for testtree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"testtree.dev/pkg/testtree/internal/adapter"
	"testtree.dev/pkg/testtree/internal/controller"
	"testtree.dev/pkg/testtree/internal/domain"
	m "testtree.dev/pkg/testtree/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var snapshotStore adapter.SnapshotStore
var configSource *adapter.ViperConfigSource
var backendFactory adapter.BackendFactory
var workflow domain.Workflow
var ui controller.UI

// replayScripts is a root-level flag adding replay backends to commands that load tests.
var replayScripts []string

// verboseFlag switches the log file to debug level.
var verboseFlag bool

// logFileFlag overrides log.filename.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter(viper.GetDuration(runPackageTimeout))
	snapshotStore = adapter.NewSnapshotStore(fsAdapter)
	configSource = adapter.NewViperConfigSource(nil)
	backendFactory = adapter.NewLocalBackendFactory(fsAdapter, goFileAdapter, testAdapter)
	workflow = domain.NewWorkflow(
		backendFactory,
		configSource,
		snapshotStore,
		fsAdapter,
		ui,
		domain.WithExplorerOptions(
			domain.WithDebounceDelay(viper.GetDuration(explorerDebounceKey)),
			domain.WithPicker(adapter.NewFirstPicker()),
		),
		domain.WithRecordDir(viper.GetString(runRecordDirKey)),
	)
}

const pathArgsHelp = `Each path names a directory inside a Go module; the module becomes one
test collection. Without paths the current module is used.`

const rootLongDescription = `testtree aggregates test results from one or more backends into a single
tree and keeps the state of every suite consistent with its tests while they
load, run and finish.

` + pathArgsHelp

const listLongDescription = `Load every collection and print its test tree.

` + pathArgsHelp

const runLongDescription = `Load and run every collection once, then print the tree and a summary.
The command fails when a test failed.

` + pathArgsHelp

const watchLongDescription = `Keep the tree open, re-running the autorun targets whenever a Go file
changes. Test files reload their package first.

` + pathArgsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testtree",
		Short: "Aggregated test explorer for Go",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVar(&replayScripts, replayFlagName, nil, "add the collections of a replay script (can be repeated)")

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := execute()
	if err != nil {
		os.Exit(1)
	}
}

// execute cancels the command context on interrupt so workflows can stop
// their backends.
func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// listArgs builds the backends selection shared by list, run and watch.
// Without paths or replay scripts the current directory is used.
func listArgs(args []string) domain.ListArgs {
	paths := parsePaths(args)
	replays := parsePaths(replayScripts)

	if len(paths) == 0 && len(replays) == 0 {
		paths = []m.Path{"."}
	}

	return domain.ListArgs{Paths: paths, Replays: replays}
}
