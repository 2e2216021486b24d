// Package controller provides the user interfaces that display the test tree.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "testtree.dev/pkg/testtree/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeRun
	ModeWatch
)

// Command is a user request issued from an interactive UI.
type Command int

// Available Command values.
const (
	CommandRunAll Command = iota
	CommandRunNode
	CommandDebugNode
	CommandReload
	CommandCancel
	CommandAutorunRoot
	CommandAutorunNode
	CommandClearAutorun
	CommandReset
	CommandRetire
)

// CommandHandler executes a command. Ref is the highlighted node, if any.
type CommandHandler func(ctx context.Context, command Command, ref *m.NodeRef) error

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode    StartMode
	title   string
	handler CommandHandler
}

// WithMode sets the UI mode.
func WithMode(mode StartMode) StartOption {
	return func(c *StartConfig) {
		c.mode = mode
	}
}

// WithTitle sets the heading shown above the tree.
func WithTitle(title string) StartOption {
	return func(c *StartConfig) {
		c.title = title
	}
}

// WithCommandHandler routes interactive commands to handler.
func WithCommandHandler(handler CommandHandler) StartOption {
	return func(c *StartConfig) {
		c.handler = handler
	}
}

func newStartConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeList, title: "testtree"}
	for _, opt := range options {
		opt(&config)
	}

	return config
}

// UI displays the test tree and its progress.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayTree(ctx context.Context, rows []m.TreeRow)
	DisplayBusy(ctx context.Context, loading, running bool)
	DisplayMessage(ctx context.Context, text string, isError bool)
	DisplayCodeLenses(ctx context.Context, lenses []m.CodeLens)
	DisplaySummary(ctx context.Context, summary m.Summary)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// NewUI picks the interactive UI for terminals and the plain one otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
