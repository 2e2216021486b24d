// Package adapter provides the ports the explorer core talks to and their local implementations.
package adapter

import (
	"context"
	"errors"

	m "testtree.dev/pkg/testtree/internal/model"
)

// ErrDebugUnsupported is returned by backends that cannot start a debugger.
var ErrDebugUnsupported = errors.New("debugging is not supported by this backend")

// ErrNoTests is returned when a backend finds nothing to run.
var ErrNoTests = errors.New("no tests found")

// Backend discovers and runs tests and reports what happened on its channels.
//
// Load, Run, Debug and Cancel schedule work and return; progress arrives on
// LoadEvents and RunEvents. A load emits started then exactly one finished;
// a run emits started, any number of suite and test events, then finished.
type Backend interface {
	ID() string
	Workspace() string
	LoadEvents() <-chan m.LoadEvent
	RunEvents() <-chan m.RunEvent
	Load(ctx context.Context) error
	Run(ctx context.Context, ids []string) error
	Debug(ctx context.Context, ids []string) error
	Cancel()
}

// AutorunSource is implemented by backends that signal relevant source changes.
type AutorunSource interface {
	Autorun() <-chan struct{}
}

// ConfigSource resolves the explorer settings for a workspace.
type ConfigSource interface {
	Settings(workspace string) m.Settings
}

// Picker resolves an ambiguous command target to a single node.
type Picker interface {
	Pick(ctx context.Context, candidates []m.Candidate) (m.NodeRef, bool)
}
