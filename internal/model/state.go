package model

import "strings"

// CurrentState is the live status of a node during or after the latest run.
type CurrentState string

// Available CurrentState values.
const (
	CurrentPending       CurrentState = "pending"
	CurrentScheduled     CurrentState = "scheduled"
	CurrentRunning       CurrentState = "running"
	CurrentRunningFailed CurrentState = "running-failed"
	CurrentPassed        CurrentState = "passed"
	CurrentFailed        CurrentState = "failed"
	CurrentSkipped       CurrentState = "skipped"
	CurrentSelected      CurrentState = "selected"
)

// AllCurrentStates lists every CurrentState value.
var AllCurrentStates = []CurrentState{
	CurrentPending,
	CurrentScheduled,
	CurrentRunning,
	CurrentRunningFailed,
	CurrentPassed,
	CurrentFailed,
	CurrentSkipped,
	CurrentSelected,
}

// Failed reports whether the state ends in "failed".
func (s CurrentState) Failed() bool {
	return strings.HasSuffix(string(s), "failed")
}

// Finished reports whether the state is the outcome of a completed run.
func (s CurrentState) Finished() bool {
	switch s {
	case CurrentPassed, CurrentFailed, CurrentSkipped:
		return true
	default:
		return false
	}
}

// Active reports whether a run is in flight for the node.
func (s CurrentState) Active() bool {
	return s == CurrentScheduled || s == CurrentRunning
}

// PreviousState is the status as of the run before the current one.
type PreviousState string

// Available PreviousState values.
const (
	PreviousPending  PreviousState = "pending"
	PreviousPassed   PreviousState = "passed"
	PreviousFailed   PreviousState = "failed"
	PreviousSkipped  PreviousState = "skipped"
	PreviousSelected PreviousState = "selected"
)

// AllPreviousStates lists every PreviousState value.
var AllPreviousStates = []PreviousState{
	PreviousPending,
	PreviousPassed,
	PreviousFailed,
	PreviousSkipped,
	PreviousSelected,
}

// NodeState is the displayable status of one node.
type NodeState struct {
	Current  CurrentState  `yaml:"current"`
	Previous PreviousState `yaml:"previous"`
	Autorun  bool          `yaml:"autorun,omitempty"`
}

// IconKind identifies the icon a renderer shows for a node.
type IconKind string

// Available IconKind values.
const (
	IconPending            IconKind = "pending"
	IconPendingAutorun     IconKind = "pendingAutorun"
	IconScheduled          IconKind = "scheduled"
	IconRunning            IconKind = "running"
	IconRunningFailed      IconKind = "runningFailed"
	IconPassed             IconKind = "passed"
	IconPassedAutorun      IconKind = "passedAutorun"
	IconFailed             IconKind = "failed"
	IconFailedAutorun      IconKind = "failedAutorun"
	IconSkipped            IconKind = "skipped"
	IconSelected           IconKind = "selected"
	IconPassedFaint        IconKind = "passedFaint"
	IconPassedFaintAutorun IconKind = "passedFaintAutorun"
	IconFailedFaint        IconKind = "failedFaint"
	IconFailedFaintAutorun IconKind = "failedFaintAutorun"
	IconError              IconKind = "error"
)
