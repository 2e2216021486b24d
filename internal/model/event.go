package model

// LoadEventType distinguishes the two load events.
type LoadEventType string

// Available LoadEventType values.
const (
	LoadStarted  LoadEventType = "started"
	LoadFinished LoadEventType = "finished"
)

// LoadEvent is emitted by a backend while it discovers tests.
// A finished event carries either a Suite or an ErrorMessage.
type LoadEvent struct {
	Type         LoadEventType `yaml:"type"`
	Suite        *NodeInfo     `yaml:"suite,omitempty"`
	ErrorMessage string        `yaml:"error,omitempty"`
}

// RunEventType distinguishes the four run events.
type RunEventType string

// Available RunEventType values.
const (
	RunStarted  RunEventType = "started"
	RunSuite    RunEventType = "suite"
	RunTest     RunEventType = "test"
	RunFinished RunEventType = "finished"
)

// SuiteState is the state reported by a suite event.
type SuiteState string

// Available SuiteState values.
const (
	SuiteRunning   SuiteState = "running"
	SuiteCompleted SuiteState = "completed"
)

// Decoration is a message anchored to a source line, usually a failure.
type Decoration struct {
	Line    int    `yaml:"line"`
	Message string `yaml:"message"`
}

// RunEvent is emitted by a backend while it runs tests.
//
// Suite and test events reference their node either by NodeID or by an
// inline Info description; Info allows the node to be created on the fly.
type RunEvent struct {
	Type        RunEventType `yaml:"type"`
	Tests       []string     `yaml:"tests,omitempty"`
	NodeID      string       `yaml:"id,omitempty"`
	Info        *NodeInfo    `yaml:"info,omitempty"`
	SuiteState  SuiteState   `yaml:"suite_state,omitempty"`
	TestState   CurrentState `yaml:"state,omitempty"`
	Message     string       `yaml:"message,omitempty"`
	Decorations []Decoration `yaml:"decorations,omitempty"`
}

// TargetID returns the id of the referenced node.
func (e RunEvent) TargetID() string {
	if e.Info != nil {
		return e.Info.ID
	}

	return e.NodeID
}

// RunStartedEvent builds a started event.
func RunStartedEvent(tests ...string) RunEvent {
	return RunEvent{Type: RunStarted, Tests: tests}
}

// RunFinishedEvent builds a finished event.
func RunFinishedEvent() RunEvent {
	return RunEvent{Type: RunFinished}
}

// SuiteEvent builds a suite event referencing a known id.
func SuiteEvent(id string, state SuiteState) RunEvent {
	return RunEvent{Type: RunSuite, NodeID: id, SuiteState: state}
}

// TestEvent builds a test event referencing a known id.
func TestEvent(id string, state CurrentState) RunEvent {
	return RunEvent{Type: RunTest, NodeID: id, TestState: state}
}
