package adapter

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	m "testtree.dev/pkg/testtree/internal/model"
)

// Test2JSONAction is the Action field of a go test -json record.
type Test2JSONAction string

// Available Test2JSONAction values.
const (
	ActionStart  Test2JSONAction = "start"
	ActionRun    Test2JSONAction = "run"
	ActionPause  Test2JSONAction = "pause"
	ActionCont   Test2JSONAction = "cont"
	ActionPass   Test2JSONAction = "pass"
	ActionBench  Test2JSONAction = "bench"
	ActionFail   Test2JSONAction = "fail"
	ActionOutput Test2JSONAction = "output"
	ActionSkip   Test2JSONAction = "skip"
)

// Test2JSONEvent is one record of go test -json output.
type Test2JSONEvent struct {
	Time    time.Time       `json:"Time"`
	Action  Test2JSONAction `json:"Action"`
	Package string          `json:"Package"`
	Test    string          `json:"Test"`
	Elapsed float64         `json:"Elapsed"`
	Output  string          `json:"Output"`
}

// DecodeTest2JSON parses one line; non-JSON lines report false.
func DecodeTest2JSON(line []byte) (Test2JSONEvent, bool) {
	var event Test2JSONEvent
	if err := json.Unmarshal(line, &event); err != nil || event.Action == "" {
		return Test2JSONEvent{}, false
	}

	return event, true
}

// TestName returns the top-level test of a possibly nested name.
func (e Test2JSONEvent) TestName() string {
	name, _, _ := strings.Cut(e.Test, "/")
	return name
}

// IsSubtest reports whether the record belongs to a subtest.
func (e Test2JSONEvent) IsSubtest() bool {
	return strings.Contains(e.Test, "/")
}

// State maps a terminal action to a test state.
func (e Test2JSONEvent) State() (m.CurrentState, bool) {
	switch e.Action {
	case ActionRun:
		return m.CurrentRunning, true
	case ActionPass:
		return m.CurrentPassed, true
	case ActionFail:
		return m.CurrentFailed, true
	case ActionSkip:
		return m.CurrentSkipped, true
	case ActionStart, ActionPause, ActionCont, ActionBench, ActionOutput:
	}

	return "", false
}

var failureLine = regexp.MustCompile(`^\s*([\w.\-]+_test\.go):(\d+): ?(.*)$`)

// ParseDecorations extracts "file_test.go:12: message" lines from test output
// that refer to the given file base name.
func ParseDecorations(output, fileBase string) []m.Decoration {
	var decorations []m.Decoration

	for _, line := range strings.Split(output, "\n") {
		match := failureLine.FindStringSubmatch(line)
		if match == nil || (fileBase != "" && match[1] != fileBase) {
			continue
		}

		n, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}

		decorations = append(decorations, m.Decoration{Line: n, Message: strings.TrimSpace(match[3])})
	}

	return decorations
}
