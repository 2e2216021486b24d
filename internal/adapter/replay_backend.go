package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	m "testtree.dev/pkg/testtree/internal/model"
)

// ErrInvalidScript is returned for replay scripts that cannot drive a backend.
var ErrInvalidScript = errors.New("invalid replay script")

// ReplayLoad is the scripted outcome of a load: a suite or an error.
type ReplayLoad struct {
	Suite *m.NodeInfo `yaml:"suite,omitempty"`
	Error string      `yaml:"error,omitempty"`
}

// ReplayScript is the YAML document driving a ReplayBackend.
type ReplayScript struct {
	ID        string         `yaml:"id"`
	Workspace string         `yaml:"workspace,omitempty"`
	Load      ReplayLoad     `yaml:"load"`
	Runs      [][]m.RunEvent `yaml:"runs,omitempty"`
}

// Validate checks the script can be replayed.
func (s ReplayScript) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidScript)
	}

	if s.Load.Suite == nil && s.Load.Error == "" {
		return fmt.Errorf("%w: %s: load needs a suite or an error", ErrInvalidScript, s.ID)
	}

	for i, run := range s.Runs {
		if len(run) == 0 || run[0].Type != m.RunStarted || run[len(run)-1].Type != m.RunFinished {
			return fmt.Errorf("%w: %s: run %d must start with started and end with finished", ErrInvalidScript, s.ID, i)
		}
	}

	return nil
}

// ParseReplayScripts decodes one or more YAML documents.
func ParseReplayScripts(data []byte) ([]ReplayScript, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var scripts []ReplayScript

	for {
		var script ReplayScript

		err := decoder.Decode(&script)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("decode replay script: %w", err)
		}

		if err := script.Validate(); err != nil {
			return nil, err
		}

		scripts = append(scripts, script)
	}

	if len(scripts) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
	}

	return scripts, nil
}

// EncodeReplayScript writes script as YAML.
func EncodeReplayScript(script ReplayScript) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(script); err != nil {
		return nil, fmt.Errorf("encode replay script: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode replay script: %w", err)
	}

	return buf.Bytes(), nil
}

// ReplayBackend plays back a recorded or hand-written script.
type ReplayBackend struct {
	script ReplayScript

	loads   chan m.LoadEvent
	runs    chan m.RunEvent
	autorun chan struct{}

	mu       sync.Mutex
	next     int
	runMu    sync.Mutex
	cancel   context.CancelFunc
	debugged [][]string
}

// NewReplayBackend creates a backend for a validated script.
func NewReplayBackend(script ReplayScript) *ReplayBackend {
	if script.Workspace == "" {
		script.Workspace = script.ID
	}

	return &ReplayBackend{
		script:  script,
		loads:   make(chan m.LoadEvent, eventBuffer),
		runs:    make(chan m.RunEvent, eventBuffer),
		autorun: make(chan struct{}, 1),
	}
}

// ID implements Backend.
func (b *ReplayBackend) ID() string { return b.script.ID }

// Workspace implements Backend.
func (b *ReplayBackend) Workspace() string { return b.script.Workspace }

// LoadEvents implements Backend.
func (b *ReplayBackend) LoadEvents() <-chan m.LoadEvent { return b.loads }

// RunEvents implements Backend.
func (b *ReplayBackend) RunEvents() <-chan m.RunEvent { return b.runs }

// Autorun implements AutorunSource.
func (b *ReplayBackend) Autorun() <-chan struct{} { return b.autorun }

// TriggerAutorun simulates a relevant source change.
func (b *ReplayBackend) TriggerAutorun() {
	select {
	case b.autorun <- struct{}{}:
	default:
	}
}

// Remaining returns how many scripted runs are left.
func (b *ReplayBackend) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.script.Runs) - b.next
}

// Load implements Backend.
func (b *ReplayBackend) Load(ctx context.Context) error {
	finished := m.LoadEvent{Type: m.LoadFinished, ErrorMessage: b.script.Load.Error}
	if b.script.Load.Suite != nil {
		finished = m.LoadEvent{Type: m.LoadFinished, Suite: cloneInfo(b.script.Load.Suite)}
	}

	go func() {
		for _, event := range []m.LoadEvent{{Type: m.LoadStarted}, finished} {
			select {
			case <-ctx.Done():
				return
			case b.loads <- event:
			}
		}
	}()

	return nil
}

// Run implements Backend. The next scripted run is replayed; once the script
// is exhausted every requested leaf passes.
func (b *ReplayBackend) Run(ctx context.Context, ids []string) error {
	events := b.nextRun(ids)
	if events == nil {
		return fmt.Errorf("replay %s %v: %w", b.script.ID, ids, ErrNoTests)
	}

	runCtx, cancel := context.WithCancel(ctx)

	go func() {
		b.runMu.Lock()
		defer b.runMu.Unlock()

		b.mu.Lock()
		b.cancel = cancel
		b.mu.Unlock()

		defer func() {
			b.mu.Lock()
			b.cancel = nil
			b.mu.Unlock()
			cancel()
		}()

		for i, event := range events {
			last := i == len(events)-1
			if runCtx.Err() != nil && !last {
				continue
			}

			select {
			case <-ctx.Done():
				return
			case b.runs <- event:
			}
		}
	}()

	return nil
}

func (b *ReplayBackend) nextRun(ids []string) []m.RunEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.next < len(b.script.Runs) {
		run := b.script.Runs[b.next]
		b.next++

		slog.Debug("replaying scripted run", "backend", b.script.ID, "run", b.next, "events", len(run))

		return cloneRun(run)
	}

	if b.script.Load.Suite == nil {
		return nil
	}

	leaves := leavesUnder(b.script.Load.Suite, ids)
	if len(leaves) == 0 {
		return nil
	}

	events := []m.RunEvent{m.RunStartedEvent(ids...)}
	for _, leaf := range leaves {
		events = append(events, m.TestEvent(leaf, m.CurrentRunning), m.TestEvent(leaf, m.CurrentPassed))
	}

	return append(events, m.RunFinishedEvent())
}

// Debug implements Backend; requests are recorded and not acted on.
func (b *ReplayBackend) Debug(_ context.Context, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.debugged = append(b.debugged, append([]string(nil), ids...))

	return nil
}

// Debugged lists the ids of every Debug call.
func (b *ReplayBackend) Debugged() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([][]string(nil), b.debugged...)
}

// Cancel implements Backend. The remaining events of the current run are
// dropped except finished.
func (b *ReplayBackend) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
}

func leavesUnder(root *m.NodeInfo, ids []string) []string {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var leaves []string

	var walk func(n *m.NodeInfo, selected bool)
	walk = func(n *m.NodeInfo, selected bool) {
		if _, ok := wanted[n.ID]; ok {
			selected = true
		}

		if !n.IsSuite() {
			if selected && !n.Skipped {
				leaves = append(leaves, n.ID)
			}

			return
		}

		for _, child := range n.Children {
			walk(child, selected)
		}
	}
	walk(root, false)

	return leaves
}

func cloneInfo(info *m.NodeInfo) *m.NodeInfo {
	if info == nil {
		return nil
	}

	clone := *info
	if info.Line != nil {
		line := *info.Line
		clone.Line = &line
	}

	clone.Children = make([]*m.NodeInfo, 0, len(info.Children))
	for _, child := range info.Children {
		clone.Children = append(clone.Children, cloneInfo(child))
	}

	return &clone
}

func cloneRun(run []m.RunEvent) []m.RunEvent {
	events := make([]m.RunEvent, len(run))

	for i, event := range run {
		event.Info = cloneInfo(event.Info)
		event.Tests = append([]string(nil), event.Tests...)
		event.Decorations = append([]m.Decoration(nil), event.Decorations...)
		events[i] = event
	}

	return events
}
