package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	m "testtree.dev/pkg/testtree/internal/model"
	"testtree.dev/pkg/testtree/pkg/spill"
)

// RecordedEvent is one backend event captured by a Recorder.
type RecordedEvent struct {
	RunID      string
	Collection string
	Workspace  string
	Load       *m.LoadEvent
	Run        *m.RunEvent
}

// Recorder tees backend events into a spill file.
type Recorder struct {
	runID string
	spill *spill.Spill[RecordedEvent]
	mu    sync.Mutex
	err   error
}

// NewRecorder creates a recorder spilling into dir under a fresh run id.
func NewRecorder(dir string) (*Recorder, error) {
	s, err := spill.New[RecordedEvent](dir)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	r := &Recorder{runID: uuid.New().String(), spill: s}
	slog.Info("recording backend events", "run_id", r.runID, "path", s.Path())

	return r, nil
}

// OpenRecording reads back a recording written by a Recorder.
func OpenRecording(path string) (*Recorder, error) {
	s, err := spill.Open[RecordedEvent](path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}

	runID, err := firstRunID(s)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}

	return &Recorder{runID: runID, spill: s}, nil
}

var errStopRange = errors.New("stop")

func firstRunID(s *spill.Spill[RecordedEvent]) (string, error) {
	var runID string

	err := s.Range(func(_ uint64, event RecordedEvent) error {
		runID = event.RunID
		return errStopRange
	})
	if err != nil && !errors.Is(err, errStopRange) {
		return "", err
	}

	return runID, nil
}

// RunID identifies the recording.
func (r *Recorder) RunID() string {
	return r.runID
}

// Path returns the spill file.
func (r *Recorder) Path() string {
	return r.spill.Path()
}

// Len returns the number of recorded events.
func (r *Recorder) Len() uint64 {
	return r.spill.Len()
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

func (r *Recorder) record(event RecordedEvent) {
	event.RunID = r.runID

	if err := r.spill.Append(event); err != nil {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

// Close flushes the recording.
func (r *Recorder) Close() error {
	return r.spill.Close()
}

// Wrap returns a backend that forwards every event of backend after recording it.
// Forwarding stops when ctx ends.
func (r *Recorder) Wrap(ctx context.Context, backend Backend) Backend {
	rb := &recordingBackend{
		Backend: backend,
		loads:   make(chan m.LoadEvent, eventBuffer),
		runs:    make(chan m.RunEvent, eventBuffer),
	}

	go func() {
		defer close(rb.loads)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-backend.LoadEvents():
				if !ok {
					return
				}

				r.record(RecordedEvent{Collection: backend.ID(), Workspace: backend.Workspace(), Load: &event})

				select {
				case <-ctx.Done():
					return
				case rb.loads <- event:
				}
			}
		}
	}()

	go func() {
		defer close(rb.runs)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-backend.RunEvents():
				if !ok {
					return
				}

				r.record(RecordedEvent{Collection: backend.ID(), Workspace: backend.Workspace(), Run: &event})

				select {
				case <-ctx.Done():
					return
				case rb.runs <- event:
				}
			}
		}
	}()

	return rb
}

// Scripts converts the recording to replay scripts, one per collection in
// order of first appearance. The last finished load becomes the script's
// load; every complete run becomes a scripted run.
func (r *Recorder) Scripts() ([]ReplayScript, error) {
	var order []string

	scripts := make(map[string]*ReplayScript)
	open := make(map[string][]m.RunEvent)

	err := r.spill.Range(func(_ uint64, event RecordedEvent) error {
		script, ok := scripts[event.Collection]
		if !ok {
			script = &ReplayScript{ID: event.Collection, Workspace: event.Workspace}
			scripts[event.Collection] = script
			order = append(order, event.Collection)
		}

		switch {
		case event.Load != nil && event.Load.Type == m.LoadFinished:
			script.Load = ReplayLoad{Suite: event.Load.Suite, Error: event.Load.ErrorMessage}
		case event.Run != nil:
			run := *event.Run
			if run.Type == m.RunStarted {
				open[event.Collection] = nil
			}

			open[event.Collection] = append(open[event.Collection], run)

			if run.Type == m.RunFinished {
				if events := open[event.Collection]; len(events) > 0 && events[0].Type == m.RunStarted {
					script.Runs = append(script.Runs, events)
				}

				delete(open, event.Collection)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}

	result := make([]ReplayScript, 0, len(order))

	for _, id := range order {
		script := scripts[id]
		if script.Load.Suite == nil && script.Load.Error == "" {
			slog.Warn("recording has no finished load, skipping", "collection", id)
			continue
		}

		result = append(result, *script)
	}

	return result, nil
}

type recordingBackend struct {
	Backend
	loads chan m.LoadEvent
	runs  chan m.RunEvent
}

func (b *recordingBackend) LoadEvents() <-chan m.LoadEvent { return b.loads }

func (b *recordingBackend) RunEvents() <-chan m.RunEvent { return b.runs }

// Autorun forwards the wrapped backend's autorun channel, if it has one.
func (b *recordingBackend) Autorun() <-chan struct{} {
	if source, ok := b.Backend.(AutorunSource); ok {
		return source.Autorun()
	}

	return nil
}
