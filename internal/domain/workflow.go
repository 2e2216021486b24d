package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"testtree.dev/pkg/testtree/internal/adapter"
	"testtree.dev/pkg/testtree/internal/controller"
	m "testtree.dev/pkg/testtree/internal/model"
)

// ErrTestsFailed is returned by Run and Replay when at least one test failed.
var ErrTestsFailed = errors.New("tests failed")

// ErrNoBackends is returned when a command has nothing to drive.
var ErrNoBackends = errors.New("no test sources given")

// ListArgs selects the backends a command drives.
type ListArgs struct {
	Paths   []m.Path
	Replays []m.Path
}

// RunArgs contains the arguments for running every test once.
type RunArgs struct {
	ListArgs
	Snapshot m.Path
	Record   m.Path
	Timeout  time.Duration
}

// WatchArgs contains the arguments for the interactive watch mode.
type WatchArgs struct {
	ListArgs
	RunOnStart bool
}

// ReplayArgs contains the arguments for driving replay scripts.
type ReplayArgs struct {
	Scripts  []m.Path
	Snapshot m.Path
	Timeout  time.Duration
}

// ViewArgs names a saved snapshot.
type ViewArgs struct {
	Snapshot m.Path
}

// DiffArgs names two saved snapshots.
type DiffArgs struct {
	Old m.Path
	New m.Path
}

// Workflow is what the commands do, behind an interface so they can be mocked.
type Workflow interface {
	List(ctx context.Context, args ListArgs) error
	Run(ctx context.Context, args RunArgs) error
	Watch(ctx context.Context, args WatchArgs) error
	Replay(ctx context.Context, args ReplayArgs) error
	View(ctx context.Context, args ViewArgs) error
	Diff(ctx context.Context, args DiffArgs) (string, error)
}

// ConfigWatcher is implemented by configuration sources that report changes.
type ConfigWatcher interface {
	Watch(onChange func([]adapter.SettingsChange))
}

type workflow struct {
	factory   adapter.BackendFactory
	config    adapter.ConfigSource
	store     adapter.SnapshotStore
	fs        adapter.SourceFSAdapter
	ui        controller.UI
	options   []Option
	recordDir string
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*workflow)

// WithExplorerOptions passes options to every explorer the workflow creates.
func WithExplorerOptions(opts ...Option) WorkflowOption {
	return func(w *workflow) {
		w.options = append(w.options, opts...)
	}
}

// WithRecordDir sets where recordings are spilled before export.
func WithRecordDir(dir string) WorkflowOption {
	return func(w *workflow) {
		w.recordDir = dir
	}
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	factory adapter.BackendFactory,
	config adapter.ConfigSource,
	store adapter.SnapshotStore,
	fs adapter.SourceFSAdapter,
	ui controller.UI,
	opts ...WorkflowOption,
) Workflow {
	w := &workflow{
		factory: factory,
		config:  config,
		store:   store,
		fs:      fs,
		ui:      ui,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// session is one explorer driven by its event loop.
type session struct {
	ctx         context.Context
	explorer    *Explorer
	loop        *EventLoop
	group       *errgroup.Group
	cancel      context.CancelFunc
	unsubscribe func()
}

func (w *workflow) open(ctx context.Context) *session {
	explorer := NewExplorer(w.config, append([]Option{WithSourceFS(w.fs)}, w.options...)...)
	loop := NewEventLoop(explorer)

	sessionCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(sessionCtx)

	s := &session{
		ctx:      groupCtx,
		explorer: explorer,
		loop:     loop,
		group:    group,
		cancel:   cancel,
	}

	s.unsubscribe = explorer.Bus().Subscribe(w.forward(groupCtx, explorer))

	group.Go(func() error {
		return loop.Run(groupCtx)
	})

	return s
}

func (s *session) close() error {
	s.unsubscribe()
	s.cancel()

	err := s.group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// forward relays bus events to the UI. It runs on the loop goroutine, so it
// may read the explorer.
func (w *workflow) forward(ctx context.Context, e *Explorer) func(Event) {
	return func(ev Event) {
		switch ev := ev.(type) {
		case TreeChangedEvent:
			w.ui.DisplayTree(ctx, e.FlattenItems())
		case BusyChangedEvent:
			w.ui.DisplayBusy(ctx, ev.Loading, ev.Running)
		case MessageEvent:
			w.ui.DisplayMessage(ctx, ev.Text, ev.Error)
		case CodeLensesChangedEvent:
			w.ui.DisplayCodeLenses(ctx, e.AllCodeLenses())
		}
	}
}

// trigger runs fn on the loop and waits for as many events accepted by match
// as fn reports it started.
func (s *session) trigger(ctx context.Context, match func(Event) bool, fn func(e *Explorer) int) error {
	var wait func(context.Context) error

	err := s.loop.Do(ctx, func(e *Explorer) error {
		wait = s.loop.Expect(fn(e), match)
		return nil
	})
	if err != nil {
		return err
	}

	return wait(ctx)
}

func isLoaded(ev Event) bool {
	_, ok := ev.(CollectionLoadedEvent)
	return ok
}

func isRunFinished(ev Event) bool {
	_, ok := ev.(CollectionRunFinishedEvent)
	return ok
}

func (s *session) loadAll(ctx context.Context) error {
	return s.trigger(ctx, isLoaded, func(e *Explorer) int {
		started := 0

		for _, c := range e.Collections() {
			if err := c.Load(s.ctx); err != nil {
				e.Bus().Publish(MessageEvent{Text: err.Error(), Error: true})
				continue
			}

			started++
		}

		return started
	})
}

func (s *session) runAll(ctx context.Context) error {
	return s.trigger(ctx, isRunFinished, func(e *Explorer) int {
		started := 0

		for _, c := range e.Collections() {
			root := c.RootID()
			if root == "" {
				continue
			}

			if err := c.Run(s.ctx, []string{root}); err != nil {
				if !errors.Is(err, adapter.ErrNoTests) {
					e.Bus().Publish(MessageEvent{Text: err.Error(), Error: true})
				}

				continue
			}

			started++
		}

		return started
	})
}

// display pushes the settled tree to the UI.
func (s *session) display(ctx context.Context, ui controller.UI) error {
	return s.loop.Do(ctx, func(e *Explorer) error {
		e.Debouncer().Flush()
		ui.DisplayTree(ctx, e.FlattenItems())
		ui.DisplayCodeLenses(ctx, e.AllCodeLenses())

		return nil
	})
}

// handle executes a command issued from the UI.
func (s *session) handle(ctx context.Context, command controller.Command, ref *m.NodeRef) error {
	return s.loop.Do(ctx, func(e *Explorer) error {
		switch command {
		case controller.CommandRunAll:
			return e.Run(s.ctx, nil)
		case controller.CommandRunNode:
			if ref == nil {
				return e.Run(s.ctx, nil)
			}

			return e.Run(s.ctx, []m.NodeRef{*ref})
		case controller.CommandDebugNode:
			if ref == nil {
				return fmt.Errorf("debug: %w", ErrNoTarget)
			}

			return e.Debug(s.ctx, []m.NodeRef{*ref})
		case controller.CommandReload:
			return e.Reload(s.ctx, nil)
		case controller.CommandCancel:
			e.Cancel()
		case controller.CommandAutorunRoot:
			return e.SetAutorun(nil)
		case controller.CommandAutorunNode:
			return e.SetAutorun(ref)
		case controller.CommandClearAutorun:
			return e.ClearAutorun(nil)
		case controller.CommandReset:
			return e.ResetState(nil)
		case controller.CommandRetire:
			return e.RetireState(nil)
		}

		return nil
	})
}

func (w *workflow) backends(args ListArgs, opts ...adapter.GoTestOption) ([]adapter.Backend, error) {
	var backends []adapter.Backend

	for _, path := range args.Paths {
		backend, err := w.factory.GoTest(path, opts...)
		if err != nil {
			slog.Error("Failed to create go test backend", "path", path, "error", err)
			return nil, fmt.Errorf("go test backend: %w", err)
		}

		backends = append(backends, backend)
	}

	for _, path := range args.Replays {
		replays, err := w.factory.Replay(path)
		if err != nil {
			slog.Error("Failed to create replay backend", "path", path, "error", err)
			return nil, fmt.Errorf("replay backend: %w", err)
		}

		for _, replay := range replays {
			backends = append(backends, replay)
		}
	}

	if len(backends) == 0 {
		return nil, ErrNoBackends
	}

	return backends, nil
}

func (s *session) register(ctx context.Context, backends []adapter.Backend) error {
	for _, backend := range backends {
		if err := s.loop.Register(ctx, backend); err != nil {
			return fmt.Errorf("register %s: %w", backend.ID(), err)
		}
	}

	return nil
}

// List loads every backend and displays the tree.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	backends, err := w.backends(args)
	if err != nil {
		return err
	}

	if err := w.ui.Start(ctx, controller.WithMode(controller.ModeList), controller.WithTitle("testtree list")); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	s := w.open(ctx)

	err = w.list(ctx, s, backends)
	if err != nil {
		w.ui.DisplayMessage(ctx, err.Error(), true)
	}

	w.ui.Wait(ctx)
	w.ui.Close(ctx)

	return errors.Join(err, s.close())
}

func (w *workflow) list(ctx context.Context, s *session, backends []adapter.Backend) error {
	if err := s.register(ctx, backends); err != nil {
		return err
	}

	if err := s.loadAll(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	return s.display(ctx, w.ui)
}

// Run loads and runs every backend once.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	backends, err := w.backends(args.ListArgs)
	if err != nil {
		return err
	}

	return w.execute(ctx, backends, args.Snapshot, args.Record, args.Timeout, "testtree run")
}

// Replay drives replay scripts like Run drives go test.
func (w *workflow) Replay(ctx context.Context, args ReplayArgs) error {
	backends, err := w.backends(ListArgs{Replays: args.Scripts})
	if err != nil {
		return err
	}

	return w.execute(ctx, backends, args.Snapshot, "", args.Timeout, "testtree replay")
}

func (w *workflow) execute(ctx context.Context, backends []adapter.Backend, snapshotPath, recordPath m.Path, timeout time.Duration, title string) error {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s := w.open(ctx)

	var recorder *adapter.Recorder

	if recordPath != "" {
		var err error

		recorder, err = adapter.NewRecorder(w.recordDir)
		if err != nil {
			return errors.Join(err, s.close())
		}

		defer func() {
			if err := recorder.Close(); err != nil {
				slog.Warn("failed to close recording", "error", err)
			}
		}()

		for i, backend := range backends {
			backends[i] = recorder.Wrap(s.ctx, backend)
		}
	}

	err := w.ui.Start(ctx,
		controller.WithMode(controller.ModeRun),
		controller.WithTitle(title),
		controller.WithCommandHandler(s.handle),
	)
	if err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return errors.Join(err, s.close())
	}

	summary, err := w.runOnce(ctx, s, backends, snapshotPath, recorder)
	if err == nil && recorder != nil {
		err = w.export(recorder, recordPath)
	}

	if err != nil {
		w.ui.DisplayMessage(ctx, err.Error(), true)
	}

	w.ui.Wait(ctx)
	w.ui.Close(ctx)

	err = errors.Join(err, s.close())
	if err == nil && summary.Failed > 0 {
		return fmt.Errorf("%d of %d: %w", summary.Failed, summary.Total(), ErrTestsFailed)
	}

	return err
}

func (w *workflow) runOnce(
	ctx context.Context,
	s *session,
	backends []adapter.Backend,
	snapshotPath m.Path,
	recorder *adapter.Recorder,
) (m.Summary, error) {
	var summary m.Summary

	if err := s.register(ctx, backends); err != nil {
		return summary, err
	}

	if err := s.loadAll(ctx); err != nil {
		return summary, fmt.Errorf("load: %w", err)
	}

	start := s.explorer.Clock().Now()

	if err := s.runAll(ctx); err != nil {
		return summary, fmt.Errorf("run: %w", err)
	}

	snapshot, err := s.loop.Snapshot(ctx)
	if err != nil {
		return summary, fmt.Errorf("snapshot: %w", err)
	}

	err = s.loop.Do(ctx, func(e *Explorer) error {
		summary = e.Summary()
		summary.Duration = e.Clock().Since(start)

		return nil
	})
	if err != nil {
		return summary, err
	}

	if err := s.display(ctx, w.ui); err != nil {
		return summary, err
	}

	w.ui.DisplaySummary(ctx, summary)

	if snapshotPath == "" {
		return summary, nil
	}

	snapshot.RunID = uuid.New().String()
	if recorder != nil {
		snapshot.RunID = recorder.RunID()
	}

	if err := w.store.SaveSnapshot(snapshotPath, snapshot); err != nil {
		return summary, fmt.Errorf("save snapshot: %w", err)
	}

	return summary, nil
}

// export writes the recording as replay scripts.
func (w *workflow) export(recorder *adapter.Recorder, path m.Path) error {
	if err := recorder.Err(); err != nil {
		return fmt.Errorf("recording: %w", err)
	}

	scripts, err := recorder.Scripts()
	if err != nil {
		return err
	}

	documents := make([]string, 0, len(scripts))

	for _, script := range scripts {
		data, err := adapter.EncodeReplayScript(script)
		if err != nil {
			return err
		}

		documents = append(documents, string(data))
	}

	if err := w.fs.WriteFile(path, []byte(strings.Join(documents, "---\n")), 0o644); err != nil {
		slog.Error("Failed to write recording", "path", path, "error", err)
		return fmt.Errorf("write recording %s: %w", path, err)
	}

	slog.Info("wrote recording", "path", path, "run_id", recorder.RunID(), "scripts", len(scripts))

	return nil
}

// Watch keeps the explorer running under the UI, re-running the autorun
// targets whenever sources change, until the UI is closed.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	s := w.open(ctx)

	var watchers []*adapter.Watcher

	defer func() {
		for _, watcher := range watchers {
			if err := watcher.Close(); err != nil {
				slog.Warn("failed to close watcher", "error", err)
			}
		}
	}()

	var backends []adapter.Backend

	for _, path := range args.Paths {
		watcher, err := w.factory.Watcher(path)
		if err != nil {
			slog.Error("Failed to watch sources", "path", path, "error", err)
			return errors.Join(fmt.Errorf("watch %s: %w", path, err), s.close())
		}

		watchers = append(watchers, watcher)

		backend, err := w.factory.GoTest(path, adapter.WithWatcher(watcher), adapter.WithChangeHook(s.selectClosest))
		if err != nil {
			return errors.Join(fmt.Errorf("go test backend: %w", err), s.close())
		}

		s.group.Go(func() error {
			return backend.Watch(s.ctx)
		})

		backends = append(backends, backend)
	}

	if len(args.Replays) > 0 {
		replays, err := w.backends(ListArgs{Replays: args.Replays})
		if err != nil {
			return errors.Join(err, s.close())
		}

		backends = append(backends, replays...)
	}

	if len(backends) == 0 {
		return errors.Join(ErrNoBackends, s.close())
	}

	if watcher, ok := w.config.(ConfigWatcher); ok {
		watcher.Watch(func(changes []adapter.SettingsChange) {
			for _, change := range changes {
				if err := s.loop.NotifyConfigChanged(ConfigChangedEvent{Workspace: change.Workspace, Keys: change.Keys}); err != nil {
					slog.Debug("dropping configuration change", "error", err)
				}
			}
		})
	}

	err := w.ui.Start(ctx,
		controller.WithMode(controller.ModeWatch),
		controller.WithTitle("testtree watch"),
		controller.WithCommandHandler(s.handle),
	)
	if err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return errors.Join(err, s.close())
	}

	err = w.watch(ctx, s, backends, args.RunOnStart)
	if err != nil {
		w.ui.DisplayMessage(ctx, err.Error(), true)
	}

	// Wait for UI to be closed by user (press 'q')
	w.ui.Wait(ctx)
	w.ui.Close(ctx)

	return errors.Join(err, s.close())
}

func (w *workflow) watch(ctx context.Context, s *session, backends []adapter.Backend, runOnStart bool) error {
	if err := s.register(ctx, backends); err != nil {
		return err
	}

	if err := s.loadAll(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	return s.loop.Do(ctx, func(e *Explorer) error {
		if err := e.SetAutorun(nil); err != nil {
			return err
		}

		if runOnStart {
			return e.Run(s.ctx, nil)
		}

		return nil
	})
}

// selectClosest selects the tests most related to a changed file. It is
// called from backend goroutines.
func (s *session) selectClosest(file m.Path) {
	err := s.loop.Submit(func(e *Explorer) {
		if file.IsTestFile() {
			return
		}

		selected, err := e.UpdateSelect(s.ctx, file)
		if err != nil {
			slog.Debug("could not select related tests", "file", file, "error", err)
			return
		}

		if selected > 0 {
			e.Bus().Publish(MessageEvent{Text: fmt.Sprintf("%d suites related to %s", selected, file.Base())})
		}
	})
	if err != nil {
		slog.Debug("dropping change notification", "file", file, "error", err)
	}
}

// View displays a saved snapshot.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	snapshot, err := w.store.LoadSnapshot(args.Snapshot)
	if err != nil {
		slog.Error("Failed to load snapshot", "path", args.Snapshot, "error", err)
		return fmt.Errorf("load snapshot: %w", err)
	}

	title := "testtree view " + snapshot.CreatedAt.Format(time.RFC3339)
	if err := w.ui.Start(ctx, controller.WithMode(controller.ModeList), controller.WithTitle(title)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	w.ui.DisplayTree(ctx, SnapshotRows(snapshot))
	w.ui.DisplaySummary(ctx, SnapshotSummary(snapshot))
	w.ui.Wait(ctx)
	w.ui.Close(ctx)

	return nil
}

// Diff compares the node states of two snapshots as a unified diff.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	older, err := w.store.LoadSnapshot(args.Old)
	if err != nil {
		return "", fmt.Errorf("load snapshot: %w", err)
	}

	newer, err := w.store.LoadSnapshot(args.New)
	if err != nil {
		return "", fmt.Errorf("load snapshot: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(RenderSnapshot(older)),
		B:        difflib.SplitLines(RenderSnapshot(newer)),
		FromFile: string(args.Old),
		ToFile:   string(args.New),
		Context:  2,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff snapshots: %w", err)
	}

	return text, nil
}

// RenderSnapshot prints one line per node: indentation, id and state.
func RenderSnapshot(snapshot m.Snapshot) string {
	var b strings.Builder

	for _, c := range snapshot.Collections {
		if c.Root == nil {
			fmt.Fprintf(&b, "%s: error %s\n", c.ID, c.Error)
			continue
		}

		c.Root.Walk(func(node *m.NodeSnapshot, depth int) {
			fmt.Fprintf(&b, "%s%s [%s", strings.Repeat("  ", depth), node.ID, node.State.Current)

			if node.State.Previous != m.PreviousPending {
				fmt.Fprintf(&b, ", was %s", node.State.Previous)
			}

			if node.State.Autorun {
				b.WriteString(", autorun")
			}

			b.WriteString("]\n")
		})
	}

	return b.String()
}
