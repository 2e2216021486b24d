package adapter

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	m "testtree.dev/pkg/testtree/internal/model"
)

const (
	packageIDPrefix = "pkg:"
	testIDSeparator = "#"
	eventBuffer     = 256
)

// GoTestBackend discovers TestXxx functions under a module root and runs them
// with go test -json.
type GoTestBackend struct {
	id        string
	workspace string
	root      m.Path

	fs      SourceFSAdapter
	goFiles GoFileAdapter
	runner  TestRunnerAdapter
	watcher *Watcher
	onFile  func(m.Path)

	loads   chan m.LoadEvent
	runs    chan m.RunEvent
	autorun chan struct{}

	mu       sync.Mutex
	runMu    sync.Mutex
	cancel   context.CancelFunc
	packages map[string]*goPackage
	cache    map[m.Path]cachedFile
}

type goPackage struct {
	dir   string
	tests []TestFunc
}

type cachedFile struct {
	hash  string
	tests []TestFunc
}

// GoTestOption configures a GoTestBackend.
type GoTestOption func(*GoTestBackend)

// WithWorkspace sets the workspace used for configuration lookups.
func WithWorkspace(workspace string) GoTestOption {
	return func(b *GoTestBackend) {
		b.workspace = workspace
	}
}

// WithWatcher feeds the autorun channel from a filesystem watcher.
func WithWatcher(w *Watcher) GoTestOption {
	return func(b *GoTestBackend) {
		b.watcher = w
	}
}

// WithChangeHook is called, from the Watch goroutine, for every changed file.
func WithChangeHook(fn func(m.Path)) GoTestOption {
	return func(b *GoTestBackend) {
		b.onFile = fn
	}
}

// NewGoTestBackend creates a backend for the module at root.
func NewGoTestBackend(
	id string,
	root m.Path,
	fs SourceFSAdapter,
	goFiles GoFileAdapter,
	runner TestRunnerAdapter,
	opts ...GoTestOption,
) *GoTestBackend {
	b := &GoTestBackend{
		id:       id,
		root:     root,
		fs:       fs,
		goFiles:  goFiles,
		runner:   runner,
		loads:    make(chan m.LoadEvent, eventBuffer),
		runs:     make(chan m.RunEvent, eventBuffer),
		autorun:  make(chan struct{}, 1),
		packages: make(map[string]*goPackage),
		cache:    make(map[m.Path]cachedFile),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.workspace == "" {
		b.workspace = filepath.Base(string(root))
	}

	return b
}

// ID implements Backend.
func (b *GoTestBackend) ID() string { return b.id }

// Workspace implements Backend.
func (b *GoTestBackend) Workspace() string { return b.workspace }

// Root returns the module root.
func (b *GoTestBackend) Root() m.Path { return b.root }

// LoadEvents implements Backend.
func (b *GoTestBackend) LoadEvents() <-chan m.LoadEvent { return b.loads }

// RunEvents implements Backend.
func (b *GoTestBackend) RunEvents() <-chan m.RunEvent { return b.runs }

// Autorun implements AutorunSource.
func (b *GoTestBackend) Autorun() <-chan struct{} { return b.autorun }

// Watch reacts to watcher notifications until ctx ends. A changed test file
// reloads the tree, whose completion re-runs the autorun target; any other Go
// file signals autorun directly.
func (b *GoTestBackend) Watch(ctx context.Context) error {
	if b.watcher == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-b.watcher.Events():
			if !ok {
				return nil
			}

			slog.Debug("source changed", "backend", b.id, "file", changed)

			if b.onFile != nil {
				b.onFile(changed)
			}

			if changed.IsTestFile() {
				if err := b.Load(ctx); err != nil {
					return err
				}

				continue
			}

			select {
			case b.autorun <- struct{}{}:
			default:
			}
		}
	}
}

// Load implements Backend.
func (b *GoTestBackend) Load(ctx context.Context) error {
	go func() {
		if !b.sendLoad(ctx, m.LoadEvent{Type: m.LoadStarted}) {
			return
		}

		suite, err := b.Discover(ctx)

		finished := m.LoadEvent{Type: m.LoadFinished, Suite: suite}
		if err != nil {
			finished = m.LoadEvent{Type: m.LoadFinished, ErrorMessage: err.Error()}
		}

		b.sendLoad(ctx, finished)
	}()

	return nil
}

// Discover walks the module and builds the suite tree synchronously.
func (b *GoTestBackend) Discover(ctx context.Context) (*m.NodeInfo, error) {
	files, err := b.testFiles()
	if err != nil {
		return nil, err
	}

	packages := make(map[string]*goPackage)
	fileSet := token.NewFileSet()

	for _, file := range files {
		tests, err := b.parseTests(ctx, fileSet, file)
		if err != nil {
			slog.Error("failed to parse test file", "backend", b.id, "file", file, "error", err)
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}

		if len(tests) == 0 {
			continue
		}

		dir, err := b.fs.RelPath(b.root, file.Dir())
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", file, err)
		}

		key := filepath.ToSlash(string(dir))
		pkg := packages[key]

		if pkg == nil {
			pkg = &goPackage{dir: key}
			packages[key] = pkg
		}

		pkg.tests = append(pkg.tests, tests...)
	}

	b.mu.Lock()
	b.packages = packages
	b.mu.Unlock()

	return b.buildSuite(packages), nil
}

func (b *GoTestBackend) testFiles() ([]m.Path, error) {
	var files []m.Path

	err := b.fs.Walk(b.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && m.Path(path).IsTestFile() {
			files = append(files, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", b.root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

func (b *GoTestBackend) parseTests(ctx context.Context, fileSet *token.FileSet, file m.Path) ([]TestFunc, error) {
	hash, err := b.fs.HashFile(file)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	cached, ok := b.cache[file]
	b.mu.Unlock()

	if ok && cached.hash == hash {
		return cached.tests, nil
	}

	content, err := b.fs.ReadFile(file)
	if err != nil {
		return nil, err
	}

	parsed, err := b.goFiles.Parse(ctx, fileSet, string(file), content)
	if err != nil {
		return nil, err
	}

	tests := b.goFiles.TestFunctions(fileSet, parsed)

	b.mu.Lock()
	b.cache[file] = cachedFile{hash: hash, tests: tests}
	b.mu.Unlock()

	return tests, nil
}

func (b *GoTestBackend) buildSuite(packages map[string]*goPackage) *m.NodeInfo {
	root := m.Suite(b.id, b.workspace)

	dirs := make([]string, 0, len(packages))
	for dir := range packages {
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)

	for _, dir := range dirs {
		pkg := packages[dir]
		suite := m.Suite(PackageID(dir), dir)

		for _, test := range pkg.tests {
			suite.Children = append(suite.Children, m.Test(TestID(dir, test.Name), test.Name).At(test.File, test.Line))
		}

		root.Children = append(root.Children, suite)
	}

	return root
}

// PackageID is the node id of the suite for a package directory.
func PackageID(dir string) string {
	return packageIDPrefix + dir
}

// TestID is the node id of a test, or subtest, in a package directory.
func TestID(dir, name string) string {
	return dir + testIDSeparator + name
}

// runPlan maps package directories to the top-level tests to run; a nil
// slice runs the whole package.
type runPlan map[string][]string

func (b *GoTestBackend) plan(ids []string) runPlan {
	b.mu.Lock()
	defer b.mu.Unlock()

	plan := make(runPlan)

	for _, id := range ids {
		switch {
		case id == b.id:
			for dir := range b.packages {
				plan[dir] = nil
			}
		case strings.HasPrefix(id, packageIDPrefix):
			dir := strings.TrimPrefix(id, packageIDPrefix)
			if _, ok := b.packages[dir]; ok {
				plan[dir] = nil
			}
		default:
			dir, name, ok := strings.Cut(id, testIDSeparator)
			if !ok {
				continue
			}

			if _, known := b.packages[dir]; !known {
				continue
			}

			name, _, _ = strings.Cut(name, "/")

			tests, planned := plan[dir]
			if planned && tests == nil {
				continue
			}

			if !containsString(tests, name) {
				plan[dir] = append(tests, name)
			}
		}
	}

	return plan
}

// Run implements Backend. Runs are serialised; a run starts once the
// previous one finished.
func (b *GoTestBackend) Run(ctx context.Context, ids []string) error {
	plan := b.plan(ids)
	if len(plan) == 0 {
		return fmt.Errorf("run %v: %w", ids, ErrNoTests)
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

		b.execute(runCtx, ctx, ids, plan)
	}()

	return nil
}

// execute emits events on the outer context so finished still arrives
// after a cancelled run.
func (b *GoTestBackend) execute(runCtx, ctx context.Context, ids []string, plan runPlan) {
	if !b.sendRun(ctx, m.RunStartedEvent(ids...)) {
		return
	}

	dirs := make([]string, 0, len(plan))
	for dir := range plan {
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)

	b.sendRun(ctx, m.SuiteEvent(b.id, m.SuiteRunning))

	for _, dir := range dirs {
		if runCtx.Err() != nil {
			break
		}

		b.sendRun(ctx, m.SuiteEvent(PackageID(dir), m.SuiteRunning))
		b.runPackage(runCtx, ctx, dir, plan[dir])
		b.sendRun(ctx, m.SuiteEvent(PackageID(dir), m.SuiteCompleted))
	}

	b.sendRun(ctx, m.SuiteEvent(b.id, m.SuiteCompleted))
	b.sendRun(ctx, m.RunFinishedEvent())
}

func (b *GoTestBackend) runPackage(runCtx, ctx context.Context, dir string, tests []string) {
	pattern := ""
	if len(tests) > 0 {
		pattern = "^(" + strings.Join(tests, "|") + ")$"
	}

	pkgArg := "./" + dir
	if dir == "." {
		pkgArg = "."
	}

	files := b.testFilesOf(dir)
	collector := newOutputCollector()

	err := b.runner.RunGoTest(runCtx, string(b.root), pkgArg, pattern, func(line []byte) {
		event, ok := DecodeTest2JSON(line)
		if !ok || event.Test == "" {
			if ok {
				collector.addPackage(event.Output)
			}

			return
		}

		if event.Action == ActionOutput {
			collector.add(event.Test, event.Output)
			return
		}

		state, ok := event.State()
		if !ok {
			return
		}

		collector.reported(event.TestName())
		b.sendRun(ctx, b.testEvent(dir, event, state, collector.output(event.Test), files))
	})

	var exitErr interface{ ExitCode() int }
	if err != nil && runCtx.Err() == nil && !errors.As(err, &exitErr) {
		slog.Error("go test failed to run", "backend", b.id, "dir", dir, "error", err)
	}

	if err == nil || runCtx.Err() != nil {
		return
	}

	message := strings.TrimSpace(collector.packageOutput() + "\n" + err.Error())

	for _, name := range b.unreported(dir, tests, collector) {
		failed := m.TestEvent(TestID(dir, name), m.CurrentFailed)
		failed.Message = message
		b.sendRun(ctx, failed)
	}
}

// unreported lists the planned tests of dir that never reported a result,
// which happens when the package fails to build.
func (b *GoTestBackend) unreported(dir string, tests []string, collector *outputCollector) []string {
	if len(tests) == 0 {
		b.mu.Lock()
		// A reload may have dropped dir while its run was in flight.
		if pkg, ok := b.packages[dir]; ok {
			for _, test := range pkg.tests {
				tests = append(tests, test.Name)
			}
		}
		b.mu.Unlock()
	}

	var missing []string

	for _, name := range tests {
		if !collector.wasReported(name) {
			missing = append(missing, name)
		}
	}

	return missing
}

func (b *GoTestBackend) testFilesOf(dir string) map[string]m.Path {
	b.mu.Lock()
	defer b.mu.Unlock()

	files := make(map[string]m.Path)

	if pkg, ok := b.packages[dir]; ok {
		for _, test := range pkg.tests {
			files[test.Name] = test.File
		}
	}

	return files
}

func (b *GoTestBackend) testEvent(dir string, event Test2JSONEvent, state m.CurrentState, output string, files map[string]m.Path) m.RunEvent {
	id := TestID(dir, event.Test)
	run := m.TestEvent(id, state)

	if event.IsSubtest() {
		run.NodeID = ""
		run.Info = m.Test(id, event.Test)
		run.Info.File = files[event.TestName()]
	}

	if state == m.CurrentFailed || state == m.CurrentSkipped {
		run.Message = output

		if file, ok := files[event.TestName()]; ok && state == m.CurrentFailed {
			run.Decorations = ParseDecorations(output, file.Base())
		}
	}

	return run
}

// Debug implements Backend.
func (b *GoTestBackend) Debug(_ context.Context, ids []string) error {
	return fmt.Errorf("debug %v: %w", ids, ErrDebugUnsupported)
}

// Cancel implements Backend.
func (b *GoTestBackend) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		slog.Info("cancelling test run", "backend", b.id)
		b.cancel()
	}
}

func (b *GoTestBackend) sendLoad(ctx context.Context, event m.LoadEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case b.loads <- event:
		return true
	}
}

func (b *GoTestBackend) sendRun(ctx context.Context, event m.RunEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case b.runs <- event:
		return true
	}
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}

// outputCollector accumulates go test output per test.
type outputCollector struct {
	byTest map[string]*strings.Builder
	pkg    strings.Builder
	seen   map[string]struct{}
}

func newOutputCollector() *outputCollector {
	return &outputCollector{
		byTest: make(map[string]*strings.Builder),
		seen:   make(map[string]struct{}),
	}
}

func (c *outputCollector) add(test, output string) {
	if strings.HasPrefix(output, "=== ") || strings.HasPrefix(strings.TrimSpace(output), "--- ") {
		return
	}

	builder := c.byTest[test]
	if builder == nil {
		builder = &strings.Builder{}
		c.byTest[test] = builder
	}

	builder.WriteString(output)
}

func (c *outputCollector) addPackage(output string) {
	c.pkg.WriteString(output)
}

func (c *outputCollector) output(test string) string {
	if builder := c.byTest[test]; builder != nil {
		return strings.TrimRight(builder.String(), "\n")
	}

	return ""
}

func (c *outputCollector) packageOutput() string {
	return strings.TrimSpace(c.pkg.String())
}

func (c *outputCollector) reported(test string) {
	c.seen[test] = struct{}{}
}

func (c *outputCollector) wasReported(test string) bool {
	_, ok := c.seen[test]
	return ok
}
