package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// TestRunnerAdapter abstracts go test execution.
type TestRunnerAdapter interface {
	// RunGoTest runs 'go test -json' for pkg inside workDir and streams every
	// stdout line to onLine. An empty pattern runs every test of the package.
	// A non-nil error is returned for failing tests as well as for failures to
	// start the command; stderr is included in the error.
	RunGoTest(ctx context.Context, workDir, pkg, pattern string, onLine func(line []byte)) error
}

// LocalTestRunnerAdapter runs go test with os/exec.
type LocalTestRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter with the given per-package timeout.
// A zero timeout means no limit.
func NewLocalTestRunnerAdapter(timeout time.Duration) *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{
		timeout: timeout,
	}
}

// RunGoTest runs 'go test -json' and streams its output.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, workDir, pkg, pattern string, onLine func(line []byte)) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	args := []string{"test", "-json", "-count=1"}
	if pattern != "" {
		args = append(args, "-run", pattern)
	}

	args = append(args, pkg)

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = workDir
	prepareCommand(cmd)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	slog.Debug("starting go test", "dir", workDir, "pkg", pkg, "pattern", pattern)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go test: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		onLine(scanner.Bytes())
	}

	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("go test %s: %w: %s", pkg, err, bytes.TrimSpace(stderr.Bytes()))
		}

		return fmt.Errorf("go test %s: %w", pkg, err)
	}

	if scanErr != nil {
		return fmt.Errorf("read go test output: %w", scanErr)
	}

	return nil
}
