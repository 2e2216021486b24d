package adapter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// These tests exercise LocalTestRunnerAdapter against the real example
// modules in the repo instead of embedding Go source in strings.

func TestLocalTestRunnerAdapter_RunGoTest_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test")
	}

	adapter := NewLocalTestRunnerAdapter(0)
	workDir := examplePath(t, "calc")

	var events []Test2JSONEvent

	err := adapter.RunGoTest(context.Background(), workDir, ".", "^(TestAdd)$", func(line []byte) {
		if event, ok := DecodeTest2JSON(line); ok {
			events = append(events, event)
		}
	})
	if err != nil {
		t.Fatalf("RunGoTest() error = %v", err)
	}

	var passed bool
	for _, event := range events {
		if event.Test == "TestAdd" && event.Action == ActionPass {
			passed = true
		}
	}

	if !passed {
		t.Fatalf("RunGoTest() did not report TestAdd passing: %v", events)
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_FailingTest(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test")
	}

	adapter := NewLocalTestRunnerAdapter(time.Minute)
	workDir := examplePath(t, "calc")

	var output strings.Builder

	err := adapter.RunGoTest(context.Background(), workDir, "./broken", "", func(line []byte) {
		if event, ok := DecodeTest2JSON(line); ok {
			output.WriteString(event.Output)
		}
	})
	if err == nil {
		t.Fatalf("RunGoTest() expected error for failing test")
	}

	if !strings.Contains(output.String(), "broken_test.go:6: always fails") {
		t.Fatalf("RunGoTest() output = %q", output.String())
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_MissingPackage(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test")
	}

	adapter := NewLocalTestRunnerAdapter(0)

	workDir := filepath.Join(examplePath(t, "calc"))

	err := adapter.RunGoTest(context.Background(), workDir, "./does_not_exist", "", func([]byte) {})
	if err == nil {
		t.Fatalf("RunGoTest() expected error for missing test target, got nil")
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_Cancelled(t *testing.T) {
	adapter := NewLocalTestRunnerAdapter(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := adapter.RunGoTest(ctx, examplePath(t, "calc"), ".", "", func([]byte) {})
	if err == nil {
		t.Fatalf("RunGoTest() expected error for cancelled context")
	}
}
