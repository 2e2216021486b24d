package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "testtree.dev/pkg/testtree/internal/model"
)

// SimpleUI implements UI using cobra Command's output. Outside watch mode it
// keeps only the latest tree, lenses and summary and prints them on Close.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig

	mu      sync.Mutex
	tree    []m.TreeRow
	lenses  []m.CodeLens
	summary *m.Summary
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, config: newStartConfig(nil)}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = newStartConfig(options)
	s.tree = nil
	s.lenses = nil
	s.summary = nil

	return nil
}

// Close prints whatever was buffered.
func (s *SimpleUI) Close(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.mode == ModeWatch {
		return
	}

	if s.tree != nil {
		s.printf("\n%s", renderTreeTable(s.tree))
	}

	if len(s.lenses) > 0 {
		s.printf("\n%s", renderLensTable(s.lenses))
	}

	if s.summary != nil {
		s.printf("%s\n", FormatSummary(*s.summary))
	}

	s.tree = nil
	s.lenses = nil
	s.summary = nil
}

func (s *SimpleUI) live() bool {
	return s.config.mode == ModeWatch
}

// Wait returns immediately; SimpleUI only prints.
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayTree prints the tree as a table, one row per node.
func (s *SimpleUI) DisplayTree(ctx context.Context, rows []m.TreeRow) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live() {
		s.tree = rows
		return
	}

	s.printf("\n%s", renderTreeTable(rows))
}

func renderTreeTable(rows []m.TreeRow) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"", "Test", "State", "Location"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	tests := 0

	for _, row := range rows {
		if !row.Collapsible && !row.Error {
			tests++
		}

		table.Append([]string{
			Glyph(row.Icon),
			strings.Repeat("  ", row.Depth) + row.Label,
			stateLabel(row),
			location(row),
		})
	}

	table.SetFooter([]string{"", fmt.Sprintf("Total Tests %d", tests), "", ""})
	table.Render()

	return tableBuffer.String()
}

func stateLabel(row m.TreeRow) string {
	if row.Error {
		return "error"
	}

	label := string(row.State.Current)
	if row.State.Current == m.CurrentPending && row.State.Previous != m.PreviousPending {
		label = "pending (was " + string(row.State.Previous) + ")"
	}

	if row.State.Autorun {
		label += ", autorun"
	}

	return label
}

func location(row m.TreeRow) string {
	if row.File == "" {
		return ""
	}

	if row.Line < 0 {
		return string(row.File.Base())
	}

	return fmt.Sprintf("%s:%d", row.File.Base(), row.Line)
}

// DisplayBusy prints load and run transitions in run mode only.
func (s *SimpleUI) DisplayBusy(ctx context.Context, loading, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || s.config.mode != ModeRun {
		return
	}

	switch {
	case loading:
		s.printf("Loading tests...\n")
	case running:
		s.printf("Running tests...\n")
	}
}

// DisplayMessage prints a message; errors are prefixed.
func (s *SimpleUI) DisplayMessage(ctx context.Context, text string, isError bool) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if isError {
		s.printf("error: %s\n", text)
		return
	}

	s.printf("%s\n", text)
}

// DisplayCodeLenses prints how many run lenses each file carries.
func (s *SimpleUI) DisplayCodeLenses(ctx context.Context, lenses []m.CodeLens) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live() {
		s.lenses = lenses
		return
	}

	if len(lenses) > 0 {
		s.printf("\n%s", renderLensTable(lenses))
	}
}

func renderLensTable(lenses []m.CodeLens) string {
	counts := make(map[m.Path]int)

	var files []m.Path

	for _, lens := range lenses {
		if lens.Kind != m.LensRun {
			continue
		}

		if _, seen := counts[lens.File]; !seen {
			files = append(files, lens.File)
		}

		counts[lens.File]++
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Code Lenses"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, file := range files {
		table.Append([]string{string(file), humanize.Comma(int64(counts[file]))})
	}

	table.Render()

	return tableBuffer.String()
}

// DisplaySummary prints the per-state counts.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live() {
		s.summary = &summary
		return
	}

	s.printf("%s\n", FormatSummary(summary))
}

// FormatSummary renders a one-line summary of a run.
func FormatSummary(summary m.Summary) string {
	parts := []string{
		fmt.Sprintf("%s passed", humanize.Comma(int64(summary.Passed))),
		fmt.Sprintf("%s failed", humanize.Comma(int64(summary.Failed))),
		fmt.Sprintf("%s skipped", humanize.Comma(int64(summary.Skipped))),
		fmt.Sprintf("%s pending", humanize.Comma(int64(summary.Pending))),
	}

	if summary.Other > 0 {
		parts = append(parts, fmt.Sprintf("%s other", humanize.Comma(int64(summary.Other))))
	}

	line := strings.Join(parts, ", ")
	if summary.Duration > 0 {
		line += " in " + FormatDuration(summary.Duration)
	}

	return line
}

// FormatDuration renders d the way humans read it, e.g. "3 seconds".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	var start time.Time

	return strings.TrimSpace(humanize.RelTime(start, start.Add(d), "", ""))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
