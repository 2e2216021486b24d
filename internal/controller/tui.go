package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "testtree.dev/pkg/testtree/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

type treeMsg struct{ rows []m.TreeRow }

type busyMsg struct{ loading, running bool }

type statusMsg struct {
	text    string
	isError bool
}

type lensesMsg struct{ count int }

type summaryMsg struct{ summary m.Summary }

type commandDoneMsg struct{ err error }

// Start launches the Bubble Tea program.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := newStartConfig(options)
	model := newTreeModel(ctx, config)

	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	done := make(chan struct{})

	p.mu.Lock()
	p.program = program
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			_, _ = fmt.Fprintf(p.output, "tui error: %v\n", err)
		}
	}()

	return nil
}

// Close stops the program and waits for it to restore the terminal.
func (p *TUI) Close(_ context.Context) {
	program, done := p.current()
	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits.
func (p *TUI) Wait(ctx context.Context) {
	_, done := p.current()
	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (p *TUI) current() (*tea.Program, chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.program, p.done
}

func (p *TUI) send(msg tea.Msg) {
	program, done := p.current()
	if program == nil {
		return
	}

	select {
	case <-done:
	default:
		program.Send(msg)
	}
}

// DisplayTree replaces the tree shown.
func (p *TUI) DisplayTree(_ context.Context, rows []m.TreeRow) {
	p.send(treeMsg{rows: rows})
}

// DisplayBusy toggles the spinner.
func (p *TUI) DisplayBusy(_ context.Context, loading, running bool) {
	p.send(busyMsg{loading: loading, running: running})
}

// DisplayMessage shows text in the status line.
func (p *TUI) DisplayMessage(_ context.Context, text string, isError bool) {
	p.send(statusMsg{text: text, isError: isError})
}

// DisplayCodeLenses shows the number of runnable locations.
func (p *TUI) DisplayCodeLenses(_ context.Context, lenses []m.CodeLens) {
	count := 0

	for _, lens := range lenses {
		if lens.Kind == m.LensRun {
			count++
		}
	}

	p.send(lensesMsg{count: count})
}

// DisplaySummary shows the run summary in the footer.
func (p *TUI) DisplaySummary(_ context.Context, summary m.Summary) {
	p.send(summaryMsg{summary: summary})
}

// treeModel is the Bubble Tea model of the test tree.
type treeModel struct {
	ctx     context.Context
	title   string
	mode    StartMode
	handler CommandHandler

	rows    []m.TreeRow
	cursor  int
	offset  int
	height  int
	width   int
	spinner spinner.Model

	loading bool
	running bool
	status  string
	failed  bool
	lenses  int
	summary *m.Summary

	quitting bool
}

func newTreeModel(ctx context.Context, config StartConfig) treeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	return treeModel{
		ctx:     ctx,
		title:   config.title,
		mode:    config.mode,
		handler: config.handler,
		spinner: s,
	}
}

func (tm treeModel) Init() tea.Cmd {
	return tm.spinner.Tick
}

func (tm treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tm.width = msg.Width
		tm.height = msg.Height

		return tm.clamp(), nil
	case tea.KeyMsg:
		return tm.handleKeyPress(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		tm.spinner, cmd = tm.spinner.Update(msg)

		return tm, cmd
	case treeMsg:
		tm.rows = msg.rows
		return tm.clamp(), nil
	case busyMsg:
		tm.loading = msg.loading
		tm.running = msg.running

		return tm, nil
	case statusMsg:
		tm.status = msg.text
		tm.failed = msg.isError

		return tm, nil
	case lensesMsg:
		tm.lenses = msg.count
		return tm, nil
	case summaryMsg:
		summary := msg.summary
		tm.summary = &summary

		return tm, nil
	case commandDoneMsg:
		if msg.err != nil {
			tm.status = msg.err.Error()
			tm.failed = true
		}

		return tm, nil
	}

	return tm, nil
}

//nolint:cyclop // Key handling requires multiple cases for UI navigation
func (tm treeModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // Only quit keys are handled by type
	case tea.KeyCtrlC, tea.KeyEsc:
		tm.quitting = true
		return tm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		tm.quitting = true
		return tm, tea.Quit
	case "down", "j":
		tm.cursor++
		return tm.clamp(), nil
	case "up", "k":
		tm.cursor--
		return tm.clamp(), nil
	case "r":
		return tm, tm.command(CommandRunAll, nil)
	case "enter":
		return tm, tm.command(CommandRunNode, tm.highlighted())
	case "d":
		return tm, tm.command(CommandDebugNode, tm.highlighted())
	case "l":
		return tm, tm.command(CommandReload, nil)
	case "c":
		return tm, tm.command(CommandCancel, nil)
	case "a":
		return tm, tm.command(CommandAutorunRoot, nil)
	case "s":
		return tm, tm.command(CommandAutorunNode, tm.highlighted())
	case "A":
		return tm, tm.command(CommandClearAutorun, nil)
	case "x":
		return tm, tm.command(CommandReset, nil)
	case "t":
		return tm, tm.command(CommandRetire, nil)
	}

	return tm, nil
}

func (tm treeModel) highlighted() *m.NodeRef {
	if tm.cursor < 0 || tm.cursor >= len(tm.rows) || tm.rows[tm.cursor].Error {
		return nil
	}

	ref := tm.rows[tm.cursor].Ref

	return &ref
}

func (tm treeModel) command(command Command, ref *m.NodeRef) tea.Cmd {
	if tm.handler == nil {
		return nil
	}

	handler := tm.handler
	ctx := tm.ctx

	return func() tea.Msg {
		return commandDoneMsg{err: handler(ctx, command, ref)}
	}
}

func (tm treeModel) visibleRows() int {
	if tm.height <= 0 {
		return len(tm.rows)
	}

	// Title, blank line, status, hint.
	visible := tm.height - 5
	if visible < 1 {
		visible = 1
	}

	return visible
}

func (tm treeModel) clamp() treeModel {
	if tm.cursor >= len(tm.rows) {
		tm.cursor = len(tm.rows) - 1
	}

	if tm.cursor < 0 {
		tm.cursor = 0
	}

	visible := tm.visibleRows()
	if tm.cursor < tm.offset {
		tm.offset = tm.cursor
	}

	if tm.cursor >= tm.offset+visible {
		tm.offset = tm.cursor - visible + 1
	}

	return tm
}

func (tm treeModel) View() string {
	if tm.quitting {
		return ""
	}

	var b strings.Builder

	tm.renderHeader(&b)
	tm.renderRows(&b)
	tm.renderFooter(&b)

	return b.String()
}

func (tm treeModel) renderHeader(b *strings.Builder) {
	b.WriteString(Styles.Title.Render(tm.title))

	switch {
	case tm.loading:
		b.WriteString(" " + tm.spinner.View() + Styles.Status.Render("loading"))
	case tm.running:
		b.WriteString(" " + tm.spinner.View() + Styles.Status.Render("running"))
	}

	if tm.lenses > 0 {
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("  %d runnable locations", tm.lenses)))
	}

	b.WriteString("\n\n")
}

func (tm treeModel) renderRows(b *strings.Builder) {
	if len(tm.rows) == 0 {
		b.WriteString(Styles.Muted.Render("  no tests") + "\n")
		return
	}

	end := tm.offset + tm.visibleRows()
	if end > len(tm.rows) {
		end = len(tm.rows)
	}

	for i := tm.offset; i < end; i++ {
		row := tm.rows[i]

		pointer := "  "
		if i == tm.cursor {
			pointer = Styles.Cursor.Render("> ")
		}

		label := Styles.Normal.Render(row.Label)

		switch {
		case row.Error:
			label = Styles.Error.Render(row.Label)
		case row.Collapsible:
			label = Styles.Suite.Render(row.Label)
		}

		b.WriteString(pointer)
		b.WriteString(strings.Repeat("  ", row.Depth))
		b.WriteString(iconStyle(row.Icon).Render(Glyph(row.Icon)))
		b.WriteString(" ")
		b.WriteString(label)

		if row.Message != "" && i == tm.cursor {
			b.WriteString(Styles.Muted.Render("  " + firstLine(row.Message)))
		}

		b.WriteString("\n")
	}
}

func (tm treeModel) renderFooter(b *strings.Builder) {
	b.WriteString("\n")

	switch {
	case tm.status != "" && tm.failed:
		b.WriteString(Styles.Error.Render(tm.status) + "\n")
	case tm.status != "":
		b.WriteString(Styles.Status.Render(tm.status) + "\n")
	case tm.summary != nil:
		b.WriteString(Styles.Status.Render(FormatSummary(*tm.summary)) + "\n")
	}

	hint := "j/k move  enter run  d debug  r run all  l reload  c cancel  a/s autorun  A clear  x reset  t retire  q quit"
	if tm.handler == nil {
		hint = "j/k move  q quit"
	}

	b.WriteString(Styles.Hint.Render(hint))
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return line
}
