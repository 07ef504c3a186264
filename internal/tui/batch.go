// Package tui renders interactive progress for long-running commands.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RivinHD/ltexctl/internal/checker"
)

// Default dimensions for the batch progress view.
const (
	batchDefaultWidth = 60
	batchViewPadding  = 4
)

// titleStyle renders the batch header.
var titleStyle = lipgloss.NewStyle().Bold(true) //nolint:gochecknoglobals // Shared immutable style.

// statusStyle renders the per-document status line.
var statusStyle = lipgloss.NewStyle().Faint(true) //nolint:gochecknoglobals // Shared immutable style.

// batchProgressMsg carries a progress snapshot into the model.
type batchProgressMsg checker.ProgressSnapshot

// batchDoneMsg is sent when the batch finishes.
type batchDoneMsg struct {
	ok bool
}

// BatchModel is the Bubble Tea model for the batch-check progress
// bar. Pressing ctrl+c or q requests cooperative cancellation; the
// batch stops at its next suspension point.
type BatchModel struct {
	bar       progress.Model
	snapshot  checker.ProgressSnapshot
	cancel    context.CancelFunc
	cancelled bool
	done      bool
	ok        bool
}

// newBatchModel creates the model; cancel requests batch cancellation.
func newBatchModel(cancel context.CancelFunc) BatchModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = batchDefaultWidth
	return BatchModel{bar: bar, cancel: cancel}
}

// Init implements tea.Model.
func (m BatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - batchViewPadding
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Advisory: the in-flight document check finishes first.
			m.cancelled = true
			m.cancel()
		}
		return m, nil
	case batchProgressMsg:
		m.snapshot = checker.ProgressSnapshot(msg)
		return m, nil
	case batchDoneMsg:
		m.done = true
		m.ok = msg.ok
		return m, tea.Quit
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m BatchModel) View() string {
	title := titleStyle.Render("Checking workspace documents")

	var status string
	switch {
	case m.cancelled && !m.done:
		status = "cancelling after the current document..."
	case m.snapshot.Stage == checker.StageDiscovery:
		status = "discovering documents..."
	case m.snapshot.Stage == checker.StageChecking:
		status = fmt.Sprintf("%d/%d %s",
			m.snapshot.DocumentIndex+1, m.snapshot.TotalDocuments, m.snapshot.CurrentURI)
	case m.snapshot.Stage == checker.StageDone:
		status = fmt.Sprintf("checked %d documents", m.snapshot.TotalDocuments)
	}

	return fmt.Sprintf("%s\n%s\n%s\n",
		title,
		m.bar.ViewAs(m.snapshot.Fraction),
		statusStyle.Render(status))
}

// RunBatch runs the batch check under an interactive progress view
// and returns the batch result. The view owns cancellation: ctrl+c
// cancels the batch cooperatively rather than killing the process.
func RunBatch(ctx context.Context, batch *checker.BatchChecker) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newBatchModel(cancel))

	batch.OnProgress = func(snapshot checker.ProgressSnapshot) {
		program.Send(batchProgressMsg(snapshot))
	}

	go func() {
		ok := batch.CheckAll(ctx)
		program.Send(batchDoneMsg{ok: ok})
	}()

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("running progress view: %w", err)
	}

	model, ok := final.(BatchModel)
	if !ok {
		return false, nil
	}
	return model.ok, nil
}
