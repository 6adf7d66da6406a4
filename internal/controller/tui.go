package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	m "github.com/rivamed/cabpack/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okBadge      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skippedBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	promptStyle  = lipgloss.NewStyle().Faint(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// TUI implements UI using Bubble Tea for interactive display. The pipeline
// feeds it events through the running program; the view stays up after the
// last stage until the operator presses a key.
type TUI struct {
	output  io.Writer
	program *tea.Program
	group   *errgroup.Group
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Messages fed into the model by the pipeline.
type (
	stageStartMsg  struct{ stage m.Stage }
	stageResultMsg struct{ result m.StageResult }
	noteMsg        struct{ note string }
	diffMsg        struct{ diff string }
	summaryMsg     struct{ result m.BuildResult }
	// finishedMsg arms the "press any key" prompt.
	finishedMsg struct{}
)

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.program = tea.NewProgram(newBuildModel(), tea.WithOutput(t.output), tea.WithContext(ctx))
	t.group = &errgroup.Group{}

	t.group.Go(func() error {
		_, err := t.program.Run()
		return err
	})

	return nil
}

// Wait blocks until the operator dismisses the finished view.
func (t *TUI) Wait(ctx context.Context) {
	if t.program == nil {
		return
	}

	t.send(ctx, finishedMsg{})

	_ = t.group.Wait()
}

// Close shuts the program down. Safe to call after Wait.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()

	_ = t.group.Wait()

	t.program = nil
}

// DisplayStageStart adds a running stage row.
func (t *TUI) DisplayStageStart(ctx context.Context, stage m.Stage) {
	t.send(ctx, stageStartMsg{stage: stage})
}

// DisplayStageResult settles a stage row with its outcome.
func (t *TUI) DisplayStageResult(ctx context.Context, result m.StageResult) {
	t.send(ctx, stageResultMsg{result: result})
}

// DisplayNote adds an out-of-band note.
func (t *TUI) DisplayNote(ctx context.Context, note string) {
	t.send(ctx, noteMsg{note: note})
}

// DisplayPatchDiff shows the config patch diff.
func (t *TUI) DisplayPatchDiff(ctx context.Context, diff string) {
	t.send(ctx, diffMsg{diff: diff})
}

// DisplaySummary shows the final per-stage table.
func (t *TUI) DisplaySummary(ctx context.Context, result m.BuildResult) {
	t.send(ctx, summaryMsg{result: result})
}

func (t *TUI) send(ctx context.Context, msg tea.Msg) {
	if t.program == nil {
		return
	}

	if err := ctx.Err(); err != nil {
		return
	}

	t.program.Send(msg)
}

// stageRow is one pipeline stage in the view. A nil result means the stage
// is still running.
type stageRow struct {
	stage  m.Stage
	result *m.StageResult
}

// buildModel is the Bubble Tea model behind the build view.
type buildModel struct {
	spinner  spinner.Model
	rows     []stageRow
	notes    []string
	diff     string
	summary  *m.BuildResult
	finished bool
}

func newBuildModel() buildModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return buildModel{spinner: sp}
}

func (bm buildModel) Init() tea.Cmd {
	return bm.spinner.Tick
}

func (bm buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return bm.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		bm.spinner, cmd = bm.spinner.Update(msg)

		return bm, cmd

	case stageStartMsg:
		bm.rows = append(bm.rows, stageRow{stage: msg.stage})

		return bm, nil

	case stageResultMsg:
		return bm.settleStage(msg.result), nil

	case noteMsg:
		bm.notes = append(bm.notes, msg.note)

		return bm, nil

	case diffMsg:
		bm.diff = msg.diff

		return bm, nil

	case summaryMsg:
		result := msg.result
		bm.summary = &result

		return bm, nil

	case finishedMsg:
		bm.finished = true

		return bm, nil
	}

	return bm, nil
}

func (bm buildModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return bm, tea.Quit
	default:
		// Handled by the string checks below.
	}

	if bm.finished || msg.String() == "q" {
		return bm, tea.Quit
	}

	return bm, nil
}

func (bm buildModel) settleStage(result m.StageResult) buildModel {
	for i := range bm.rows {
		if bm.rows[i].stage == result.Stage {
			bm.rows[i].result = &result
			return bm
		}
	}

	// Skipped stages never get a start event.
	bm.rows = append(bm.rows, stageRow{stage: result.Stage, result: &result})

	return bm
}

func (bm buildModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cabpack"))
	b.WriteString("\n\n")

	for _, row := range bm.rows {
		bm.renderRow(&b, row)
	}

	for _, note := range bm.notes {
		fmt.Fprintf(&b, "  %s\n", noteStyle.Render("note: "+note))
	}

	if bm.diff != "" {
		b.WriteString("\n")
		b.WriteString(bm.diff)
	}

	if bm.summary != nil {
		bm.renderSummary(&b)
	}

	if bm.finished {
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("  press any key to close"))
		b.WriteString("\n")
	}

	return b.String()
}

func (bm buildModel) renderRow(b *strings.Builder, row stageRow) {
	if row.result == nil {
		fmt.Fprintf(b, "  %s %s\n", bm.spinner.View(), row.stage)
		return
	}

	result := row.result

	switch result.Status {
	case m.StagePassed:
		fmt.Fprintf(b, "  %s %s (%s)\n", okBadge.Render("ok"), row.stage, result.Duration.Round(time.Millisecond))

	case m.StageFailed:
		fmt.Fprintf(b, "  %s %s: %v\n", failBadge.Render("FAIL"), row.stage, result.Err)

	case m.StageSkipped:
		fmt.Fprintf(b, "  %s %s\n", skippedBadge.Render("skipped"), row.stage)
	}

	for _, note := range result.Notes {
		fmt.Fprintf(b, "      %s\n", noteStyle.Render("- "+note))
	}
}

func (bm buildModel) renderSummary(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(renderStageTable(*bm.summary))

	if failed := bm.summary.Failed(); failed != nil {
		fmt.Fprintf(b, "\n  %s %v\n", failBadge.Render("build failed:"), failed.Err)
		return
	}

	if bm.summary.Executable != "" {
		fmt.Fprintf(b, "\n  executable: %s\n", bm.summary.Executable)
	}
}
