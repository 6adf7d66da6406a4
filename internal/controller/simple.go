package controller

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/rivamed/cabpack/internal/model"
)

// SimpleUI implements UI using cobra Command's output. It prints each event
// as it happens and never blocks, which makes it the right surface for
// scripted and CI runs.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayStageStart announces a starting stage.
func (s *SimpleUI) DisplayStageStart(ctx context.Context, stage m.Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("==> %s\n", stage)
}

// DisplayStageResult prints the stage outcome with its notes.
func (s *SimpleUI) DisplayStageResult(ctx context.Context, result m.StageResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	if result.Status == m.StageFailed {
		s.printf("    %s: %v\n", result.Status, result.Err)
	} else {
		s.printf("    %s (%s)\n", result.Status, result.Duration.Round(time.Millisecond))
	}

	for _, note := range result.Notes {
		s.printf("    - %s\n", note)
	}
}

// DisplayNote prints an out-of-band note.
func (s *SimpleUI) DisplayNote(ctx context.Context, note string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("note: %s\n", note)
}

// DisplayPatchDiff prints the config patch diff.
func (s *SimpleUI) DisplayPatchDiff(ctx context.Context, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		return
	}

	s.printf("\n%s\n", diff)
}

// DisplaySummary renders the per-stage summary table and the final artifact.
func (s *SimpleUI) DisplaySummary(ctx context.Context, result m.BuildResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderStageTable(result))

	if failed := result.Failed(); failed != nil {
		s.printf("\nbuild failed at %s: %v\n", failed.Stage, failed.Err)
		return
	}

	if result.Executable != "" {
		s.printf("\nexecutable: %s\n", result.Executable)
	}
}

func renderStageTable(result m.BuildResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Stage", "Status", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT})

	passed := 0

	for _, stage := range result.Stages {
		if stage.Status == m.StagePassed {
			passed++
		}

		table.Append([]string{
			string(stage.Stage),
			stage.Status.String(),
			stage.Duration.Round(time.Millisecond).String(),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Stages %d", len(result.Stages)),
		fmt.Sprintf("%d passed", passed),
		result.Duration.Round(time.Millisecond).String(),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
