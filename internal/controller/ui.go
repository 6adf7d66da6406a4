// Package controller provides the operator-facing output surfaces for the
// packaging pipeline.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/rivamed/cabpack/internal/model"
)

// UI defines the interface for reporting pipeline progress to the operator.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	// Wait blocks until the operator dismisses the UI (no-op for SimpleUI).
	Wait(ctx context.Context)
	DisplayStageStart(ctx context.Context, stage m.Stage)
	DisplayStageResult(ctx context.Context, result m.StageResult)
	DisplayNote(ctx context.Context, note string)
	DisplayPatchDiff(ctx context.Context, diff string)
	DisplaySummary(ctx context.Context, result m.BuildResult)
}

// NewUI selects the TUI on interactive terminals and the simple UI
// otherwise, so scripted runs never block on a keypress.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(os.Stdout)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
