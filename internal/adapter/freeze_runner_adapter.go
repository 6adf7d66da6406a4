package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	m "github.com/rivamed/cabpack/internal/model"
)

// FreezeResult captures one freezing-tool invocation.
type FreezeResult struct {
	// Output is the combined stdout and stderr of the tool.
	Output   string
	ExitCode int
	Duration time.Duration
}

// FreezeRunner abstracts the freezing-tool invocation so the pipeline can be
// tested without PyInstaller installed.
type FreezeRunner interface {
	// Freeze runs the environment interpreter with the planned argument
	// vector inside workDir. A non-zero exit or a context deadline is an
	// error; the result always carries the captured output.
	Freeze(ctx context.Context, workDir m.Path, interpreter m.Path, args []string) (FreezeResult, error)
}

// LocalFreezeRunner provides a concrete implementation using os/exec.
type LocalFreezeRunner struct{}

// NewLocalFreezeRunner constructs a LocalFreezeRunner.
func NewLocalFreezeRunner() *LocalFreezeRunner {
	return &LocalFreezeRunner{}
}

// Freeze runs the freezing tool and captures its output.
func (r *LocalFreezeRunner) Freeze(ctx context.Context, workDir m.Path, interpreter m.Path, args []string) (FreezeResult, error) {
	slog.Info("invoking freeze tool", "interpreter", interpreter, "args", args)

	start := time.Now()
	stdout, stderr, err := runCommand(ctx, string(workDir), string(interpreter), args...)

	result := FreezeResult{
		Output:   stdout + stderr,
		ExitCode: exitCode(err),
		Duration: time.Since(start),
	}

	if err != nil {
		slog.Error("freeze tool failed", "exit_code", result.ExitCode, "duration", result.Duration, "output", result.Output)
		return result, fmt.Errorf("freeze tool exited with %d: %w%s", result.ExitCode, err, outputTail(stdout, stderr))
	}

	slog.Info("freeze tool completed", "duration", result.Duration)

	return result, nil
}
