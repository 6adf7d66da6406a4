// Package adapter contains the infrastructure adapters for the cabpack CLI.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	m "github.com/rivamed/cabpack/internal/model"
)

// Toolchain abstracts the Python toolchain operations the pipeline relies on
// so the build driver can be tested without a Python installation.
type Toolchain interface {
	// LocatePython resolves a Python interpreter on PATH and returns its
	// path and reported version.
	LocatePython() (m.Path, string, error)

	// EnvInterpreter returns the path of the interpreter inside the build
	// virtual environment, whether or not the environment exists yet.
	EnvInterpreter(venvDir m.Path) m.Path

	// EnsureEnv creates the build virtual environment when it is missing and
	// returns its interpreter. An existing environment is reused.
	EnsureEnv(ctx context.Context, python m.Path, venvDir m.Path) (m.Path, error)

	// InstallDeps installs the freezing tool and, when requirements is not
	// empty, the application requirements into the environment.
	InstallDeps(ctx context.Context, envPython m.Path, freezeTool string, requirements m.Path) error
}

// LocalToolchain provides a concrete implementation using os/exec.
type LocalToolchain struct {
	probeTimeout time.Duration
}

// NewLocalToolchain constructs a LocalToolchain with a default 15s timeout
// for interpreter probing. Long-running operations take their deadline from
// the caller's context.
func NewLocalToolchain() *LocalToolchain {
	return &LocalToolchain{
		probeTimeout: 15 * time.Second,
	}
}

func pythonCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"python", "py", "python3"}
	}

	return []string{"python3", "python"}
}

// LocatePython walks the candidate interpreter names and returns the first
// one resolvable on PATH together with its `--version` string.
func (t *LocalToolchain) LocatePython() (m.Path, string, error) {
	for _, name := range pythonCandidates() {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), t.probeTimeout)
		version, _, verr := runCommand(ctx, "", path, "--version")
		cancel()

		if verr != nil {
			slog.Warn("interpreter found but version probe failed", "path", path, "error", verr)
			continue
		}

		return m.Path(path), strings.TrimSpace(version), nil
	}

	return "", "", errors.New("no Python interpreter found on PATH (tried " + strings.Join(pythonCandidates(), ", ") + ")")
}

// EnvInterpreter derives the interpreter path inside venvDir.
func (t *LocalToolchain) EnvInterpreter(venvDir m.Path) m.Path {
	if runtime.GOOS == "windows" {
		return m.Path(filepath.Join(string(venvDir), "Scripts", "python.exe"))
	}

	return m.Path(filepath.Join(string(venvDir), "bin", "python"))
}

// EnsureEnv creates venvDir with `python -m venv` when its interpreter is
// missing. The operation is idempotent.
func (t *LocalToolchain) EnsureEnv(ctx context.Context, python m.Path, venvDir m.Path) (m.Path, error) {
	envPython := t.EnvInterpreter(venvDir)

	if _, err := os.Stat(string(envPython)); err == nil {
		slog.Debug("reusing build environment", "venv", venvDir)
		return envPython, nil
	}

	slog.Info("creating build environment", "venv", venvDir)

	stdout, stderr, err := runCommand(ctx, "", string(python), "-m", "venv", string(venvDir))
	if err != nil {
		return "", fmt.Errorf("create virtual environment %s: %w%s", venvDir, err, outputTail(stdout, stderr))
	}

	if _, err := os.Stat(string(envPython)); err != nil {
		return "", fmt.Errorf("virtual environment created but interpreter missing at %s: %w", envPython, err)
	}

	return envPython, nil
}

// InstallDeps upgrades the freezing tool inside the environment and then, if
// a requirements manifest was given, installs the application dependencies.
func (t *LocalToolchain) InstallDeps(ctx context.Context, envPython m.Path, freezeTool string, requirements m.Path) error {
	slog.Info("installing freeze tool", "tool", freezeTool)

	stdout, stderr, err := runCommand(ctx, "", string(envPython), "-m", "pip", "install", "--upgrade", freezeTool)
	if err != nil {
		return fmt.Errorf("install %s: %w%s", freezeTool, err, outputTail(stdout, stderr))
	}

	if requirements == "" {
		return nil
	}

	slog.Info("installing application requirements", "manifest", requirements)

	stdout, stderr, err = runCommand(ctx, "", string(envPython), "-m", "pip", "install", "--upgrade", "-r", string(requirements))
	if err != nil {
		return fmt.Errorf("install requirements from %s: %w%s", requirements, err, outputTail(stdout, stderr))
	}

	return nil
}

// runCommand executes a process and captures stdout and stderr separately.
func runCommand(ctx context.Context, workDir string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		err = fmt.Errorf("%s timed out: %w", name, ctx.Err())
	}

	return stdout.String(), stderr.String(), err
}

// outputTail renders the last lines of a failed process for error messages.
// The full output still goes to the log file.
func outputTail(stdout, stderr string) string {
	combined := strings.TrimSpace(stdout + stderr)
	if combined == "" {
		return ""
	}

	lines := strings.Split(combined, "\n")

	const keep = 12
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}

	return "\n" + strings.Join(lines, "\n")
}

// exitCode extracts the process exit code from err, or -1 when the process
// did not run to completion.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
