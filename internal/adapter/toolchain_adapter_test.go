package adapter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	m "github.com/rivamed/cabpack/internal/model"
)

// fakeInterpreter drops an executable shell shim named `name` into a fresh
// directory that becomes the whole PATH, and returns the shim's path.
func fakeInterpreter(t *testing.T, name, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell shims are not portable to windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil { // #nosec G306
		t.Fatalf("writing shim: %v", err)
	}

	t.Setenv("PATH", dir)

	return path
}

func TestPythonCandidates(t *testing.T) {
	candidates := pythonCandidates()

	if len(candidates) == 0 {
		t.Fatal("pythonCandidates() returned nothing")
	}

	if runtime.GOOS == "windows" {
		if candidates[0] != "python" {
			t.Fatalf("pythonCandidates()[0] = %s, want python", candidates[0])
		}
		return
	}

	if candidates[0] != "python3" {
		t.Fatalf("pythonCandidates()[0] = %s, want python3", candidates[0])
	}
}

func TestLocalToolchain_LocatePython(t *testing.T) {
	shim := fakeInterpreter(t, "python3", `echo "Python 3.9.13"`+"\n")

	toolchain := NewLocalToolchain()

	path, version, err := toolchain.LocatePython()
	if err != nil {
		t.Fatalf("LocatePython() error = %v", err)
	}

	if path != m.Path(shim) {
		t.Fatalf("LocatePython() path = %s, want %s", path, shim)
	}

	if version != "Python 3.9.13" {
		t.Fatalf("LocatePython() version = %q", version)
	}
}

func TestLocalToolchain_LocatePython_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	toolchain := NewLocalToolchain()

	_, _, err := toolchain.LocatePython()
	if err == nil {
		t.Fatal("LocatePython() expected error on empty PATH")
	}

	if !strings.Contains(err.Error(), "no Python interpreter found on PATH") {
		t.Fatalf("LocatePython() error = %v", err)
	}
}

func TestLocalToolchain_LocatePython_SkipsBrokenInterpreter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shims are not portable to windows")
	}

	dir := t.TempDir()

	// python3 resolves but cannot report a version; python works.
	if err := os.WriteFile(filepath.Join(dir, "python3"), []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil { // #nosec G306
		t.Fatalf("writing shim: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "python"), []byte("#!/bin/sh\necho \"Python 3.8.10\"\n"), 0o755); err != nil { // #nosec G306
		t.Fatalf("writing shim: %v", err)
	}

	t.Setenv("PATH", dir)

	toolchain := NewLocalToolchain()

	path, version, err := toolchain.LocatePython()
	if err != nil {
		t.Fatalf("LocatePython() error = %v", err)
	}

	if path != m.Path(filepath.Join(dir, "python")) {
		t.Fatalf("LocatePython() path = %s, want the fallback interpreter", path)
	}

	if version != "Python 3.8.10" {
		t.Fatalf("LocatePython() version = %q", version)
	}
}

func TestLocalToolchain_EnvInterpreter(t *testing.T) {
	toolchain := NewLocalToolchain()

	got := toolchain.EnvInterpreter(m.Path("venv"))

	want := filepath.Join("venv", "bin", "python")
	if runtime.GOOS == "windows" {
		want = filepath.Join("venv", "Scripts", "python.exe")
	}

	if got != m.Path(want) {
		t.Fatalf("EnvInterpreter() = %s, want %s", got, want)
	}
}

func TestLocalToolchain_EnsureEnv_ReusesExisting(t *testing.T) {
	toolchain := NewLocalToolchain()

	venv := filepath.Join(t.TempDir(), "venv")
	envPython := toolchain.EnvInterpreter(m.Path(venv))

	if err := os.MkdirAll(filepath.Dir(string(envPython)), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTestFile(t, string(envPython), "")

	// The base interpreter is bogus on purpose; an existing environment must
	// be returned without invoking it.
	got, err := toolchain.EnsureEnv(context.Background(), "definitely-not-a-python", m.Path(venv))
	if err != nil {
		t.Fatalf("EnsureEnv() error = %v", err)
	}

	if got != envPython {
		t.Fatalf("EnsureEnv() = %s, want %s", got, envPython)
	}
}

func TestLocalToolchain_EnsureEnv_CreatesEnvironment(t *testing.T) {
	// The shim stands in for `python -m venv <dir>` and drops the interpreter
	// where EnsureEnv expects it. fakeInterpreter empties PATH, so the
	// utilities must be resolved via the default system path (command -p).
	shim := fakeInterpreter(t, "python3", `command -p mkdir -p "$3/bin" && command -p touch "$3/bin/python"`+"\n")

	toolchain := NewLocalToolchain()

	venv := filepath.Join(t.TempDir(), "venv")

	got, err := toolchain.EnsureEnv(context.Background(), m.Path(shim), m.Path(venv))
	if err != nil {
		t.Fatalf("EnsureEnv() error = %v", err)
	}

	want := m.Path(filepath.Join(venv, "bin", "python"))
	if got != want {
		t.Fatalf("EnsureEnv() = %s, want %s", got, want)
	}

	if _, err := os.Stat(string(want)); err != nil {
		t.Fatalf("EnsureEnv() did not create interpreter: %v", err)
	}
}

func TestLocalToolchain_EnsureEnv_SurfacesToolOutput(t *testing.T) {
	shim := fakeInterpreter(t, "python3", `echo "venv module is broken" >&2; exit 1`+"\n")

	toolchain := NewLocalToolchain()

	_, err := toolchain.EnsureEnv(context.Background(), m.Path(shim), m.Path(filepath.Join(t.TempDir(), "venv")))
	if err == nil {
		t.Fatal("EnsureEnv() expected error")
	}

	if !strings.Contains(err.Error(), "create virtual environment") {
		t.Fatalf("EnsureEnv() error = %v", err)
	}

	if !strings.Contains(err.Error(), "venv module is broken") {
		t.Fatalf("EnsureEnv() error should carry the tool output, got %v", err)
	}
}

func TestLocalToolchain_InstallDeps(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shims are not portable to windows")
	}

	callLog := filepath.Join(t.TempDir(), "calls.log")

	dir := t.TempDir()
	shim := filepath.Join(dir, "python")

	script := "#!/bin/sh\necho \"$@\" >> \"" + callLog + "\"\n"
	if err := os.WriteFile(shim, []byte(script), 0o755); err != nil { // #nosec G306
		t.Fatalf("writing shim: %v", err)
	}

	toolchain := NewLocalToolchain()

	t.Run("tool only", func(t *testing.T) {
		if err := toolchain.InstallDeps(context.Background(), m.Path(shim), "pyinstaller", ""); err != nil {
			t.Fatalf("InstallDeps() error = %v", err)
		}

		calls := readCallLog(t, callLog)
		if len(calls) != 1 {
			t.Fatalf("InstallDeps() made %d pip calls, want 1: %v", len(calls), calls)
		}

		if calls[0] != "-m pip install --upgrade pyinstaller" {
			t.Fatalf("InstallDeps() call = %q", calls[0])
		}
	})

	t.Run("tool and requirements", func(t *testing.T) {
		if err := os.Remove(callLog); err != nil {
			t.Fatalf("resetting call log: %v", err)
		}

		if err := toolchain.InstallDeps(context.Background(), m.Path(shim), "pyinstaller", "requirements.txt"); err != nil {
			t.Fatalf("InstallDeps() error = %v", err)
		}

		calls := readCallLog(t, callLog)
		if len(calls) != 2 {
			t.Fatalf("InstallDeps() made %d pip calls, want 2: %v", len(calls), calls)
		}

		if calls[1] != "-m pip install --upgrade -r requirements.txt" {
			t.Fatalf("InstallDeps() requirements call = %q", calls[1])
		}
	})
}

func TestLocalToolchain_InstallDeps_Failure(t *testing.T) {
	shim := fakeInterpreter(t, "python", `echo "No matching distribution found" >&2; exit 1`+"\n")

	toolchain := NewLocalToolchain()

	err := toolchain.InstallDeps(context.Background(), m.Path(shim), "pyinstaller", "")
	if err == nil {
		t.Fatal("InstallDeps() expected error")
	}

	if !strings.Contains(err.Error(), "install pyinstaller") {
		t.Fatalf("InstallDeps() error = %v", err)
	}

	if !strings.Contains(err.Error(), "No matching distribution found") {
		t.Fatalf("InstallDeps() error should carry pip output, got %v", err)
	}
}

func TestRunCommand_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shims are not portable to windows")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := runCommand(ctx, "", "sh", "-c", "sleep 5")
	if err == nil {
		t.Fatal("runCommand() expected timeout error")
	}

	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("runCommand() error = %v", err)
	}
}

func TestOutputTail(t *testing.T) {
	if got := outputTail("", ""); got != "" {
		t.Fatalf("outputTail(empty) = %q", got)
	}

	if got := outputTail("line one\n", "line two"); got != "\nline one\nline two" {
		t.Fatalf("outputTail(short) = %q", got)
	}

	long := strings.Repeat("filler\n", 20) + "last line"

	got := outputTail(long, "")
	if strings.Count(got, "\n") != 12 {
		t.Fatalf("outputTail(long) kept %d lines, want 12", strings.Count(got, "\n"))
	}

	if !strings.HasSuffix(got, "last line") {
		t.Fatalf("outputTail(long) = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Fatalf("exitCode(nil) = %d", got)
	}

	if got := exitCode(errors.New("not an exit error")); got != -1 {
		t.Fatalf("exitCode(plain error) = %d", got)
	}

	if runtime.GOOS != "windows" {
		err := exec.Command("sh", "-c", "exit 3").Run()
		if got := exitCode(err); got != 3 {
			t.Fatalf("exitCode(exit 3) = %d", got)
		}
	}
}

func readCallLog(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		t.Fatalf("reading call log: %v", err)
	}

	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
