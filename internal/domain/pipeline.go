package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/rivamed/cabpack/internal/adapter"
	"github.com/rivamed/cabpack/internal/controller"
	m "github.com/rivamed/cabpack/internal/model"
)

// DeployValues are the connection values patched into the shipped database
// config after assembly.
type DeployValues struct {
	Server   string
	Password string
}

// BuildArgs carries the parameters for a full packaging run.
type BuildArgs struct {
	// WorkDir is the project directory holding the entry script and its
	// supporting files. Relative paths in the spec resolve against it.
	WorkDir m.Path
	// OutputDir receives the executable and the loose files, resolved
	// against WorkDir unless absolute.
	OutputDir m.Path
	// VenvDir is the build virtual environment, resolved like OutputDir.
	VenvDir m.Path
	// Requirements is the application dependency manifest. An empty value
	// or a missing file skips application dependencies.
	Requirements m.Path
	// FreezeTool is the pip package name of the freezing tool.
	FreezeTool string
	// FreezeTimeout bounds the freeze invocation. Zero means no limit.
	FreezeTimeout time.Duration
	// Spec describes the executable to produce.
	Spec m.FreezeSpec
	// ConfigFile is the database config whose shipped copy gets the
	// deployment values patched in.
	ConfigFile m.Path
	Deploy     DeployValues
	// ToolVersion is recorded in the dist manifest.
	ToolVersion string
	// OpenFolder reveals the output directory after a successful build.
	OpenFolder bool
}

// RefreshArgs carries the parameters for re-assembling the loose files of an
// existing dist directory without freezing again.
type RefreshArgs struct {
	WorkDir     m.Path
	DistDir     m.Path
	Spec        m.FreezeSpec
	ConfigFile  m.Path
	Deploy      DeployValues
	ToolVersion string
}

// Pipeline is the build workflow behind the cabpack commands.
type Pipeline interface {
	// Build runs the full packaging pipeline: runtime check, dependency
	// install, freeze, artifact assembly and config patch.
	Build(ctx context.Context, args BuildArgs) (m.BuildResult, error)

	// Refresh re-copies the loose files into an existing dist directory and
	// re-applies the config patch, skipping the freeze stages.
	Refresh(ctx context.Context, args RefreshArgs) (m.BuildResult, error)
}

type pipeline struct {
	adapter.Toolchain
	adapter.FreezeRunner
	adapter.DistFS
	adapter.ManifestStore
	adapter.Browser
	controller.UI
}

// NewPipeline creates a Pipeline instance with the provided dependencies.
func NewPipeline(
	toolchain adapter.Toolchain,
	freezeRunner adapter.FreezeRunner,
	fs adapter.DistFS,
	manifests adapter.ManifestStore,
	browser adapter.Browser,
	ui controller.UI,
) Pipeline {
	return &pipeline{
		Toolchain:     toolchain,
		FreezeRunner:  freezeRunner,
		DistFS:        fs,
		ManifestStore: manifests,
		Browser:       browser,
		UI:            ui,
	}
}

// buildState accumulates what the stages learn as the pipeline advances.
type buildState struct {
	args      BuildArgs
	python    m.Path
	envPython m.Path
	distDir   m.Path
	// executable is set once the frozen binary is confirmed on disk.
	executable m.Path
}

// stageDef pairs a stage identifier with its implementation. A stage returns
// operator-facing notes; a non-nil error aborts the pipeline.
type stageDef struct {
	name m.Stage
	run  func(ctx context.Context, st *buildState) ([]string, error)
}

func (p *pipeline) Build(ctx context.Context, args BuildArgs) (m.BuildResult, error) {
	if err := p.Start(ctx); err != nil {
		slog.Error("Failed to start pipeline UI", "error", err)
		return m.BuildResult{}, fmt.Errorf("start ui: %w", err)
	}

	args.WorkDir = absPath(args.WorkDir)

	st := &buildState{
		args:    args,
		distDir: resolveUnder(p, args.WorkDir, args.OutputDir),
	}

	stages := []stageDef{
		{m.StageCheckRuntime, p.checkRuntime},
		{m.StageInstallDeps, p.installDeps},
		{m.StageVerifyEntry, p.verifyEntry},
		{m.StageInvokeFreeze, p.invokeFreeze},
		{m.StageAssemble, p.assembleArtifacts},
		{m.StagePatchConfig, p.patchConfig},
	}

	result := p.walk(ctx, st, stages)

	p.finish(ctx, st, result)

	if failure := result.Failed(); failure != nil {
		return result, fmt.Errorf("aborted at %s: %w", failure.Stage, failure.Err)
	}

	return result, nil
}

func (p *pipeline) Refresh(ctx context.Context, args RefreshArgs) (m.BuildResult, error) {
	if err := p.Start(ctx); err != nil {
		slog.Error("Failed to start pipeline UI", "error", err)
		return m.BuildResult{}, fmt.Errorf("start ui: %w", err)
	}

	st := &buildState{
		args: BuildArgs{
			WorkDir:     absPath(args.WorkDir),
			OutputDir:   args.DistDir,
			Spec:        args.Spec,
			ConfigFile:  args.ConfigFile,
			Deploy:      args.Deploy,
			ToolVersion: args.ToolVersion,
		},
	}
	st.distDir = resolveUnder(p, st.args.WorkDir, st.args.OutputDir)

	stages := []stageDef{
		{m.StageAssemble, p.assembleArtifacts},
		{m.StagePatchConfig, p.patchConfig},
	}

	result := p.walk(ctx, st, stages)

	p.finish(ctx, st, result)

	if failure := result.Failed(); failure != nil {
		return result, fmt.Errorf("aborted at %s: %w", failure.Stage, failure.Err)
	}

	return result, nil
}

// walk drives the stages in order. The first failure marks every remaining
// stage as skipped so the summary still accounts for the whole pipeline.
func (p *pipeline) walk(ctx context.Context, st *buildState, stages []stageDef) m.BuildResult {
	result := m.BuildResult{Started: time.Now()}

	aborted := false

	for _, stage := range stages {
		if aborted {
			result.Stages = append(result.Stages, m.StageResult{Stage: stage.name, Status: m.StageSkipped})
			continue
		}

		p.DisplayStageStart(ctx, stage.name)
		slog.Info("Stage started", "stage", stage.name)

		started := time.Now()
		notes, err := stage.run(ctx, st)

		stageResult := m.StageResult{
			Stage:    stage.name,
			Notes:    notes,
			Duration: time.Since(started),
		}

		if err != nil {
			stageResult.Status = m.StageFailed
			stageResult.Err = err
			aborted = true

			slog.Error("Stage failed", "stage", stage.name, "error", err)
		} else {
			slog.Info("Stage completed", "stage", stage.name, "duration", stageResult.Duration)
		}

		p.DisplayStageResult(ctx, stageResult)

		result.Stages = append(result.Stages, stageResult)
	}

	result.Executable = st.executable
	result.OutputDir = st.distDir
	result.Duration = time.Since(result.Started)

	return result
}

// finish reveals the output folder when asked to, shows the summary and
// hands the terminal back once the operator dismisses the UI.
func (p *pipeline) finish(ctx context.Context, st *buildState, result m.BuildResult) {
	if result.Failed() == nil && st.args.OpenFolder {
		if err := p.Reveal(st.distDir); err != nil {
			slog.Warn("Failed to open output folder", "path", st.distDir, "error", err)
			p.DisplayNote(ctx, fmt.Sprintf("could not open %s: %v", st.distDir, err))
		} else {
			p.DisplayNote(ctx, fmt.Sprintf("opened %s", st.distDir))
		}
	}

	p.DisplaySummary(ctx, result)

	// Wait for UI to be closed by the operator (any key on the TUI).
	p.Wait(ctx)
	p.Close(ctx)
}

func (p *pipeline) checkRuntime(_ context.Context, st *buildState) ([]string, error) {
	python, version, err := p.LocatePython()
	if err != nil {
		return nil, err
	}

	st.python = python

	return []string{fmt.Sprintf("%s at %s", version, python)}, nil
}

func (p *pipeline) installDeps(ctx context.Context, st *buildState) ([]string, error) {
	venvDir := resolveUnder(p, st.args.WorkDir, st.args.VenvDir)

	envPython, err := p.EnsureEnv(ctx, st.python, venvDir)
	if err != nil {
		return nil, err
	}

	st.envPython = envPython

	var notes []string

	requirements := st.args.Requirements
	if requirements != "" {
		resolved := resolveUnder(p, st.args.WorkDir, requirements)

		if _, statErr := p.FileInfo(resolved); statErr != nil {
			notes = append(notes, fmt.Sprintf("%s not found, installing %s only", requirements, st.args.FreezeTool))
			requirements = ""
		} else {
			requirements = resolved
		}
	}

	if err := p.InstallDeps(ctx, envPython, st.args.FreezeTool, requirements); err != nil {
		return notes, err
	}

	return append(notes, fmt.Sprintf("environment at %s", venvDir)), nil
}

func (p *pipeline) verifyEntry(_ context.Context, st *buildState) ([]string, error) {
	entry := resolveUnder(p, st.args.WorkDir, st.args.Spec.Entry)

	info, err := p.FileInfo(entry)
	if err != nil {
		return nil, fmt.Errorf("entry script %s not found", st.args.Spec.Entry)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("entry script %s is a directory", st.args.Spec.Entry)
	}

	return nil, nil
}

func (p *pipeline) invokeFreeze(ctx context.Context, st *buildState) ([]string, error) {
	plan, err := PlanFreeze(p, st.args.Spec, st.args.WorkDir, st.distDir)
	if err != nil {
		return nil, err
	}

	notes := plan.Notes

	if st.args.FreezeTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, st.args.FreezeTimeout)
		defer cancel()
	}

	freezeResult, err := p.Freeze(ctx, st.args.WorkDir, st.envPython, plan.Args())
	if err != nil {
		return notes, err
	}

	executable := p.JoinPath(string(st.distDir), ExecutableName(st.args.Spec.Name))

	// PyInstaller exiting zero is not proof the binary landed where asked.
	if _, statErr := p.FileInfo(executable); statErr != nil {
		return notes, fmt.Errorf("freeze reported success but %s is missing", executable)
	}

	st.executable = executable

	return append(notes, fmt.Sprintf("froze %s in %s",
		ExecutableName(st.args.Spec.Name), freezeResult.Duration.Round(time.Millisecond))), nil
}

// resolveUnder resolves p against base unless p is already absolute.
func resolveUnder(fs adapter.DistFS, base, p m.Path) m.Path {
	if p == "" || filepath.IsAbs(string(p)) {
		return p
	}

	return fs.JoinPath(string(base), string(p))
}

// absPath pins a working directory against the process cwd so the freeze
// subprocess (which runs inside it) and our own path checks agree.
func absPath(p m.Path) m.Path {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return p
	}

	return m.Path(abs)
}
