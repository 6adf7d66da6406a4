package model

import "time"

// Stage identifies one step of the build pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageCheckRuntime Stage = "check_runtime"
	StageInstallDeps  Stage = "install_deps"
	StageVerifyEntry  Stage = "verify_entry_script"
	StageInvokeFreeze Stage = "invoke_freeze"
	StageAssemble     Stage = "assemble_artifacts"
	StagePatchConfig  Stage = "patch_config"
)

// StageStatus represents the outcome of a pipeline stage.
type StageStatus int

const (
	// StagePassed indicates the stage completed successfully.
	StagePassed StageStatus = iota
	// StageFailed indicates the stage failed and aborted the pipeline.
	StageFailed
	// StageSkipped indicates the stage was not reached.
	StageSkipped
)

func (s StageStatus) String() string {
	switch s {
	case StagePassed:
		return "ok"
	case StageFailed:
		return "failed"
	case StageSkipped:
		return "skipped"
	}

	return "unknown"
}

// StageResult records the outcome of a single pipeline stage.
type StageResult struct {
	Stage    Stage
	Status   StageStatus
	Notes    []string
	Err      error
	Duration time.Duration
}

// BuildResult aggregates the outcome of a full pipeline run.
type BuildResult struct {
	Stages     []StageResult
	Executable Path
	OutputDir  Path
	Started    time.Time
	Duration   time.Duration
}

// Failed returns the first failed stage, or nil when every executed stage
// passed.
func (r BuildResult) Failed() *StageResult {
	for i := range r.Stages {
		if r.Stages[i].Status == StageFailed {
			return &r.Stages[i]
		}
	}

	return nil
}
