// Package domain implements the packaging pipeline: freeze planning, the
// stage-driven build driver, artifact assembly and config patching.
package domain

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rivamed/cabpack/internal/adapter"
	m "github.com/rivamed/cabpack/internal/model"
)

// FreezePlan is a FreezeSpec resolved against a working directory: every
// surviving data file exists, the icon has been chosen (or dropped) and the
// plan can be rendered as a PyInstaller argument vector.
type FreezePlan struct {
	Spec     m.FreezeSpec
	WorkDir  m.Path
	DistPath m.Path
	// Icon is the icon that will be embedded, empty when none was found.
	Icon m.Path
	// Data holds the subset of the spec's data files that exist on disk.
	Data []m.DataFile
	// Notes records degradations (fallback icon, skipped optional files).
	Notes []string
}

// PlanFreeze validates spec against workDir and resolves the freeze plan.
// Missing required inputs (entry script, required data files) fail planning;
// a missing icon or optional data file only degrades the plan with a note.
func PlanFreeze(fs adapter.DistFS, spec m.FreezeSpec, workDir, distPath m.Path) (FreezePlan, error) {
	plan := FreezePlan{Spec: spec, WorkDir: workDir, DistPath: distPath}

	if spec.Name == "" {
		return plan, errors.New("freeze spec has no executable name")
	}

	if spec.Entry == "" {
		return plan, errors.New("freeze spec has no entry script")
	}

	if !sourceExists(fs, workDir, spec.Entry) {
		return plan, fmt.Errorf("entry script %s not found", spec.Entry)
	}

	switch {
	case spec.Icon != "" && sourceExists(fs, workDir, spec.Icon):
		plan.Icon = spec.Icon

	case spec.IconFallback != "" && sourceExists(fs, workDir, spec.IconFallback):
		plan.Icon = spec.IconFallback
		plan.Notes = append(plan.Notes, fmt.Sprintf("icon %s not found, using %s", spec.Icon, spec.IconFallback))

	default:
		plan.Notes = append(plan.Notes, "no icon found, continuing without one")
	}

	for _, data := range spec.Data {
		if sourceExists(fs, workDir, data.Source) {
			plan.Data = append(plan.Data, data)
			continue
		}

		if data.Required {
			return plan, fmt.Errorf("required data file %s not found", data.Source)
		}

		plan.Notes = append(plan.Notes, fmt.Sprintf("optional %s not found, skipped", data.Source))
	}

	return plan, nil
}

// Args renders the plan as the argument vector for the environment
// interpreter: `python -m PyInstaller <policy flags> ... <entry>`. The policy
// knobs are fixed: cleaned build cache, no prompts, one windowed single-file
// executable.
func (p FreezePlan) Args() []string {
	args := []string{
		"-m", "PyInstaller",
		"--clean",
		"--noconfirm",
		"--onefile",
		"--windowed",
		"--name", p.Spec.Name,
		"--distpath", string(p.DistPath),
	}

	if p.Icon != "" {
		args = append(args, "--icon", string(p.Icon))
	}

	for _, data := range p.Data {
		args = append(args, "--add-data", string(data.Source)+dataSeparator()+data.Dest)
	}

	for _, module := range p.Spec.HiddenImports {
		args = append(args, "--hidden-import", module)
	}

	return append(args, string(p.Spec.Entry))
}

// dataSeparator returns the separator PyInstaller expects between the source
// and destination of an --add-data pair, which differs per platform.
func dataSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}

	return ":"
}

// ExecutableName returns the file name PyInstaller gives the frozen binary.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}

	return name
}

func sourceExists(fs adapter.DistFS, workDir, source m.Path) bool {
	_, err := fs.FileInfo(resolveUnder(fs, workDir, source))
	return err == nil
}
