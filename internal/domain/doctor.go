package domain

import (
	"context"
	"fmt"

	"github.com/rivamed/cabpack/internal/adapter"
	m "github.com/rivamed/cabpack/internal/model"
)

// DoctorArgs carries the inputs inspected by Diagnose.
type DoctorArgs struct {
	WorkDir      m.Path
	VenvDir      m.Path
	Requirements m.Path
	Spec         m.FreezeSpec
}

// Doctor inspects the build inputs without running a build, so an operator
// can see what a build would trip over before spending minutes on a freeze.
type Doctor interface {
	Diagnose(ctx context.Context, args DoctorArgs) (m.DoctorReport, error)
}

type doctor struct {
	adapter.Toolchain
	adapter.DistFS
}

// NewDoctor creates a Doctor instance with the provided dependencies.
func NewDoctor(toolchain adapter.Toolchain, fs adapter.DistFS) Doctor {
	return &doctor{
		Toolchain: toolchain,
		DistFS:    fs,
	}
}

func (d *doctor) Diagnose(_ context.Context, args DoctorArgs) (m.DoctorReport, error) {
	args.WorkDir = absPath(args.WorkDir)

	var report m.DoctorReport

	report.Checks = append(report.Checks, d.runtimeCheck())
	report.Checks = append(report.Checks, d.envCheck(args))
	report.Checks = append(report.Checks, d.entryCheck(args))
	report.Checks = append(report.Checks, d.iconCheck(args))
	report.Checks = append(report.Checks, d.dataChecks(args)...)
	report.Checks = append(report.Checks, d.requirementsCheck(args))

	return report, nil
}

func (d *doctor) runtimeCheck() m.Check {
	check := m.Check{Name: "python runtime", Required: true}

	python, version, err := d.LocatePython()
	if err != nil {
		check.Detail = err.Error()
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("%s at %s", version, python)

	return check
}

func (d *doctor) envCheck(args DoctorArgs) m.Check {
	check := m.Check{Name: "build environment"}

	envPython := d.EnvInterpreter(resolveUnder(d, args.WorkDir, args.VenvDir))

	if _, err := d.FileInfo(envPython); err != nil {
		check.Detail = fmt.Sprintf("%s missing, created on first build", args.VenvDir)
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("interpreter at %s", envPython)

	return check
}

func (d *doctor) entryCheck(args DoctorArgs) m.Check {
	check := m.Check{Name: "entry script", Required: true}

	entry := resolveUnder(d, args.WorkDir, args.Spec.Entry)

	info, err := d.FileInfo(entry)

	switch {
	case args.Spec.Entry == "" || err != nil:
		check.Detail = fmt.Sprintf("%s not found", args.Spec.Entry)

	case info.IsDir():
		check.Detail = fmt.Sprintf("%s is a directory", args.Spec.Entry)

	default:
		check.OK = true
		check.Detail = string(entry)
	}

	return check
}

func (d *doctor) iconCheck(args DoctorArgs) m.Check {
	check := m.Check{Name: "icon"}

	spec := args.Spec

	switch {
	case spec.Icon != "" && sourceExists(d, args.WorkDir, spec.Icon):
		check.OK = true
		check.Detail = string(spec.Icon)

	case spec.IconFallback != "" && sourceExists(d, args.WorkDir, spec.IconFallback):
		check.OK = true
		check.Detail = fmt.Sprintf("%s missing, using %s", spec.Icon, spec.IconFallback)

	default:
		check.Detail = "no icon found, builds continue without one"
	}

	return check
}

func (d *doctor) dataChecks(args DoctorArgs) []m.Check {
	checks := make([]m.Check, 0, len(args.Spec.Data))

	for _, data := range args.Spec.Data {
		check := m.Check{Name: string(data.Source), Required: data.Required}

		resolved := resolveUnder(d, args.WorkDir, data.Source)

		if _, err := d.FileInfo(resolved); err != nil {
			check.Detail = fmt.Sprintf("not found under %s", args.WorkDir)
		} else {
			check.OK = true
			check.Detail = string(resolved)
		}

		checks = append(checks, check)
	}

	return checks
}

func (d *doctor) requirementsCheck(args DoctorArgs) m.Check {
	check := m.Check{Name: "requirements"}

	if args.Requirements == "" {
		check.OK = true
		check.Detail = "not configured"

		return check
	}

	resolved := resolveUnder(d, args.WorkDir, args.Requirements)

	if _, err := d.FileInfo(resolved); err != nil {
		check.Detail = fmt.Sprintf("%s not found, application dependencies will be skipped", args.Requirements)
		return check
	}

	check.OK = true
	check.Detail = string(resolved)

	return check
}
