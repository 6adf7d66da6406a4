package domain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/pmezard/go-difflib/difflib"

	m "github.com/rivamed/cabpack/internal/model"
	"github.com/rivamed/cabpack/pkg"
)

// Keys rewritten in the shipped database config. The frozen application
// reads the loose copy next to the executable, so patching it switches the
// deployment target without rebuilding.
const (
	serverKey   = "server"
	passwordKey = "password"
)

var passwordLine = regexp.MustCompile(`(?m)^([-+ ]\s*password\s*[=:]).*$`)

func (p *pipeline) patchConfig(ctx context.Context, st *buildState) ([]string, error) {
	if st.args.ConfigFile == "" {
		return []string{"no config file declared, nothing to patch"}, nil
	}

	name := filepath.Base(string(st.args.ConfigFile))
	target := p.JoinPath(string(st.distDir), name)

	info, err := p.FileInfo(target)
	if err != nil {
		return []string{fmt.Sprintf("%s not present in %s, nothing to patch", name, st.distDir)}, nil
	}

	before, err := p.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	doc := pkg.ParseINI(before)

	var notes []string

	if !doc.Set(serverKey, st.args.Deploy.Server) {
		notes = append(notes, fmt.Sprintf("no %q key in %s, server value not applied", serverKey, name))
	}

	if !doc.Set(passwordKey, st.args.Deploy.Password) {
		notes = append(notes, fmt.Sprintf("no %q key in %s, password value not applied", passwordKey, name))
	}

	after := doc.Bytes()

	if bytes.Equal(before, after) {
		return append(notes, "config already carries the deployment values"), nil
	}

	if err := p.WriteFile(target, after, info.Mode()); err != nil {
		return notes, fmt.Errorf("write %s: %w", target, err)
	}

	// The password never reaches the log; the diff shown to the operator is
	// masked as well.
	slog.Info("Patched deployment values", "file", target, "server", st.args.Deploy.Server)

	if diff, diffErr := unifiedDiff(name, before, after); diffErr == nil && diff != "" {
		p.DisplayPatchDiff(ctx, maskPasswordValues(diff))
	}

	if err := p.refreshManifestEntry(st, target); err != nil {
		return notes, err
	}

	return append(notes, fmt.Sprintf("applied deployment values to %s", name)), nil
}

// refreshManifestEntry re-fingerprints the patched config inside the
// manifest, which the assemble stage hashed before the patch ran.
func (p *pipeline) refreshManifestEntry(st *buildState, target m.Path) error {
	manifestPath := p.JoinPath(string(st.distDir), ManifestFileName)

	manifest, err := p.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("reload manifest: %w", err)
	}

	rel, err := p.RelPath(st.distDir, target)
	if err != nil {
		return err
	}

	info, err := p.FileInfo(target)
	if err != nil {
		return err
	}

	sum, err := p.HashFile(target)
	if err != nil {
		return err
	}

	relSlash := filepath.ToSlash(string(rel))

	for i := range manifest.Files {
		if manifest.Files[i].Path == relSlash {
			manifest.Files[i].Size = info.Size()
			manifest.Files[i].SHA256 = sum
		}
	}

	return p.Save(manifestPath, manifest)
}

func unifiedDiff(name string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: name,
		ToFile:   name + " (patched)",
		Context:  2,
	})
}

// maskPasswordValues hides password values in operator-facing diff output.
// The file on disk keeps the real value.
func maskPasswordValues(diff string) string {
	return passwordLine.ReplaceAllString(diff, "${1} ********")
}
