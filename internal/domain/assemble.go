package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	m "github.com/rivamed/cabpack/internal/model"
)

// ManifestFileName is the name of the audit manifest written into the output
// directory alongside the shipped files.
const ManifestFileName = "cabpack-manifest.yaml"

// assembleArtifacts mirrors the loose data files next to the frozen
// executable and writes the dist manifest. The frozen bundle already embeds
// the data files; the loose copies are what the deployed application
// actually reads at runtime, so both sets ship.
func (p *pipeline) assembleArtifacts(_ context.Context, st *buildState) ([]string, error) {
	if err := p.MkdirAll(st.distDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", st.distDir, err)
	}

	var notes []string

	copied := 0

	for _, data := range st.args.Spec.Data {
		src := resolveUnder(p, st.args.WorkDir, data.Source)

		info, err := p.FileInfo(src)
		if err != nil {
			notes = append(notes, fmt.Sprintf("%s not found, not copied", data.Source))
			continue
		}

		if info.IsDir() {
			dst := p.JoinPath(string(st.distDir), data.Dest)

			if err := p.CopyDir(src, dst); err != nil {
				return notes, fmt.Errorf("copy %s: %w", data.Source, err)
			}
		} else {
			dst := p.JoinPath(string(st.distDir), data.Dest, filepath.Base(string(data.Source)))

			if err := p.CopyFile(src, dst); err != nil {
				return notes, fmt.Errorf("copy %s: %w", data.Source, err)
			}
		}

		copied++
	}

	notes = append(notes, fmt.Sprintf("copied %d of %d data entries", copied, len(st.args.Spec.Data)))

	// On a refresh no freeze stage ran; adopt an executable left behind by a
	// previous build so the manifest and summary stay accurate.
	if st.executable == "" {
		candidate := p.JoinPath(string(st.distDir), ExecutableName(st.args.Spec.Name))
		if _, err := p.FileInfo(candidate); err == nil {
			st.executable = candidate
		}
	}

	manifest, err := p.composeManifest(st)
	if err != nil {
		return notes, err
	}

	manifestPath := p.JoinPath(string(st.distDir), ManifestFileName)
	if err := p.Save(manifestPath, manifest); err != nil {
		return notes, fmt.Errorf("write manifest: %w", err)
	}

	return append(notes, fmt.Sprintf("manifest lists %d files", len(manifest.Files))), nil
}

// composeManifest fingerprints everything under the output directory. The
// manifest itself is excluded from its own file list.
func (p *pipeline) composeManifest(st *buildState) (m.DistManifest, error) {
	manifest := m.DistManifest{
		App:     st.args.Spec.Name,
		Version: st.args.ToolVersion,
		BuiltAt: time.Now().UTC(),
	}

	if st.executable != "" {
		manifest.Executable = ExecutableName(st.args.Spec.Name)
	}

	err := p.Walk(st.distDir, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, relErr := p.RelPath(st.distDir, m.Path(path))
		if relErr != nil {
			return relErr
		}

		relSlash := filepath.ToSlash(string(rel))
		if relSlash == ManifestFileName {
			return nil
		}

		sum, hashErr := p.HashFile(m.Path(path))
		if hashErr != nil {
			return hashErr
		}

		manifest.Files = append(manifest.Files, m.ManifestFile{
			Path:   relSlash,
			Size:   info.Size(),
			SHA256: sum,
		})

		return nil
	})
	if err != nil {
		return manifest, fmt.Errorf("fingerprint output directory: %w", err)
	}

	sort.Slice(manifest.Files, func(i, j int) bool {
		return manifest.Files[i].Path < manifest.Files[j].Path
	})

	return manifest, nil
}
