package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "github.com/rivamed/cabpack/internal/model"
)

// ManifestStore persists the dist manifest describing shipped artifacts.
type ManifestStore interface {
	Save(path m.Path, manifest m.DistManifest) error
	Load(path m.Path) (m.DistManifest, error)
}

// YAMLManifestStore stores manifests as YAML files.
type YAMLManifestStore struct{}

// NewManifestStore constructs a YAMLManifestStore.
func NewManifestStore() *YAMLManifestStore {
	return &YAMLManifestStore{}
}

// Save writes the manifest to path, replacing any previous manifest.
func (s *YAMLManifestStore) Save(path m.Path, manifest m.DistManifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	return nil
}

// Load reads a manifest back from path.
func (s *YAMLManifestStore) Load(path m.Path) (m.DistManifest, error) {
	var manifest m.DistManifest

	data, err := os.ReadFile(string(path))
	if err != nil {
		return manifest, err
	}

	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	return manifest, nil
}
