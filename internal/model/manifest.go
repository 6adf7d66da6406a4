package model

import "time"

// ManifestFile is one shipped file entry in the dist manifest.
type ManifestFile struct {
	// Path is relative to the output directory, with forward slashes.
	Path   string `yaml:"path"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}

// DistManifest records what a build shipped into the output directory. It is
// rewritten on every build and never read back by the pipeline itself; it
// exists so deployments can be audited after the fact.
type DistManifest struct {
	App        string         `yaml:"app"`
	Version    string         `yaml:"version,omitempty"`
	BuiltAt    time.Time      `yaml:"built_at"`
	Executable string         `yaml:"executable"`
	Files      []ManifestFile `yaml:"files"`
}
