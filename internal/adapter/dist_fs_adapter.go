package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "github.com/rivamed/cabpack/internal/model"
)

// DistFS abstracts filesystem operations the domain layer relies on when
// verifying inputs and assembling the output directory. It intentionally
// hides direct `os` access so the pipeline logic can be tested without
// touching the disk.
//
//nolint:interfacebloat // A richer interface keeps pipeline logic decoupled from os/fs.
type DistFS interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// MkdirAll creates a directory tree.
	MkdirAll(path m.Path, perm os.FileMode) error

	// CopyFile copies a single file, creating the destination directory and
	// preserving the source file mode. An existing destination is replaced.
	CopyFile(src, dst m.Path) error

	// CopyDir recursively copies a directory tree. Existing destination
	// files are replaced.
	CopyDir(src, dst m.Path) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalDistFS is the concrete implementation backing the DistFS interface.
type LocalDistFS struct{}

// NewLocalDistFS constructs a LocalDistFS instance ready to be wired into
// the pipeline.
func NewLocalDistFS() *LocalDistFS {
	return &LocalDistFS{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalDistFS) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalDistFS) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalDistFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalDistFS) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalDistFS) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// MkdirAll creates a directory tree.
func (a *LocalDistFS) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// CopyFile copies a single file preserving its mode.
func (a *LocalDistFS) CopyFile(src, dst m.Path) error {
	info, err := os.Stat(string(src))
	if err != nil {
		return err
	}

	return a.copyFile(string(src), string(dst), info.Mode())
}

// CopyDir recursively copies a directory tree.
func (a *LocalDistFS) CopyDir(src, dst m.Path) error {
	return filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		// Version-control metadata never ships with the application.
		if info.IsDir() && filepath.Base(path) == ".git" {
			return filepath.SkipDir
		}

		targetPath := filepath.Join(string(dst), relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}

		return a.copyFile(path, targetPath, info.Mode())
	})
}

// copyFile copies a single file.
func (a *LocalDistFS) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is an operator-declared project file path, not remote input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is derived from the configured output directory
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

// RelPath returns the relative path from base to target.
func (a *LocalDistFS) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalDistFS) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
