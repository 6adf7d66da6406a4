// Package model defines the data types shared by the cabpack pipeline.
package model

// Path represents a file system path.
type Path string

// DataFile maps a loose file or directory from the build working tree into
// the frozen application bundle and the assembled dist folder.
type DataFile struct {
	// Source is the origin path, relative to the build working directory.
	Source Path
	// Dest is the destination directory inside the bundle ("." for the root).
	Dest string
	// Required aborts the build when the source is absent. Optional sources
	// are skipped with a note.
	Required bool
}

// FreezeSpec describes one freeze invocation: the entry script, the
// supporting files to embed and the identity of the produced executable.
type FreezeSpec struct {
	// Name is the fixed identifier of the produced executable.
	Name string
	// Entry is the application entry script. The pipeline aborts when it
	// is missing.
	Entry Path
	// Icon and IconFallback are tried in order; a build without an icon is
	// still valid.
	Icon         Path
	IconFallback Path
	// Data lists the loose files shipped with the executable.
	Data []DataFile
	// HiddenImports names modules the freezing tool cannot discover by
	// scanning imports (e.g. database drivers loaded at runtime).
	HiddenImports []string
}
