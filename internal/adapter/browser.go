package adapter

import (
	m "github.com/rivamed/cabpack/internal/model"
)

// Browser reveals a path in the operator's file browser. Opening the output
// folder is a courtesy; callers treat failures as non-fatal.
type Browser interface {
	Reveal(path m.Path) error
}

// LocalBrowser opens paths with the platform file browser.
type LocalBrowser struct{}

// NewLocalBrowser constructs a LocalBrowser.
func NewLocalBrowser() *LocalBrowser {
	return &LocalBrowser{}
}

// Reveal opens path in the platform file browser.
func (b *LocalBrowser) Reveal(path m.Path) error {
	return openFolder(string(path))
}
