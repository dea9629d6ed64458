// Package loader provides declarative schema loading for prefpane.
//
// A settings schema can be declared in a TOML document instead of Go
// code: one [items.<Key>] table per setting, with scalar fields for
// literals and *-script fields holding Lua expressions for computed
// values. Scripts are compiled at load time and evaluated fresh on every
// resolve, matching the semantics of fields supplied as Go computations.
package loader

import (
	"io/fs"
	"os"
)

// FileSystem is an abstraction for file system operations, allowing
// in-memory file systems in tests.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}
