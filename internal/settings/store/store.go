// Package store provides sectioned key-value persistence for settings.
//
// Values live in a flat INI text file: bracketed section headers followed
// by Name=Value lines. A missing file, section, or key is the normal
// "unset" case and reads as the caller's fallback, never as an error.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Errors returned by store operations.
var (
	// ErrStoreWrite indicates a value could not be persisted.
	ErrStoreWrite = errors.New("store write failed")

	// ErrDirCreate indicates a parent directory could not be created.
	ErrDirCreate = errors.New("directory create failed")
)

// DefaultFileName is the store file name used when only a directory is
// configured.
const DefaultFileName = "config.ini"

// Store reads and writes sectioned key-value pairs in INI files.
type Store struct {
	fileMode os.FileMode
	dirMode  os.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithFileMode sets the permission bits for created store files.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Store) { s.fileMode = mode }
}

// WithDirMode sets the permission bits for created directories.
func WithDirMode(mode os.FileMode) Option {
	return func(s *Store) { s.dirMode = mode }
}

// New creates a store with default permissions.
func New(opts ...Option) *Store {
	s := &Store{
		fileMode: 0o644,
		dirMode:  0o755,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the value stored under (section, name) in the file at path,
// or fallback if the file, section, or key does not exist.
func (s *Store) Read(path, section, name, fallback string) string {
	cfg, err := ini.Load(path)
	if err != nil {
		return fallback
	}

	sec, err := cfg.GetSection(section)
	if err != nil {
		return fallback
	}
	if !sec.HasKey(name) {
		return fallback
	}
	return sec.Key(name).String()
}

// Write persists value under (section, name) in the file at path, creating
// the file, section header, or key line as needed. Other sections and keys
// are preserved.
func (s *Store) Write(path, section, name, value string) error {
	// LooseLoad treats a missing file as empty; any other read failure
	// means the existing contents cannot be preserved.
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("%w: loading %s: %v", ErrStoreWrite, path, err)
	}

	cfg.Section(section).Key(name).SetValue(value)

	if err := s.save(cfg, path); err != nil {
		return fmt.Errorf("%w: saving %s: %v", ErrStoreWrite, path, err)
	}
	return nil
}

// save writes the file with the store's permission bits.
func (s *Store) save(cfg *ini.File, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.fileMode)
	if err != nil {
		return err
	}
	if _, err := cfg.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EnsureDir ensures the parent directory of the given file path exists,
// creating it recursively if absent.
func (s *Store) EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirCreate, dir, err)
	}
	return nil
}

// DefaultPath returns the default store location: config.ini in the
// process working directory.
func DefaultPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(wd, DefaultFileName)
}
