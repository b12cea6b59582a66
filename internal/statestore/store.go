// Package statestore persists the single sync record under the per-user data
// directory.
package statestore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/nixstatus/nixstatus/internal/syncstate"
	"github.com/nixstatus/nixstatus/internal/utils"
)

const (
	FileName = "state.bin"

	// used when the platform reports no data directory
	fallbackDataDir = "~/.local/share"
)

// DefaultDataDir returns the per-user data directory of the platform.
func DefaultDataDir() string {
	return resolveDataDir(xdg.DataHome)
}

// resolveDataDir resolves dir, falling back to ~/.local/share when it is empty.
func resolveDataDir(dir string) string {
	if dir == "" {
		dir = fallbackDataDir
	}

	resolved, err := utils.ResolvePath(dir)
	if err != nil {
		return dir
	}
	return resolved
}

// Store reads and writes the record at <root>/<appName>/state.bin.
// It does no locking; a single caller per state file is assumed.
type Store struct {
	fs  billy.Filesystem
	dir string
}

// New returns a Store on fs, keeping its state under the appName directory.
func New(fs billy.Filesystem, appName string) *Store {
	return &Store{
		fs:  fs,
		dir: appName,
	}
}

// Open returns a Store rooted at dataDir on the local filesystem.
func Open(dataDir, appName string) *Store {
	return New(osfs.New(dataDir), appName)
}

func (s *Store) name() string {
	return s.fs.Join(s.dir, FileName)
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return filepath.Join(s.fs.Root(), s.dir, FileName)
}

// Load returns the persisted record. A missing, unreadable or corrupt state
// file yields the synced record.
func (s *Store) Load() syncstate.Record {
	data, err := util.ReadFile(s.fs, s.name())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("state file not found", "path", s.Path())
		} else {
			slog.Warn("state file unreadable, assuming synced", "path", s.Path(), "error", err)
		}
		return syncstate.Synced()
	}

	rec, err := syncstate.Decode(data)
	if err != nil {
		slog.Warn("state file corrupt, assuming synced", "path", s.Path(), "error", err)
		return syncstate.Synced()
	}

	slog.Debug("state loaded", "path", s.Path(), "status", rec.Status, "missed", rec.Missed, "revision", rec.Revision)
	return rec
}

// Save overwrites the state file with rec, creating its directory first.
func (s *Store) Save(rec syncstate.Record) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", filepath.Dir(s.Path()), err)
	}

	data, err := syncstate.Encode(rec)
	if err != nil {
		return err
	}

	if err := util.WriteFile(s.fs, s.name(), data, 0o644); err != nil {
		return fmt.Errorf("write state file %q: %w", s.Path(), err)
	}

	slog.Debug("state saved", "path", s.Path(), "status", rec.Status, "missed", rec.Missed)
	return nil
}
