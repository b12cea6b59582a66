package statestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixstatus/nixstatus/internal/syncstate"
)

func TestStore_LoadMissingIsSynced(t *testing.T) {
	s := New(memfs.New(), "nixstatus")
	assert.Equal(t, syncstate.Synced(), s.Load())
}

func TestStore_SaveLoad_Roundtrip(t *testing.T) {
	s := New(memfs.New(), "nixstatus")

	for _, rec := range []syncstate.Record{
		syncstate.Unsynced(1, "abc"),
		syncstate.Unsynced(9, "def"),
		syncstate.Synced(),
	} {
		require.NoError(t, s.Save(rec))
		assert.Equal(t, rec, s.Load())
	}
}

func TestStore_LoadCorruptIsSynced(t *testing.T) {
	fs := memfs.New()
	s := New(fs, "nixstatus")

	require.NoError(t, util.WriteFile(fs, "nixstatus/"+FileName, []byte{0x93, 0x01}, 0o644))
	assert.Equal(t, syncstate.Synced(), s.Load())

	require.NoError(t, util.WriteFile(fs, "nixstatus/"+FileName, nil, 0o644))
	assert.Equal(t, syncstate.Synced(), s.Load())
}

func TestStore_SaveRejectsInvalidRecord(t *testing.T) {
	s := New(memfs.New(), "nixstatus")
	err := s.Save(syncstate.Unsynced(0, "abc"))
	assert.ErrorIs(t, err, syncstate.ErrInvalidRecord)
}

func TestOpen_CreatesDirectoryAndFile(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "share")
	s := Open(dataDir, "nixstatus")

	assert.Equal(t, filepath.Join(dataDir, "nixstatus", FileName), s.Path())

	require.NoError(t, s.Save(syncstate.Unsynced(2, "abc")))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// a fresh store on the same directory sees the record
	assert.Equal(t, syncstate.Unsynced(2, "abc"), Open(dataDir, "nixstatus").Load())
}

func TestOpen_SaveFailsWhenDirectoryIsAFile(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "nixstatus"), []byte("x"), 0o644))

	s := Open(dataDir, "nixstatus")
	err := s.Save(syncstate.Unsynced(1, "abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create state directory")

	// loading is still non-fatal
	assert.Equal(t, syncstate.Synced(), s.Load())
}

func TestOpen_LoadUnreadableIsSynced(t *testing.T) {
	dataDir := t.TempDir()
	// a directory where the file should be
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "nixstatus", FileName), 0o755))

	s := Open(dataDir, "nixstatus")
	assert.Equal(t, syncstate.Synced(), s.Load())
	assert.Error(t, s.Save(syncstate.Unsynced(1, "abc")))
}

func TestDefaultDataDir(t *testing.T) {
	dir := DefaultDataDir()
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir))
}

func TestDataDir_Fallback(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share"), resolveDataDir(""))

	custom := t.TempDir()
	assert.Equal(t, custom, resolveDataDir(custom))
}
