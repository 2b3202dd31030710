package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectorySaveStaysInsideBase(t *testing.T) {
	base := t.TempDir()
	dir, err := NewDirectory(base)
	require.NoError(t, err)

	path, err := dir.Save("../../orientacion-20240301.csv", []byte("a,b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "orientacion-20240301.csv"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(body))

	_, err = dir.Save("..", nil)
	assert.Error(t, err)
}

func TestDirectoryPruneOlderThan(t *testing.T) {
	base := t.TempDir()
	dir, err := NewDirectory(base)
	require.NoError(t, err)

	oldPath, err := dir.Save("old.csv", []byte("x"))
	require.NoError(t, err)
	_, err = dir.Save("new.csv", []byte("y"))
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, os.Chtimes(oldPath, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))

	removed, err := dir.PruneOlderThan(24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, removed)
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
}
