package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o644))
}

func TestDiscoverFilesFindsSQLAndBQ(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.sql"))
	touch(t, filepath.Join(dir, "b.bq"))
	touch(t, filepath.Join(dir, "notes.txt"))

	found, err := discoverFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestDiscoverFilesExcludesVCSDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.sql"))
	touch(t, filepath.Join(dir, ".git", "hooks", "fake.sql"))

	found, err := discoverFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, filepath.Join(dir, "a.sql"), found[0])
}

func TestDiscoverFilesAcceptsSingleFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.sql")
	touch(t, path)

	found, err := discoverFiles([]string{path})
	require.NoError(t, err)
	require.Equal(t, []string{path}, found)
}

func TestDiscoverFilesSortsWithinDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.sql"))
	touch(t, filepath.Join(dir, "a.sql"))

	found, err := discoverFiles([]string{dir})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.sql"), filepath.Join(dir, "z.sql")}, found)
}
