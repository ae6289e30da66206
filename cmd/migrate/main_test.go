package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVersion(t *testing.T) {
	dir := t.TempDir()
	v, err := nextVersion(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	for _, name := range []string{"000001_create_matches.up.sql", "000002_create_events.up.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	v, err = nextVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, create(dir, "add_rematches"))

	assert.FileExists(t, filepath.Join(dir, "000001_add_rematches.up.sql"))
	assert.FileExists(t, filepath.Join(dir, "000001_add_rematches.down.sql"))
	assert.Error(t, create(dir, "has space"))
	assert.Error(t, create(dir, ""))
}
