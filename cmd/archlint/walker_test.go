package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkSourceFilesSkipsKnownDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Main.java"), []byte("class Main {}"), 0o644))

	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main"), 0o644))

	vendorDir := filepath.Join(root, "vendor", "dep")
	require.NoError(t, os.MkdirAll(vendorDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "Dep.java"), []byte("class Dep {}"), 0o644))

	files, err := walkSourceFiles(root)
	require.NoError(t, err)

	assert.Contains(t, files, filepath.Join(root, "Main.java"))
	for _, f := range files {
		assert.NotContains(t, f, ".git")
		assert.NotContains(t, f, "vendor")
	}
}

func TestWalkSourceFilesMissingRootErrors(t *testing.T) {
	_, err := walkSourceFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
