package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tickfsm/pkg/lifecycle"
	"github.com/stretchr/testify/require"
)

// SetupTestDir creates a temporary directory holding files, keyed by path
// relative to the directory. It returns the absolute path to the directory.
// It fails the test immediately on error.
func SetupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(absPath, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	}
	return absPath
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Drive runs cmd the way a scheduler would: Initialize, then Execute until
// IsFinished or maxTicks ticks have run, then End. It returns the number of
// Execute calls made.
func Drive(cmd lifecycle.Command, maxTicks int) int {
	cmd.Initialize()
	ticks := 0
	for !cmd.IsFinished() && ticks < maxTicks {
		cmd.Execute()
		ticks++
	}
	cmd.End(!cmd.IsFinished())
	return ticks
}
