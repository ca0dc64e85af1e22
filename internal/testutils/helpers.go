package testutils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateSnapshotsEnv forces snapshots to be rewritten when set to "1".
const UpdateSnapshotsEnv = "SVGO_UPDATE_SNAPSHOTS"

// SnapshotDir is where snapshots live, relative to the package under test.
var SnapshotDir = filepath.Join("testdata", "__snapshots__")

// MatchSnapshot compares got with testdata/__snapshots__/<name>.snap.
// A missing snapshot is written and the assertion passes.
// It fails the test immediately on I/O errors.
func MatchSnapshot(t *testing.T, name, got string) {
	t.Helper()

	path := filepath.Join(SnapshotDir, name+".snap")
	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || os.Getenv(UpdateSnapshotsEnv) == "1" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "Failed to create snapshot dir")
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644), "Failed to write snapshot")
		t.Logf("snapshot written: %s", path)
		return
	}
	require.NoError(t, err, "Failed to read snapshot")

	assert.Equal(t, string(want), got, "snapshot %s does not match; rerun with %s=1 to update", path, UpdateSnapshotsEnv)
}
