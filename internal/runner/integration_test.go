//go:build unix

package runner

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjansson/snaplink/internal/location"
	"github.com/mjansson/snaplink/internal/logging"
	"github.com/mjansson/snaplink/internal/notify"
)

// These tests exercise the full backup/restore flow against real
// directories using the actual rsync binary.

func requireRsync(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("rsync"); err != nil {
		t.Skip("rsync not installed")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newIntegrationRunner(t *testing.T, sourceRoot, targetRoot string, clock func() time.Time) *Runner {
	t.Helper()
	logger := logging.ForTest(t)
	return New(Params{
		Name:     "integration",
		Source:   location.NewPathSource(sourceRoot, logger),
		Target:   location.NewPathTarget(targetRoot, logger),
		Notifier: notify.Discard{},
		Logger:   logger,
		Now:      clock,
	})
}

func TestIntegration_BackupAndRestoreRoundTrip(t *testing.T) {
	requireRsync(t)

	sourceRoot := t.TempDir()
	targetRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "some.file"), "This is just some file...")
	writeFile(t, filepath.Join(sourceRoot, "sub", "some.file.in.subdirectory"), "Another file.")

	r := newIntegrationRunner(t, sourceRoot, targetRoot, fixedClock)

	ok, err := r.Backup(location.EntireTree())
	require.NoError(t, err)
	require.True(t, ok)

	latest := filepath.Join(targetRoot, "latest")
	assert.Equal(t, "This is just some file...", readFile(t, filepath.Join(latest, "some.file")))
	assert.Equal(t, "Another file.", readFile(t, filepath.Join(latest, "sub", "some.file.in.subdirectory")))

	// Damage the source, then restore it from the snapshot.
	require.NoError(t, os.WriteFile(filepath.Join(sourceRoot, "some.file"), []byte("corrupted"), 0o644))
	require.NoError(t, os.RemoveAll(filepath.Join(sourceRoot, "sub")))

	ok, err = r.Restore(location.EntireTree())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "This is just some file...", readFile(t, filepath.Join(sourceRoot, "some.file")))
	assert.Equal(t, "Another file.", readFile(t, filepath.Join(sourceRoot, "sub", "some.file.in.subdirectory")))
}

func TestIntegration_DirectoryScopedBackup(t *testing.T) {
	requireRsync(t)

	sourceRoot := t.TempDir()
	targetRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "some.file"), "outside the scope")
	writeFile(t, filepath.Join(sourceRoot, "sub", "some.file.in.subdirectory"), "inside the scope")

	r := newIntegrationRunner(t, sourceRoot, targetRoot, fixedClock)

	sel, err := location.SelectDirectory("sub/")
	require.NoError(t, err)

	ok, err := r.Backup(sel)
	require.NoError(t, err)
	require.True(t, ok)

	latest := filepath.Join(targetRoot, "latest")
	assert.Equal(t, "inside the scope", readFile(t, filepath.Join(latest, "sub", "some.file.in.subdirectory")))

	// The scoped backup is not a full mirror.
	_, statErr := os.Stat(filepath.Join(latest, "some.file"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestIntegration_FileScopedBackup(t *testing.T) {
	requireRsync(t)

	sourceRoot := t.TempDir()
	targetRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "some.file"), "outside the scope")
	writeFile(t, filepath.Join(sourceRoot, "sub", "some.file.in.subdirectory"), "inside the scope")

	r := newIntegrationRunner(t, sourceRoot, targetRoot, fixedClock)

	sel, err := location.SelectFile("sub/some.file.in.subdirectory")
	require.NoError(t, err)

	ok, err := r.Backup(sel)
	require.NoError(t, err)
	require.True(t, ok)

	// The file keeps its position relative to the backup root.
	latest := filepath.Join(targetRoot, "latest")
	assert.Equal(t, "inside the scope", readFile(t, filepath.Join(latest, "sub", "some.file.in.subdirectory")))

	_, statErr := os.Stat(filepath.Join(latest, "some.file"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestIntegration_MissingSourceLeavesTargetUntouched(t *testing.T) {
	requireRsync(t)

	targetRoot := t.TempDir()
	r := newIntegrationRunner(t, filepath.Join(t.TempDir(), "does-not-exist"), targetRoot, fixedClock)

	ok, err := r.Backup(location.EntireTree())
	require.NoError(t, err)
	require.False(t, ok)

	entries, err := os.ReadDir(targetRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntegration_SecondBackupSharesUnchangedInodes(t *testing.T) {
	requireRsync(t)

	sourceRoot := t.TempDir()
	targetRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "unchanged.file"), "stays the same")
	writeFile(t, filepath.Join(sourceRoot, "changed.file"), "first version")

	times := []time.Time{
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 12, 0, 1, 0, time.UTC),
	}
	clock := func() time.Time {
		now := times[0]
		times = times[1:]
		return now
	}

	r := newIntegrationRunner(t, sourceRoot, targetRoot, clock)

	ok, err := r.Backup(location.EntireTree())
	require.NoError(t, err)
	require.True(t, ok)

	writeFile(t, filepath.Join(sourceRoot, "changed.file"), "second version")

	ok, err = r.Backup(location.EntireTree())
	require.NoError(t, err)
	require.True(t, ok)

	first := filepath.Join(targetRoot, "2024-06-01_12-00-00")
	second := filepath.Join(targetRoot, "2024-06-01_12-00-01")

	// The earlier snapshot is unaffected by the source mutation.
	assert.Equal(t, "first version", readFile(t, first+"/changed.file"))
	assert.Equal(t, "second version", readFile(t, second+"/changed.file"))
	assert.Equal(t, "stays the same", readFile(t, second+"/unchanged.file"))
}
