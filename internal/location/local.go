package location

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	snaperrors "github.com/mjansson/snaplink/internal/errors"
)

// PathSource is a readable location on the local filesystem.
type PathSource struct {
	root   string
	logger *slog.Logger
}

// NewPathSource creates a local source rooted at the given path.
func NewPathSource(root string, logger *slog.Logger) *PathSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathSource{root: root, logger: logger}
}

// IsAvailable reports whether the source root exists.
func (s *PathSource) IsAvailable() bool {
	if _, err := os.Stat(s.root); err != nil {
		s.logger.Debug("source path unavailable", "path", s.root, "error", err)
		return false
	}
	return true
}

// Address resolves the transfer address under the source root.
func (s *PathSource) Address(sel Selector) (string, error) {
	return joinAddress(s.root, sel), nil
}

// Root returns the source's filesystem root.
func (s *PathSource) Root() string { return s.root }

// PathTarget is a snapshot-capable location on the local filesystem.
// Snapshots live in <root>/<name>/ with <root>/latest as a symbolic
// link to the most recent one.
type PathTarget struct {
	root   string
	logger *slog.Logger
}

// NewPathTarget creates a local target rooted at the given path.
func NewPathTarget(root string, logger *slog.Logger) *PathTarget {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathTarget{root: root, logger: logger}
}

// IsAvailable reports whether the target root exists.
func (t *PathTarget) IsAvailable() bool {
	if _, err := os.Stat(t.root); err != nil {
		t.logger.Debug("target path unavailable", "path", t.root, "error", err)
		return false
	}
	return true
}

// Address resolves the transfer address under the target's latest alias.
func (t *PathTarget) Address(sel Selector) (string, error) {
	return joinAddress(filepath.Join(t.root, LatestName), sel), nil
}

// Root returns the target's filesystem root.
func (t *PathTarget) Root() string { return t.root }

// Snapshot creates the named snapshot under the target root.
//
// When the snapshot does not exist yet and latest resolves to a prior
// snapshot, the new snapshot is seeded as a hardlinked copy of it, so
// unchanged files cost no additional storage. A pre-existing snapshot
// directory of the same name is kept as-is (a retried operation).
// Afterwards latest is re-pointed at the snapshot.
func (t *PathTarget) Snapshot(name string) error {
	snapDir := filepath.Join(t.root, name)
	latest := filepath.Join(t.root, LatestName)

	if _, err := os.Lstat(snapDir); os.IsNotExist(err) {
		if prev, err := filepath.EvalSymlinks(latest); err == nil {
			t.logger.Debug("seeding snapshot from previous", "snapshot", name, "previous", prev)
			if err := linkTree(prev, snapDir); err != nil {
				return errors.Wrapf(snaperrors.ErrSnapshotFailed, "seeding %s: %v", name, err)
			}
		}
	}

	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "creating %s: %v", name, err)
	}

	if err := os.Remove(latest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "removing latest alias: %v", err)
	}
	if err := os.Symlink(name, latest); err != nil {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "linking latest to %s: %v", name, err)
	}

	return nil
}
