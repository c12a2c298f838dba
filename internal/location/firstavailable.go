package location

import (
	"log/slog"

	snaperrors "github.com/mjansson/snaplink/internal/errors"
)

// FirstAvailable composes multiple target candidates and lazily picks
// the first one that reports itself reachable, in declared order.
//
// Resolution is sticky on success: once a candidate is found available
// it serves every subsequent call without re-probing. Failure is never
// cached: when no candidate is available, the next availability check
// re-probes the full sequence from the start.
//
// Not safe for concurrent use; the surrounding design runs one
// operation at a time.
type FirstAvailable struct {
	candidates []Target
	resolved   Target
	logger     *slog.Logger
}

// FirstAvailableOf composes the given target candidates.
func FirstAvailableOf(logger *slog.Logger, candidates ...Target) *FirstAvailable {
	if logger == nil {
		logger = slog.Default()
	}
	return &FirstAvailable{candidates: candidates, logger: logger}
}

// IsAvailable reports whether any candidate is reachable, resolving and
// memoizing the first one that is.
func (f *FirstAvailable) IsAvailable() bool {
	return f.resolve() != nil
}

func (f *FirstAvailable) resolve() Target {
	if f.resolved != nil {
		return f.resolved
	}
	for i, candidate := range f.candidates {
		if candidate.IsAvailable() {
			f.logger.Debug("target candidate resolved", "index", i)
			f.resolved = candidate
			return candidate
		}
	}
	return nil
}

// Address delegates to the resolved candidate. Calling it before a
// successful availability check is a caller error.
func (f *FirstAvailable) Address(sel Selector) (string, error) {
	if f.resolved == nil {
		return "", snaperrors.Wrap(snaperrors.ErrUnresolvedTarget, "address requested")
	}
	return f.resolved.Address(sel)
}

// Snapshot delegates to the resolved candidate. Calling it before a
// successful availability check is a caller error.
func (f *FirstAvailable) Snapshot(name string) error {
	if f.resolved == nil {
		return snaperrors.Wrap(snaperrors.ErrUnresolvedTarget, "snapshot requested")
	}
	return f.resolved.Snapshot(name)
}
