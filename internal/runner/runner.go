// Package runner drives backup and restore operations: it checks
// endpoint availability, creates target snapshots, and invokes the
// transfer tool, reporting progress and outcomes through a notifier.
package runner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mjansson/snaplink/internal/location"
	"github.com/mjansson/snaplink/internal/notify"
	"github.com/mjansson/snaplink/internal/transfer"
)

// snapshotNameLayout names snapshots by their UTC creation time at
// second granularity. Two snapshots created within the same second
// collapse into one directory; operations are serialized per target,
// so in practice this only occurs when a backup is re-run immediately.
const snapshotNameLayout = "2006-01-02_15-04-05"

// SnapshotName renders the directory name for a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return t.UTC().Format(snapshotNameLayout)
}

// Params collects the collaborators a Runner operates with.
type Params struct {
	// Name identifies the backup job in notifications.
	Name string
	// Source is the location holding the authoritative data.
	Source location.Location
	// Target receives snapshots and serves restores.
	Target location.Target
	// Notifier receives progress and outcome messages. Nil discards.
	Notifier notify.Notifier
	// Tool performs the data movement. Nil selects the rsync binary.
	Tool transfer.Tool
	// Transfer carries include/exclude patterns, verbosity, and the
	// secure-shell options forwarded to the tool.
	Transfer transfer.Options
	// Logger records diagnostics. Nil uses the process default.
	Logger *slog.Logger
	// Now supplies snapshot timestamps. Nil uses time.Now.
	Now func() time.Time
}

// Runner executes backup and restore operations for one configured
// job. It is synchronous and not safe for concurrent use against the
// same target: the snapshot protocol races on the latest link.
type Runner struct {
	name     string
	source   location.Location
	target   location.Target
	notifier notify.Notifier
	tool     transfer.Tool
	options  transfer.Options
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Runner from p, filling in defaults for the optional
// collaborators.
func New(p Params) *Runner {
	if p.Notifier == nil {
		p.Notifier = notify.Discard{}
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Tool == nil {
		p.Tool = transfer.NewRsync(p.Logger)
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Runner{
		name:     p.Name,
		source:   p.Source,
		target:   p.Target,
		notifier: p.Notifier,
		tool:     p.Tool,
		options:  p.Transfer,
		logger:   p.Logger,
		now:      p.Now,
	}
}

// Backup snapshots the target and synchronizes the scoped source tree
// into it. The boolean result reports operational success; an error is
// returned only for programming mistakes such as addressing an
// unresolved target.
func (r *Runner) Backup(sel location.Selector) (bool, error) {
	r.notifier.State(fmt.Sprintf("Initializing back-up %s", r.name))

	if !r.source.IsAvailable() {
		r.notifier.Alert("No back-up source available.")
		return false, nil
	}
	if !r.target.IsAvailable() {
		r.notifier.Alert("No back-up target available.")
		return false, nil
	}

	r.notifier.Inform(fmt.Sprintf("Backing up %s...", r.name))

	name := SnapshotName(r.now())
	if err := r.target.Snapshot(name); err != nil {
		r.logger.Error("snapshot failed", "snapshot", name, "error", err)
		r.notifier.Alert(fmt.Sprintf("Back-up of %s failed.", r.name))
		return false, nil
	}

	src, err := r.source.Address(sel)
	if err != nil {
		return false, err
	}
	dst, err := r.target.Address(destinationSelector(sel))
	if err != nil {
		return false, err
	}

	if err := r.tool.Run(src, dst, r.options); err != nil {
		r.logger.Error("transfer failed", "source", src, "destination", dst, "error", err)
		r.notifier.Alert(fmt.Sprintf("Back-up of %s failed.", r.name))
		return false, nil
	}

	r.notifier.Confirm(fmt.Sprintf("Back-up of %s complete.", r.name))
	return true, nil
}

// Restore synchronizes the scoped tree from the target's latest
// snapshot back into the source location. No snapshot is created.
func (r *Runner) Restore(sel location.Selector) (bool, error) {
	r.notifier.State(fmt.Sprintf("Initializing restoration of %s", r.name))

	if !r.source.IsAvailable() {
		r.notifier.Alert("No back-up source available.")
		return false, nil
	}
	if !r.target.IsAvailable() {
		r.notifier.Alert("No back-up target available.")
		return false, nil
	}

	r.notifier.Inform(fmt.Sprintf("Restoring %s...", r.name))

	src, err := r.target.Address(sel)
	if err != nil {
		return false, err
	}
	dst, err := r.source.Address(destinationSelector(sel))
	if err != nil {
		return false, err
	}

	if err := r.tool.Run(src, dst, r.options); err != nil {
		r.logger.Error("transfer failed", "source", src, "destination", dst, "error", err)
		r.notifier.Alert(fmt.Sprintf("Restoration of %s failed.", r.name))
		return false, nil
	}

	r.notifier.Confirm(fmt.Sprintf("Restoration of %s complete.", r.name))
	return true, nil
}

// destinationSelector adjusts the selector for the receiving side of a
// transfer. A single file must land inside its parent directory, so
// the destination is addressed by that directory rather than by the
// file path itself.
func destinationSelector(sel location.Selector) location.Selector {
	if sel.IsFile() {
		return sel.Parent()
	}
	return sel
}
