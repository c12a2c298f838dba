// Package location models backup endpoints: readable sources and
// snapshot-capable targets, addressed either on the local filesystem or
// over SSH, plus the selector type that scopes a transfer to part of a
// tree.
package location

import "strings"

// LatestName is the name of the stable alias inside a target root that
// always points at the most recent snapshot. The on-disk layout
// <root>/<snapshot-name>/ plus <root>/latest is observable by external
// tooling and must stay stable.
const LatestName = "latest"

// Location is an addressable backup endpoint.
type Location interface {
	// IsAvailable reports whether the location can currently serve a
	// transfer. Expected failure modes (missing path, unreachable host,
	// connection timeout, failed authentication) yield false rather
	// than an error.
	IsAvailable() bool

	// Address resolves the transfer address for the given selector.
	Address(sel Selector) (string, error)
}

// Target is a Location that holds snapshots.
type Target interface {
	Location

	// Snapshot ensures the named snapshot directory exists, seeding it
	// from the previous snapshot via hardlinks when one exists, and
	// re-points the latest alias at it. Existing snapshot directories
	// are never overwritten.
	Snapshot(name string) error
}

// joinAddress joins a location root with a selector path, preserving
// the selector's trailing separator. The whole tree resolves to the
// root with a trailing separator so that the transfer tool copies the
// root's contents rather than the root directory itself.
func joinAddress(root string, sel Selector) string {
	root = strings.TrimRight(root, "/")
	return root + "/" + sel.Rel()
}
