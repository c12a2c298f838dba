// Package cmd holds build metadata injected at link time.
package cmd

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Summary renders the multi-line report shown by the version command.
func Summary() string {
	return fmt.Sprintf("snaplink version %s\n  commit: %s\n  built:  %s\n  go:     %s\n",
		Version, Commit, Date, runtime.Version())
}
