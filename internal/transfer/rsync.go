// Package transfer invokes the external transfer tool that moves bytes
// between resolved location addresses.
package transfer

import (
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
)

// Options configures a transfer tool invocation.
type Options struct {
	// Include patterns passed through to the tool.
	Include []string
	// Exclude patterns passed through to the tool.
	Exclude []string
	// Verbose additionally requests verbose and progress output.
	Verbose bool
	// SSH configures the transport used when a remote endpoint is
	// involved.
	SSH SSHOptions
}

// SSHOptions configures the secure-shell transport for remote
// endpoints. The transport always verifies host keys strictly rather
// than falling back to the ambient client configuration.
type SSHOptions struct {
	// Port is the remote port to connect to. Zero leaves the choice to
	// the ssh client.
	Port int
	// IdentityFile optionally names the private key to authenticate with.
	IdentityFile string
	// KnownHostsFile optionally names the known-hosts file vouching for
	// the remote host.
	KnownHostsFile string
}

// Tool runs the external transfer tool against two resolved addresses,
// origin then destination.
type Tool interface {
	Run(src, dst string, opts Options) error
}

// Args builds the transfer tool's argument list: an archival,
// recursive, numeric-ID-preserving copy from src to dst.
func Args(src, dst string, opts Options) []string {
	args := []string{"--archive", "--numeric-ids"}

	if opts.Verbose {
		args = append(args, "--verbose", "--progress")
	}
	for _, pattern := range opts.Include {
		args = append(args, "--include="+pattern)
	}
	for _, pattern := range opts.Exclude {
		args = append(args, "--exclude="+pattern)
	}

	if isRemoteAddress(src) || isRemoteAddress(dst) {
		args = append(args, "-e", sshCommand(opts.SSH))
	}

	return append(args, src, dst)
}

// isRemoteAddress reports whether the address names a remote endpoint
// (user@host:path) rather than a local filesystem path.
func isRemoteAddress(addr string) bool {
	at := strings.Index(addr, "@")
	return at > 0 && strings.Contains(addr[at:], ":")
}

// sshCommand renders the ssh command the transfer tool tunnels
// through. The port must be carried here: the colon in the
// user@host:port/path address form is consumed by the tool's own
// remote-shell syntax and never reaches ssh.
func sshCommand(opts SSHOptions) string {
	cmd := []string{"ssh"}
	if opts.Port != 0 {
		cmd = append(cmd, "-p", strconv.Itoa(opts.Port))
	}
	if opts.IdentityFile != "" {
		cmd = append(cmd, "-i", opts.IdentityFile)
	}
	if opts.KnownHostsFile != "" {
		cmd = append(cmd, "-o", "UserKnownHostsFile="+opts.KnownHostsFile)
	}
	cmd = append(cmd, "-o", "StrictHostKeyChecking=yes")
	return shellquote.Join(cmd...)
}

// Rsync invokes the rsync binary found on PATH.
type Rsync struct {
	binary string
	logger *slog.Logger
}

// NewRsync creates the default transfer tool.
func NewRsync(logger *slog.Logger) *Rsync {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rsync{binary: "rsync", logger: logger}
}

// Run executes the transfer. With verbosity enabled the tool's output
// streams to the terminal; otherwise it is captured and surfaced only
// on failure.
func (r *Rsync) Run(src, dst string, opts Options) error {
	args := Args(src, dst, opts)
	r.logger.Debug("invoking transfer tool", "binary", r.binary, "args", strings.Join(args, " "))

	cmd := exec.Command(r.binary, args...)

	var output bytes.Buffer
	if opts.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &output
		cmd.Stderr = &output
	}

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(output.String())
		if detail != "" {
			return errors.Wrapf(err, "transfer failed: %s", detail)
		}
		return errors.Wrap(err, "transfer failed")
	}
	return nil
}
