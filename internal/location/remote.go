package location

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	snaperrors "github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/paths"
)

// DefaultSSHPort is used when a remote location omits the port.
const DefaultSSHPort = 22

// connectTimeout bounds the SSH availability probe and snapshot
// session establishment.
const connectTimeout = 9 * time.Second

// systemKnownHostsFiles are consulted for host key verification when no
// known-hosts file is configured.
var systemKnownHostsFiles = []string{
	"~/.ssh/known_hosts",
	"/etc/ssh/ssh_known_hosts",
}

// defaultIdentityFiles are tried, in order, when no identity file is
// configured and no agent is reachable.
var defaultIdentityFiles = []string{
	"~/.ssh/id_ed25519",
	"~/.ssh/id_ecdsa",
	"~/.ssh/id_rsa",
}

// remoteShell runs commands on a remote host. Each Run uses a fresh
// session on the underlying connection.
type remoteShell interface {
	Run(cmd string) error
	Close() error
}

// sshShell adapts *ssh.Client to remoteShell.
type sshShell struct {
	client *ssh.Client
}

func (s *sshShell) Run(cmd string) error {
	session, err := s.client.NewSession()
	if err != nil {
		return errors.Wrap(err, "opening session")
	}
	defer session.Close()
	return session.Run(cmd)
}

func (s *sshShell) Close() error {
	return s.client.Close()
}

// SSHEndpoint holds the connection parameters shared by SSH sources and
// targets.
type SSHEndpoint struct {
	User string
	Host string
	Port int
	// Root is the absolute path of the location on the remote host.
	Root string
	// IdentityFile optionally names a private key used for public key
	// authentication.
	IdentityFile string
	// KnownHostsFile optionally names the file vouching for the remote
	// host key. Without it the system known-hosts files are consulted;
	// an unknown host key makes the location unavailable.
	KnownHostsFile string

	logger *slog.Logger

	// connect is swappable for tests.
	connect func() (remoteShell, error)
}

// NewSSHEndpoint creates an endpoint with the given connection
// parameters. A zero port selects DefaultSSHPort.
func NewSSHEndpoint(user, host string, port int, root string, logger *slog.Logger) *SSHEndpoint {
	if port == 0 {
		port = DefaultSSHPort
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &SSHEndpoint{
		User:   user,
		Host:   host,
		Port:   port,
		Root:   root,
		logger: logger,
	}
	e.connect = e.dial
	return e
}

// IsAvailable establishes and immediately releases an SSH session
// within the connect timeout. Unreachability, timeouts, and
// authentication or host key failures all report unavailable.
func (e *SSHEndpoint) IsAvailable() bool {
	shell, err := e.connect()
	if err != nil {
		e.logger.Debug("remote location unavailable",
			"host", e.Host, "port", e.Port, "error", err)
		return false
	}
	_ = shell.Close()
	return true
}

// address renders the transfer address for the given effective root.
func (e *SSHEndpoint) address(root string, sel Selector) string {
	return fmt.Sprintf("%s@%s:%d%s", e.User, e.Host, e.Port, joinAddress(root, sel))
}

func (e *SSHEndpoint) dial() (remoteShell, error) {
	hostKeys, err := e.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	auth, err := e.authMethods()
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            e.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         connectTimeout,
	}

	addr := net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return &sshShell{client: client}, nil
}

// authMethods builds the authentication chain. A configured identity
// file is authoritative and its problems are surfaced; without one,
// the ssh agent (SSH_AUTH_SOCK) and then the usual key files under
// ~/.ssh are tried, as an interactive ssh client would.
func (e *SSHEndpoint) authMethods() ([]ssh.AuthMethod, error) {
	if e.IdentityFile != "" {
		signer, err := loadSigner(paths.ExpandHome(e.IdentityFile))
		if err != nil {
			return nil, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}

	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			e.logger.Debug("ssh agent unreachable", "socket", sock, "error", err)
		} else {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	var signers []ssh.Signer
	for _, f := range defaultIdentityFiles {
		signer, err := loadSigner(paths.ExpandHome(f))
		if err != nil {
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if len(methods) == 0 {
		return nil, errors.New("no identity file configured, no ssh agent, and no default key found")
	}
	return methods, nil
}

// loadSigner reads and parses a private key file.
func loadSigner(keyPath string) (ssh.Signer, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading identity file %s", keyPath)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing identity file %s", keyPath)
	}
	return signer, nil
}

// hostKeyCallback builds the host key verification policy:
// the configured known-hosts file when present, otherwise whichever
// system known-hosts files exist. With nothing to vouch for the host,
// verification fails and the location is simply unavailable.
func (e *SSHEndpoint) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if e.KnownHostsFile != "" {
		cb, err := knownhosts.New(paths.ExpandHome(e.KnownHostsFile))
		if err != nil {
			return nil, errors.Wrapf(err, "reading known hosts file %s", e.KnownHostsFile)
		}
		return cb, nil
	}

	var files []string
	for _, f := range systemKnownHostsFiles {
		f = paths.ExpandHome(f)
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no known hosts file to verify the remote host key")
	}
	cb, err := knownhosts.New(files...)
	if err != nil {
		return nil, errors.Wrap(err, "reading system known hosts files")
	}
	return cb, nil
}

// SSHSource is a readable location on a remote host.
type SSHSource struct {
	*SSHEndpoint
}

// NewSSHSource creates a remote source.
func NewSSHSource(endpoint *SSHEndpoint) *SSHSource {
	return &SSHSource{SSHEndpoint: endpoint}
}

// Address resolves the transfer address under the remote root.
func (s *SSHSource) Address(sel Selector) (string, error) {
	return s.address(s.Root, sel), nil
}

// SSHTarget is a snapshot-capable location on a remote host.
type SSHTarget struct {
	*SSHEndpoint
}

// NewSSHTarget creates a remote target.
func NewSSHTarget(endpoint *SSHEndpoint) *SSHTarget {
	return &SSHTarget{SSHEndpoint: endpoint}
}

// Address resolves the transfer address under the remote latest alias.
func (t *SSHTarget) Address(sel Selector) (string, error) {
	return t.address(posixJoin(t.Root, LatestName), sel), nil
}

// Snapshot runs the snapshot protocol over SSH: seed the named snapshot
// from latest via hardlinks when it does not exist yet, ensure the
// snapshot directory exists, and re-point latest. Any failing step
// aborts the snapshot.
func (t *SSHTarget) Snapshot(name string) error {
	shell, err := t.connect()
	if err != nil {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "connecting to %s: %v", t.Host, err)
	}
	defer shell.Close()

	snapDir := posixJoin(t.Root, name)
	latest := posixJoin(t.Root, LatestName)

	snapExists := shell.Run(shellquote.Join("test", "-e", snapDir)) == nil
	latestExists := shell.Run(shellquote.Join("test", "-e", latest)) == nil

	if !snapExists && latestExists {
		// Trailing separator dereferences the latest symlink, so the
		// copy is seeded from the snapshot it points at.
		seed := shellquote.Join("cp", "--archive", "--link", latest+"/", snapDir)
		if err := shell.Run(seed); err != nil {
			return errors.Wrapf(snaperrors.ErrSnapshotFailed, "seeding %s: %v", name, err)
		}
	}

	if err := shell.Run(shellquote.Join("mkdir", "-p", snapDir)); err != nil {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "creating %s: %v", name, err)
	}

	if err := shell.Run(shellquote.Join("rm", "-f", latest)); err != nil {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "removing latest alias: %v", err)
	}
	if err := shell.Run(shellquote.Join("ln", "-s", name, latest)); err != nil {
		return errors.Wrapf(snaperrors.ErrSnapshotFailed, "linking latest to %s: %v", name, err)
	}

	return nil
}

// posixJoin joins remote path elements with forward slashes regardless
// of the local platform.
func posixJoin(elems ...string) string {
	joined := strings.Join(elems, "/")
	return strings.ReplaceAll(joined, "//", "/")
}
