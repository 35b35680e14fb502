package device

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/provnet/ztp/internal/netutil"
)

const (
	defaultSSHPort     = 22
	defaultSSHUser     = "admin"
	defaultDialTimeout = 10 * time.Second
)

// SSHConfig holds SSH transport configuration shared by all targets.
// Per-target credentials come from Target.Credentials, which this client
// interprets as a path to a PEM-encoded private key. Target.User, when
// set, overrides the configured user for that target.
type SSHConfig struct {
	User string
	Port int

	// DialTimeout bounds TCP connection establishment.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification. If nil,
	// ssh.InsecureIgnoreHostKey() is used, which is acceptable for
	// freshly provisioned devices that have no recorded host key yet.
	HostKeyCallback ssh.HostKeyCallback

	// PortWaitTimeout, when positive, makes Apply poll the target's SSH
	// port until it accepts connections before dialing. Useful for
	// devices that are still booting when the run starts.
	PortWaitTimeout time.Duration

	// ReadKey resolves a credentials handle to private key material.
	// Defaults to os.ReadFile.
	ReadKey func(handle string) ([]byte, error)
}

// SSHClient applies configuration payloads over SSH. It renders the
// payload into a single command batch per device so that a device either
// commits the whole configuration or none of it.
type SSHClient struct {
	config *SSHConfig
}

// NewSSHClient creates an SSH device client with defaults applied.
func NewSSHClient(cfg *SSHConfig) (*SSHClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	configCopy := *cfg
	if configCopy.User == "" {
		configCopy.User = defaultSSHUser
	}
	if configCopy.Port == 0 {
		configCopy.Port = defaultSSHPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // No recorded host keys before first provisioning.
	}
	if configCopy.ReadKey == nil {
		configCopy.ReadKey = os.ReadFile
	}

	return &SSHClient{config: &configCopy}, nil
}

// Apply implements Client. It connects to the target, renders the payload
// for the target's kind, and executes it as one batch.
func (c *SSHClient) Apply(ctx context.Context, target Target, payload Payload) error {
	if target.Credentials == "" {
		return fmt.Errorf("target %s: no credentials handle configured", target.Identifier)
	}

	key, err := c.config.ReadKey(target.Credentials)
	if err != nil {
		return fmt.Errorf("target %s: failed to read private key: %w", target.Identifier, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return fmt.Errorf("target %s: failed to parse private key: %w", target.Identifier, err)
	}

	if c.config.PortWaitTimeout > 0 {
		if err := netutil.WaitForPort(ctx, target.Address, c.config.Port, c.config.PortWaitTimeout); err != nil {
			return fmt.Errorf("target %s: %w", target.Identifier, err)
		}
	}

	client, err := c.connect(ctx, target, signer)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("target %s: failed to create SSH session: %w", target.Identifier, err)
	}
	defer func() { _ = session.Close() }()

	kind := target.Kind
	if kind == "" {
		kind = KindGeneric
	}

	output, err := session.CombinedOutput(Script(kind, payload))
	if err != nil {
		return fmt.Errorf("target %s: apply failed: %w (output: %s)", target.Identifier, err, string(output))
	}
	return nil
}

// connect establishes the SSH connection, honoring ctx for cancellation
// and deadline on the TCP dial.
func (c *SSHClient) connect(ctx context.Context, target Target, signer ssh.Signer) (*ssh.Client, error) {
	user := target.User
	if user == "" {
		user = c.config.User
	}

	sshConfig := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := net.JoinHostPort(target.Address, fmt.Sprintf("%d", c.config.Port))

	dialer := &net.Dialer{Timeout: c.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("target %s: failed to dial %s: %w", target.Identifier, addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("target %s: SSH handshake with %s failed: %w", target.Identifier, addr, err)
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}
