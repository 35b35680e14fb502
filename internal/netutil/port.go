package netutil

import (
	"context"
	"fmt"
	"net"
	"time"
)

const portPollInterval = 2 * time.Second

// WaitForPort waits for a TCP port to accept connections. Freshly
// provisioned devices often come up some time after they become
// addressable, so callers can poll before the first real connection.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(portPollInterval)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", address, time.Second)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("timeout waiting for %s", address)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
