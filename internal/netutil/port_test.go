package netutil

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForPort_Open(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	err = WaitForPort(t.Context(), host, port, 5*time.Second)
	assert.NoError(t, err)
}

func TestWaitForPort_Timeout(t *testing.T) {
	t.Parallel()

	// Port 1 is almost certainly closed on the loopback interface.
	err := WaitForPort(t.Context(), "127.0.0.1", 1, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for")
}
