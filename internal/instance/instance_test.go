package instance

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestAcquire_SecondFails(t *testing.T) {
	port := freePort(t)

	first, err := Acquire(port)
	require.NoError(t, err)
	defer first.Close()

	second, err := Acquire(port)
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquire_ReleasedAfterClose(t *testing.T) {
	port := freePort(t)

	first, err := Acquire(port)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	assert.NoError(t, first.Close())

	again, err := Acquire(port)
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}

func TestGuard_ClosesConnections(t *testing.T) {
	g, err := Acquire(freePort(t))
	require.NoError(t, err)
	defer g.Close()

	conn, err := net.Dial("tcp", g.Addr())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	assert.Error(t, err)
}
