// Package instance keeps a single resident dropfix per machine by holding a
// fixed loopback port for the life of the process.
package instance

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

var ErrAlreadyRunning = errors.New("another instance is already running")

type Guard struct {
	ln   net.Listener
	once sync.Once
}

// Acquire binds 127.0.0.1:port. Any bind failure means the port is owned
// by someone else and is reported as ErrAlreadyRunning.
func Acquire(port int) (*Guard, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAlreadyRunning, err)
	}

	g := &Guard{ln: ln}
	go g.drain()

	return g, nil
}

// drain closes anything that connects; the port carries no data.
func (g *Guard) drain() {
	for {
		conn, err := g.ln.Accept()
		if err != nil {
			return
		}
		_ = conn.Close()
	}
}

func (g *Guard) Addr() string {
	return g.ln.Addr().String()
}

func (g *Guard) Close() error {
	var err error
	g.once.Do(func() {
		err = g.ln.Close()
	})
	return err
}
