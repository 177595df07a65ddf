//go:build !unix

package poll

import (
	"sync"
	"time"
)

// Poller has no readiness source on this platform; Wait sleeps for the timeout.
type Poller struct {
	mutex   sync.Mutex
	closed  bool
	entries map[int]struct{}
}

func New() (*Poller, error) {
	return &Poller{entries: make(map[int]struct{})}, nil
}

func (p *Poller) Add(fd int) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.entries[fd] = struct{}{}
	return nil
}

func (p *Poller) Remove(fd int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	delete(p.entries, fd)
}

func (p *Poller) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.entries)
}

func (p *Poller) Wait(timeout time.Duration) (int, error) {
	if timeout > 0 {
		time.Sleep(timeout)
	}
	return 0, nil
}

func (p *Poller) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.closed = true
	return nil
}
