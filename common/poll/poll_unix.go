//go:build unix && !linux

package poll

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Poller rebuilds a poll(2) set from its registered descriptors on every wait.
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
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return 0, ErrClosed
	}
	fds := make([]unix.PollFd, 0, len(p.entries))
	for fd := range p.entries {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN | unix.POLLPRI})
	}
	p.mutex.Unlock()
	if len(fds) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return 0, nil
	}
	n, err := unix.Poll(fds, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (p *Poller) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.closed = true
	p.entries = make(map[int]struct{})
	return nil
}
