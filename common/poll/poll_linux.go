package poll

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Poller is a level-triggered epoll set.
type Poller struct {
	mutex   sync.Mutex
	epollFD int
	entries map[int]struct{}
	events  []unix.EpollEvent
}

func New() (*Poller, error) {
	epollFD, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &Poller{
		epollFD: epollFD,
		entries: make(map[int]struct{}),
		events:  make([]unix.EpollEvent, 64),
	}, nil
}

func (p *Poller) Add(fd int) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.epollFD == -1 {
		return ErrClosed
	}
	if _, loaded := p.entries[fd]; loaded {
		return nil
	}
	event := &unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLRDHUP, Fd: int32(fd)}
	err := unix.EpollCtl(p.epollFD, unix.EPOLL_CTL_ADD, fd, event)
	if err != nil {
		return err
	}
	p.entries[fd] = struct{}{}
	return nil
}

func (p *Poller) Remove(fd int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, loaded := p.entries[fd]; !loaded {
		return
	}
	delete(p.entries, fd)
	if p.epollFD != -1 {
		unix.EpollCtl(p.epollFD, unix.EPOLL_CTL_DEL, fd, nil)
	}
}

func (p *Poller) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.entries)
}

// Wait blocks until a registered descriptor is readable, hung up or in error, or
// until timeout elapses. A negative timeout waits forever. It returns the number of
// ready descriptors; an interrupted wait reports zero.
func (p *Poller) Wait(timeout time.Duration) (int, error) {
	p.mutex.Lock()
	epollFD := p.epollFD
	p.mutex.Unlock()
	if epollFD == -1 {
		return 0, ErrClosed
	}
	n, err := unix.EpollWait(epollFD, p.events, timeoutMillis(timeout))
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
	if p.epollFD == -1 {
		return nil
	}
	err := unix.Close(p.epollFD)
	p.epollFD = -1
	p.entries = make(map[int]struct{})
	return err
}
