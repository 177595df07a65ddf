package host

import (
	"time"

	E "github.com/sagernet/netstream/common/exceptions"
	"github.com/sagernet/netstream/common/poll"
	"github.com/sagernet/netstream/stream"
)

// Wait blocks until the listener or a connection becomes readable, the timer or an
// idle deadline is due, or timeout elapses. A negative timeout only bounds the wait
// by those deadlines. It returns at once when Process has work that needs no
// readiness: queued events, pending writes, connects in progress or closed
// connections waiting to be reaped.
func (h *Host) Wait(timeout time.Duration) error {
	if h.queue.Len() > 0 {
		return nil
	}
	now := h.clock.Now()
	deadline := func(at time.Time) {
		until := at.Sub(now)
		if until < 0 {
			until = 0
		}
		if timeout < 0 || until < timeout {
			timeout = until
		}
	}
	for element := h.order.Front(); element != nil; element = element.Next() {
		s := element.Value.stream
		if s.State() != stream.StateConnected || s.Pending() > 0 {
			return nil
		}
		if h.idleTimeout > 0 {
			deadline(s.LastActive().Add(h.idleTimeout))
		}
	}
	if h.timerPeriod > 0 {
		deadline(h.nextTimer)
	}
	if timeout == 0 {
		return nil
	}
	if h.poller == nil {
		poller, err := poll.New()
		if err != nil {
			return E.Cause(err, "create poller")
		}
		h.poller = poller
		h.watched = make(map[int]Handle)
	}
	err := h.watch()
	if err != nil {
		return err
	}
	_, err = h.poller.Wait(timeout)
	return err
}

// watch syncs the poller with the live descriptors. Descriptor numbers are reused
// after close, so entries are keyed by owner as well.
func (h *Host) watch() error {
	live := make(map[int]Handle, len(h.clients)+1)
	if h.listener != -1 {
		live[h.listener] = 0
	}
	for element := h.order.Front(); element != nil; element = element.Next() {
		if fd := element.Value.stream.FD(); fd != -1 {
			live[fd] = element.Value.handle
		}
	}
	for fd, owner := range h.watched {
		if handle, loaded := live[fd]; !loaded || handle != owner {
			h.poller.Remove(fd)
			delete(h.watched, fd)
		}
	}
	for fd, handle := range live {
		if _, loaded := h.watched[fd]; loaded {
			continue
		}
		err := h.poller.Add(fd)
		if err != nil {
			return E.Cause(err, "watch descriptor ", fd)
		}
		h.watched[fd] = handle
	}
	return nil
}
