//go:build linux

package epoll

import "golang.org/x/sys/unix"

// Event is one readiness notification: Fd identifies the registered file
// descriptor, Events is the OR of Readable/Writable/Err/Hangup that fired.
type Event = unix.EpollEvent

const (
	Readable = unix.EPOLLIN
	Writable = unix.EPOLLOUT
	Err      = unix.EPOLLERR
	Hangup   = unix.EPOLLHUP
)

// implicitEvents are OR-ed into every registration so callers never have to
// remember to ask for error/hang-up notifications.
const implicitEvents = uint32(Err | Hangup)

// Poller is a single epoll instance.
type Poller struct {
	fd int
}

// New creates an epoll instance.
func New() (*Poller, error) {
	fd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &Poller{fd: fd}, nil
}

// Close releases the epoll instance.
func (p *Poller) Close() error { return unix.Close(p.fd) }

// Add registers fd for events, OR-ing in the implicit error/hang-up flags.
func (p *Poller) Add(fd int, events uint32) error {
	ev := unix.EpollEvent{Events: events | implicitEvents, Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

// Modify changes fd's interest mask. Kept distinct from Add: re-arming
// interest on an already-registered fd always goes through Modify, never a
// second Add, since EPOLL_CTL_ADD on a live fd fails with EEXIST.
func (p *Poller) Modify(fd int, events uint32) error {
	ev := unix.EpollEvent{Events: events | implicitEvents, Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, &ev)
}

// Remove unregisters fd. Safe to call on an fd not currently registered; the
// kernel's ENOENT/EBADF is swallowed since callers may race a close().
func (p *Poller) Remove(fd int) error {
	err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT || err == unix.EBADF {
		return nil
	}
	return err
}

// Wait blocks for up to timeoutMillis milliseconds for readiness events,
// filling events and returning the count delivered. A signal interrupt is
// reported as zero events rather than an error.
func (p *Poller) Wait(events []Event, timeoutMillis int) (int, error) {
	n, err := unix.EpollWait(p.fd, events, timeoutMillis)
	if err == unix.EINTR {
		return 0, nil
	}
	return n, err
}
