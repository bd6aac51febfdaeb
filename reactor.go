package evhttpd

import (
	"context"
	"fmt"
	"time"

	"github.com/relaynet/evhttpd/internal/epoll"
)

// reactor is the single-threaded epoll event loop: it owns the poller, the
// listening socket's registration, and the live connection registry. One
// reactor belongs to exactly one Engine. Spec.md §4.1.
type reactor struct {
	eng      *Engine
	poller   *epoll.Poller
	conns    map[int]*conn
	listenFD int
}

func newReactor(e *Engine) (*reactor, error) {
	p, err := epoll.New()
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	if err := p.Add(e.listenFD, epoll.Readable); err != nil {
		p.Close()
		return nil, fmt.Errorf("epoll add listen fd: %w", err)
	}
	return &reactor{eng: e, poller: p, conns: make(map[int]*conn), listenFD: e.listenFD}, nil
}

// register adds c to the poller with the given interest mask, or re-arms
// its existing registration via Modify if c.fd is already known. Spec.md
// §9 resolves the register-vs-modify Open Question explicitly this way:
// callers never issue a second Add on a live fd.
func (r *reactor) register(c *conn, events uint32) error {
	_, known := r.conns[c.fd]
	r.conns[c.fd] = c
	if known {
		return r.poller.Modify(c.fd, events)
	}
	return r.poller.Add(c.fd, events)
}

// unregister removes fd from both the poller and the connection registry.
// Safe to call more than once or on an fd that was never registered.
func (r *reactor) unregister(fd int) {
	if _, ok := r.conns[fd]; !ok {
		return
	}
	delete(r.conns, fd)
	_ = r.poller.Remove(fd)
}

// run executes the epoll loop until ctx is cancelled or a fatal poller
// error occurs. It accepts new connections, dispatches readiness events to
// the corresponding conn, and sweeps timed-out actors once per iteration.
func (r *reactor) run(ctx context.Context) error {
	events := make([]epoll.Event, 128)
	timeoutMillis := int(r.eng.opts.PollTimeout / time.Millisecond)
	if timeoutMillis <= 0 {
		timeoutMillis = 1
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := r.poller.Wait(events, timeoutMillis)
		if err != nil {
			return fmt.Errorf("epoll wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			ev := events[i].Events

			if fd == r.listenFD {
				if ev&epoll.Readable != 0 {
					r.acceptLoop()
				}
				continue
			}

			c, ok := r.conns[fd]
			if !ok {
				_ = r.poller.Remove(fd)
				continue
			}

			if ev&(epoll.Err|epoll.Hangup) != 0 {
				r.unregister(fd)
				c.close()
				continue
			}

			c.act(ev)
		}

		r.sweepTimeouts()
	}
}

// acceptLoop accepts at most one pending connection per listen-readable
// event, retrying up to AcceptRetries times while accept reports
// would-block and backing off 10ms * attempt number after each such try,
// matching the original
// implementation's accept-retry behavior under bursty connect storms
// (spec.md §4.1).
func (r *reactor) acceptLoop() {
	for try := 1; try <= r.eng.opts.AcceptRetries; try++ {
		fd, err := acceptNonblock(r.listenFD)
		if err == nil {
			c := newConn(r, fd)
			if regErr := r.register(c, epoll.Readable); regErr != nil {
				r.eng.log.Warnf("fd=%d register failed: %v", fd, regErr)
				c.close()
				return
			}
			r.eng.log.Debugf("accepted fd=%d", fd)
			return
		}
		if err == ErrWouldBlock {
			time.Sleep(time.Duration(try) * 10 * time.Millisecond)
			continue
		}
		r.eng.log.Warnf("accept error: %v", err)
		return
	}
}

// sweepTimeouts force-closes any actor that has exceeded ClientTimeout,
// regardless of phase. Spec.md §4.1/§5.
func (r *reactor) sweepTimeouts() {
	for fd, c := range r.conns {
		if c.elapsed() > r.eng.opts.ClientTimeout {
			r.eng.log.Debugf("fd=%d timed out after %s", fd, c.elapsed())
			delete(r.conns, fd)
			_ = r.poller.Remove(fd)
			c.close()
		}
	}
}

// closeAll tears down every live connection and the poller itself. Called
// from Engine.Close.
func (r *reactor) closeAll() {
	for fd, c := range r.conns {
		delete(r.conns, fd)
		_ = r.poller.Remove(fd)
		c.close()
	}
	_ = r.poller.Remove(r.listenFD)
	_ = r.poller.Close()
}
