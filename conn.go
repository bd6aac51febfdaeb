package evhttpd

import (
	"os"
	"time"

	"github.com/relaynet/evhttpd/internal/epoll"
)

// phase is the connection's position in its two-phase lifecycle. Unlike a
// set of handler objects swapped in and out, phase is plain data on conn:
// one type, one act method, a switch on phase. Transitions only ever go
// phaseRead -> phaseWrite, never back (spec.md §4.2/§9).
type phase int

const (
	phaseRead phase = iota
	phaseWrite
)

// conn is one accepted connection's actor state: its socket, its place in
// the READ-REQUEST/WRITE-RESPONSE lifecycle, and whatever buffering that
// phase needs. The reactor owns conn's registration in the poller; conn
// owns everything else about the connection's behavior.
type conn struct {
	r         *reactor
	fd        int
	createdAt time.Time
	ph        phase
	closed    bool

	// READ-REQUEST phase state.
	rbuf     []byte
	scanFrom int

	// WRITE-RESPONSE phase state.
	wbuf   []byte
	status statusCode
	method string
	uri    string
	path   string
	file   *os.File
}

func newConn(r *reactor, fd int) *conn {
	return &conn{r: r, fd: fd, createdAt: time.Now(), ph: phaseRead}
}

func (c *conn) elapsed() time.Duration { return time.Since(c.createdAt) }

// act dispatches one readiness notification to the current phase's handler.
func (c *conn) act(events uint32) {
	switch c.ph {
	case phaseRead:
		c.actRead(events)
	case phaseWrite:
		c.actWrite(events)
	}
}

// close tears the connection down: detaches it from the AFR if a file is
// still attached, then shuts down and closes the socket. Idempotent, since
// both the reactor's error path and a phase handler's own completion path
// may call it on the same conn.
func (c *conn) close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.file != nil {
		c.r.eng.afr.unregister(c.fd)
		c.file = nil
	}
	shutdownAndClose(c.fd)
}

// transitionToWrite moves the conn from READ-REQUEST to WRITE-RESPONSE: it
// drops the read buffer, loads the response plan, attaches the AFR if the
// disposition opened a file, and re-arms the reactor registration for
// writability. Spec.md §4.2/§4.3/§4.4.
func (c *conn) transitionToWrite(plan *responsePlan) {
	c.ph = phaseWrite
	c.rbuf = nil
	c.scanFrom = 0

	c.status = plan.status
	c.path = plan.path
	c.file = plan.file
	c.wbuf = plan.header

	if c.file != nil {
		c.r.eng.afr.register(c.fd, c.file)
	}

	if err := c.r.register(c, epoll.Writable); err != nil {
		c.r.eng.log.Warnf("fd=%d re-arm for write failed: %v", c.fd, err)
		c.r.unregister(c.fd)
		c.close()
	}
}
