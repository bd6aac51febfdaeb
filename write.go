package evhttpd

import "github.com/relaynet/evhttpd/internal/epoll"

// actWrite handles one readiness notification while in WRITE-RESPONSE. It
// sends up to one bounded, non-blocking chunk of whatever is currently
// buffered (header first, then file body), pulls more body bytes from the
// AFR once the buffer empties, and finishes the connection once both the
// buffer is empty and the file (if any) has reached EOF. Spec.md §4.4.
func (c *conn) actWrite(events uint32) {
	if events&epoll.Writable == 0 {
		return
	}

	if len(c.wbuf) != 0 {
		chunk := c.wbuf
		if len(chunk) > c.r.eng.opts.IOBufSize {
			chunk = chunk[:c.r.eng.opts.IOBufSize]
		}
		n, err := sendNonblock(c.fd, chunk)
		if err != nil {
			if err == ErrWouldBlock {
				return
			}
			// ConnectionReset, BrokenPipe, or any other send failure: the
			// peer is gone, there is nothing left to do but tear down.
			c.finish()
			return
		}
		c.wbuf = c.wbuf[n:]
	}

	if len(c.wbuf) == 0 && c.file != nil {
		data, eof := c.r.eng.afr.read(c.fd)
		c.wbuf = data
		if eof {
			c.file = nil
		}
	}

	if len(c.wbuf) == 0 && c.file == nil {
		c.finish()
	}
}

// finish completes a WRITE-RESPONSE actor: unregister from the reactor and
// close the socket (and, transitively, detach from the AFR if a file is
// still attached).
func (c *conn) finish() {
	c.r.unregister(c.fd)
	c.close()
}
