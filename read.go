package evhttpd

import (
	"bytes"
	"fmt"

	"github.com/relaynet/evhttpd/internal/epoll"
)

// headerDelim marks the end of an HTTP header block.
var headerDelim = []byte("\r\n\r\n")

// actRead handles one readiness notification while in READ-REQUEST. It
// performs a single bounded, non-blocking recv, appends to the buffered
// header bytes, and scans for the end-of-headers delimiter. On an
// unterminated buffer it returns to wait for the next readiness event; on a
// terminated one it resolves the request and transitions to WRITE-RESPONSE.
// Spec.md §4.2.
func (c *conn) actRead(events uint32) {
	if events&epoll.Readable == 0 {
		return
	}

	buf := make([]byte, c.r.eng.opts.IOBufSize)
	n, err := recvNonblock(c.fd, buf)
	if err != nil {
		if err == ErrWouldBlock {
			return
		}
		c.r.eng.log.Debugf("fd=%d read error: %v", c.fd, err)
		c.r.unregister(c.fd)
		c.close()
		return
	}
	if n == 0 {
		c.r.eng.log.Infof("fd=%d closed before headers completed, buffered=%d", c.fd, len(c.rbuf))
		c.r.unregister(c.fd)
		c.close()
		return
	}

	c.rbuf = append(c.rbuf, buf[:n]...)
	if int64(len(c.rbuf)) > c.r.eng.opts.MaxHeaderSize {
		err := fmt.Errorf("%w: fd=%d buffered=%d max=%d", ErrHeadersTooLarge, c.fd, len(c.rbuf), c.r.eng.opts.MaxHeaderSize)
		c.r.eng.log.Infof("%v", err)
		c.r.unregister(c.fd)
		c.close()
		return
	}

	idx := bytes.Index(c.rbuf[c.scanFrom:], headerDelim)
	if idx < 0 {
		// Advance the cursor to len(buffer) - (len(delim) - 1) so the next
		// scan never re-examines bytes that could not have started a match
		// in the bytes seen so far, but still catches a delimiter that
		// straddles this read and the next one.
		if l := len(c.rbuf); l >= len(headerDelim) {
			c.scanFrom = l - len(headerDelim) + 1
		}
		return
	}

	end := c.scanFrom + idx
	header := append([]byte(nil), c.rbuf[:end]...)
	plan := c.resolveHeader(header)
	c.transitionToWrite(plan)
}

// resolveHeader parses the request line out of header and builds the
// response plan for it. A header that fails to parse still produces a
// well-formed response (spec.md §7).
func (c *conn) resolveHeader(header []byte) *responsePlan {
	line, ok := parseRequestLine(header)
	if !ok {
		c.method, c.uri = "", ""
		c.r.eng.log.Infof("%v", fmt.Errorf("%w: fd=%d", ErrMalformedRequest, c.fd))
		return &responsePlan{status: StatusInternalError, header: buildHeaderBlock(StatusInternalError, nil)}
	}
	c.method, c.uri = line.method, line.uri
	return c.r.eng.buildResponse(line.method, line.uri)
}
