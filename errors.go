package evhttpd

import "errors"

var (
	// ErrWouldBlock is the control-flow sentinel returned by the raw socket
	// wrappers in sockopt.go when unix.EAGAIN/EWOULDBLOCK is observed. The
	// teacher's own non-blocking I/O vocabulary aliases this from an
	// unpublished internal module; defined locally here since that module
	// cannot be fetched (see DESIGN.md).
	ErrWouldBlock = errors.New("evhttpd: operation would block")

	// ErrHeadersTooLarge wraps the log line emitted when a READ-REQUEST
	// actor's buffer exceeds MaxHeaderSize before the header terminator is
	// found; see read.go's actRead.
	ErrHeadersTooLarge = errors.New("evhttpd: request headers exceed maximum buffer size")

	// ErrPathEscapesRoot wraps the log line emitted when a resolved request
	// path falls outside the document root; see response.go's
	// resolveRequest.
	ErrPathEscapesRoot = errors.New("evhttpd: resolved path escapes document root")

	// ErrMalformedRequest wraps the log line emitted when a request line
	// does not split into exactly three space-separated tokens; see
	// read.go's resolveHeader.
	ErrMalformedRequest = errors.New("evhttpd: malformed request line")

	// ErrInvalidConfig marks an Engine constructed with an unusable Options
	// value (e.g. a document root that cannot be resolved).
	ErrInvalidConfig = errors.New("evhttpd: invalid configuration")
)
