// Package evhttpd implements the CORE of a static-file HTTP/1.1 serving
// engine: a single-threaded, epoll-driven reactor handling many concurrent
// client connections over non-blocking sockets, coupled to a background
// disk-read pump (the async file reader, or AFR) that keeps the reactor off
// the disk I/O path entirely.
//
// Design and semantics:
//   - Non-blocking first: every socket operation is non-blocking; ErrWouldBlock
//     is the control-flow signal for "no progress without waiting, retry on
//     the next readiness event". File I/O happens exclusively on the AFR's
//     background goroutine.
//   - Two-phase connection lifecycle: each accepted connection runs
//     READ-REQUEST then WRITE-RESPONSE, in that order, once. There is no
//     persistent-connection support; every response closes the socket.
//   - One Engine is one worker: it owns exactly one reactor and one AFR
//     thread. Running several Engines bound to the same (address, port) with
//     SO_REUSEPORT, one per worker goroutine as cmd/evhttpd runs them, is how
//     this server scales across cores; see internal/supervisor and
//     cmd/evhttpd.
//
// Wire protocol: a GET/HEAD-only HTTP/1.1 subset. See SPEC_FULL.md for the
// complete protocol description, invariants, and boundary scenarios this
// package is built to satisfy.
package evhttpd
