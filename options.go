package evhttpd

import "time"

// Options configures an Engine. New starts from defaultOptions and applies
// each Option in turn, so a field no Option sets keeps its default; a value
// an Option sets, zero included, is kept as given (only an empty Root is
// replaced, by "."). Use the WithXxx constructors below
// rather than building Options directly, mirroring the functional-options
// pattern the teacher uses throughout its own configuration surface.
type Options struct {
	Root string

	Address string
	Port    int

	IOBufSize     int           // bounded recv/send chunk size
	MaxHeaderSize int64         // hard cap on the READ-REQUEST buffer
	HighWaterMark int64         // AFR per-connection buffer cap
	ClientTimeout time.Duration // actor deadline before forced close
	AcceptRetries int           // accept() retry budget per listen-readable event
	PollTimeout   time.Duration // epoll_wait timeout, bounds reactor responsiveness to ctx cancellation

	Logger Logger

	mimeTypes map[string]string
}

var defaultOptions = Options{
	Address:       "localhost",
	Port:          8080,
	IOBufSize:     4 * 1024,
	MaxHeaderSize: 10 * 1024 * 1024,
	HighWaterMark: 4 * 1024 * 1024,
	ClientTimeout: 10 * time.Second,
	AcceptRetries: 4,
	PollTimeout:   5 * time.Millisecond,
}

// Option mutates an Options value at Engine construction time.
type Option func(*Options)

// WithRoot sets the document root to serve. Relative paths are resolved
// against the process's current working directory.
func WithRoot(root string) Option { return func(o *Options) { o.Root = root } }

// WithAddress sets the bind address.
func WithAddress(addr string) Option { return func(o *Options) { o.Address = addr } }

// WithPort sets the bind port.
func WithPort(port int) Option { return func(o *Options) { o.Port = port } }

// WithIOBufSize overrides the bounded recv/send chunk size.
func WithIOBufSize(n int) Option { return func(o *Options) { o.IOBufSize = n } }

// WithMaxHeaderSize overrides the hard cap on buffered, undelimited request
// header bytes before the connection is dropped.
func WithMaxHeaderSize(n int64) Option { return func(o *Options) { o.MaxHeaderSize = n } }

// WithHighWaterMark overrides the AFR's per-connection prefetch buffer cap.
func WithHighWaterMark(n int64) Option { return func(o *Options) { o.HighWaterMark = n } }

// WithClientTimeout overrides the per-actor deadline enforced by the
// reactor's timeout sweep.
func WithClientTimeout(d time.Duration) Option { return func(o *Options) { o.ClientTimeout = d } }

// WithAcceptRetries overrides the accept() retry budget consumed per
// listen-readable event before giving up until the next event.
func WithAcceptRetries(n int) Option { return func(o *Options) { o.AcceptRetries = n } }

// WithPollTimeout overrides the epoll_wait timeout used by the reactor loop.
func WithPollTimeout(d time.Duration) Option { return func(o *Options) { o.PollTimeout = d } }

// WithLogger injects a Logger implementation. The default is a silent no-op.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMIMEType registers or overrides a file extension's Content-Type,
// layered on top of the built-in table in mime.go.
func WithMIMEType(ext, contentType string) Option {
	return func(o *Options) {
		if o.mimeTypes == nil {
			o.mimeTypes = make(map[string]string)
		}
		o.mimeTypes[ext] = contentType
	}
}
