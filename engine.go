package evhttpd

import (
	"context"
	"fmt"
	"path/filepath"
)

// Engine is a single-worker instance of the reactor-based static file
// server. Each Engine owns one reactor goroutine, one AFR goroutine, and
// one listening socket. Multiple Engines bound to the same (address, port)
// via SO_REUSEPORT, one per worker goroutine in cmd/evhttpd, are how this server
// scales across cores; see internal/supervisor and cmd/evhttpd for the
// multi-worker bootstrap.
type Engine struct {
	opts Options
	root string

	mimeTypes map[string]string
	log       Logger

	listenFD int
	reactor  *reactor
	afr      *afr
}

// New validates opts and constructs an Engine in the unbound state. Call
// Bind to open the listening socket and start the AFR thread, then Serve to
// run the reactor loop.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.Root == "" {
		o.Root = "."
	}

	root, err := filepath.Abs(o.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving root %q: %v", ErrInvalidConfig, o.Root, err)
	}
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving root %q: %v", ErrInvalidConfig, o.Root, err)
	}

	mt := make(map[string]string, len(mimeTypes)+len(o.mimeTypes))
	for k, v := range mimeTypes {
		mt[k] = v
	}
	for k, v := range o.mimeTypes {
		mt[k] = v
	}

	log := o.Logger
	if log == nil {
		log = noopLogger{}
	}

	return &Engine{opts: o, root: root, mimeTypes: mt, log: log, listenFD: -1}, nil
}

// Root returns the canonical document root this Engine serves.
func (e *Engine) Root() string { return e.root }

// Bind opens the listening socket with SO_REUSEPORT/SO_REUSEADDR set and
// starts the AFR background goroutine. Call once, before Serve.
func (e *Engine) Bind() error {
	fd, err := listenReusePort(e.opts.Address, e.opts.Port)
	if err != nil {
		return fmt.Errorf("bind %s:%d: %w", e.opts.Address, e.opts.Port, err)
	}
	e.listenFD = fd

	e.afr = newAFR(e.opts.IOBufSize, e.opts.HighWaterMark)
	e.afr.start()

	r, err := newReactor(e)
	if err != nil {
		closeFD(fd)
		e.afr.finish()
		return err
	}
	e.reactor = r

	e.log.Infof("bound fd=%d address=%s port=%d root=%s", fd, e.opts.Address, e.opts.Port, e.root)
	return nil
}

// Serve runs the reactor loop until ctx is cancelled or a fatal error
// occurs. It blocks; call Bind first.
func (e *Engine) Serve(ctx context.Context) error {
	return e.reactor.run(ctx)
}

// Close tears down all live connections, stops the AFR thread, and closes
// the listening socket. Idempotent.
func (e *Engine) Close() error {
	if e.reactor != nil {
		e.reactor.closeAll()
		e.reactor = nil
	}
	if e.afr != nil {
		e.afr.finish()
		e.afr = nil
	}
	if e.listenFD >= 0 {
		closeFD(e.listenFD)
		e.listenFD = -1
	}
	return nil
}
