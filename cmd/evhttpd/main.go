// Command evhttpd serves static files over HTTP/1.1 GET and HEAD using a
// single-threaded epoll reactor per worker. Workers are goroutines in this
// one process, each binding its own listening socket on the same port via
// SO_REUSEPORT; no separate worker processes are started.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/relaynet/evhttpd"
	"github.com/relaynet/evhttpd/internal/logging"
	"github.com/relaynet/evhttpd/internal/supervisor"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()

	cmd := &cobra.Command{
		Use:   "evhttpd",
		Short: "A single-threaded, epoll-reactor static file HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.address, "address", "a", cfg.address, "bind address")
	flags.IntVarP(&cfg.port, "port", "p", cfg.port, "bind port")
	flags.StringVarP(&cfg.logFile, "log", "l", cfg.logFile, "log file path (default stderr)")
	flags.IntVarP(&cfg.workers, "workers", "w", cfg.workers, "worker count (goroutines in this process)")
	flags.StringVarP(&cfg.root, "root", "r", cfg.root, "document root")
	flags.StringVar(&cfg.logFormat, "log-format", cfg.logFormat, "log format: text or json")
	flags.StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "log level: debug, info, warn, error")
	flags.DurationVar(&cfg.clientTimeout, "client-timeout", cfg.clientTimeout, "actor deadline before forced close")

	return cmd
}

func run(ctx context.Context, cfg config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	log, closer, err := logging.New(logging.Config{Level: cfg.logLevel, Format: cfg.logFormat, Output: cfg.logFile})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	supervisor.Run(ctx, cfg.workers, log, func(ctx context.Context, workerID int) error {
		return runWorker(ctx, cfg, log.WithField("worker", workerID))
	})
	return nil
}

func runWorker(ctx context.Context, cfg config, log *logging.Logger) error {
	eng, err := evhttpd.New(
		evhttpd.WithAddress(cfg.address),
		evhttpd.WithPort(cfg.port),
		evhttpd.WithRoot(cfg.root),
		evhttpd.WithClientTimeout(cfg.clientTimeout),
		evhttpd.WithLogger(log),
	)
	if err != nil {
		return err
	}
	if err := eng.Bind(); err != nil {
		return err
	}
	defer eng.Close()
	return eng.Serve(ctx)
}
