// Command primesd serves prime listings over HTTP.
//
// Usage:
//
//	primesd [--config primesd.yaml]
//
// Every setting may also be supplied through PRIMES_* environment
// variables, e.g. PRIMES_SERVER_ADDR=:9090.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/primeops/config"
	"github.com/jonwraymond/primeops/observe"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "primesd:", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := pflag.NewFlagSet("primesd", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "path to a YAML config file (default ./primesd.yaml if present)")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintln(stderr, version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	return a.serve(ctx)
}

// serve runs the HTTP server until ctx is cancelled, then drains it and
// flushes telemetry.
func (a *app) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info(gctx, "primesd listening",
			observe.Field{Key: "addr", Value: srv.Addr},
			observe.Field{Key: "version", Value: version},
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info(context.Background(), "primesd shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(
			srv.Shutdown(shutdownCtx),
			a.obs.Shutdown(shutdownCtx),
		)
	})
	return g.Wait()
}
