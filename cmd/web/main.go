package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/tomz197/pong/internal/config"
	"github.com/tomz197/pong/internal/logging"
	"github.com/tomz197/pong/internal/loop/server"
	"github.com/tomz197/pong/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pong-web: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := logging.New(logging.FromEnv(""))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	opts, err := server.OptionsFromEnv(log.Named("server"))
	if err != nil {
		return err
	}
	gs, err := server.NewServer(opts)
	if err != nil {
		return err
	}
	serverCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()
	go gs.Run(serverCtx)

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr: addr,
		Handler: web.NewMux(gs, web.Options{
			Page:    htmlPage,
			SSHHost: sshHost,
			Log:     log.Named("web"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Infow("starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var result error
	select {
	case <-done:
		log.Infow("shutting down")
	case err := <-serveErr:
		result = multierr.Append(result, fmt.Errorf("web server: %w", err))
	}

	// Browsers get a shutdown message and close their sockets.
	gs.Shutdown(5 * time.Second)
	cancelServer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		result = multierr.Append(result, fmt.Errorf("web shutdown: %w", err))
	}
	return result
}
