package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tomz197/pong/internal/config"
	"github.com/tomz197/pong/internal/draw"
	ponglog "github.com/tomz197/pong/internal/logging"
	"github.com/tomz197/pong/internal/loop/client"
	"github.com/tomz197/pong/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pong-ssh: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := ponglog.New(ponglog.FromEnv(""))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	log.Infow("ssh config", "host", host, "port", port, "host_key", hostKeyPath)

	// Shared game server for every SSH session
	opts, err := server.OptionsFromEnv(log.Named("server"))
	if err != nil {
		return err
	}
	gameServer, err := server.NewServer(opts)
	if err != nil {
		return err
	}
	serverCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()
	go gameServer.Run(serverCtx)

	sshOpts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(gameServer, log.Named("session")),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(zap.NewStdLog(log.Desugar())),
		),
		// Set TCP_NODELAY to reduce latency for pointer input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		sshOpts = append(sshOpts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(sshOpts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Infow("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var result error
	select {
	case <-done:
		log.Infow("shutting down")
	case err := <-serveErr:
		result = multierr.Append(result, fmt.Errorf("ssh server: %w", err))
	}

	// Notify players and wait for them to disconnect
	gameServer.Shutdown(15 * time.Second)
	cancelServer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		result = multierr.Append(result, fmt.Errorf("ssh shutdown: %w", err))
	}
	return result
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(gs *server.Server, log *zap.SugaredLogger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			log.Infow("new game session",
				"user", sess.User(),
				"term", pty.Term,
				"width", pty.Window.Width,
				"height", pty.Window.Height,
			)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

			// Listen for window size changes in a goroutine
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := client.NewClient(gs, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				Field:        gs.Field(),
				Log:          log,
			})
			if err := c.Run(); err != nil {
				log.Warnw("game error", "user", sess.User(), "error", err)
			}

			log.Infow("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
