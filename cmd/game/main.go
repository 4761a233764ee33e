package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/pong/internal/config"
	"github.com/tomz197/pong/internal/logging"
	"github.com/tomz197/pong/internal/loop/client"
	"github.com/tomz197/pong/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// stdout is the screen, so logs always go to a file.
	logCfg := logging.FromEnv("pong.log")
	if logCfg.File == "" {
		logCfg.File = "pong.log"
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := server.OptionsFromEnv(log.Named("server"))
	if err != nil {
		return err
	}
	gs, err := server.NewServer(opts)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gs.Run(ctx)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	username := config.GetEnv("USER", "player")
	c := client.NewClient(gs, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: username,
		Field:    gs.Field(),
		Log:      log,
	})
	return c.Run()
}
