package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/pong/internal/config"
	"github.com/tomz197/pong/internal/desktop"
	"github.com/tomz197/pong/internal/logging"
	loopconfig "github.com/tomz197/pong/internal/loop/config"
	"github.com/tomz197/pong/internal/match"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pong-desktop: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := logging.New(logging.FromEnv(""))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	seed, err := config.GetEnvInt("PONG_SEED", 0)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m, err := match.New(match.DefaultField(), match.DefaultTuning(), rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}

	ebiten.SetWindowSize(int(m.Field.Width), int(m.Field.Height))
	ebiten.SetWindowTitle("Pong")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(loopconfig.ServerTickRate)

	if err := ebiten.RunGame(desktop.NewGame(m, log)); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
