package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/pong/internal/input"
	"github.com/tomz197/pong/internal/loop/config"
	"github.com/tomz197/pong/internal/loop/server"
	"github.com/tomz197/pong/internal/match"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	opts := server.DefaultOptions()
	opts.Seed = 7
	s, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                   string
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{"small terminal", 80, 24, 80, 24, 0, 0},
		{"wide terminal", config.MaxTermWidth + 20, 24, config.MaxTermWidth, 24, 10, 0},
		{"tall terminal", 80, config.MaxTermHeight + 11, 80, config.MaxTermHeight, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := clampTermSize(tt.w, tt.h)
			if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
				t.Errorf("clampTermSize(%d, %d) = %d %d %d %d", tt.w, tt.h, rw, rh, oc, or)
			}
		})
	}
}

func TestUpdatePointer(t *testing.T) {
	s := newTestServer(t)
	c := NewClient(s, bufio.NewReader(strings.NewReader("")), io.Discard, ClientOptions{
		TermSizeFunc: fixedSize(80, 30),
	})

	tests := []struct {
		name  string
		start float64
		in    input.Input
		want  float64
	}{
		{"mouse sets target", 100, input.Input{Pointer: input.Pointer{Col: 41, Row: 16, Valid: true}}, 300},
		{"up nudges", 300, input.Input{Up: true}, 300 - config.KeyboardPointerStep},
		{"down nudges", 300, input.Input{Down: true}, 300 + config.KeyboardPointerStep},
		{"clamped at top", 10, input.Input{Up: true}, 0},
		{"clamped at bottom", 590, input.Input{Down: true}, 600},
		{"mouse then key", 0, input.Input{Pointer: input.Pointer{Col: 1, Row: 1, Valid: true}, Down: true}, config.KeyboardPointerStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.state.PointerY = tt.start
			c.state.Input = tt.in
			c.updatePointer()
			if c.state.PointerY != tt.want {
				t.Errorf("PointerY = %v, want %v", c.state.PointerY, tt.want)
			}
		})
	}
}

func TestPointBanner(t *testing.T) {
	if got := pointBanner(match.SidePlayer); got != "POINT: YOU" {
		t.Errorf("player banner = %q", got)
	}
	if got := pointBanner(match.SideOpponent); got != "POINT: COMPUTER" {
		t.Errorf("opponent banner = %q", got)
	}
}

func TestRunStartsMatchAndQuits(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer
	c := NewClient(s, bufio.NewReader(pr), &out, ClientOptions{
		TermSizeFunc: fixedSize(80, 30),
		Username:     "tester",
	})

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	waitFor(t, "registration", func() bool { return s.Players() == 1 })
	if _, err := pw.Write([]byte(" ")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "match start", func() bool { return c.handle.Snapshot().Playing })
	if _, err := pw.Write([]byte("q")); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client did not quit")
	}

	frame := out.String()
	if !strings.Contains(frame, "\033[?1003h") || !strings.Contains(frame, "\033[?1003l") {
		t.Error("mouse tracking was not enabled and restored")
	}
	if !strings.Contains(frame, "Controls") {
		t.Error("start screen never drawn")
	}
	waitFor(t, "unregistration", func() bool { return s.Players() == 0 })
}

func TestRunQuitsOnEscape(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	pr, pw := io.Pipe()
	defer pw.Close()
	c := NewClient(s, bufio.NewReader(pr), io.Discard, ClientOptions{
		TermSizeFunc: fixedSize(80, 30),
		Username:     "esc",
	})

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	if _, err := pw.Write([]byte("\x1b")); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client did not quit on Escape")
	}
	waitFor(t, "unregistration", func() bool { return s.Players() == 0 })
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
