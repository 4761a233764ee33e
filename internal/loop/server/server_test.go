package server

import (
	"context"
	"testing"
	"time"

	"github.com/tomz197/pong/internal/match"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	s, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("PONG_SEED", "99")
	opts, err := OptionsFromEnv(nil)
	if err != nil {
		t.Fatalf("OptionsFromEnv() error = %v", err)
	}
	if opts.Seed != 99 {
		t.Errorf("Seed = %d, want 99", opts.Seed)
	}

	t.Setenv("PONG_SEED", "soon")
	if _, err := OptionsFromEnv(nil); err == nil {
		t.Error("expected an error for a non-numeric seed")
	}
}

func TestSameSeedSameRally(t *testing.T) {
	run := func() match.State {
		s := newTestServer(t)
		h := s.RegisterClient("x")
		s.step()
		s.StartMatch(h.ID)
		for i := 0; i < 500; i++ {
			s.step()
		}
		return h.Snapshot().State
	}
	if a, b := run(), run(); a != b {
		t.Errorf("seeded servers diverged: %+v vs %+v", a, b)
	}
}

func TestNewServerRejectsInvalidField(t *testing.T) {
	opts := DefaultOptions()
	opts.Field.PaddleWidth = opts.Field.Width
	if _, err := NewServer(opts); err == nil {
		t.Fatal("expected an error for overlapping paddle bands")
	}
}

func TestRegisterPublishesIdleSnapshot(t *testing.T) {
	s := newTestServer(t)
	h := s.RegisterClient("alice")

	if snap := h.Snapshot(); snap == nil || snap.Playing {
		t.Fatalf("initial snapshot = %+v, want idle snapshot", snap)
	}
	if s.Players() != 1 {
		t.Errorf("Players() = %d right after RegisterClient, want 1", s.Players())
	}

	s.step()
	snap := s.GetSnapshot(h.ID)
	if snap == nil {
		t.Fatal("no snapshot after registration")
	}
	want := match.NewState(s.Field(), match.DefaultTuning())
	if snap.State != want {
		t.Errorf("idle state = %+v, want %+v", snap.State, want)
	}
	if snap.Players != 1 {
		t.Errorf("Players = %d, want 1", snap.Players)
	}

	s.step()
	if got := s.GetSnapshot(h.ID).State; got != want {
		t.Error("idle match advanced")
	}
}

func TestStartedMatchAdvancesEachTick(t *testing.T) {
	s := newTestServer(t)
	h := s.RegisterClient("bob")
	s.step()
	s.StartMatch(h.ID)

	for i := 0; i < 3; i++ {
		s.step()
	}
	snap := h.Snapshot()
	if !snap.Playing {
		t.Fatal("match not playing after StartMatch")
	}
	want := match.NewState(s.Field(), match.DefaultTuning())
	want.BallX += 3 * 10
	if snap.State.BallX != want.BallX {
		t.Errorf("BallX = %v after 3 ticks, want %v", snap.State.BallX, want.BallX)
	}
}

func TestStartAndPointerRightAfterRegister(t *testing.T) {
	s := newTestServer(t)
	h := s.RegisterClient("dave")
	s.StartMatch(h.ID)
	s.SendPointer(h.ID, 200)

	for i := 0; i < 5; i++ {
		s.step()
	}
	snap := h.Snapshot()
	if !snap.Playing {
		t.Fatalf("StartMatch before the first tick was lost: playing=%v tick=%d", snap.Playing, snap.Tick)
	}
	if snap.State.PlayerY != 50 {
		t.Errorf("PlayerY = %v, want 50", snap.State.PlayerY)
	}
	if want := s.Field().Width/2 - s.Field().BallSize/2 + 5*10; snap.State.BallX != want {
		t.Errorf("BallX = %v after 5 ticks, want %v", snap.State.BallX, want)
	}
}

func TestSendPointerMovesOwnPaddleOnly(t *testing.T) {
	s := newTestServer(t)
	a := s.RegisterClient("a")
	b := s.RegisterClient("b")
	s.step()

	s.SendPointer(a.ID, 0)
	s.SendPointer(a.ID, 200) // latest wins
	s.step()

	if got := a.Snapshot().State.PlayerY; got != 50 {
		t.Errorf("a.PlayerY = %v, want 50", got)
	}
	if got := b.Snapshot().State.PlayerY; got != s.Field().CenterPaddleY() {
		t.Errorf("b.PlayerY = %v, want untouched", got)
	}
}

func TestPointEventDelivered(t *testing.T) {
	s := newTestServer(t)
	h := s.RegisterClient("carol")
	s.step()
	s.StartMatch(h.ID)

	// Put the ball well past the left edge so the next tick scores.
	h.match.State.BallX = -300
	h.match.State.BallVX = -10
	s.step()

	select {
	case ev := <-h.EventsCh:
		if ev.Type != EventPointScored || ev.Side != match.SideOpponent {
			t.Fatalf("event = %+v, want opponent point", ev)
		}
		if ev.PlayerScore != 0 || ev.OpponentScore != 1 {
			t.Errorf("scores = %d:%d, want 0:1", ev.PlayerScore, ev.OpponentScore)
		}
	default:
		t.Fatal("no point event after the ball left the field")
	}

	snap := h.Snapshot()
	bx, by := s.Field().CenterBall()
	if snap.State.BallX != bx || snap.State.BallY != by {
		t.Errorf("ball at (%v, %v) after point, want center (%v, %v)", snap.State.BallX, snap.State.BallY, bx, by)
	}
	if snap.State.OpponentScore != 1 {
		t.Errorf("snapshot OpponentScore = %d, want 1", snap.State.OpponentScore)
	}
}

func TestUnregisterClosesEvents(t *testing.T) {
	s := newTestServer(t)
	h := s.RegisterClient("dave")
	s.step()
	s.UnregisterClient(h.ID)
	s.step()

	if _, ok := <-h.EventsCh; ok {
		t.Error("EventsCh still open after unregister")
	}
	if s.Players() != 0 {
		t.Errorf("Players() = %d, want 0", s.Players())
	}
	if s.GetSnapshot(h.ID) != nil {
		t.Error("snapshot still available for a removed client")
	}
	// Unknown clients are ignored.
	s.StartMatch(h.ID)
	s.SendPointer(h.ID, 10)
	s.step()
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	h := s.RegisterClient("erin")
	go func() {
		for ev := range h.EventsCh {
			if ev.Type == EventServerShutdown {
				s.UnregisterClient(h.ID)
			}
		}
	}()

	// Wait until the loop picked up the registration.
	for s.Players() == 0 {
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Shutdown did not return after the client left")
	}
	if s.Players() != 0 {
		t.Errorf("Players() = %d after shutdown", s.Players())
	}
}
