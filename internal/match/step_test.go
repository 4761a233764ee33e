package match

import (
	"math"
	"math/rand"
	"testing"
)

// fixedRand always returns the same value.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func TestStepTranslatesAndRotates(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	s := NewState(f, tu)
	s.BallX, s.BallY = 400, 300
	s.BallVX, s.BallVY = 10, 6

	next, res := Step(s, f, tu, fixedRand(0))

	if next.BallX != 410 || next.BallY != 306 {
		t.Fatalf("ball at (%v, %v), want (410, 306)", next.BallX, next.BallY)
	}
	if next.BallRotation != 0.1 {
		t.Errorf("rotation = %v, want 0.1", next.BallRotation)
	}
	if res != (Result{}) {
		t.Errorf("result = %+v, want nothing to happen", res)
	}
	if next.BallVX != 10 || next.BallVY != 6 {
		t.Errorf("velocity changed to (%v, %v)", next.BallVX, next.BallVY)
	}
	// Opponent center 300 is above ball center 356, so it moves down one step.
	if next.OpponentY != s.OpponentY+tu.OpponentSpeed {
		t.Errorf("opponent = %v, want %v", next.OpponentY, s.OpponentY+tu.OpponentSpeed)
	}
	if next.PlayerY != s.PlayerY {
		t.Errorf("player moved from %v to %v", s.PlayerY, next.PlayerY)
	}
}

func TestStepFromOpeningState(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	s := NewState(f, tu)

	next, _ := Step(s, f, tu, fixedRand(0))
	if next.BallX != 360 || next.BallY != 256 {
		t.Errorf("ball at (%v, %v), want (360, 256)", next.BallX, next.BallY)
	}
}

func TestStepRotationDirection(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()

	tests := []struct {
		name string
		vx   float64
		want float64
	}{
		{"moving right", 10, 0.1},
		{"moving left", -10, -0.1},
		{"no horizontal speed", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(f, tu)
			s.BallVX = tt.vx
			next, _ := Step(s, f, tu, fixedRand(0))
			if math.Abs(next.BallRotation-tt.want) > 1e-12 {
				t.Errorf("rotation = %v, want %v", next.BallRotation, tt.want)
			}
		})
	}
}

func TestStepRotationWraps(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	s := NewState(f, tu)
	s.BallRotation = 2*math.Pi - 0.05

	next, _ := Step(s, f, tu, fixedRand(0))
	if math.Abs(next.BallRotation-0.05) > 1e-9 {
		t.Errorf("rotation = %v, want 0.05", next.BallRotation)
	}
}

func TestStepWallBounce(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()

	tests := []struct {
		name   string
		y, vy  float64
		wantVY float64
		wantY  float64
	}{
		{"top wall", 2, -6, 6, -4},
		{"bottom wall", 498, 6, -6, 504},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(f, tu)
			s.BallY, s.BallVY = tt.y, tt.vy
			next, res := Step(s, f, tu, fixedRand(0))
			if !res.WallBounce {
				t.Fatal("expected a wall bounce")
			}
			if next.BallVY != tt.wantVY {
				t.Errorf("vy = %v, want %v", next.BallVY, tt.wantVY)
			}
			// No position correction.
			if next.BallY != tt.wantY {
				t.Errorf("y = %v, want %v", next.BallY, tt.wantY)
			}
		})
	}
}

func TestStepPaddleBounce(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()

	tests := []struct {
		name       string
		x, vx      float64
		ballY      float64
		playerY    float64
		opponentY  float64
		wantBounce bool
	}{
		{"player paddle", 155, -10, 250, 150, 150, true},
		{"opponent paddle", 545, 10, 250, 150, 150, true},
		{"player paddle out of reach", 155, -10, 400, 0, 150, false},
		{"opponent paddle out of reach", 545, 10, 0, 0, 300, false},
		{"between paddles", 300, 10, 250, 150, 150, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(f, tu)
			s.BallX, s.BallVX = tt.x, tt.vx
			s.BallY = tt.ballY
			s.PlayerY, s.OpponentY = tt.playerY, tt.opponentY

			next, res := Step(s, f, tu, fixedRand(0))
			if res.PaddleBounce != tt.wantBounce {
				t.Fatalf("PaddleBounce = %v, want %v", res.PaddleBounce, tt.wantBounce)
			}
			wantVX := tt.vx
			if tt.wantBounce {
				wantVX = -tt.vx
			}
			if next.BallVX != wantVX {
				t.Errorf("vx = %v, want %v", next.BallVX, wantVX)
			}
		})
	}
}

func TestStepOpponentScores(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()

	for _, coin := range []float64{0.9, 0.1} {
		s := NewState(f, tu)
		s.BallX, s.BallVX = -95, -10

		next, res := Step(s, f, tu, fixedRand(coin))

		if res.Scored != SideOpponent {
			t.Fatalf("scored = %v, want opponent", res.Scored)
		}
		if next.OpponentScore != 1 || next.PlayerScore != 0 {
			t.Errorf("scores = %d:%d, want 0:1", next.PlayerScore, next.OpponentScore)
		}
		cx, cy := f.CenterBall()
		if next.BallX != cx || next.BallY != cy {
			t.Errorf("ball at (%v, %v), want center (%v, %v)", next.BallX, next.BallY, cx, cy)
		}
		if next.BallVX != 10 {
			t.Errorf("vx = %v, want 10 (flipped)", next.BallVX)
		}
		if math.Abs(next.BallVY) != tu.ResetVY {
			t.Errorf("|vy| = %v, want %v", math.Abs(next.BallVY), tu.ResetVY)
		}
	}
}

func TestStepPlayerScores(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	s := NewState(f, tu)
	s.BallX, s.BallVX = 795, 10

	next, res := Step(s, f, tu, fixedRand(0.9))

	if res.Scored != SidePlayer {
		t.Fatalf("scored = %v, want player", res.Scored)
	}
	if next.PlayerScore != 1 || next.OpponentScore != 0 {
		t.Errorf("scores = %d:%d, want 1:0", next.PlayerScore, next.OpponentScore)
	}
	if next.BallVX != -10 {
		t.Errorf("vx = %v, want -10", next.BallVX)
	}
	if next.BallVY != tu.ResetVY {
		t.Errorf("vy = %v, want %v", next.BallVY, tu.ResetVY)
	}
}

func TestResetServeDirection(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	tests := []struct {
		coin float64
		want float64
	}{
		{0.75, 3},
		{0.5, -3},
		{0.25, -3},
	}
	for _, tt := range tests {
		s := resetBall(NewState(f, tu), f, tu, fixedRand(tt.coin))
		if s.BallVY != tt.want {
			t.Errorf("coin %v: vy = %v, want %v", tt.coin, s.BallVY, tt.want)
		}
	}
}

func TestStepAlignedOpponentStaysPut(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	s := NewState(f, tu)
	s.PlayerY = 100
	s.OpponentY = 150 // center 300
	s.BallX, s.BallY = 350, 244
	s.BallVX, s.BallVY = 10, 6 // ball center lands on 300

	next, res := Step(s, f, tu, fixedRand(0))

	if res != (Result{}) {
		t.Fatalf("result = %+v, want nothing to happen", res)
	}
	if next.PlayerY != 100 || next.OpponentY != 150 {
		t.Errorf("paddles moved to %v / %v", next.PlayerY, next.OpponentY)
	}
	if next.BallX != 360 || next.BallY != 250 || next.BallRotation == 0 {
		t.Errorf("ball did not advance: %+v", next)
	}
}

func TestStepOpponentClamped(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()

	s := NewState(f, tu)
	s.OpponentY = 1
	s.BallY, s.BallVY = 10, -1
	next, _ := Step(s, f, tu, fixedRand(0))
	if next.OpponentY != 0 {
		t.Errorf("opponent = %v, want 0", next.OpponentY)
	}

	s = NewState(f, tu)
	s.OpponentY = f.MaxPaddleY() - 1
	s.BallY, s.BallVY = 480, 1
	next, _ = Step(s, f, tu, fixedRand(0))
	if next.OpponentY != f.MaxPaddleY() {
		t.Errorf("opponent = %v, want %v", next.OpponentY, f.MaxPaddleY())
	}
}

// TestStepInvariants drives a long random match and checks the per-tick
// guarantees on every frame.
func TestStepInvariants(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	rng := rand.New(rand.NewSource(42))
	s := NewState(f, tu)

	points := 0
	for i := 0; i < 20000; i++ {
		if i%7 == 0 {
			s = s.WithPointer(f, rng.Float64()*1000-200)
		}
		prev := s
		var res Result
		s, res = Step(s, f, tu, rng)

		for name, y := range map[string]float64{"player": s.PlayerY, "opponent": s.OpponentY} {
			if y < 0 || y > f.MaxPaddleY() {
				t.Fatalf("tick %d: %s paddle at %v", i, name, y)
			}
		}

		dp := s.PlayerScore - prev.PlayerScore
		do := s.OpponentScore - prev.OpponentScore
		switch res.Scored {
		case SidePlayer:
			if dp != 1 || do != 0 {
				t.Fatalf("tick %d: player point changed scores by %d/%d", i, dp, do)
			}
		case SideOpponent:
			if dp != 0 || do != 1 {
				t.Fatalf("tick %d: opponent point changed scores by %d/%d", i, dp, do)
			}
		default:
			if dp != 0 || do != 0 {
				t.Fatalf("tick %d: scores changed without a point", i)
			}
		}

		if res.Scored != SideNone {
			points++
			cx, cy := f.CenterBall()
			if s.BallX != cx || s.BallY != cy {
				t.Fatalf("tick %d: ball not centered after point", i)
			}
			if math.Abs(s.BallVY) != tu.ResetVY {
				t.Fatalf("tick %d: reset vy = %v", i, s.BallVY)
			}
			continue
		}

		if res.WallBounce && s.BallVY != -prev.BallVY {
			t.Fatalf("tick %d: wall bounce vy %v -> %v", i, prev.BallVY, s.BallVY)
		}
		if !res.WallBounce && s.BallVY != prev.BallVY {
			t.Fatalf("tick %d: vy changed without a bounce", i)
		}
		if res.PaddleBounce && s.BallVX != -prev.BallVX {
			t.Fatalf("tick %d: paddle bounce vx %v -> %v", i, prev.BallVX, s.BallVX)
		}
		if !res.PaddleBounce && s.BallVX != prev.BallVX {
			t.Fatalf("tick %d: vx changed without a bounce", i)
		}
		if math.Abs(s.BallVX) != tu.ServeVX {
			t.Fatalf("tick %d: |vx| = %v", i, math.Abs(s.BallVX))
		}
	}
	if points == 0 {
		t.Error("no points scored in 20000 ticks")
	}
}

func TestStepBallPastRightEdgeDoesNotBounce(t *testing.T) {
	f := DefaultField()
	tu := DefaultTuning()
	s := NewState(f, tu)
	// Vertically level with the opponent paddle, but fully beyond the field.
	s.BallX, s.BallY = 795, 200
	s.BallVX, s.BallVY = 10, 0

	next, res := Step(s, f, tu, fixedRand(0))
	if res.PaddleBounce {
		t.Error("ball beyond the right edge bounced off the opponent paddle")
	}
	if res.Scored != SidePlayer || next.PlayerScore != 1 {
		t.Fatalf("result = %+v, player score %d, want a player point", res, next.PlayerScore)
	}
	if next.BallVX != -10 {
		t.Errorf("serve BallVX = %v, want -10", next.BallVX)
	}
}
