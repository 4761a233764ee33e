package match

import "github.com/tomz197/pong/internal/physics"

// Side identifies who won a point.
type Side int

const (
	SideNone     Side = iota // No point this tick
	SidePlayer               // Player scored
	SideOpponent             // Opponent scored
)

// String returns the lowercase side name used in logs and wire messages.
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideOpponent:
		return "opponent"
	default:
		return "none"
	}
}

// Rand is the random source used for the serve direction after a point.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Result describes what happened during one Step.
type Result struct {
	WallBounce   bool
	PaddleBounce bool
	Scored       Side
}

// Step advances s by one tick and returns the new state.
func Step(s State, f Field, t Tuning, rng Rand) (State, Result) {
	var res Result

	s.BallX += s.BallVX
	s.BallY += s.BallVY

	// sign(0) adds nothing, so a ball with no horizontal speed keeps its angle.
	s.BallRotation = physics.WrapAngle(s.BallRotation + t.RotationStep*physics.Sign(s.BallVX))

	// Walls. The ball is not pushed back inside; the next tick carries it out.
	if s.BallY < 0 || s.BallY+f.BallSize > f.Height {
		s.BallVY = -s.BallVY
		res.WallBounce = true
	}

	ball := s.Ball(f)
	if ball.Overlaps(s.PlayerPaddle(f)) || ball.Overlaps(s.OpponentPaddle(f)) {
		s.BallVX = -s.BallVX
		res.PaddleBounce = true
	}

	if s.BallX+f.BallSize < 0 {
		s.OpponentScore++
		res.Scored = SideOpponent
		s = resetBall(s, f, t, rng)
	} else if s.BallX > f.Width {
		s.PlayerScore++
		res.Scored = SidePlayer
		s = resetBall(s, f, t, rng)
	}

	s.OpponentY = moveOpponent(s, f, t)

	return s, res
}

// resetBall centers the ball after a point and serves it back the way it
// was travelling, with a fresh vertical direction.
func resetBall(s State, f Field, t Tuning, rng Rand) State {
	s.BallX, s.BallY = f.CenterBall()
	s.BallVX = -s.BallVX
	if rng.Float64() > 0.5 {
		s.BallVY = t.ResetVY
	} else {
		s.BallVY = -t.ResetVY
	}
	return s
}

// moveOpponent steps the opponent paddle toward the ball's center by a fixed
// amount. It does not predict; it only follows.
func moveOpponent(s State, f Field, t Tuning) float64 {
	paddle := s.OpponentPaddle(f).CenterY()
	ball := s.Ball(f).CenterY()

	y := s.OpponentY
	switch {
	case paddle < ball:
		y += t.OpponentSpeed
	case paddle > ball:
		y -= t.OpponentSpeed
	}
	return physics.Clamp(y, 0, f.MaxPaddleY())
}
