package match

import "github.com/tomz197/pong/internal/physics"

// State is the complete simulation snapshot of one match.
// Ball coordinates are the top-left corner of the ball square.
type State struct {
	PlayerY       float64 `json:"playerY"`
	OpponentY     float64 `json:"opponentY"`
	BallX         float64 `json:"ballX"`
	BallY         float64 `json:"ballY"`
	BallVX        float64 `json:"ballVX"`
	BallVY        float64 `json:"ballVY"`
	BallRotation  float64 `json:"ballRotation"`
	PlayerScore   int     `json:"playerScore"`
	OpponentScore int     `json:"opponentScore"`
}

// NewState returns the opening state: paddles and ball centered, zero
// scores, serve velocity from t.
func NewState(f Field, t Tuning) State {
	bx, by := f.CenterBall()
	return State{
		PlayerY:   f.CenterPaddleY(),
		OpponentY: f.CenterPaddleY(),
		BallX:     bx,
		BallY:     by,
		BallVX:    t.ServeVX,
		BallVY:    t.ServeVY,
	}
}

// WithPointer returns s with the player paddle centered on pointerY,
// clamped into the field.
func (s State) WithPointer(f Field, pointerY float64) State {
	s.PlayerY = physics.Clamp(pointerY-f.PaddleHeight/2, 0, f.MaxPaddleY())
	return s
}

// Ball returns the ball's bounding square.
func (s State) Ball(f Field) physics.Rect {
	return physics.Rect{X: s.BallX, Y: s.BallY, W: f.BallSize, H: f.BallSize}
}

// PlayerPaddle returns the player paddle's collision rectangle.
func (s State) PlayerPaddle(f Field) physics.Rect {
	return physics.Rect{X: 0, Y: s.PlayerY, W: f.PaddleWidth, H: f.PaddleHeight}
}

// OpponentPaddle returns the opponent paddle's collision rectangle.
func (s State) OpponentPaddle(f Field) physics.Rect {
	return physics.Rect{X: f.OpponentX(), Y: s.OpponentY, W: f.PaddleWidth, H: f.PaddleHeight}
}
