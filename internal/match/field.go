// Package match implements the Pong simulation: match state, field geometry
// and the per-tick simulation step.
package match

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned when field dimensions cannot host a match.
var ErrInvalidField = errors.New("invalid field")

// Field holds the fixed geometry of the play area. All values are in field
// units; renderers scale them to their own surface.
type Field struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	PaddleWidth  float64 `json:"paddleWidth"`
	PaddleHeight float64 `json:"paddleHeight"`
	BallSize     float64 `json:"ballSize"`
}

// DefaultField returns the classic 800x600 field with large paddles and ball.
func DefaultField() Field {
	return Field{
		Width:        800,
		Height:       600,
		PaddleWidth:  150,
		PaddleHeight: 300,
		BallSize:     100,
	}
}

// Validate checks that the geometry is playable.
func (f Field) Validate() error {
	switch {
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("%w: size %vx%v", ErrInvalidField, f.Width, f.Height)
	case f.PaddleWidth <= 0 || f.PaddleHeight <= 0:
		return fmt.Errorf("%w: paddle %vx%v", ErrInvalidField, f.PaddleWidth, f.PaddleHeight)
	case f.BallSize <= 0:
		return fmt.Errorf("%w: ball size %v", ErrInvalidField, f.BallSize)
	case f.PaddleHeight > f.Height:
		return fmt.Errorf("%w: paddle height %v exceeds field height %v", ErrInvalidField, f.PaddleHeight, f.Height)
	case f.BallSize > f.Height:
		return fmt.Errorf("%w: ball size %v exceeds field height %v", ErrInvalidField, f.BallSize, f.Height)
	case 2*f.PaddleWidth >= f.Width:
		return fmt.Errorf("%w: paddle bands overlap (paddle width %v, field width %v)", ErrInvalidField, f.PaddleWidth, f.Width)
	}
	return nil
}

// MaxPaddleY is the largest valid paddle offset.
func (f Field) MaxPaddleY() float64 {
	return f.Height - f.PaddleHeight
}

// CenterPaddleY is the paddle offset that centers a paddle vertically.
func (f Field) CenterPaddleY() float64 {
	return f.Height/2 - f.PaddleHeight/2
}

// CenterBall returns the ball position that centers it on the field.
func (f Field) CenterBall() (x, y float64) {
	return f.Width/2 - f.BallSize/2, f.Height/2 - f.BallSize/2
}

// OpponentX is the left edge of the opponent's paddle band.
func (f Field) OpponentX() float64 {
	return f.Width - f.PaddleWidth
}

// Tuning holds the speeds and constants of a match.
type Tuning struct {
	ServeVX       float64 // initial horizontal speed, positive serves toward the opponent
	ServeVY       float64 // initial vertical speed
	ResetVY       float64 // vertical speed magnitude after a point
	RotationStep  float64 // radians added to the ball's rotation each tick
	OpponentSpeed float64 // opponent paddle travel per tick
}

// DefaultTuning returns the standard match constants.
func DefaultTuning() Tuning {
	return Tuning{
		ServeVX:       10,
		ServeVY:       6,
		ResetVY:       3,
		RotationStep:  0.1,
		OpponentSpeed: 4,
	}
}
