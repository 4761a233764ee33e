package object

import "github.com/tomz197/pong/internal/physics"

// Paddle is a solid rectangle drawn over its collision band.
type Paddle struct {
	Rect physics.Rect
}

// Draw fills the paddle rectangle.
func (p Paddle) Draw(ctx DrawContext) error {
	ctx.Canvas.FillRect(p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H)
	return nil
}
