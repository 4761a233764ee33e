package object

import (
	"github.com/tomz197/pong/internal/draw"
	"github.com/tomz197/pong/internal/physics"
)

// Ball is the square ball, rotated by Rotation radians about its center.
type Ball struct {
	X, Y     float64 // top-left corner
	Size     float64
	Rotation float64
}

// Corners returns the rotated corners in drawing order.
func (b Ball) Corners() [4]draw.Point {
	cx := b.X + b.Size/2
	cy := b.Y + b.Size/2
	raw := [4]draw.Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Size, Y: b.Y},
		{X: b.X + b.Size, Y: b.Y + b.Size},
		{X: b.X, Y: b.Y + b.Size},
	}
	var out [4]draw.Point
	for i, p := range raw {
		out[i].X, out[i].Y = physics.RotatePoint(p.X, p.Y, cx, cy, b.Rotation)
	}
	return out
}

// Draw renders the ball as a filled polygon.
func (b Ball) Draw(ctx DrawContext) error {
	corners := b.Corners()
	points := ctx.Canvas.BorrowPoints(len(corners))
	copy(points, corners[:])
	ctx.Canvas.DrawPolygon(points, true)
	return nil
}
