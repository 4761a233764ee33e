package object

import (
	"strconv"

	"github.com/tomz197/pong/internal/draw"
)

// Center line dash pattern, in field units.
const (
	CenterDash = 5.0
	CenterGap  = 15.0
)

// ScoreY is the top of the score digits, in field units.
const ScoreY = 50.0

// CenterLine is the dashed vertical line splitting the field.
type CenterLine struct {
	X      float64
	Height float64
}

// Draw draws the dashed line from top to bottom.
func (l CenterLine) Draw(ctx DrawContext) error {
	ctx.Canvas.DrawDashedLine(
		draw.Point{X: l.X, Y: 0},
		draw.Point{X: l.X, Y: l.Height},
		CenterDash, CenterGap,
	)
	return nil
}

// Score is one side's score, centered over its half of the field.
type Score struct {
	X     float64
	Value int
}

// Draw writes the score digits.
func (s Score) Draw(ctx DrawContext) error {
	return Text{X: s.X, Y: ScoreY, Value: strconv.Itoa(s.Value)}.Draw(ctx)
}
