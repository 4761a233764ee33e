package object

import (
	"fmt"
	"unicode/utf8"
)

// Text is a string anchored in field coordinates.
// X is the horizontal center of the string, Y its top.
type Text struct {
	X     float64
	Y     float64
	Value string
}

// Draw converts the anchor to a canvas cell and writes the text there.
// The covered cells are marked dirty so the canvas repaints them once the
// text changes.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" {
		return nil
	}
	col, row := ctx.Canvas.LogicalToTerminal(t.X, t.Y)
	n := utf8.RuneCountInString(t.Value)
	col -= n / 2
	if col < 1 {
		col = 1
	}
	if row < 1 {
		row = 1
	}
	if aw, ok := ctx.Writer.(interface{ WriteAt(col, row int, s string) }); ok {
		aw.WriteAt(col, row, t.Value)
	} else if _, err := fmt.Fprintf(ctx.Writer, "\033[%d;%dH%s", row, col, t.Value); err != nil {
		return err
	}
	ctx.Canvas.MarkTextDirty(col, row, n)
	return nil
}
