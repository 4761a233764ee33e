// Package object holds the drawable pieces of a Pong frame.
package object

import (
	"io"

	"github.com/tomz197/pong/internal/draw"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
	Writer io.Writer    // Direct terminal output for text
}

// Object is anything that can put itself on a frame.
type Object interface {
	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}
