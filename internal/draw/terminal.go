package draw

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// maxChunkSize keeps single writes under a typical MTU so frames stream
// smoothly over SSH.
const maxChunkSize = 1400

// writeChunked writes data in pieces of at most maxChunkSize bytes.
func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// ChunkWriter collects one frame of terminal output and sends it in MTU
// sized pieces on Flush. Positions passed to it are 1-based canvas cells;
// the centering offset is added automatically.
type ChunkWriter struct {
	frame  []byte
	dst    *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		dst:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the centering offset, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// MoveCursor positions the cursor on a canvas cell.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame = appendMove(cw.frame, row+cw.offRow, col+cw.offCol)
}

// Write implements io.Writer so Canvas.Render can target the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame = append(cw.frame, s...)
}

// WriteAt writes s starting at a canvas cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.WriteString(s)
}

// Flush sends the frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	err := writeChunked(cw.dst, cw.frame)
	cw.frame = cw.frame[:0]
	if err != nil {
		return err
	}
	return cw.dst.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns the size of the terminal behind os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith returns the terminal size reported by sizeFunc.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	return sizeFunc()
}

// Escape sequences for terminal modes.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqMouseOn    = "\033[?1003h\033[?1006h" // any-motion tracking, SGR coordinates
	seqMouseOff   = "\033[?1003l\033[?1006l"
)

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { _, _ = io.WriteString(w, seqClear) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { _, _ = io.WriteString(w, seqHideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { _, _ = io.WriteString(w, seqShowCursor) }

// EnableMouse turns on pointer reporting even when no button is held.
func EnableMouse(w io.Writer) { _, _ = io.WriteString(w, seqMouseOn) }

// DisableMouse restores normal mouse behaviour.
func DisableMouse(w io.Writer) { _, _ = io.WriteString(w, seqMouseOff) }
