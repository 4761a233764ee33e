package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canvas is a half-block pixel buffer: every terminal cell holds two
// vertically stacked pixels. Shapes are given in field units and scaled to
// the cell grid. Render only emits cells that changed since the last call.
type Canvas struct {
	cols, rows int
	pixels     []bool // cols x (rows*2), row-major
	prev       []rune // glyph last sent per cell; 0 means unknown
	dirtyAll   bool

	fieldW, fieldH float64
	sx, sy         float64 // pixels per field unit

	// 0-based cells skipped on the left and top when the play area is centered
	offCol, offRow int

	out    []byte
	points []Point
	xs     []float64
}

// NewScaledCanvas creates a canvas of cols x rows cells showing a field of
// fieldW x fieldH units.
func NewScaledCanvas(cols, rows int, fieldW, fieldH float64) *Canvas {
	c := &Canvas{fieldW: fieldW, fieldH: fieldH}
	c.allocate(cols, rows)
	return c
}

func (c *Canvas) allocate(cols, rows int) {
	c.cols = max(cols, 0)
	c.rows = max(rows, 0)
	c.pixels = make([]bool, c.cols*c.rows*2)
	c.prev = make([]rune, c.cols*c.rows)
	c.sx = float64(c.cols) / c.fieldW
	c.sy = float64(c.rows*2) / c.fieldH
}

// Resize changes the cell grid; the field size stays.
func (c *Canvas) Resize(cols, rows int) {
	if cols == c.cols && rows == c.rows {
		return
	}
	c.allocate(cols, rows)
}

// SetOffset sets how many columns and rows precede the canvas on screen.
func (c *Canvas) SetOffset(col, row int) {
	c.offCol, c.offRow = col, row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offRow }

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int { return c.rows }

// Clear unsets every pixel. The previous frame is kept for diffing.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.dirtyAll = true
}

// MarkTextDirty records that text was written over n cells starting at the
// 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	if row < 1 || row > c.rows {
		return
	}
	base := (row - 1) * c.cols
	for x := max(col-1, 0); x < min(col-1+n, c.cols); x++ {
		c.prev[base+x] = 0
	}
}

// toPixel maps field units to the nearest pixel.
func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.sx)), int(math.Round(y * c.sy))
}

func (c *Canvas) plot(px, py int) {
	if px < 0 || py < 0 || px >= c.cols || py >= c.rows*2 {
		return
	}
	c.pixels[py*c.cols+px] = true
}

// SetFloat sets the pixel nearest to a field position.
func (c *Canvas) SetFloat(x, y float64) {
	c.plot(c.toPixel(x, y))
}

// FillRect fills an axis-aligned rectangle given in field units. A
// rectangle with positive size always covers at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := c.toPixel(x, y)
	x1, y1 := c.toPixel(x+w, y+h)
	x1 = max(x1, x0+1)
	y1 = max(y1, y0+1)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.plot(px, py)
		}
	}
}

// DrawLine plots a line between two field positions, endpoints included.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x0, y0 := c.toPixel(p1.X, p1.Y)
	x1, y1 := c.toPixel(p2.X, p2.Y)
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		c.plot(x0, y0)
		return
	}
	fx := float64(x1-x0) / float64(steps)
	fy := float64(y1-y0) / float64(steps)
	for i := 0; i <= steps; i++ {
		c.plot(x0+int(math.Round(fx*float64(i))), y0+int(math.Round(fy*float64(i))))
	}
}

// DrawDashedLine draws a straight line from p1 to p2 as dashes of length
// dash separated by gap, all in field units.
func (c *Canvas) DrawDashedLine(p1, p2 Point, dash, gap float64) {
	length := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	if length == 0 {
		c.SetFloat(p1.X, p1.Y)
		return
	}
	along := func(d float64) Point {
		t := d / length
		return Point{X: p1.X + (p2.X-p1.X)*t, Y: p1.Y + (p2.Y-p1.Y)*t}
	}
	for _, seg := range DashSegments(length, dash, gap) {
		c.DrawLine(along(seg[0]), along(seg[1]))
	}
}

// DrawPolygon outlines a closed polygon and optionally fills it.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	n := len(points)
	if n < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// fill paints the interior of a polygon with the even-odd rule, sampling
// each pixel row through its middle.
func (c *Canvas) fill(points []Point) {
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		top = math.Min(top, p.Y*c.sy)
		bottom = math.Max(bottom, p.Y*c.sy)
	}

	for py := int(math.Floor(top)); py <= int(math.Ceil(bottom)); py++ {
		c.xs = crossings(c.xs[:0], points, c.sx, c.sy, float64(py)+0.5)
		sort.Float64s(c.xs)
		for i := 0; i+1 < len(c.xs); i += 2 {
			for px := int(math.Ceil(c.xs[i])); px <= int(math.Floor(c.xs[i+1])); px++ {
				c.plot(px, py)
			}
		}
	}
}

// crossings appends the pixel x of every polygon edge crossing the
// horizontal line y (in pixels) to dst.
func crossings(dst []float64, points []Point, sx, sy, y float64) []float64 {
	n := len(points)
	for i := range points {
		ax, ay := points[i].X*sx, points[i].Y*sy
		bx, by := points[(i+1)%n].X*sx, points[(i+1)%n].Y*sy
		if (ay <= y) == (by <= y) {
			continue
		}
		dst = append(dst, ax+(y-ay)/(by-ay)*(bx-ax))
	}
	return dst
}

// glyph returns the half-block character for a cell.
func (c *Canvas) glyph(col, row int) rune {
	top := c.pixels[row*2*c.cols+col]
	bottom := c.pixels[(row*2+1)*c.cols+col]
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

// appendMove appends an absolute cursor move to buf.
func appendMove(buf []byte, row, col int) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

// Render writes every cell whose glyph differs from the previous Render.
func (c *Canvas) Render(w io.Writer) {
	c.out = c.out[:0]
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			g := c.glyph(col, row)
			i := row*c.cols + col
			if c.prev[i] == g && !c.dirtyAll {
				continue
			}
			c.prev[i] = g
			c.out = appendMove(c.out, row+1+c.offRow, col+1+c.offCol)
			c.out = append(c.out, string(g)...)
		}
	}
	c.dirtyAll = false
	_ = writeChunked(w, c.out)
}

// RenderBorder frames the canvas when the terminal has spare room around
// it: horizontal rules need a spare row, vertical rules a spare column.
func (c *Canvas) RenderBorder(w io.Writer) {
	sides := c.offCol >= 1
	rules := c.offRow >= 1
	if !sides && !rules {
		return
	}

	left, right := c.offCol, c.offCol+c.cols+1
	top, bottom := c.offRow, c.offRow+c.rows+1
	bar := strings.Repeat("─", c.cols)

	var buf []byte
	if rules {
		open, closeTop, openBottom, closeBottom := "", "", "", ""
		col := c.offCol + 1
		if sides {
			open, closeTop, openBottom, closeBottom = "┌", "┐", "└", "┘"
			col = left
		}
		buf = appendMove(buf, top, col)
		buf = append(buf, open+bar+closeTop...)
		buf = appendMove(buf, bottom, col)
		buf = append(buf, openBottom+bar+closeBottom...)
	}
	if sides {
		for row := c.offRow + 1; row <= c.offRow+c.rows; row++ {
			buf = appendMove(buf, row, left)
			buf = append(buf, "│"...)
			buf = appendMove(buf, row, right)
			buf = append(buf, "│"...)
		}
	}
	_ = writeChunked(w, buf)
}

// LogicalToTerminal converts field units to a 1-based canvas position
// (col, row). The centering offset is not included; ChunkWriter applies it.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

// TerminalToLogical converts an absolute 1-based terminal cell, as reported
// by mouse events, to field units. It is the inverse of LogicalToTerminal
// once the centering offset is removed.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	if c.sx == 0 || c.sy == 0 {
		return 0, 0
	}
	return float64(col-1-c.offCol) / c.sx, float64((row-1-c.offRow)*2) / c.sy
}

// BorrowPoints returns a reusable slice of n Points, valid until the next
// call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.points) < n {
		c.points = make([]Point, n)
	}
	return c.points[:n]
}
