// Package draw renders to ANSI terminals using a half-block sub-pixel canvas.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI colors used by overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorBrightCyan = "\033[96m"
	ColorDim        = "\033[2m"
)

// DashSegments splits a line of the given length into dash intervals
// [start, end], alternating dash units drawn and gap units skipped.
// It returns nil for non-positive dash lengths.
func DashSegments(length, dash, gap float64) [][2]float64 {
	if dash <= 0 || length <= 0 {
		return nil
	}
	if gap < 0 {
		gap = 0
	}
	var segs [][2]float64
	for pos := 0.0; pos < length; pos += dash + gap {
		end := pos + dash
		if end > length {
			end = length
		}
		segs = append(segs, [2]float64{pos, end})
	}
	return segs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
