// Package input decodes raw terminal bytes into per-frame key and pointer state.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Pointer is the last mouse position reported by the terminal, in 1-based
// terminal cells.
type Pointer struct {
	Col   int
	Row   int
	Valid bool // false when no mouse report arrived this frame
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Escape  bool
	Pointer Pointer
	Pressed []byte
	Closed  bool // the underlying reader is gone
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	up     time.Time
	down   time.Time
	space  time.Time
	enter  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // incomplete escape sequence carried to the next frame
	escWait bool   // pending is a lone ESC that already waited one frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports.
// Uses key state persistence so held keys survive between repeats.
func ReadInput(s *Stream) Input {
	now := time.Now()
	buf := append([]byte(nil), s.pending...)
	s.pending = s.pending[:0]
	waited := s.escWait
	s.escWait = false

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var ptr Pointer
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// A trailing ESC may start a sequence split across reads. It becomes
		// the Escape key once a frame passes with nothing after it.
		if b == '\x1b' && i == len(buf)-1 && !s.closed && !(waited && len(buf) == 1) {
			s.pending = append(s.pending, b)
			s.escWait = true
			break
		}

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			if i+2 >= len(buf) {
				s.pending = append(s.pending, buf[i:]...)
				break
			}
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.up = now
				i += 2
				continue
			case 'B': // Down arrow
				s.state.down = now
				i += 2
				continue
			case 'C', 'D': // Left/right arrows are unused
				i += 2
				continue
			case '<':
				p, n, complete := parseSGRMouse(buf[i:])
				if !complete {
					s.pending = append(s.pending, buf[i:]...)
					i = len(buf)
					continue
				}
				if n > 0 {
					ptr = p
					i += n - 1
					continue
				}
			}
		}

		applyByteToState(&s.state, b, now)
	}

	// Bytes of an unfinished sequence are not reported as pressed yet.
	pressed := buf[:len(buf)-len(s.pending)]
	if s.closed {
		s.pending = s.pending[:0]
	}

	return Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Up:      now.Sub(s.state.up) < keyHoldDuration,
		Down:    now.Sub(s.state.down) < keyHoldDuration,
		Space:   now.Sub(s.state.space) < keyHoldDuration,
		Enter:   now.Sub(s.state.enter) < keyHoldDuration,
		Escape:  now.Sub(s.state.escape) < keyHoldDuration,
		Pointer: ptr,
		Pressed: pressed,
		Closed:  s.closed,
	}
}

// ResetKeyInput forgets all held keys, so a key that started the game is not
// also seen by the next screen.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// parseSGRMouse decodes "ESC [ < b ; col ; row (M|m)" at the start of seq.
// It returns the pointer, the sequence length, and whether the sequence was
// complete. A complete but malformed sequence returns n == 0.
func parseSGRMouse(seq []byte) (p Pointer, n int, complete bool) {
	var fields [3]int
	field := 0
	start := 3
	for j := start; j < len(seq); j++ {
		c := seq[j]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' || c == 'M' || c == 'm':
			if field > 2 {
				return Pointer{}, 0, true
			}
			v, err := strconv.Atoi(string(seq[start:j]))
			if err != nil {
				return Pointer{}, 0, true
			}
			fields[field] = v
			field++
			start = j + 1
			if c != ';' {
				if field != 3 {
					return Pointer{}, 0, true
				}
				return Pointer{Col: fields[1], Row: fields[2], Valid: true}, j + 1, true
			}
		default:
			return Pointer{}, 0, true
		}
	}
	return Pointer{}, 0, false
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'w', 'W', 'i', 'I', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	}
}

// Target is a vertical pointer target in field units. A pointer move
// replaces it; held keys nudge it.
type Target struct {
	Y     float64
	Step  float64 // field units a held key moves Y per frame
	Limit float64 // Y stays within [0, Limit]
}

// Steer folds one frame of input into the target. pointerY is only used
// when moved is true, so a resting pointer does not undo key nudges.
func (t *Target) Steer(pointerY float64, moved, up, down bool) {
	if moved {
		t.Y = pointerY
	}
	if up {
		t.Y -= t.Step
	}
	if down {
		t.Y += t.Step
	}
	t.Y = min(max(t.Y, 0), t.Limit)
}
