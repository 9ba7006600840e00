// Package term owns the terminal session: raw mode, alternate screen,
// cursor visibility, input and resize events, and frame output.
package term

import (
	"time"

	"github.com/hugomf/coderain/internal/render"
)

// EventKind identifies what a poll produced.
type EventKind int

const (
	// None means the poll timed out or read input that is not a command.
	None EventKind = iota
	// Quit is produced by Ctrl-C or Escape.
	Quit
	// Resize carries the new terminal size.
	Resize
)

// Event is the result of one bounded poll.
type Event struct {
	Kind   EventKind
	Width  int
	Height int
}

// Terminal defines operations for interacting with the terminal.
type Terminal interface {
	Setup() error                                   // Enter raw mode and the alternate screen, hide the cursor
	Restore()                                       // Restore the terminal to its original state
	Size() (width, height int, err error)           // Terminal size in cells
	PollEvent(timeout time.Duration) (Event, error) // Wait at most timeout for one event
	Clear()                                         // Blank the screen
	Draw(f *render.Frame) error                     // Write one frame at the origin
}

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// decodeKeys maps a chunk of raw stdin bytes to an event kind. A lone ESC
// is the Escape key; ESC followed by '[' or 'O' starts an escape sequence
// (arrows, function keys) and is ignored.
func decodeKeys(b []byte) EventKind {
	for i, c := range b {
		switch c {
		case keyCtrlC:
			return Quit
		case keyEsc:
			if i+1 >= len(b) || (b[i+1] != '[' && b[i+1] != 'O') {
				return Quit
			}
		}
	}
	return None
}
