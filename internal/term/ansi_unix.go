//go:build unix

package term

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"

	"github.com/hugomf/coderain/internal/render"
)

// ANSI drives an xterm-compatible terminal directly: raw mode through
// x/term, screen control through termenv, and one escape-coded text blob
// per frame.
type ANSI struct {
	inFd     int
	outFd    int
	output   *termenv.Output
	profile  termenv.Profile
	oldState *xterm.State
	winch    chan os.Signal
	buf      []byte
}

// NewANSI creates an ANSI terminal reading keys from in and drawing to out.
func NewANSI(in, out *os.File) *ANSI {
	output := termenv.NewOutput(out)
	return &ANSI{
		inFd:    int(in.Fd()),
		outFd:   int(out.Fd()),
		output:  output,
		profile: output.EnvColorProfile(),
		winch:   make(chan os.Signal, 1),
		buf:     make([]byte, 256),
	}
}

// Setup enters raw mode and the alternate screen and hides the cursor.
func (a *ANSI) Setup() error {
	if !xterm.IsTerminal(a.inFd) {
		return errors.New("stdin is not a terminal")
	}
	old, err := xterm.MakeRaw(a.inFd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	a.oldState = old
	signal.Notify(a.winch, syscall.SIGWINCH)
	a.output.AltScreen()
	a.output.HideCursor()
	a.output.ClearScreen()
	return nil
}

// Restore shows the cursor, leaves the alternate screen and restores the
// original terminal mode.
func (a *ANSI) Restore() {
	signal.Stop(a.winch)
	a.output.ShowCursor()
	a.output.ExitAltScreen()
	if a.oldState != nil {
		xterm.Restore(a.inFd, a.oldState)
		a.oldState = nil
	}
}

// Size returns the terminal's width and height in cells.
func (a *ANSI) Size() (int, int, error) {
	w, h, err := xterm.GetSize(a.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("invalid terminal dimensions")
	}
	return w, h, nil
}

// PollEvent waits at most timeout for a key press or a resize.
func (a *ANSI) PollEvent(timeout time.Duration) (Event, error) {
	if ev, ok := a.pendingResize(); ok {
		return ev, nil
	}

	fds := []unix.PollFd{{Fd: int32(a.inFd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			// SIGWINCH interrupts the poll
			if ev, ok := a.pendingResize(); ok {
				return ev, nil
			}
			return Event{}, nil
		}
		return Event{}, fmt.Errorf("poll stdin: %w", err)
	}
	if n == 0 {
		return Event{}, nil
	}

	rn, err := unix.Read(a.inFd, a.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return Event{}, nil
		}
		return Event{}, fmt.Errorf("read stdin: %w", err)
	}
	if rn == 0 {
		// EOF: nothing can ever ask us to stop otherwise
		return Event{Kind: Quit}, nil
	}
	return Event{Kind: decodeKeys(a.buf[:rn])}, nil
}

func (a *ANSI) pendingResize() (Event, bool) {
	select {
	case <-a.winch:
		w, h, err := a.Size()
		if err != nil {
			return Event{}, false
		}
		return Event{Kind: Resize, Width: w, Height: h}, true
	default:
		return Event{}, false
	}
}

// Clear blanks the screen.
func (a *ANSI) Clear() {
	a.output.ClearScreen()
}

// Draw moves the cursor to the origin and writes the encoded frame.
func (a *ANSI) Draw(f *render.Frame) error {
	a.output.MoveCursor(1, 1)
	if _, err := a.output.WriteString(render.Encode(f, a.profile)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
