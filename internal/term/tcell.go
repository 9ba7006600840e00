package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/hugomf/coderain/internal/rain"
	"github.com/hugomf/coderain/internal/render"
)

// Tcell draws frames through a tcell screen. tcell's PollEvent blocks, so a
// goroutine forwards events to a channel the frame loop can wait on with a
// timeout.
type Tcell struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
}

// NewTcell creates a terminal backed by the default tcell screen.
func NewTcell() (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	return newTcell(screen), nil
}

func newTcell(screen tcell.Screen) *Tcell {
	return &Tcell{
		screen: screen,
		events: make(chan tcell.Event, 16),
		done:   make(chan struct{}),
	}
}

// Setup initializes the screen and starts forwarding events.
func (t *Tcell) Setup() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to init tcell screen: %w", err)
	}
	t.screen.HideCursor()
	t.screen.Clear()
	go t.forward()
	return nil
}

func (t *Tcell) forward() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			// screen finalized
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

// Restore finalizes the screen, which also restores the cursor and leaves
// the alternate screen.
func (t *Tcell) Restore() {
	close(t.done)
	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Tcell) Size() (int, int, error) {
	w, h := t.screen.Size()
	return w, h, nil
}

// PollEvent waits at most timeout for the next relevant event.
func (t *Tcell) PollEvent(timeout time.Duration) (Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-t.events:
		return convertEvent(ev), nil
	case <-timer.C:
		return Event{}, nil
	}
}

// convertEvent maps a tcell event to a frame loop event.
func convertEvent(ev tcell.Event) Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
			return Event{Kind: Quit}
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		return Event{Kind: Resize, Width: w, Height: h}
	}
	return Event{}
}

// Clear blanks the screen.
func (t *Tcell) Clear() {
	t.screen.Clear()
}

// Draw copies the frame into the screen buffer and shows it.
func (t *Tcell) Draw(f *render.Frame) error {
	cw := f.CellWidth
	if cw < 1 {
		cw = 1
	}
	for y, row := range f.Rows {
		for c, cell := range row {
			x := c * cw
			style := tcell.StyleDefault
			if cell.Styled {
				style = style.Foreground(tcell.NewRGBColor(int32(cell.Color.R), int32(cell.Color.G), int32(cell.Color.B)))
			}
			n := 0
			if cell.Glyph != rain.Blank {
				t.screen.SetContent(x, y, cell.Glyph, nil, style)
				n = runewidth.RuneWidth(cell.Glyph)
			}
			for ; n < cw; n++ {
				t.screen.SetContent(x+n, y, ' ', nil, tcell.StyleDefault)
			}
		}
	}
	t.screen.Show()
	return nil
}
