//go:build !unix

package term

import (
	"errors"
	"os"
	"time"

	"github.com/hugomf/coderain/internal/render"
)

var errNoANSI = errors.New("the ansi backend needs a unix terminal; use --backend tcell")

// ANSI is unavailable on this platform.
type ANSI struct{}

// NewANSI returns a terminal whose Setup always fails.
func NewANSI(in, out *os.File) *ANSI { return &ANSI{} }

func (a *ANSI) Setup() error { return errNoANSI }
func (a *ANSI) Restore() {}
func (a *ANSI) Size() (int, int, error) { return 0, 0, errNoANSI }
func (a *ANSI) PollEvent(time.Duration) (Event, error) { return Event{}, errNoANSI }
func (a *ANSI) Clear() {}
func (a *ANSI) Draw(*render.Frame) error { return errNoANSI }
