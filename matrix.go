package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hugomf/coderain/internal/config"
	"github.com/hugomf/coderain/internal/rain"
	"github.com/hugomf/coderain/internal/render"
	"github.com/hugomf/coderain/internal/term"
)

// pollTimeout bounds the wait for input and sets the minimum frame period.
const pollTimeout = 50 * time.Millisecond

// MatrixRain holds the components of the rain animation.
type MatrixRain struct {
	cfg      *config.Config
	terminal term.Terminal
	random   *rand.Rand
	now      func() time.Time
	rain     *rain.Rain // nil while the terminal is too small
}

// NewMatrixRain creates the animation for the terminal's current size.
func NewMatrixRain(cfg *config.Config, terminal term.Terminal, random *rand.Rand) *MatrixRain {
	return &MatrixRain{
		cfg:      cfg,
		terminal: terminal,
		random:   random,
		now:      time.Now,
	}
}

// rebuild replaces the rain with a fresh one sized for a cols x rows terminal.
func (m *MatrixRain) rebuild(cols, rows int) error {
	width, height := render.FieldSize(m.cfg.Direction, cols, rows, m.cfg.Pool.Width())
	var (
		r   *rain.Rain
		err error
	)
	if m.rain != nil {
		r, err = m.rain.Resize(width, height, m.now())
	} else {
		r, err = rain.New(width, height, m.cfg.Engine(), m.random, m.now())
	}
	if errors.Is(err, rain.ErrFieldTooShort) {
		if m.cfg.Debug {
			log.Printf("Terminal %dx%d too small, waiting for resize", cols, rows)
		}
		m.rain = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to build rain: %w", err)
	}
	m.rain = r
	return nil
}

// Run starts the animation and returns when a quit key is pressed or ctx is
// cancelled.
func (m *MatrixRain) Run(ctx context.Context) error {
	if err := m.terminal.Setup(); err != nil {
		return fmt.Errorf("failed to set up terminal: %w", err)
	}
	defer m.terminal.Restore()

	cols, rows, err := m.terminal.Size()
	if err != nil {
		return fmt.Errorf("cannot get terminal size: %w", err)
	}
	if err := m.rebuild(cols, rows); err != nil {
		return err
	}

	for ctx.Err() == nil {
		ev, err := m.terminal.PollEvent(pollTimeout)
		if err != nil {
			return fmt.Errorf("failed to poll terminal: %w", err)
		}
		switch ev.Kind {
		case term.Quit:
			return nil
		case term.Resize:
			m.terminal.Clear()
			if err := m.rebuild(ev.Width, ev.Height); err != nil {
				return err
			}
		}

		if m.rain == nil {
			continue
		}
		// Draw the state left by the previous step, then advance.
		if err := m.terminal.Draw(render.Render(m.rain, m.cfg.Direction)); err != nil {
			return err
		}
		m.rain.AdvanceFrame(m.now())
	}
	return nil
}
