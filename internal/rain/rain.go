// Package rain implements the column animation engine: per-column timing,
// glyph cycling, trail erasure and reset.
package rain

import (
	"errors"
	"log"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/hugomf/coderain/internal/gradient"
)

// Blank marks an empty cell in a column's glyph buffer.
const Blank rune = 0

// Fallback replaces sampled code points that are not valid runes.
const Fallback = '#'

const (
	minTrail    = 4
	trailMargin = 10
)

var (
	// ErrFieldTooShort is returned when the fall axis leaves no room for a trail.
	ErrFieldTooShort = errors.New("rain: field too short for a trail")
	// ErrEmptyPool is returned when the symbol pool has no glyphs.
	ErrEmptyPool = errors.New("rain: symbol pool is empty")
	// ErrCellWidth is returned when the symbol pool's width is not 1 or 2.
	ErrCellWidth = errors.New("rain: symbol width must be 1 or 2")
)

// SymbolPool is the set of glyphs columns sample from.
type SymbolPool interface {
	Len() int
	At(i int) rune
	Width() int
}

// Config holds everything the engine needs besides the field size.
type Config struct {
	Pool    SymbolPool
	Base    gradient.Color
	Head    gradient.Color
	Mode    gradient.Mode
	Fastest time.Duration // shortest delay between advances, inclusive
	Slowest time.Duration // longest delay between advances, exclusive
	Debug   bool
}

// Column is the state of one independently timed slot of falling glyphs.
type Column struct {
	Glyphs   []rune
	Head     int // next index to write; the newest glyph sits at Head-1
	Trail    int
	Deadline time.Time
	Delay    time.Duration
	Gradient []gradient.Color
}

// Lead returns the index of the newest glyph.
func (c *Column) Lead() int { return c.Head - 1 }

// Rain owns all columns of one field. Width and height are fixed for the
// lifetime of the instance; a resize builds a new one.
type Rain struct {
	columns []Column
	width   int
	height  int
	cfg     Config
	random  *rand.Rand
}

// New creates width/cellWidth columns of the given height, each with its own
// randomized trail length and speed. Every column is due immediately.
func New(width, height int, cfg Config, random *rand.Rand, now time.Time) (*Rain, error) {
	if cfg.Pool == nil || cfg.Pool.Len() == 0 {
		return nil, ErrEmptyPool
	}
	if w := cfg.Pool.Width(); w != 1 && w != 2 {
		return nil, ErrCellWidth
	}
	if height-trailMargin <= minTrail {
		return nil, ErrFieldTooShort
	}
	if width < 0 {
		width = 0
	}

	r := &Rain{
		width:  width,
		height: height,
		cfg:    cfg,
		random: random,
	}
	r.columns = make([]Column, width/cfg.Pool.Width())
	for i := range r.columns {
		c := &r.columns[i]
		c.Glyphs = make([]rune, height)
		c.Trail = r.sampleTrail()
		c.Delay = r.sampleDelay()
		c.Gradient = r.cfg.Mode.Generate(r.cfg.Base, r.cfg.Head, c.Trail)
		c.Deadline = now
	}
	if cfg.Debug {
		log.Printf("Built rain field %dx%d with %d columns", width, height, len(r.columns))
	}
	return r, nil
}

// Resize discards all column state and builds a fresh field with the same
// configuration and random source.
func (r *Rain) Resize(width, height int, now time.Time) (*Rain, error) {
	return New(width, height, r.cfg, r.random, now)
}

// Width returns the field width in terminal cells.
func (r *Rain) Width() int { return r.width }

// Height returns the field length along the fall axis.
func (r *Rain) Height() int { return r.height }

// CellWidth returns the number of terminal cells each glyph occupies.
func (r *Rain) CellWidth() int { return r.cfg.Pool.Width() }

// Columns returns the column state. Callers must not modify it.
func (r *Rain) Columns() []Column { return r.columns }

// AdvanceFrame moves every due column forward by exactly one step.
func (r *Rain) AdvanceFrame(now time.Time) {
	for i := range r.columns {
		c := &r.columns[i]
		if now.Before(c.Deadline) {
			continue
		}
		if c.Head < r.height {
			r.insertAtHead(c)
		}
		if r.tailInField(c) {
			c.Glyphs[c.Head-c.Trail-1] = Blank
		}
		if c.Head-c.Trail > r.height {
			r.reset(c, now)
		}
		c.Deadline = c.Deadline.Add(c.Delay)
		c.Head++
	}
}

// insertAtHead drops the last cell and inserts a new glyph at the head,
// keeping the buffer length constant.
func (r *Rain) insertAtHead(c *Column) {
	copy(c.Glyphs[c.Head+1:], c.Glyphs[c.Head:len(c.Glyphs)-1])
	c.Glyphs[c.Head] = r.sample()
}

// tailInField reports whether the cell just behind the visible trail lies on
// screen.
func (r *Rain) tailInField(c *Column) bool {
	return c.Head > c.Trail && c.Head-c.Trail-1 < r.height
}

func (r *Rain) reset(c *Column, now time.Time) {
	c.Trail = r.sampleTrail()
	c.Delay = r.sampleDelay()
	c.Gradient = r.cfg.Mode.Generate(r.cfg.Base, r.cfg.Head, c.Trail)
	c.Head = 0
	c.Deadline = now
	if r.cfg.Debug {
		log.Printf("Reset column with trail %d and delay %s", c.Trail, c.Delay)
	}
}

func (r *Rain) sample() rune {
	ch := r.cfg.Pool.At(r.random.Intn(r.cfg.Pool.Len()))
	if !utf8.ValidRune(ch) {
		return Fallback
	}
	return ch
}

// sampleTrail returns a length in [minTrail, height-trailMargin).
func (r *Rain) sampleTrail() int {
	return minTrail + r.random.Intn(r.height-trailMargin-minTrail)
}

// sampleDelay returns a delay in [Fastest, Slowest).
func (r *Rain) sampleDelay() time.Duration {
	span := r.cfg.Slowest - r.cfg.Fastest
	if span <= 0 {
		return r.cfg.Fastest
	}
	return r.cfg.Fastest + time.Duration(r.random.Int63n(int64(span)))
}
