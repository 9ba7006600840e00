package rain

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/hugomf/coderain/internal/gradient"
)

type runePool struct {
	runes []rune
	width int
}

func (p runePool) Len() int      { return len(p.runes) }
func (p runePool) At(i int) rune { return p.runes[i] }
func (p runePool) Width() int    { return p.width }

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig(pool SymbolPool) Config {
	return Config{
		Pool:    pool,
		Base:    gradient.Color{R: 0, G: 255, B: 0},
		Head:    gradient.Color{R: 255, G: 255, B: 255},
		Mode:    gradient.Shaded,
		Fastest: 40 * time.Millisecond,
		Slowest: 200 * time.Millisecond,
	}
}

func newTestRain(t *testing.T, width, height int, pool SymbolPool) *Rain {
	t.Helper()
	r, err := New(width, height, testConfig(pool), rand.New(rand.NewSource(1)), epoch)
	if err != nil {
		t.Fatalf("New(%d, %d) error = %v", width, height, err)
	}
	return r
}

// pinColumn fixes a column's trail and delay for deterministic scenarios.
func pinColumn(r *Rain, i, trail int, delay time.Duration) {
	c := &r.columns[i]
	c.Trail = trail
	c.Delay = delay
	c.Gradient = r.cfg.Mode.Generate(r.cfg.Base, r.cfg.Head, trail)
}

func TestNewColumns(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		cellWidth int
		want      int
	}{
		{"single width", 80, 1, 80},
		{"double width", 80, 2, 40},
		{"odd width double", 81, 2, 40},
		{"zero width", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRain(t, tt.width, 24, runePool{[]rune("01"), tt.cellWidth})
			if got := len(r.Columns()); got != tt.want {
				t.Fatalf("columns = %d, want %d", got, tt.want)
			}
			for i, c := range r.Columns() {
				if len(c.Glyphs) != 24 {
					t.Errorf("column %d: len(Glyphs) = %d, want 24", i, len(c.Glyphs))
				}
				for _, g := range c.Glyphs {
					if g != Blank {
						t.Fatalf("column %d: new buffer holds %q", i, g)
					}
				}
				if c.Trail < 4 || c.Trail >= 14 {
					t.Errorf("column %d: Trail = %d, want [4, 14)", i, c.Trail)
				}
				if c.Delay < 40*time.Millisecond || c.Delay >= 200*time.Millisecond {
					t.Errorf("column %d: Delay = %s, want [40ms, 200ms)", i, c.Delay)
				}
				if len(c.Gradient) != c.Trail+1 {
					t.Errorf("column %d: len(Gradient) = %d, want %d", i, len(c.Gradient), c.Trail+1)
				}
				if c.Head != 0 || !c.Deadline.Equal(epoch) {
					t.Errorf("column %d: Head=%d Deadline=%v", i, c.Head, c.Deadline)
				}
			}
		})
	}
}

func TestNewRejectsDegenerateInput(t *testing.T) {
	cfg := testConfig(runePool{[]rune("01"), 1})
	random := rand.New(rand.NewSource(1))

	for _, h := range []int{0, 5, 10, 14} {
		if _, err := New(80, h, cfg, random, epoch); !errors.Is(err, ErrFieldTooShort) {
			t.Errorf("New(height %d) error = %v, want ErrFieldTooShort", h, err)
		}
	}
	if _, err := New(80, 15, cfg, random, epoch); err != nil {
		t.Errorf("New(height 15) error = %v", err)
	}

	cfg.Pool = runePool{nil, 1}
	if _, err := New(80, 24, cfg, random, epoch); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("New(empty pool) error = %v, want ErrEmptyPool", err)
	}

	for _, w := range []int{0, -1, 3} {
		cfg.Pool = runePool{[]rune("01"), w}
		if _, err := New(80, 24, cfg, random, epoch); !errors.Is(err, ErrCellWidth) {
			t.Errorf("New(width %d pool) error = %v, want ErrCellWidth", w, err)
		}
	}
}

func TestAdvanceFrameKeepsBufferLength(t *testing.T) {
	r := newTestRain(t, 30, 24, runePool{[]rune("abc"), 1})
	now := epoch
	for tick := 0; tick < 500; tick++ {
		r.AdvanceFrame(now)
		for i, c := range r.Columns() {
			if len(c.Glyphs) != 24 {
				t.Fatalf("tick %d column %d: len(Glyphs) = %d", tick, i, len(c.Glyphs))
			}
			if len(c.Gradient) != c.Trail+1 {
				t.Fatalf("tick %d column %d: len(Gradient) = %d, Trail = %d", tick, i, len(c.Gradient), c.Trail)
			}
			if c.Head < 0 {
				t.Fatalf("tick %d column %d: Head = %d", tick, i, c.Head)
			}
		}
		now = now.Add(25 * time.Millisecond)
	}
}

func TestAdvanceFrameRespectsDeadline(t *testing.T) {
	r := newTestRain(t, 1, 20, runePool{[]rune("01"), 1})
	pinColumn(r, 0, 5, 100*time.Millisecond)

	r.AdvanceFrame(epoch)
	if r.columns[0].Head != 1 {
		t.Fatalf("Head = %d after first due tick, want 1", r.columns[0].Head)
	}
	r.AdvanceFrame(epoch.Add(50 * time.Millisecond))
	if r.columns[0].Head != 1 {
		t.Errorf("Head = %d before deadline, want 1", r.columns[0].Head)
	}
	r.AdvanceFrame(epoch.Add(100 * time.Millisecond))
	if r.columns[0].Head != 2 {
		t.Errorf("Head = %d at deadline, want 2", r.columns[0].Head)
	}
}

func TestAdvanceFrameNoBatching(t *testing.T) {
	r := newTestRain(t, 1, 20, runePool{[]rune("01"), 1})
	pinColumn(r, 0, 5, 10*time.Millisecond)

	// Overdue by many delays: one step per call, deadline moves by one delay.
	late := epoch.Add(time.Second)
	r.AdvanceFrame(late)
	c := r.columns[0]
	if c.Head != 1 {
		t.Errorf("Head = %d, want 1", c.Head)
	}
	if want := epoch.Add(10 * time.Millisecond); !c.Deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", c.Deadline, want)
	}
	r.AdvanceFrame(late)
	if r.columns[0].Head != 2 {
		t.Errorf("Head = %d after catch-up call, want 2", r.columns[0].Head)
	}
}

func TestFirstResetTick(t *testing.T) {
	const (
		height = 20
		trail  = 5
		delay  = 10 * time.Millisecond
	)
	r := newTestRain(t, 1, height, runePool{[]rune("01"), 1})
	pinColumn(r, 0, trail, delay)

	now := epoch
	resetTick := -1
	for tick := 0; tick < 40 && resetTick < 0; tick++ {
		before := r.columns[0].Head
		r.AdvanceFrame(now)
		if r.columns[0].Head < before {
			resetTick = tick
		}
		if tick == 24 && r.columns[0].Head != 25 {
			t.Fatalf("Head = %d after 25 ticks, want 25", r.columns[0].Head)
		}
		now = now.Add(delay)
	}

	// Head reaches 26 after tick 25; 26-5 > 20 fires on tick 26.
	if resetTick != 26 {
		t.Fatalf("first reset on tick %d, want 26", resetTick)
	}
	c := r.columns[0]
	if c.Head != 1 {
		t.Errorf("Head after reset tick = %d, want 1", c.Head)
	}
	if c.Trail < 4 || c.Trail >= height-10 {
		t.Errorf("Trail after reset = %d, want [4, %d)", c.Trail, height-10)
	}
	if len(c.Gradient) != c.Trail+1 {
		t.Errorf("len(Gradient) = %d, want %d", len(c.Gradient), c.Trail+1)
	}
	for i, g := range c.Glyphs {
		if g != Blank {
			t.Errorf("stale glyph %q at %d after full pass", g, i)
		}
	}
}

func TestTrailErasure(t *testing.T) {
	r := newTestRain(t, 1, 20, runePool{[]rune("x"), 1})
	pinColumn(r, 0, 5, 0)

	for tick := 0; tick < 15; tick++ {
		r.AdvanceFrame(epoch)
		c := r.columns[0]
		lead := c.Lead()
		for i, g := range c.Glyphs {
			visible := i <= lead && i >= lead-c.Trail
			if visible && g != 'x' {
				t.Fatalf("tick %d: cell %d blank inside trail (lead %d)", tick, i, lead)
			}
			if !visible && g != Blank {
				t.Fatalf("tick %d: cell %d = %q outside trail (lead %d)", tick, i, g, lead)
			}
		}
	}
}

func TestSamplingStaysInPool(t *testing.T) {
	r := newTestRain(t, 1, 20, runePool{[]rune("01"), 1})
	pinColumn(r, 0, 5, 0)

	seen := map[rune]int{}
	for tick := 0; tick < 100; tick++ {
		r.AdvanceFrame(epoch)
		for _, g := range r.columns[0].Glyphs {
			if g != Blank {
				seen[g]++
			}
		}
	}
	for g := range seen {
		if g != '0' && g != '1' {
			t.Errorf("sampled %q outside pool", g)
		}
	}
	if seen[Fallback] != 0 {
		t.Errorf("fallback glyph appeared %d times", seen[Fallback])
	}
}

func TestSamplingFallback(t *testing.T) {
	r := newTestRain(t, 1, 20, runePool{[]rune{0xD800}, 1})
	pinColumn(r, 0, 5, 0)
	r.AdvanceFrame(epoch)
	if g := r.columns[0].Glyphs[0]; g != Fallback {
		t.Errorf("invalid code point sampled as %q, want %q", g, Fallback)
	}
}

func TestResize(t *testing.T) {
	r := newTestRain(t, 80, 24, runePool{[]rune("01"), 1})
	now := epoch
	for i := 0; i < 50; i++ {
		r.AdvanceFrame(now)
		now = now.Add(50 * time.Millisecond)
	}

	for _, cw := range []int{1, 2} {
		r.cfg.Pool = runePool{[]rune("01"), cw}
		resized, err := r.Resize(40, 22, now)
		if err != nil {
			t.Fatalf("Resize() error = %v", err)
		}
		if got, want := len(resized.Columns()), 40/cw; got != want {
			t.Errorf("columns = %d, want %d", got, want)
		}
		for i, c := range resized.Columns() {
			if c.Head != 0 {
				t.Errorf("column %d: Head = %d, want 0", i, c.Head)
			}
			if len(c.Glyphs) != 22 {
				t.Errorf("column %d: len(Glyphs) = %d, want 22", i, len(c.Glyphs))
			}
		}
	}

	if _, err := r.Resize(40, 12, now); !errors.Is(err, ErrFieldTooShort) {
		t.Errorf("Resize(40, 12) error = %v, want ErrFieldTooShort", err)
	}
}
