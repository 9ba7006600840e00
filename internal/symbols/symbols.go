// Package symbols holds the glyph sets the rain samples from.
package symbols

import (
	"errors"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Pool is an immutable set of code points together with the number of
// terminal cells each glyph occupies.
type Pool struct {
	name  string
	runes []rune
	width int
}

// NewPool creates a Pool from literal runes. The display width is measured:
// the widest glyph in the set, clamped to 1 or 2.
func NewPool(name string, runes []rune) (*Pool, error) {
	if len(runes) == 0 {
		return nil, errors.New("character set cannot be empty")
	}
	width := 1
	for _, r := range runes {
		if runewidth.RuneWidth(r) >= 2 {
			width = 2
			break
		}
	}
	rs := make([]rune, len(runes))
	copy(rs, runes)
	return &Pool{name: name, runes: rs, width: width}, nil
}

// Name returns the table name, or "custom" for literal sets.
func (p *Pool) Name() string { return p.name }

// Len returns the number of glyphs.
func (p *Pool) Len() int { return len(p.runes) }

// At returns the i-th glyph.
func (p *Pool) At(i int) rune { return p.runes[i] }

// Width returns the display width of the set, 1 or 2.
func (p *Pool) Width() int { return p.width }

// span returns the code points lo..hi inclusive.
func span(lo, hi rune) []rune {
	rs := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		rs = append(rs, r)
	}
	return rs
}

func join(sets ...[]rune) []rune {
	var rs []rune
	for _, s := range sets {
		rs = append(rs, s...)
	}
	return rs
}

var (
	emojis        = span(0x1F600, 0x1F64F)
	clocks        = span(0x1F550, 0x1F567)
	earth         = span(0x1F30D, 0x1F30F)
	moons         = span(0x1F311, 0x1F318)
	plants        = join(span(0x1F331, 0x1F33F), span(0x1F340, 0x1F344))
	shapes        = span(0x1F7E0, 0x1F7EB)
	cards         = join(span(0x1F0A1, 0x1F0AE), span(0x1F0B1, 0x1F0BE), span(0x1F0C1, 0x1F0CE), span(0x1F0D1, 0x1F0DE))
	dominosH      = span(0x1F030, 0x1F061)
	dominosV      = span(0x1F062, 0x1F093)
	numberedBalls = span(0x2460, 0x2473)
	numberedCubes = span(0x1F150, 0x1F169)
	largeLetters  = span(0xFF21, 0xFF3A)
	arrows        = span(0x2190, 0x21FF)
)

// table is a named glyph set with its declared display width. Some sets are
// drawn two cells wide even where runewidth reports a single cell, so the
// width is fixed per table rather than measured.
type table struct {
	runes []rune
	width int
}

// tables maps every named glyph set to its code points and width.
var tables = map[string]table{
	"all":            {join(emojis, clocks, earth, moons, plants, shapes, []rune{0x1F980}), 2},
	"alphalow":       {span('a', 'z'), 1},
	"alphaup":        {span('A', 'Z'), 1},
	"arrow":          {arrows, 2},
	"ascii":          {join(span('A', 'Z'), span('a', 'z'), span('0', '9')), 1},
	"bin":            {[]rune("01"), 1},
	"braille":        {span(0x2801, 0x283F), 1},
	"cards":          {cards, 2},
	"clock":          {clocks, 2},
	"crab":           {[]rune{0x1F980}, 2},
	"cyrillic":       {span(0x0410, 0x044F), 1},
	"dna":            {[]rune("ATCG"), 1},
	"dominosh":       {dominosH, 2},
	"dominosv":       {dominosV, 1},
	"earth":          {earth, 2},
	"emojis":         {emojis, 2},
	"greek":          {join(span(0x03B1, 0x03C9), span(0x0391, 0x03A1), span(0x03A3, 0x03A9)), 1},
	"hex":            {[]rune("0123456789ABCDEF"), 1},
	"jap":            {span(0xFF66, 0xFF9D), 1},
	"large-letters":  {largeLetters, 2},
	"math":           {span(0x2200, 0x222A), 1},
	"minimal":        {[]rune(".*+"), 1},
	"moon":           {moons, 2},
	"num":            {span('0', '9'), 1},
	"numbered-balls": {numberedBalls, 2},
	"numbered-cubes": {numberedCubes, 2},
	"plants":         {plants, 2},
	"shapes":         {shapes, 2},
	"smile":          {span(0x1F600, 0x1F60F), 2},
}

// Lookup returns the named glyph set.
func Lookup(name string) (*Pool, bool) {
	name = strings.ToLower(name)
	t, ok := tables[name]
	if !ok {
		return nil, false
	}
	rs := make([]rune, len(t.runes))
	copy(rs, t.runes)
	return &Pool{name: name, runes: rs, width: t.width}, true
}

// Resolve returns the named set, or a custom set built from the literal
// characters of s when no table has that name.
func Resolve(s string) (*Pool, error) {
	if p, ok := Lookup(s); ok {
		return p, nil
	}
	if s == "" {
		return nil, errors.New("character set cannot be empty")
	}
	return NewPool("custom", []rune(s))
}

// Names lists the available table names in sorted order.
func Names() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
