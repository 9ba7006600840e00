package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/hugomf/coderain/internal/gradient"
	"github.com/hugomf/coderain/internal/rain"
)

const resetSeq = termenv.CSI + termenv.ResetSeq + "m"

// Encode writes the whole frame as one string for the given color profile.
// Colors are only emitted when they change and every row ends in CRLF, since
// raw-mode terminals do not return the carriage on a bare line feed.
func Encode(f *Frame, p termenv.Profile) string {
	cw := f.CellWidth
	if cw < 1 {
		cw = 1
	}
	var b strings.Builder
	// Estimate: one glyph plus up to 20 bytes of color escape per cell
	if len(f.Rows) > 0 {
		b.Grow(len(f.Rows) * (len(f.Rows[0])*(cw+20) + 2))
	}

	seqs := make(map[gradient.Color]string)
	var current gradient.Color
	isColorSet := false

	for _, row := range f.Rows {
		for _, cell := range row {
			seq := ""
			if cell.Styled {
				var ok bool
				if seq, ok = seqs[cell.Color]; !ok {
					if s := p.Color(cell.Color.Hex()).Sequence(false); s != "" {
						seq = termenv.CSI + s + "m"
					}
					seqs[cell.Color] = seq
				}
			}
			// Profiles without color yield no sequence at all.
			switch {
			case seq == "":
				if isColorSet {
					b.WriteString(resetSeq)
					isColorSet = false
				}
			case !isColorSet || cell.Color != current:
				b.WriteString(seq)
				current = cell.Color
				isColorSet = true
			}
			writeGlyph(&b, cell.Glyph, cw)
		}
		b.WriteString("\r\n")
	}
	if isColorSet {
		b.WriteString(resetSeq)
	}
	return b.String()
}

// writeGlyph writes g padded with spaces to width cells.
func writeGlyph(b *strings.Builder, g rune, width int) {
	n := 0
	if g != rain.Blank {
		b.WriteRune(g)
		n = runewidth.RuneWidth(g)
	}
	for ; n < width; n++ {
		b.WriteByte(' ')
	}
}
