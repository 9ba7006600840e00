// Package config turns command-line flags and an optional YAML file into a
// validated Config.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hugomf/coderain/internal/gradient"
	"github.com/hugomf/coderain/internal/rain"
	"github.com/hugomf/coderain/internal/render"
	"github.com/hugomf/coderain/internal/symbols"
)

// Default configuration values for the animation.
const (
	DefaultColor     = "green"
	DefaultHead      = "white"
	DefaultChars     = "bin"
	DefaultSpeed     = "40,200"
	DefaultDirection = "down"
	DefaultBackend   = BackendANSI
	DefaultLogFile   = "coderain.log"
)

// Terminal backends.
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config holds the configuration for the rain animation.
type Config struct {
	BaseColor gradient.Color   // Color of the trail
	HeadColor gradient.Color   // Color of the leading glyph
	Pool      *symbols.Pool    // Glyphs the rain samples from
	Shading   bool             // Fade the trail toward black
	Fastest   uint64           // Shortest delay between advances, in ms
	Slowest   uint64           // Longest delay between advances, in ms (exclusive)
	Direction render.Direction // Way the rain falls
	Backend   string           // Terminal backend: ansi or tcell
	Debug     bool             // Enable debug logging
	LogFile   string           // Debug log destination
	Seed      int64            // Random seed; 0 picks one from the clock
}

// validate checks the configuration for validity.
func (c *Config) validate() error {
	if c.Pool == nil || c.Pool.Len() == 0 {
		return errors.New("character set cannot be empty")
	}
	if c.Slowest <= c.Fastest {
		return fmt.Errorf("speed range is empty: fastest %dms must be below slowest %dms", c.Fastest, c.Slowest)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	return nil
}

// Mode returns the gradient mode selected by the shading option.
func (c *Config) Mode() gradient.Mode {
	if c.Shading {
		return gradient.Shaded
	}
	return gradient.Flat
}

// Engine returns the rain engine configuration.
func (c *Config) Engine() rain.Config {
	return rain.Config{
		Pool:    c.Pool,
		Base:    c.BaseColor,
		Head:    c.HeadColor,
		Mode:    c.Mode(),
		Fastest: time.Duration(c.Fastest) * time.Millisecond,
		Slowest: time.Duration(c.Slowest) * time.Millisecond,
		Debug:   c.Debug,
	}
}

// ColorThemes are the named colors accepted for --color and --head.
var ColorThemes = map[string]gradient.Color{
	"white":  {R: 255, G: 255, B: 255},
	"red":    {R: 255, G: 0, B: 0},
	"green":  {R: 0, G: 255, B: 0},
	"cyan":   {R: 0, G: 139, B: 139},
	"blue":   {R: 0, G: 0, B: 255},
	"amber":  {R: 255, G: 191, B: 0},
	"orange": {R: 255, G: 165, B: 0},
	"purple": {R: 128, G: 0, B: 255},
	"pink":   {R: 255, G: 20, B: 147},
}

// ColorNames lists the theme names in sorted order.
func ColorNames() []string {
	names := make([]string, 0, len(ColorThemes))
	for name := range ColorThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseColor accepts a theme name, an "r,g,b" tuple or a #rrggbb string.
func ParseColor(s string) (gradient.Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := ColorThemes[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return gradient.ParseHex(s)
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return gradient.Color{}, fmt.Errorf("invalid color %q: expecting a name, r,g,b or #rrggbb", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return gradient.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return gradient.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ParseSpeed parses a "fastest,slowest" pair of millisecond delays.
func ParseSpeed(s string) (fastest, slowest uint64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid speed %q: expecting FASTEST,SLOWEST", s)
	}
	fastest, err = strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid speed %q: %w", s, err)
	}
	slowest, err = strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid speed %q: %w", s, err)
	}
	return fastest, slowest, nil
}
