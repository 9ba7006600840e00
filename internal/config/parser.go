package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hugomf/coderain/internal/render"
	"github.com/hugomf/coderain/internal/symbols"
)

var (
	// ErrHelp is returned when --help was requested and usage was printed.
	ErrHelp = pflag.ErrHelp
	// ErrVersion is returned when --version was requested.
	ErrVersion = errors.New("version requested")
	// ErrListed is returned after the available options were listed.
	ErrListed = errors.New("list options requested")
)

// fileConfig mirrors the long flag names for the YAML config file.
type fileConfig struct {
	Color     string `yaml:"color"`
	Head      string `yaml:"head"`
	Chars     string `yaml:"chars"`
	Speed     string `yaml:"speed"`
	Shade     *bool  `yaml:"shade"`
	Direction string `yaml:"direction"`
	Backend   string `yaml:"backend"`
	Debug     *bool  `yaml:"debug"`
	LogFile   string `yaml:"log-file"`
	Seed      *int64 `yaml:"seed"`
}

// loadFile reads a YAML config file.
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// options holds the raw flag values before they are resolved.
type options struct {
	color, head, chars, speed, direction, backend string
	shade, debug                                  bool
	logFile, configPath                           string
	seed                                          int64
	list, version                                 bool
}

// Parser parses command-line flags into a Config.
type Parser struct {
	name string
	out  io.Writer
}

// NewParser creates a Parser that prints usage and listings to out.
func NewParser(name string, out io.Writer) *Parser {
	return &Parser{name: name, out: out}
}

// Parse processes the arguments (without the program name) and returns a
// validated Config. Absent options fall back to defaults; malformed ones are
// errors.
func (p *Parser) Parse(args []string) (*Config, error) {
	var o options
	fs := pflag.NewFlagSet(p.name, pflag.ContinueOnError)
	fs.SetOutput(p.out)
	fs.StringVarP(&o.color, "color", "C", DefaultColor, "Rain color: name, r,g,b or #rrggbb")
	fs.StringVarP(&o.head, "head", "H", DefaultHead, "Color of the leading glyph: name, r,g,b or #rrggbb")
	fs.StringVarP(&o.chars, "chars", "c", DefaultChars, "Character set name or a custom string of glyphs")
	fs.StringVarP(&o.speed, "speed", "S", DefaultSpeed, "Delay range in ms between steps: FASTEST,SLOWEST")
	fs.BoolVarP(&o.shade, "shade", "s", false, "Fade the trail instead of a constant color")
	fs.StringVarP(&o.direction, "direction", "d", DefaultDirection, "Direction of the rain: up, down, left, right")
	fs.StringVar(&o.backend, "backend", DefaultBackend, "Terminal backend: ansi or tcell")
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed (0 = from clock)")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.logFile, "log-file", DefaultLogFile, "Debug log file")
	fs.BoolVar(&o.list, "list", false, "List available colors and character sets")
	fs.BoolVarP(&o.version, "version", "v", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if o.version {
		return nil, ErrVersion
	}
	if o.list {
		p.listOptions()
		return nil, ErrListed
	}

	if o.configPath != "" {
		fc, err := loadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		o.merge(fc, fs)
	}
	return o.resolve()
}

// merge applies file values for every option not given on the command line.
func (o *options) merge(fc *fileConfig, fs *pflag.FlagSet) {
	setString := func(name string, dst *string, v string) {
		if v != "" && !fs.Changed(name) {
			*dst = v
		}
	}
	setString("color", &o.color, fc.Color)
	setString("head", &o.head, fc.Head)
	setString("chars", &o.chars, fc.Chars)
	setString("speed", &o.speed, fc.Speed)
	setString("direction", &o.direction, fc.Direction)
	setString("backend", &o.backend, fc.Backend)
	setString("log-file", &o.logFile, fc.LogFile)
	if fc.Shade != nil && !fs.Changed("shade") {
		o.shade = *fc.Shade
	}
	if fc.Debug != nil && !fs.Changed("debug") {
		o.debug = *fc.Debug
	}
	if fc.Seed != nil && !fs.Changed("seed") {
		o.seed = *fc.Seed
	}
}

func (o *options) resolve() (*Config, error) {
	base, err := ParseColor(o.color)
	if err != nil {
		return nil, fmt.Errorf("rain color: %w", err)
	}
	head, err := ParseColor(o.head)
	if err != nil {
		return nil, fmt.Errorf("head color: %w", err)
	}
	pool, err := symbols.Resolve(o.chars)
	if err != nil {
		return nil, err
	}
	fastest, slowest, err := ParseSpeed(o.speed)
	if err != nil {
		return nil, err
	}
	dir, err := render.ParseDirection(o.direction)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseColor: base,
		HeadColor: head,
		Pool:      pool,
		Shading:   o.shade,
		Fastest:   fastest,
		Slowest:   slowest,
		Direction: dir,
		Backend:   strings.ToLower(o.backend),
		Debug:     o.debug,
		LogFile:   o.logFile,
		Seed:      o.seed,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listOptions prints available colors and character sets.
func (p *Parser) listOptions() {
	fmt.Fprintln(p.out, "Available options:")
	fmt.Fprintln(p.out, "Colors:")
	for _, name := range ColorNames() {
		fmt.Fprintln(p.out, "  ", name)
	}
	fmt.Fprintln(p.out, "\nCharacter Sets:")
	for _, name := range symbols.Names() {
		fmt.Fprintln(p.out, "  ", name)
	}
	fmt.Fprintln(p.out, "\nDirections: up, down, left, right")
	fmt.Fprintln(p.out, "Backends: ansi, tcell")
}
