// Command coderain renders falling columns of glyphs in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/hugomf/coderain/internal/config"
	"github.com/hugomf/coderain/internal/term"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.NewParser("coderain", stdout).Parse(args)
	switch {
	case errors.Is(err, config.ErrHelp), errors.Is(err, config.ErrListed):
		return 0
	case errors.Is(err, config.ErrVersion):
		fmt.Fprintf(stdout, "coderain version %s\n", version)
		return 0
	case err != nil:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer closeLog()

	terminal, err := newTerminal(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Debug {
		log.Printf("Starting with chars %s, backend %s, direction %s, seed %d", cfg.Pool.Name(), cfg.Backend, cfg.Direction, seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	app := NewMatrixRain(cfg, terminal, rand.New(rand.NewSource(seed)))
	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// setupLogging sends the standard logger to the debug log file, or discards
// it; the screen belongs to the animation.
func setupLogging(cfg *config.Config) (func(), error) {
	log.SetFlags(log.Lshortfile | log.Ltime)
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}

func newTerminal(cfg *config.Config) (term.Terminal, error) {
	if cfg.Backend == config.BackendTcell {
		t, err := term.NewTcell()
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil, errors.New("stdout is not a terminal")
	}
	return term.NewANSI(os.Stdin, os.Stdout), nil
}
