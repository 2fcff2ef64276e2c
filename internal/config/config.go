// Package config handles application configuration and setup
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/mnafees/c8core/internal"
	"github.com/mnafees/c8core/internal/cpu"
	"github.com/retroenv/retrogolib/log"
)

// DefaultScale is the size in screen pixels of one CHIP-8 pixel.
const DefaultScale = 20

// Options holds everything that can be set from the command line.
type Options struct {
	ROM string

	Rate   int
	Scale  int
	Origin uint16

	ShiftInPlace   bool
	IncrementIndex bool

	Debug bool
	Quiet bool
}

// UsageError is returned by ParseFlags when the arguments are incomplete.
type UsageError struct {
	flags *flag.FlagSet
}

func (e *UsageError) Error() string {
	return "missing CHIP-8 program argument"
}

// ShowUsage prints the usage text.
func (e *UsageError) ShowUsage() {
	out := e.flags.Output()
	fmt.Fprintf(out, "usage: %s [options] <CHIP-8 program>\n\n", e.flags.Name())
	e.flags.PrintDefaults()
}

// ParseFlags parses args, which excludes the program name.
func ParseFlags(name string, args []string, output io.Writer) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)

	opts := Options{}
	origin := hexValue(cpu.DefaultConfig().Origin)

	flags.IntVar(&opts.Rate, "rate", internal.DefaultRate, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.Var(&origin, "origin", "load and start address of the program, in hex")
	flags.BoolVar(&opts.ShiftInPlace, "shift-vx", false, "8XY6/8XYE shift VX instead of VY")
	flags.BoolVar(&opts.IncrementIndex, "index-increment", false, "FX55/FX65 increment I past the last register")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging and instruction tracing")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if flags.NArg() != 1 {
		return opts, &UsageError{flags: flags}
	}

	opts.ROM = flags.Arg(0)
	opts.Origin = uint16(origin)
	if opts.Scale <= 0 {
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	return opts, nil
}

// CPUConfig converts the options to a CPU configuration.
func (o Options) CPUConfig() cpu.Config {
	cfg := cpu.DefaultConfig()
	cfg.Origin = o.Origin
	cfg.Quirks = cpu.Quirks{
		ShiftInPlace:   o.ShiftInPlace,
		IncrementIndex: o.IncrementIndex,
	}
	return cfg
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// hexValue is a flag.Value accepting 0x-prefixed or bare hex addresses.
type hexValue uint16

func (h *hexValue) String() string {
	return fmt.Sprintf("0x%03X", uint16(*h))
}

func (h *hexValue) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		v, err = strconv.ParseUint(s, 16, 16)
		if err != nil {
			return fmt.Errorf("parsing address %q: %w", s, err)
		}
	}
	*h = hexValue(v)
	return nil
}
