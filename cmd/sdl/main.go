package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mnafees/c8core/internal"
	"github.com/mnafees/c8core/internal/config"
	"github.com/mnafees/c8core/pkg/sdl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
)

// SDL has to be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := config.ParseFlags(filepath.Base(os.Args[0]), os.Args[1:], os.Stderr)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else if !errors.Is(err, flag.ErrHelp) {
			config.CreateLogger(false, false).Error("Invalid arguments", log.Err(err))
		}
		return 1
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger)

	vm, err := internal.NewC8VM(opts.CPUConfig(), opts.Rate, logger)
	if err != nil {
		logger.Error("Creating VM failed", log.Err(err))
		return 1
	}
	if err := vm.LoadProgram(opts.ROM); err != nil {
		logger.Error("Loading program failed", log.Err(err))
		return 1
	}

	io := sdl.NewIO(vm, logger, opts.Scale)
	defer io.Destroy()
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		logger.Error("Setting up window failed", log.Err(err))
		return 1
	}

	if err := io.Loop(app.Context()); err != nil {
		logger.Error("Emulation halted", log.Err(err))
		return 1
	}
	return 0
}

func printBanner(logger *log.Logger) {
	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += " (" + commit + ")"
	}
	logger.Info("chopper", log.String("version", versionString))
}
