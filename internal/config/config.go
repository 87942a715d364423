// Package config collects the handful of settings cmd/gones needs before
// it can construct an emulator: which ROM to load, how deep a debugger
// backtrace to keep, and an optional PC override for golden-log testing
// harnesses like nestest.
package config

import "flag"

// Config is a small, flat settings struct populated from command-line
// flags, following the teacher's internal/app.Config pattern at a scale
// that matches this repo's thin cmd/gones entry point.
type Config struct {
	RomPath         string
	WindowScale     int
	BacktraceDepth  int
	StartPCOverride uint
	HasStartPC      bool
}

// Parse builds a Config from args (typically os.Args[1:]).
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("gones", flag.ContinueOnError)

	romPath := fs.String("rom", "", "path to an iNES ROM file")
	scale := fs.Int("scale", 2, "window scale factor (NES native resolution is 256x240)")
	backtraceDepth := fs.Int("backtrace", 20, "number of instructions the debugger retains for a crash backtrace")
	startPC := fs.Uint("start-pc", 0, "override the reset vector's program counter (for golden-log harnesses such as nestest)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		RomPath:        *romPath,
		WindowScale:    *scale,
		BacktraceDepth: *backtraceDepth,
	}

	hasStartPC := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "start-pc" {
			hasStartPC = true
		}
	})
	cfg.HasStartPC = hasStartPC
	cfg.StartPCOverride = *startPC

	return cfg, nil
}
