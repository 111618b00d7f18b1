package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-n int      failed attempts before lockout
//	-w int      lockout cooldown, seconds
//	-m string   master password
//	-l string   log file path
//	-v string   log level (debug, info, warn, error)
//	-t int      clipboard clear delay, seconds
//	-plain      use the line-oriented REPL
func parseFlags(config *Config, args []string) error {
	args = FilterArgs(args, []string{"-n", "-w", "-m", "-l", "-v", "-t", "-plain"}, "-plain")

	fs := flag.NewFlagSet("passvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVar(&config.MaxAttempts, "n", config.MaxAttempts, "failed attempts before lockout")
	cooldown := fs.Int("w", int(config.Cooldown.Seconds()), "lockout cooldown (in seconds)")
	fs.StringVar(&config.MasterPassword, "m", config.MasterPassword, "master password")
	fs.StringVar(&config.LogFile, "l", config.LogFile, "log file path")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	clip := fs.Int("t", int(config.ClipboardTimeout.Seconds()), "clipboard clear delay (in seconds)")
	fs.BoolVar(&config.Plain, "plain", config.Plain, "line-oriented mode")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			config.Cooldown = time.Duration(*cooldown) * time.Second
		case "t":
			config.ClipboardTimeout = time.Duration(*clip) * time.Second
		}
	})

	if config.MaxAttempts <= 0 {
		return fmt.Errorf("config: max attempts must be positive, got %d", config.MaxAttempts)
	}
	if config.Cooldown < 0 || config.ClipboardTimeout < 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	return nil
}
