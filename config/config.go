// Package config handles passvault runtime settings: defaults, an optional
// JSON overlay and command-line flags, applied in that order.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - MaxAttempts: failed decrypts before the session locks.
//   - Cooldown: how long the login form is withheld after locking.
//   - MasterPassword: credential that unlocks a locked session.
//   - LogFile / LogLevel: log destination and verbosity.
//   - ClipboardTimeout: delay before copied values are cleared.
//   - Plain: use the line-oriented REPL instead of the TUI.
type Config struct {
	MaxAttempts      int
	Cooldown         time.Duration
	MasterPassword   string
	LogFile          string
	LogLevel         string
	ClipboardTimeout time.Duration
	Plain            bool
}

// LoadDefaults populates Config with the demo defaults.
// NOTE: the master password is a fixed demo credential.
func (c *Config) LoadDefaults() {
	c.MaxAttempts = 3
	c.Cooldown = 10 * time.Second
	c.MasterPassword = "admin123"
	c.LogFile = defaultLogFile()
	c.LogLevel = "info"
	c.ClipboardTimeout = 30 * time.Second
	c.Plain = false
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "passvault.log"
	}
	return filepath.Join(home, ".passvault", "passvault.log")
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
