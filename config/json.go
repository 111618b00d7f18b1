package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration unmarshals from either a string such as "10s" or an integer
// count of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("config: invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the on-disk shape of the config file. Pointer fields let
// an absent key leave the current value untouched.
type JsonConfig struct {
	MaxAttempts      *int      `json:"max_attempts"`
	Cooldown         *Duration `json:"cooldown"`
	MasterPassword   *string   `json:"master_password"`
	LogFile          *string   `json:"log_file"`
	LogLevel         *string   `json:"log_level"`
	ClipboardTimeout *Duration `json:"clipboard_timeout"`
	Plain            *bool     `json:"plain"`
}

// parseJson overlays values from the file named by -c/-config. Without
// that flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := configFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if c.MaxAttempts != nil {
		config.MaxAttempts = *c.MaxAttempts
	}
	if c.Cooldown != nil {
		config.Cooldown = c.Cooldown.Duration
	}
	if c.MasterPassword != nil {
		config.MasterPassword = *c.MasterPassword
	}
	if c.LogFile != nil {
		config.LogFile = *c.LogFile
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.ClipboardTimeout != nil {
		config.ClipboardTimeout = c.ClipboardTimeout.Duration
	}
	if c.Plain != nil {
		config.Plain = *c.Plain
	}
	return nil
}
