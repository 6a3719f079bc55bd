// Package config provides configuration types, defaults, and persistence for
// the sotw client.
package config

import (
	"fmt"
)

// Config holds all configuration options for the client.
type Config struct {
	// DataDir overrides the install directory the archive search starts
	// from. Empty means the executable's directory.
	DataDir string `mapstructure:"data_dir"`

	// Language is the active language code ("en", "de", "pt_BR", ...).
	// Non-default languages mount an extra language archive.
	Language string `mapstructure:"language"`

	// Unpacked selects the plain-directory content layout instead of
	// packed archives. The two layouts are mutually exclusive.
	Unpacked bool `mapstructure:"unpacked"`

	// Headless skips every interactive prompt and the title-art check;
	// missing required archives fail immediately.
	Headless bool `mapstructure:"headless"`

	// ExtraSearchDirs are appended to the archive search path after the
	// platform directories (SD card mounts, console device roots).
	ExtraSearchDirs []string `mapstructure:"extra_search_dirs"`

	// LogFile receives diagnostic output; empty logs to stderr.
	LogFile string `mapstructure:"log_file"`

	// Debug lowers the log threshold to verbose.
	Debug bool `mapstructure:"debug"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Language: "en",
	}
}

// Validate checks option combinations that cannot work.
func (c Config) Validate() error {
	if err := validateLanguage(c.Language); err != nil {
		return err
	}
	return nil
}

// validateLanguage accepts ISO 639-1 codes with an optional _REGION suffix
// ("en", "de", "pt_BR").
func validateLanguage(code string) error {
	bad := func() error {
		return fmt.Errorf("language %q: want a code like \"en\" or \"pt_BR\"", code)
	}
	switch len(code) {
	case 2:
		if !isLower(code[0]) || !isLower(code[1]) {
			return bad()
		}
		return nil
	case 5:
		if !isLower(code[0]) || !isLower(code[1]) || code[2] != '_' || !isUpper(code[3]) || !isUpper(code[4]) {
			return bad()
		}
		return nil
	default:
		return bad()
	}
}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
