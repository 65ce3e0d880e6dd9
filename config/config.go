// Package config loads the optional sleighgen.toml run configuration:
// overrides for the static-asset search paths and a handful of
// renderer/progress-reporting knobs. The TOML file is entirely
// optional; DefaultConfig is always a complete, working configuration
// on its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds sleighgen's run-time options.
type Config struct {
	// Assets controls where the static, verbatim-copied include files
	// (register-bank declarations, hardware-loop preamble) are read
	// from. An empty path means "use the binary's embedded default".
	Assets struct {
		RegistersPath string `toml:"registers_path"`
		HWLoopPath    string `toml:"hwloop_path"`
	} `toml:"assets"`

	// Render controls a handful of textual knobs in the renderer.
	Render struct {
		RegistersPerAttachLine int `toml:"registers_per_attach_line"`
	} `toml:"render"`

	// Display controls progress reporting, tied to the -verbose CLI flag.
	Display struct {
		Verbose bool `toml:"verbose"`
	} `toml:"display"`
}

// DefaultConfig returns a configuration with default values: embedded
// static assets, and eight registers per attach-table line.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Render.RegistersPerAttachLine = 8
	cfg.Display.Verbose = false
	return cfg
}

// GetConfigPath returns the platform-specific config file path that
// Load reads.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "sleighgen")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "sleighgen.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "sleighgen")

	default:
		return "sleighgen.toml"
	}

	return filepath.Join(configDir, "sleighgen.toml")
}

// Load loads configuration from the default config file, falling back
// to DefaultConfig when it does not exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to
// DefaultConfig when the file does not exist. A malformed file is
// fatal, returned to the caller rather than silently ignored.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
