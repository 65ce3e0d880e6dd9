package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Render.RegistersPerAttachLine != 8 {
		t.Errorf("Expected RegistersPerAttachLine=8, got %d", cfg.Render.RegistersPerAttachLine)
	}
	if cfg.Display.Verbose {
		t.Error("Expected Verbose=false")
	}
	if cfg.Assets.RegistersPath != "" {
		t.Errorf("Expected empty RegistersPath (embedded default), got %q", cfg.Assets.RegistersPath)
	}
	if cfg.Assets.HWLoopPath != "" {
		t.Errorf("Expected empty HWLoopPath (embedded default), got %q", cfg.Assets.HWLoopPath)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "sleighgen.toml" {
		t.Errorf("Expected path to end with sleighgen.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "sleighgen.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "sleighgen" && path != "sleighgen.toml" {
			t.Errorf("Expected path in sleighgen directory or fallback, got %s", path)
		}
	}
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "sleighgen.toml")

	contents := `
[assets]
registers_path = "/opt/sleighgen/registers.sinc"
hwloop_path = "/opt/sleighgen/hwloop.sinc"

[render]
registers_per_attach_line = 4

[display]
verbose = true
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Assets.RegistersPath != "/opt/sleighgen/registers.sinc" {
		t.Errorf("Expected overridden RegistersPath, got %q", cfg.Assets.RegistersPath)
	}
	if cfg.Render.RegistersPerAttachLine != 4 {
		t.Errorf("Expected RegistersPerAttachLine=4, got %d", cfg.Render.RegistersPerAttachLine)
	}
	if !cfg.Display.Verbose {
		t.Error("Expected Verbose=true")
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}
	if cfg.Render.RegistersPerAttachLine != 8 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[render]
registers_per_attach_line = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}
