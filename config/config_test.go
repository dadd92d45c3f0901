package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulator.MaxCycles != 0 {
		t.Errorf("expected unlimited MaxCycles by default, got %d", cfg.Simulator.MaxCycles)
	}
	if !cfg.Simulator.WriteTrace {
		t.Error("expected WriteTrace=true by default")
	}
	if cfg.Simulator.TraceFile != "dump.txt" {
		t.Errorf("expected TraceFile=dump.txt, got %s", cfg.Simulator.TraceFile)
	}
	if cfg.Debugger.HistorySize != 500 {
		t.Errorf("expected HistorySize=500, got %d", cfg.Debugger.HistorySize)
	}
	if cfg.Trace.NumberFormat != "hex" {
		t.Errorf("expected NumberFormat=hex, got %s", cfg.Trace.NumberFormat)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Simulator.MaxCycles = 5_000_000
	cfg.Debugger.HistorySize = 250
	cfg.Trace.NumberFormat = "dec"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Simulator.MaxCycles != 5_000_000 {
		t.Errorf("expected MaxCycles=5000000, got %d", loaded.Simulator.MaxCycles)
	}
	if loaded.Debugger.HistorySize != 250 {
		t.Errorf("expected HistorySize=250, got %d", loaded.Debugger.HistorySize)
	}
	if loaded.Trace.NumberFormat != "dec" {
		t.Errorf("expected NumberFormat=dec, got %s", loaded.Trace.NumberFormat)
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.Simulator.TraceFile != "dump.txt" {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := "[simulator]\nmax_cycles = \"not a number\"\n"
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
