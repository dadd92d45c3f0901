// Package config loads and saves the toolchain's TOML-backed settings:
// assembler defaults, simulator limits, debugger behavior and trace
// output, all overridable by a config file at a platform-specific path
// or one named explicitly on the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every setting the asm/sim CLIs and the debugger/GUI front
// ends read at startup.
type Config struct {
	Assembler struct {
		EmitLabels bool `toml:"emit_labels"`
		EmitTokens bool `toml:"emit_tokens"`
	} `toml:"assembler"`

	Simulator struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		WriteTrace   bool   `toml:"write_trace"`
		WriteMemDump bool   `toml:"write_memdump"`
		TraceFile    string `toml:"trace_file"`
		MemDumpFile  string `toml:"memdump_file"`
	} `toml:"simulator"`

	Debugger struct {
		HistorySize   int    `toml:"history_size"`
		HistoryFile   string `toml:"history_file"`
		ShowSource    bool   `toml:"show_source"`
		ShowRegisters bool   `toml:"show_registers"`
		BreakOnEntry  bool   `toml:"break_on_entry"`
		PromptStyle   string `toml:"prompt_style"`
	} `toml:"debugger"`

	Trace struct {
		NumberFormat string `toml:"number_format"` // hex, dec
		BytesPerLine int    `toml:"bytes_per_line"`
	} `toml:"trace"`
}

// DefaultConfig returns the settings the toolchain uses when no config
// file is present.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.EmitLabels = false
	cfg.Assembler.EmitTokens = false

	cfg.Simulator.MaxCycles = 0 // unlimited
	cfg.Simulator.WriteTrace = true
	cfg.Simulator.WriteMemDump = true
	cfg.Simulator.TraceFile = "dump.txt"
	cfg.Simulator.MemDumpFile = "memdump.dat"

	cfg.Debugger.HistorySize = 500
	cfg.Debugger.HistoryFile = "history.txt"
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true
	cfg.Debugger.BreakOnEntry = false
	cfg.Debugger.PromptStyle = "(sim) "

	cfg.Trace.NumberFormat = "hex"
	cfg.Trace.BytesPerLine = 16

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its containing directory if necessary. On any failure to resolve or
// create that directory it falls back to "config.toml" in the current
// directory.
func GetConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	configDir = filepath.Join(configDir, "mips-toolchain")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back to
// DefaultConfig if it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, starting from DefaultConfig and
// overlaying whatever the file specifies.
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

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path in TOML form.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
