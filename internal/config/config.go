// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string
	Env         string
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Capture describes how the bridge reaches the observed terminal.
type Capture struct {
	Provider     string   `yaml:"provider"` // adb|ws|stub
	ADBPath      string   `yaml:"adb_path"`
	DeviceSerial string   `yaml:"device_serial"`
	DumpPath     string   `yaml:"dump_path"`
	AgentURL     string   `yaml:"agent_url"`
	Fallback     string   `yaml:"fallback_provider"` // tried when the primary sees no positions
	PollMs       int      `yaml:"poll_interval_ms"`
	StubScript   []string `yaml:"stub_script"`
}

// Extract groups tunable knobs for the fragment grammar.
type Extract struct {
	MaxLot float64 `yaml:"max_lot"`
}

// Bridge configures the downstream signal channel.
type Bridge struct {
	SignalPath    string `yaml:"signal_path"`
	DebounceTTLMs int    `yaml:"debounce_ttl_ms"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App     App     `yaml:"app"`
	Capture Capture `yaml:"capture"`
	Extract Extract `yaml:"extract"`
	Bridge  Bridge  `yaml:"bridge"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
