package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Listen    ListenConfig    `yaml:"listen"`
	Server    ServerConfig    `yaml:"server"`
	Units     UnitsConfig     `yaml:"units"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

// StorageConfig locates the local durable state.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// ListenConfig is the local REST surface the UI talks to.
type ListenConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// ServerConfig points at the remote backend sessions are submitted to.
// URL may be empty for offline use; submissions then stay local.
type ServerConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// UnitsConfig selects the unit system weight text is entered in.
type UnitsConfig struct {
	System string `yaml:"system"`
}

// TailscaleConfig optionally serves the REST surface over a tailnet instead
// of a local port.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_STORAGE_DIR,
//	LIFTLOG_LISTEN_HOST, LIFTLOG_LISTEN_PORT, LIFTLOG_LISTEN_API_KEY,
//	LIFTLOG_SERVER_URL, LIFTLOG_SERVER_API_KEY,
//	LIFTLOG_UNITS_SYSTEM
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("LIFTLOG_LISTEN_HOST"); v != "" {
		cfg.Listen.Host = v
	}
	if v := os.Getenv("LIFTLOG_LISTEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Listen.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_LISTEN_API_KEY"); v != "" {
		cfg.Listen.APIKey = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("LIFTLOG_UNITS_SYSTEM"); v != "" {
		cfg.Units.System = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Units.System == "" {
		cfg.Units.System = "metric"
	}
	if cfg.Listen.Host == "" {
		cfg.Listen.Host = "127.0.0.1"
	}
}

func (c *Config) validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if c.Listen.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("listen.port is required")
	}
	if c.Units.System != "metric" && c.Units.System != "imperial" {
		return fmt.Errorf("units.system must be metric or imperial, got %q", c.Units.System)
	}
	if c.Server.URL != "" && c.Server.APIKey == "" {
		return fmt.Errorf("server.api_key is required when server.url is set")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
