// Package config resolves runtime settings from defaults, an optional
// config.yaml in the data directory, and WEEKPLAN_* environment variables,
// in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const FileName = "config.yaml"

// APIConfig describes the remote backend. An empty URL means guest-only.
type APIConfig struct {
	URL        string  `yaml:"url"`
	TimeoutMs  int     `yaml:"timeout_ms"`
	MaxRetries int     `yaml:"max_retries"`
	RPS        float64 `yaml:"rps"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	DBPath          string `yaml:"db"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

type Config struct {
	// Home is the data directory. It is only settable through WEEKPLAN_HOME.
	Home        string       `yaml:"-"`
	DBPath      string       `yaml:"db"`
	API         APIConfig    `yaml:"api"`
	MaxInFlight int          `yaml:"max_inflight"`
	LogSync     bool         `yaml:"log_sync"`
	Server      ServerConfig `yaml:"server"`
}

// Default returns the configuration for the default data directory.
func Default() Config {
	return DefaultFor(defaultHome())
}

// DefaultFor returns defaults rooted at home.
func DefaultFor(home string) Config {
	return Config{
		Home:   home,
		DBPath: filepath.Join(home, "weekplan.db"),
		API: APIConfig{
			TimeoutMs:  10000,
			MaxRetries: 0,
			RPS:        10,
		},
		MaxInFlight: 4,
		Server: ServerConfig{
			Addr:            ":8080",
			DBPath:          filepath.Join(home, "server.db"),
			SessionTTLHours: 168,
		},
	}
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".weekplan"
	}
	return filepath.Join(home, ".weekplan")
}

// Load resolves the full configuration. A missing config file is fine; a
// malformed one is an error. Malformed environment values are ignored.
func Load() (Config, error) {
	home := os.Getenv("WEEKPLAN_HOME")
	if home == "" {
		home = defaultHome()
	}
	cfg := DefaultFor(home)

	data, err := os.ReadFile(filepath.Join(home, FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
		cfg.Home = home
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WEEKPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WEEKPLAN_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("WEEKPLAN_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutMs = n
		}
	}
	if v := os.Getenv("WEEKPLAN_API_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.API.MaxRetries = n
		}
	}
	if v := os.Getenv("WEEKPLAN_API_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.API.RPS = f
		}
	}
	if v := os.Getenv("WEEKPLAN_MAX_INFLIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxInFlight = n
		}
	}
	if v := os.Getenv("WEEKPLAN_LOG_SYNC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogSync = b
		}
	}
	if v := os.Getenv("WEEKPLAN_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("WEEKPLAN_SERVER_DB"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("WEEKPLAN_SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.SessionTTLHours = n
		}
	}
}

// Guest reports whether no backend is configured.
func (c Config) Guest() bool { return c.API.URL == "" }

func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLHours) * time.Hour
}
