package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  string   `yaml:"version" json:"version"`
	Server   Server   `yaml:"server" json:"server" envPrefix:"SERVER_"`
	Sessions Sessions `yaml:"sessions" json:"sessions" envPrefix:"SESSIONS_"`
	Balance  Balance  `yaml:"balance" json:"balance" envPrefix:"BALANCE_"`
}

type Server struct {
	Addr            string        `yaml:"addr" json:"addr" env:"ADDR"`
	DevStatic       bool          `yaml:"dev_static" json:"dev_static" env:"DEV_STATIC"`
	StaticDir       string        `yaml:"static_dir" json:"static_dir" env:"STATIC_DIR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type Sessions struct {
	CookieName   string        `yaml:"cookie_name" json:"cookie_name" env:"COOKIE_NAME"`
	CookieSecure bool          `yaml:"cookie_secure" json:"cookie_secure" env:"COOKIE_SECURE"`
	MaxSessions  int           `yaml:"max_sessions" json:"max_sessions" env:"MAX_SESSIONS"`
	IdleTTL      time.Duration `yaml:"idle_ttl" json:"idle_ttl" env:"IDLE_TTL"`
}

func (s *Server) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":42069"
	}
	if s.StaticDir == "" {
		s.StaticDir = "static"
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
}

func (s *Sessions) ApplyDefaults() {
	if s.CookieName == "" {
		s.CookieName = "ecolearn_session"
	}
	if s.MaxSessions == 0 {
		s.MaxSessions = 1024
	}
	if s.IdleTTL == 0 {
		s.IdleTTL = 2 * time.Hour
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Sessions.ApplyDefaults()
	c.Balance.ApplyDefaults()
}

func (c *Config) Validate() error {
	if c.Sessions.MaxSessions < 0 {
		return fmt.Errorf("sessions.max_sessions must not be negative, got %d", c.Sessions.MaxSessions)
	}
	if c.Sessions.IdleTTL < 0 {
		return fmt.Errorf("sessions.idle_ttl must not be negative, got %s", c.Sessions.IdleTTL)
	}
	return c.Balance.Validate()
}

// Default returns a config with every section at its default value.
func Default() *Config {
	c := &Config{Balance: DefaultBalance()}
	c.ApplyDefaults()
	return c
}

// Load reads a YAML config file, applies ECOLEARN_* environment overrides
// and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	var r Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(b, &r); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := ApplyEnv(&r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
