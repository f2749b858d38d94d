package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "ECOLEARN_"

// ApplyEnv overlays ECOLEARN_* environment variables onto cfg. Variables
// that are unset leave the existing value alone.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
