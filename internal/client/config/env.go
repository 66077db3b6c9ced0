package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "HEROCARDS_"

// parseEnv overlays cfg with HEROCARDS_* variables. Unset variables leave the
// current value untouched.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
