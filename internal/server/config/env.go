package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays fields tagged with `env` from the process environment.
// Unset variables leave the current value alone. A malformed value (for
// example TOKEN_TTL=week) panics, as parseJson does.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
