package env

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Environment identifies the runtime environment.
type Environment string

const (
	// EnvironmentDevelopment is the development environment.
	EnvironmentDevelopment Environment = "development"

	// EnvironmentProduction is the production environment.
	EnvironmentProduction Environment = "production"
)

// Vars holds process-level settings read from the environment.
type Vars struct {
	Env      Environment `env:"QANDA_ENV" envDefault:"development"`
	HTTPPort int         `env:"QANDA_SERVER_HTTP_PORT" envDefault:"0"`
}

// FromEnv parses the process environment into Vars.
// Unknown values for QANDA_ENV fall back to development.
func FromEnv() Vars {
	var vars Vars
	if err := env.Parse(&vars); err != nil {
		slog.Warn("Failed to parse environment, using defaults", "error", err)
		vars.Env = EnvironmentDevelopment
	}

	if vars.Env != EnvironmentDevelopment && vars.Env != EnvironmentProduction {
		vars.Env = EnvironmentDevelopment
	}

	return vars
}
