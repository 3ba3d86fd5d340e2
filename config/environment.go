package config

import (
	"os"
	"strings"
)

// APP_ENV values. Anything else is passed through lower-cased.
const (
	EnvironmentDevelopment = "development"
	EnvironmentStaging     = "staging"
	EnvironmentProduction  = "production"
)

var environmentAliases = map[string]string{
	"dev":   EnvironmentDevelopment,
	"prod":  EnvironmentProduction,
	"stage": EnvironmentStaging,
	"stag":  EnvironmentStaging,
}

// environmentFiles replace DefaultConfigPath for the listed environments.
var environmentFiles = map[string]string{
	EnvironmentProduction: "config/config.production.yml",
	EnvironmentStaging:    "config/config.staging.yml",
}

// AppEnvironment returns the canonical APP_ENV value, development when unset.
func AppEnvironment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		return EnvironmentDevelopment
	}
	if canonical, ok := environmentAliases[env]; ok {
		return canonical
	}
	return env
}

// IsProductionLike reports whether env is production or staging. The
// binaries warn when such an environment talks to the testnet, and when any
// other environment talks to the live exchange.
func IsProductionLike(env string) bool {
	return env == EnvironmentProduction || env == EnvironmentStaging
}

// configPathFor swaps the default config path for the environment file.
// Explicit paths are left alone.
func configPathFor(path string) string {
	if path == "" {
		path = DefaultConfigPath
	}
	if path != DefaultConfigPath {
		return path
	}
	if envPath, ok := environmentFiles[AppEnvironment()]; ok {
		return envPath
	}
	return path
}
