package config

import (
	"os"
	"strings"
)

const (
	apiKeyEnvVar    = "API_KEY"
	apiSecretEnvVar = "API_SECRET"
)

// Credentials is the API key/secret pair used to sign exchange requests.
type Credentials struct {
	APIKey    string
	APISecret string
}

// LoadCredentials reads API_KEY and API_SECRET from the environment. Missing
// values are returned empty; callers decide whether that is fatal.
func LoadCredentials() Credentials {
	return Credentials{
		APIKey:    strings.TrimSpace(os.Getenv(apiKeyEnvVar)),
		APISecret: strings.TrimSpace(os.Getenv(apiSecretEnvVar)),
	}
}

// Valid reports whether both halves of the pair are present.
func (c Credentials) Valid() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// String never prints the secret.
func (c Credentials) String() string {
	if c.APIKey == "" {
		return "Credentials{}"
	}
	key := c.APIKey
	if len(key) > 4 {
		key = key[:4] + "…"
	}
	return "Credentials{APIKey: " + key + "}"
}
