// Package config holds run configuration for the analysis pipeline.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// APIKeyEnvVar names the environment variable the key is read from when no
// flag is given. A .env file in the working directory is honored.
const APIKeyEnvVar = "COMMENTFLOW_API_KEY"

// Config holds configuration parameters for an analysis run.
type Config struct {
	APIKey      string
	CallTimeout time.Duration
	// RatePerSecond throttles remote lookups; zero disables throttling.
	RatePerSecond float64
	LogLevel      string
	LogFile       string
}

// Validate validates the configuration parameters.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required (set --api-key or %s)", APIKeyEnvVar)
	}

	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be greater than 0")
	}

	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate must be non-negative")
	}

	if c.LogLevel != "" && c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warn" && c.LogLevel != "error" {
		return fmt.Errorf("log level must be one of: debug, info, warn, error")
	}

	return nil
}

// SetDefaults sets default values for configuration parameters.
func (c *Config) SetDefaults() {
	if c.CallTimeout == 0 {
		c.CallTimeout = 30 * time.Second
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ResolveAPIKey fills the API key from the environment when no explicit value
// was provided. Never embed the key as a literal.
func (c *Config) ResolveAPIKey() {
	if c.APIKey != "" {
		return
	}
	_ = godotenv.Load()
	c.APIKey = os.Getenv(APIKeyEnvVar)
}
