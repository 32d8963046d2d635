package main

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tracertea/commentflow/internal/config"
)

// CLIConfig represents the CLI configuration. Values come from a JSON config
// file, environment variables, and flags, in increasing precedence.
type CLIConfig struct {
	InputFiles []string `json:"input_files,omitempty"`
	InputDir   string   `json:"input_dir,omitempty"`
	Recursive  bool     `json:"recursive,omitempty"`

	S3Bucket string `json:"s3_bucket,omitempty"`
	S3Prefix string `json:"s3_prefix,omitempty"`
	S3Region string `json:"s3_region,omitempty"`

	Output string `json:"output,omitempty"`
	Format string `json:"format"`

	APIKey         string  `json:"api_key,omitempty"`
	RatePerSecond  float64 `json:"rate_per_second"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	Retry          bool    `json:"retry"`

	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file,omitempty"`
	NoColor  bool   `json:"no_color"`
}

// LoadCLIConfig loads configuration from a file (when given) and environment
// variables. Flag overrides are applied by the caller.
func LoadCLIConfig(configFile string) (*CLIConfig, error) {
	cfg := &CLIConfig{
		Format:         "json",
		TimeoutSeconds: 30,
		LogLevel:       "info",
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	loadConfigFromEnv(cfg)

	return cfg, nil
}

func loadConfigFromEnv(cfg *CLIConfig) {
	if val := os.Getenv("COMMENTFLOW_INPUT_FILES"); val != "" {
		cfg.InputFiles = strings.Split(val, ",")
	}

	if val := os.Getenv("COMMENTFLOW_INPUT_DIR"); val != "" {
		cfg.InputDir = val
	}

	if val := os.Getenv("COMMENTFLOW_S3_BUCKET"); val != "" {
		cfg.S3Bucket = val
	}

	if val := os.Getenv("COMMENTFLOW_S3_PREFIX"); val != "" {
		cfg.S3Prefix = val
	}

	if val := os.Getenv("COMMENTFLOW_S3_REGION"); val != "" {
		cfg.S3Region = val
	}

	if val := os.Getenv("COMMENTFLOW_OUTPUT"); val != "" {
		cfg.Output = val
	}

	if val := os.Getenv("COMMENTFLOW_FORMAT"); val != "" {
		cfg.Format = val
	}

	if val := os.Getenv("COMMENTFLOW_RATE"); val != "" {
		if rate, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.RatePerSecond = rate
		}
	}

	if val := os.Getenv("COMMENTFLOW_TIMEOUT_SECONDS"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.TimeoutSeconds = timeout
		}
	}

	if val := os.Getenv("COMMENTFLOW_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	if val := os.Getenv("COMMENTFLOW_LOG_FILE"); val != "" {
		cfg.LogFile = val
	}
}

// ToRunConfig converts the CLI configuration into the pipeline run config.
// The API key falls back to the environment (and .env) when not set here.
func (c *CLIConfig) ToRunConfig() *config.Config {
	runCfg := &config.Config{
		APIKey:        c.APIKey,
		CallTimeout:   time.Duration(c.TimeoutSeconds) * time.Second,
		RatePerSecond: c.RatePerSecond,
		LogLevel:      c.LogLevel,
		LogFile:       c.LogFile,
	}

	runCfg.SetDefaults()
	runCfg.ResolveAPIKey()
	return runCfg
}
