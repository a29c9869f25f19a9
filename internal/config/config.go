// Package config loads potalake's runtime configuration: object-store
// backend selection, the upstream POTA API endpoint, HTTP server settings,
// and the cron schedule for each of the five named triggers.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the flat configuration struct populated from environment
// variables, optionally loaded from a .env file first.
type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`

	// Upstream POTA spot API.
	PotaAPIURL     string        `env:"POTA_API_URL,required"`
	PotaAPITimeout time.Duration `env:"POTA_API_TIMEOUT" envDefault:"10s"`

	// Object store backend: "s3" for production, "local" for a
	// filesystem-backed store (dev, single-node deployments, tests).
	ObjectStoreBackend string `env:"OBJECT_STORE_BACKEND" envDefault:"local"`
	LocalStoreDir      string `env:"LOCAL_STORE_DIR" envDefault:"./data"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"` // non-empty for S3-compatible services (R2, MinIO, ...)
	S3Prefix    string `env:"S3_PREFIX"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	// Cron expressions for the five named triggers. The aggregation
	// offsets (xx:05, 00:15, 00:30 on day 1) leave the previous bucket
	// time to finish writing before it is rolled up.
	CollectCron        string `env:"COLLECT_CRON" envDefault:"* * * * *"`
	AggregateHourCron  string `env:"AGGREGATE_HOUR_CRON" envDefault:"5 * * * *"`
	AggregateDayCron   string `env:"AGGREGATE_DAY_CRON" envDefault:"15 0 * * *"`
	AggregateMonthCron string `env:"AGGREGATE_MONTH_CRON" envDefault:"30 0 1 * *"`
	SummarizeCron      string `env:"SUMMARIZE_CRON" envDefault:"*/15 * * * *"`

	// Per-invocation wall-clock budgets: a deadline-exceeded signal
	// unwinds pending I/O and abandons the run.
	CollectJobTimeout   time.Duration `env:"COLLECT_JOB_TIMEOUT" envDefault:"30s"`
	AggregateJobTimeout time.Duration `env:"AGGREGATE_JOB_TIMEOUT" envDefault:"2m"`
	SummarizeJobTimeout time.Duration `env:"SUMMARIZE_JOB_TIMEOUT" envDefault:"2m"`
}

// Validate checks cross-field invariants Load's struct tags can't express.
func (c *Config) Validate() error {
	switch c.ObjectStoreBackend {
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when OBJECT_STORE_BACKEND=s3")
		}
	case "local":
		if c.LocalStoreDir == "" {
			return fmt.Errorf("LOCAL_STORE_DIR must not be empty when OBJECT_STORE_BACKEND=local")
		}
	default:
		return fmt.Errorf("OBJECT_STORE_BACKEND must be \"s3\" or \"local\", got %q", c.ObjectStoreBackend)
	}
	return nil
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile    string
	HTTPAddr   string
	LogLevel   string
	PotaAPIURL string
}

// Load reads configuration from .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (*Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.PotaAPIURL != "" {
		cfg.PotaAPIURL = overrides.PotaAPIURL
	}

	return cfg, nil
}
