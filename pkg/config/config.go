// Package config loads the YAML configuration file and applies
// environment overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-textnet/pkg/export"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

const minBodyBytes = 1024

// Config is the whole configuration file.
type Config struct {
	Pipeline network.Config `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	Export   export.Config  `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pipeline: network.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			TokenTTL:        24 * time.Hour,
			RequestTimeout:  60 * time.Second,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    32 << 20,
		},
		Export:  export.Config{Kind: export.KindStdout},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file. Errors wrap validation.ErrInvalidConfiguration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", validation.ErrInvalidConfiguration, path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validation.ValidateConfig(c.Pipeline); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := validation.ValidateConfig(c.Export); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return validation.NewConfigValidator("Server").
		Required("Addr", c.Server.Addr).
		MinDuration("RequestTimeout", c.Server.RequestTimeout, time.Second).
		MinDuration("ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("ShutdownTimeout", c.Server.ShutdownTimeout, time.Second).
		When(c.Server.JWTSecret != "", func(v *validation.ConfigValidator) {
			v.MinDuration("TokenTTL", c.Server.TokenTTL, time.Minute).
				Custom("JWTSecret", func() error {
					if len(c.Server.JWTSecret) < 32 {
						return fmt.Errorf("must be at least 32 characters")
					}
					return nil
				})
		}).
		MinInt("MaxBodyBytes", int(min(c.Server.MaxBodyBytes, math.MaxInt32)), minBodyBytes).
		OneOf("Logging.Level", strings.ToLower(c.Logging.Level), []string{"debug", "info", "warn", "warning", "error"}).
		Validate()
}

// applyDefaults fills settings left empty or zero in the file.
func (c *Config) applyDefaults() {
	d := Default()
	c.Server.Addr = validation.DefaultOr(c.Server.Addr, d.Server.Addr)
	c.Server.TokenTTL = validation.DefaultOrDuration(c.Server.TokenTTL, d.Server.TokenTTL)
	c.Server.RequestTimeout = validation.DefaultOrDuration(c.Server.RequestTimeout, d.Server.RequestTimeout)
	c.Server.ReadTimeout = validation.DefaultOrDuration(c.Server.ReadTimeout, d.Server.ReadTimeout)
	c.Server.WriteTimeout = validation.DefaultOrDuration(c.Server.WriteTimeout, d.Server.WriteTimeout)
	c.Server.ShutdownTimeout = validation.DefaultOrDuration(c.Server.ShutdownTimeout, d.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = validation.DefaultOr(c.Server.MaxBodyBytes, d.Server.MaxBodyBytes)
	c.Export.Kind = validation.DefaultOr(c.Export.Kind, d.Export.Kind)
	c.Logging.Level = validation.DefaultOr(c.Logging.Level, d.Logging.Level)
}

// LogLevel returns the configured level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

func (c *Config) applyEnv() {
	setString(&c.Logging.Level, logging.LevelEnv)
	setString(&c.Server.Addr, "TEXTNET_ADDR")
	setString(&c.Server.JWTSecret, "TEXTNET_JWT_SECRET")
	setString(&c.Export.DatabaseURL, "TEXTNET_DATABASE_URL")
	setString(&c.Export.Bucket, "AWS_BUCKET")
	setString(&c.Export.Region, "AWS_REGION")
	setString(&c.Export.Endpoint, "AWS_ENDPOINT")
	setString(&c.Export.AccessKey, "AWS_ACCESS_KEY")
	setString(&c.Export.SecretKey, "AWS_SECRET_KEY")
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
