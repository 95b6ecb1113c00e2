// Package config loads the service configuration from defaults, an optional
// YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. AUTOMATION_SERVER_ADDR.
const EnvPrefix = "AUTOMATION"

// Config is the full service configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
}

// DatabaseConfig points at the PostgreSQL instance.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// Validate requires a connection string. Only callers that talk to
// PostgreSQL run it.
func (c *DatabaseConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("database.url is required (set DATABASE_URL)")
	}
	return nil
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

func (c *ServerConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
}

func (c *ServerConfig) Validate() error {
	if !strings.Contains(c.Addr, ":") {
		return fmt.Errorf("server.addr must be host:port (got: %s)", c.Addr)
	}
	return nil
}

// LoggerConfig configures the zap logger. When File is set, JSON logs are
// also written there and rotated.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	File        string `mapstructure:"file" yaml:"file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

func (c *LoggerConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.ServiceName == "" {
		c.ServiceName = "automation"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
}

func (c *LoggerConfig) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logger.level: %w", err)
	}
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be one of [json, console] (got: %s)", c.Format)
	}
	return nil
}

// ValidationConfig selects the rule set used when saving automations.
type ValidationConfig struct {
	// Strict also rejects dangling connections, loops, missing condition
	// branches and incomplete node configuration.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Logger.ApplyDefaults()
}

// Validate checks every block except Database.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Logger.Validate()
}

// SetDefaults registers every key so environment overrides are picked up
// by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.service_name", "automation")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", false)
	v.SetDefault("validation.strict", false)
}

// Load builds the configuration. path names a YAML config file; when empty,
// ./config.yaml is used if present. A .env file in the working directory is
// loaded first without overriding variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("config: bind database url: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
