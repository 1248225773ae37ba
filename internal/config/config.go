// Package config loads the server configuration with Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ProviderStability = "stability"
	ProviderGemini    = "gemini"
)

type Config struct {
	Port      string    `mapstructure:"port" yaml:"port"`
	LogLevel  string    `mapstructure:"log_level" yaml:"log_level"`
	SeedFile  string    `mapstructure:"seed_file" yaml:"seed_file,omitempty"`
	Render    Render    `mapstructure:"render" yaml:"render"`
	Session   Session   `mapstructure:"session" yaml:"session"`
	Admin     Admin     `mapstructure:"admin" yaml:"admin"`
	Analytics Analytics `mapstructure:"analytics" yaml:"analytics"`
}

type Render struct {
	Provider          string        `mapstructure:"provider" yaml:"provider"`
	StabilityUrl      string        `mapstructure:"stability_url" yaml:"stability_url"`
	Engine            string        `mapstructure:"engine" yaml:"engine"`
	GeminiModel       string        `mapstructure:"gemini_model" yaml:"gemini_model"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Session struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

type Admin struct {
	Username     string `mapstructure:"username" yaml:"username"`
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash,omitempty"`
	SigningKey   string `mapstructure:"signing_key" yaml:"signing_key,omitempty"`
}

type Analytics struct {
	PosthogKey string `mapstructure:"posthog_key" yaml:"posthog_key,omitempty"`
	PosthogUrl string `mapstructure:"posthog_url" yaml:"posthog_url,omitempty"`
}

var envKeys = []string{
	"port",
	"log_level",
	"seed_file",
	"render.provider",
	"render.stability_url",
	"render.engine",
	"render.gemini_model",
	"render.requests_per_minute",
	"render.burst",
	"render.timeout",
	"session.idle_timeout",
	"admin.username",
	"admin.password_hash",
	"admin.signing_key",
	"analytics.posthog_key",
	"analytics.posthog_url",
}

// Load reads defaults, then the config file at path (or ./logoassist.yml when
// path is empty and the file exists), then LOGOASSIST_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed_file", "")
	v.SetDefault("render.provider", ProviderStability)
	v.SetDefault("render.stability_url", "https://api.stability.ai")
	v.SetDefault("render.engine", "stable-diffusion-xl-1024-v1-0")
	v.SetDefault("render.gemini_model", "imagen-3.0-generate-002")
	v.SetDefault("render.requests_per_minute", 30)
	v.SetDefault("render.burst", 3)
	v.SetDefault("render.timeout", "60s")
	v.SetDefault("session.idle_timeout", "60m")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.signing_key", "")
	v.SetDefault("analytics.posthog_key", "")
	v.SetDefault("analytics.posthog_url", "https://eu.posthog.com")

	v.SetEnvPrefix("LOGOASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		env := "LOGOASSIST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}
	if err := v.BindEnv("port", "LOGOASSIST_PORT", "GOPORT"); err != nil {
		return nil, fmt.Errorf("binding port env: %w", err)
	}

	if path == "" && fileExists(ProjectPath()) {
		path = ProjectPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Render.Provider {
	case ProviderStability, ProviderGemini:
	default:
		return fmt.Errorf("unknown render provider %q", c.Render.Provider)
	}

	if c.Render.RequestsPerMinute < 0 || c.Render.Burst < 0 {
		return fmt.Errorf("render quota must not be negative")
	}

	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session idle timeout must be positive")
	}

	return nil
}

// ProjectPath is the config file picked up from the working directory.
func ProjectPath() string {
	return "logoassist.yml"
}

// Write stores cfg as YAML at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
