// Package config loads process configuration for the parse service and its
// client: built-in defaults, then an optional YAML file, then environment
// variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-parsejson/pkg/submit"
)

// Config is shared by the server and the CLI. Fields a command does not use
// are ignored.
type Config struct {
	Host            string        `yaml:"host"             env:"PARSEJSON_HOST"`
	Port            int           `yaml:"port"             env:"PORT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"PARSEJSON_MAX_BODY_BYTES"`
	MaxDepth        int           `yaml:"max_depth"        env:"PARSEJSON_MAX_DEPTH"`
	RenderMode      string        `yaml:"render_mode"      env:"PARSEJSON_RENDER_MODE"`
	LogLevel        string        `yaml:"log_level"        env:"PARSEJSON_LOG_LEVEL"`
	LogFormat       string        `yaml:"log_format"       env:"PARSEJSON_LOG_FORMAT"`
	ServerURL       string        `yaml:"server_url"       env:"PARSEJSON_SERVER_URL"`
	Timeout         time.Duration `yaml:"timeout"          env:"PARSEJSON_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PARSEJSON_SHUTDOWN_TIMEOUT"`
	TemplatesDir    string        `yaml:"templates_dir"    env:"PARSEJSON_TEMPLATES_DIR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            5000,
		MaxBodyBytes:    10 << 20,
		MaxDepth:        512,
		RenderMode:      string(submit.ModeCompact),
		LogLevel:        "info",
		LogFormat:       "console",
		ServerURL:       "http://localhost:5000",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads defaults, then path (when non-empty), then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if trimmed := strings.TrimSpace(path); trimmed != "" {
		data, err := os.ReadFile(trimmed)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", trimmed, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", trimmed, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: port %d out of range", c.Port))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("config: max_body_bytes must be positive"))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, errors.New("config: max_depth must be positive"))
	}
	if _, err := submit.ParseMode(c.RenderMode); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log_format %q", c.LogFormat))
	}
	if c.Timeout < 0 || c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("config: timeouts must not be negative"))
	}
	if dir := strings.TrimSpace(c.TemplatesDir); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("config: templates_dir %q is not a directory", dir))
		}
	}
	return errors.Join(errs...)
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Mode returns the parsed render mode. Call Validate first.
func (c Config) Mode() submit.Mode {
	mode, err := submit.ParseMode(c.RenderMode)
	if err != nil {
		return submit.ModeCompact
	}
	return mode
}
