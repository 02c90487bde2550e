// Package config loads service settings from defaults and BLOG_ prefixed
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "BLOG_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	AcceptedOrigins []string      `koanf:"accepted_origins"`
}

type DatabaseConfig struct {
	Type          string        `koanf:"type" validate:"oneof=sqlite postgres"`
	Path          string        `koanf:"path" validate:"required_if=Type sqlite"`
	DSN           string        `koanf:"dsn" validate:"required_if=Type postgres"`
	ReplicaDSNs   []string      `koanf:"replica_dsns"`
	SlowThreshold time.Duration `koanf:"slow_threshold"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     180 * time.Second,
			WriteTimeout:    180 * time.Second,
			IdleTimeout:     180 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AcceptedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Type:          "sqlite",
			Path:          "database.db",
			SlowThreshold: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the defaults and overlays environment variables such as
// BLOG_SERVER_PORT (server.port) or BLOG_DATABASE_REPLICA_DSNS (database.replica_dsns).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load default config: %w", err)
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Database.Type = strings.ToLower(cfg.Database.Type)
	cfg.Server.AcceptedOrigins = trimAll(cfg.Server.AcceptedOrigins)
	cfg.Database.ReplicaDSNs = trimAll(cfg.Database.ReplicaDSNs)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// list-valued keys are comma separated in the environment
var listKeys = map[string]bool{
	"server.accepted_origins": true,
	"database.replica_dsns":   true,
}

// envKey maps BLOG_SECTION_SOME_KEY to section.some_key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func envValue(s, value string) (string, interface{}) {
	key := envKey(s)
	if listKeys[key] {
		return key, strings.Split(value, ",")
	}
	return key, value
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
