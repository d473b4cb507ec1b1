// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads warband settings. Later sources win: built-in
// defaults, the YAML config file, environment variables, then flags the
// user set explicitly.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/internal/xdg"
)

// Config holds every runtime setting.
type Config struct {
	LogFormat   string     `koanf:"log_format"`
	LogLevel    string     `koanf:"log_level"`
	Archetypes  string     `koanf:"archetypes"`   // table path; empty uses the embedded table
	MetricsAddr string     `koanf:"metrics_addr"` // empty disables the metrics server
	Database    Database   `koanf:"database"`
	Sim         sim.Config `koanf:"sim"`
}

// Database holds Postgres settings. An empty URL disables persistence.
type Database struct {
	URL             string `koanf:"url"`
	ConnectAttempts uint64 `koanf:"connect_attempts"`
}

// envOverrides are read with caarlos0/env. Unset variables leave the
// loaded value alone.
type envOverrides struct {
	DatabaseURL     string `env:"DATABASE_URL"`
	ConnectAttempts string `env:"WARBAND_DB_CONNECT_ATTEMPTS"`
	LogFormat       string `env:"WARBAND_LOG_FORMAT"`
	LogLevel        string `env:"WARBAND_LOG_LEVEL"`
	Archetypes      string `env:"WARBAND_ARCHETYPES"`
	MetricsAddr     string `env:"WARBAND_METRICS_ADDR"`
	Workers         string `env:"WARBAND_WORKERS"`
}

// flagKeys maps CLI flag names to config keys. Flags not listed are not
// configuration.
var flagKeys = map[string]string{
	"log-format":   "log_format",
	"log-level":    "log_level",
	"archetypes":   "archetypes",
	"metrics-addr": "metrics_addr",
	"database-url": "database.url",
	"workers":      "sim.workers",
	"reap-after":   "sim.reap_after_ticks",
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogFormat: "json",
		LogLevel:  "info",
		Database:  Database{ConnectAttempts: 5},
		Sim:       sim.DefaultConfig(),
	}
}

// Load reads path (or the XDG default file when path is empty and it
// exists), then the environment, then the changed flags of fs. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := xdg.ConfigFile()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !isNotExist(err) {
				return Config{}, ErrConfigFile(path, err)
			}
		}
	}

	if err := applyEnv(k); err != nil {
		return Config{}, err
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code(CodeInvalidConfig).With("source", "decode").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(k *koanf.Koanf) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return oops.Code(CodeInvalidConfig).With("source", "env").Wrapf(err, "parse env")
	}
	for key, val := range map[string]string{
		"database.url":              o.DatabaseURL,
		"database.connect_attempts": o.ConnectAttempts,
		"log_format":                o.LogFormat,
		"log_level":                 o.LogLevel,
		"archetypes":                o.Archetypes,
		"metrics_addr":              o.MetricsAddr,
		"sim.workers":               o.Workers,
	} {
		if val == "" {
			continue
		}
		if err := k.Set(key, val); err != nil {
			return oops.Code(CodeInvalidConfig).With("source", "env").With("key", key).Wrap(err)
		}
	}
	return nil
}

// Validate checks settings that have a closed set of values.
func (c Config) Validate() error {
	if !slices.Contains([]string{"json", "text"}, c.LogFormat) {
		return ErrInvalidValue("log_format", c.LogFormat, "must be json or text")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return ErrInvalidValue("log_level", c.LogLevel, "must be debug, info, warn or error")
	}
	return c.Sim.Validate()
}

func isNotExist(err error) bool {
	var pathErr *fs.PathError
	return errors.Is(err, os.ErrNotExist) || (errors.As(err, &pathErr) && errors.Is(pathErr.Err, fs.ErrNotExist))
}
