// Package config holds the settings shared by every walkthrough command.
// Values come from defaults, then an optional YAML or JSON file, then
// WALKTHROUGH_* environment variables, then command-line flags, layered by viper.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Capture modes.
const (
	CaptureStatic  = "static"
	CaptureCommand = "command"
	CaptureInbox   = "inbox"
)

// Analysis modes.
const (
	AnalysisStub   = "stub"
	AnalysisRemote = "remote"
)

// DefaultName is the config file looked up in the working directory
// (walkthrough.yaml or walkthrough.json) when no file is given.
const DefaultName = "walkthrough"

// EnvPrefix prefixes every environment override. Nested keys join with an
// underscore: capture.command is WALKTHROUGH_CAPTURE_COMMAND.
const EnvPrefix = "WALKTHROUGH"

// Capture selects where screen frames come from.
type Capture struct {
	Mode    string   `mapstructure:"mode"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// Analysis selects how frames are judged.
type Analysis struct {
	Mode     string `mapstructure:"mode"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

// Config is the resolved application configuration.
type Config struct {
	Addr        string        `mapstructure:"addr"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	CatalogPath string        `mapstructure:"catalog"`
	Store       string        `mapstructure:"store"`
	DataDir     string        `mapstructure:"data_dir"`
	RedisURL    string        `mapstructure:"redis_url"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	Capture     Capture       `mapstructure:"capture"`
	Analysis    Analysis      `mapstructure:"analysis"`

	// RedactSecrets masks provider API keys in messages before they are stored.
	RedactSecrets bool `mapstructure:"redact_secrets"`

	// EncryptionKey is a base64 AES-256 key. When set, sessions are sealed at rest.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		Store:     StoreMemory,
		DataDir:   ".walkthrough",
		Capture:   Capture{Mode: CaptureStatic},
		Analysis:  Analysis{Mode: AnalysisStub},

		RedactSecrets: true,
	}
}

// FlagKeys maps command-line flag names to config keys. Load binds every
// flag of the set that appears here.
var FlagKeys = map[string]string{
	"addr":              "addr",
	"log-level":         "log_level",
	"log-format":        "log_format",
	"catalog":           "catalog",
	"store":             "store",
	"data-dir":          "data_dir",
	"redis-url":         "redis_url",
	"session-ttl":       "session_ttl",
	"capture":           "capture.mode",
	"capture-command":   "capture.command",
	"capture-arg":       "capture.args",
	"analysis":          "analysis.mode",
	"analysis-endpoint": "analysis.endpoint",
	"model":             "analysis.model",
	"redact-secrets":    "redact_secrets",
	"encryption-key":    "encryption_key",
}

// Load resolves the configuration from defaults, the config file, the
// environment and flags, in increasing precedence. An empty path looks for
// DefaultName in the working directory, then WALKTHROUGH_CONFIG. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Short forms kept from earlier releases, and the provider's own variable.
	_ = v.BindEnv("capture.mode", "WALKTHROUGH_CAPTURE_MODE", "WALKTHROUGH_CAPTURE")
	_ = v.BindEnv("analysis.mode", "WALKTHROUGH_ANALYSIS_MODE", "WALKTHROUGH_ANALYSIS")
	_ = v.BindEnv("analysis.api_key", "WALKTHROUGH_ANALYSIS_API_KEY", "WALKTHROUGH_API_KEY", "OPENAI_API_KEY")

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(ttlHook),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("addr", d.Addr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("catalog", d.CatalogPath)
	v.SetDefault("store", d.Store)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("redis_url", d.RedisURL)
	v.SetDefault("session_ttl", d.SessionTTL)
	v.SetDefault("capture.mode", d.Capture.Mode)
	v.SetDefault("capture.command", d.Capture.Command)
	v.SetDefault("capture.args", []string{})
	v.SetDefault("analysis.mode", d.Analysis.Mode)
	v.SetDefault("analysis.endpoint", d.Analysis.Endpoint)
	v.SetDefault("analysis.model", d.Analysis.Model)
	v.SetDefault("analysis.api_key", d.Analysis.APIKey)
	v.SetDefault("redact_secrets", d.RedactSecrets)
	v.SetDefault("encryption_key", d.EncryptionKey)
	v.SetDefault("fallback_keys", []string{})
}

var durationType = reflect.TypeOf(time.Duration(0))

// ttlHook decodes durations from Go duration strings or bare seconds.
func ttlHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		ttl, err := parseTTL(v)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", v, err)
		}
		return ttl, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}

// parseTTL accepts a Go duration or a bare number of seconds.
func parseTTL(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate reports settings that cannot be wired.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("store %q requires redis_url", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q (memory, file, redis)", c.Store)
	}

	switch c.Capture.Mode {
	case CaptureStatic, CaptureInbox:
	case CaptureCommand:
		if c.Capture.Command == "" {
			return fmt.Errorf("capture mode %q requires a command", c.Capture.Mode)
		}
	default:
		return fmt.Errorf("unknown capture mode %q (static, command, inbox)", c.Capture.Mode)
	}

	switch c.Analysis.Mode {
	case AnalysisStub, AnalysisRemote:
	default:
		return fmt.Errorf("unknown analysis mode %q (stub, remote)", c.Analysis.Mode)
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (text, json)", c.LogFormat)
	}
	if _, _, err := c.Keys(); err != nil {
		return err
	}
	return nil
}

// Keys decodes the encryption keys. Active is nil when encryption is off.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		if len(c.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("fallback_keys require encryption_key")
		}
		return nil, nil, nil
	}
	active, err = base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid encryption_key: %w", err)
	}
	for i, k := range c.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// SessionsDir is where the file store keeps sessions.
func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// ArtifactsDir is where the file store keeps captured frames.
func (c Config) ArtifactsDir() string {
	return filepath.Join(c.DataDir, "artifacts")
}
