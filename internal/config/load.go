package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ENLEARN"

// Default values applied before any file, environment or flag source.
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultStoragePath       = "~/.enlearn/vocab.json"
	DefaultReviewLimit       = 20
	DefaultReviewMode        = "word-first"
	DefaultEndpoint          = "https://api.mymemory.translated.net/get"
	DefaultLangPair          = "auto|zh-TW"
	DefaultTimeoutSeconds    = 6
	DefaultCacheSize         = 256
	DefaultRequestsPerSecond = 2.0
	DefaultRetries           = 2
	DefaultModelName         = "gemini-2.0-flash"
	DefaultReminderSchedule  = "0 8 * * *"
)

// flagBindings maps command-line flag names to configuration keys.
var flagBindings = map[string]string{
	"storage":   "storage.path",
	"backend":   "storage.backend",
	"log-level": "server.log_level",
	"port":      "server.port",
	"limit":     "review.limit",
	"mode":      "review.mode",
	"provider":  "translate.provider",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.log_format", DefaultLogFormat)

	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("storage.path", DefaultStoragePath)

	v.SetDefault("review.limit", DefaultReviewLimit)
	v.SetDefault("review.mode", DefaultReviewMode)

	v.SetDefault("translate.provider", ProviderMyMemory)
	v.SetDefault("translate.endpoint", DefaultEndpoint)
	v.SetDefault("translate.lang_pair", DefaultLangPair)
	v.SetDefault("translate.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("translate.cache_size", DefaultCacheSize)
	v.SetDefault("translate.requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("translate.retries", DefaultRetries)
	v.SetDefault("translate.gemini_api_key", "")
	v.SetDefault("translate.model_name", DefaultModelName)

	v.SetDefault("reminder.enabled", false)
	v.SetDefault("reminder.schedule", DefaultReminderSchedule)
}

// Load configuration from defaults, an optional config file, environment
// variables and command-line flags, in increasing order of precedence.
// flags may be nil. Returns a populated Config struct or an error if
// loading/validation fails.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagBindings {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
	}

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expanded, err := homedir.Expand(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand storage path: %w", err)
	}
	cfg.Storage.Path = expanded

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// readConfigFile reads an explicit config file when one is named by the
// --config flag or ENLEARN_CONFIG, and otherwise looks for an optional
// config.{yaml,json,toml} in ~/.enlearn and the working directory.
func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	path := v.GetString("config")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
	}

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", expanded, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath("$HOME/.enlearn")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
