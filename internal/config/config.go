// Package config loads polytran settings from an optional YAML file,
// POLYTRAN_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/polytran/internal/translator"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "POLYTRAN"

// BackendNames lists the backends polytran can build, in registration order.
var BackendNames = []string{
	"google", "mymemory", "systran", "ollama", "openrouter", "amazon", "marian", "lingua",
}

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

type Config struct {
	Env         string                              `mapstructure:"env"`
	LogLevel    string                              `mapstructure:"log_level"`
	CacheSize   int                                 `mapstructure:"cache_size"`
	DBPath      string                              `mapstructure:"db_path"`
	NoCache     bool                                `mapstructure:"no_cache"`
	RaceTimeout time.Duration                       `mapstructure:"race_timeout"`
	Services    []string                            `mapstructure:"services"`
	Backends    map[string]translator.ServiceConfig `mapstructure:"backends"`
}

// Options select where Load looks. Empty fields use the defaults.
type Options struct {
	ConfigFile string
	EnvFile    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_size", 1024)
	v.SetDefault("db_path", "./data/polytran.db")
	v.SetDefault("no_cache", false)
	v.SetDefault("race_timeout", 60*time.Second)
	v.SetDefault("services", []string{"mymemory", "lingua"})

	v.SetDefault("backends.ollama.base_url", "http://localhost:11434")
	v.SetDefault("backends.ollama.timeout", 120*time.Second)
	v.SetDefault("backends.ollama.models", translator.DefaultOllamaModels)
	v.SetDefault("backends.openrouter.timeout", 60*time.Second)
	v.SetDefault("backends.openrouter.models", translator.DefaultOpenRouterModels)
	v.SetDefault("backends.mymemory.timeout", 30*time.Second)
	v.SetDefault("backends.systran.timeout", 30*time.Second)
	v.SetDefault("backends.amazon.region", "us-east-1")
	v.SetDefault("backends.marian.region", "us-east-1")
	v.SetDefault("backends.marian.function_prefix", "polytran-translator")
}

// bindBackendEnv maps backend settings to POLYTRAN_BACKENDS_<NAME>_<FIELD>
// and to the variables each provider conventionally uses.
func bindBackendEnv(v *viper.Viper) error {
	fields := []string{"credentials", "api_key", "models", "base_url", "timeout", "region", "email", "function_prefix"}
	conventional := map[string][]string{
		"backends.google.credentials": {"GOOGLE_APPLICATION_CREDENTIALS"},
		"backends.google.api_key":     {"GOOGLE_TRANSLATE_API_KEY"},
		"backends.openrouter.api_key": {"OPENROUTER_API_KEY"},
		"backends.systran.api_key":    {"SYSTRAN_API_KEY"},
		"backends.mymemory.email":     {"MYMEMORY_EMAIL"},
		"backends.ollama.base_url":    {"OLLAMA_HOST"},
		"backends.amazon.region":      {"AWS_REGION"},
		"backends.marian.region":      {"AWS_REGION"},
	}

	for _, name := range BackendNames {
		for _, field := range fields {
			key := "backends." + name + "." + field
			envs := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
			envs = append(envs, conventional[key]...)
			if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
				return fmt.Errorf("bind %s: %w", key, err)
			}
		}
	}
	return nil
}

// Load reads the configuration. A missing .env file or a missing default
// config file is not an error; a missing explicit config file is.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindBackendEnv(v); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("polytran")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/polytran")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	services := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !slices.Contains(services, s) {
			services = append(services, s)
		}
	}
	c.Services = services
}

func (c *Config) Validate() error {
	if c.Env == "" {
		return fmt.Errorf("env is required")
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("log_level %q is not one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0")
	}
	if c.RaceTimeout < 0 {
		return fmt.Errorf("race_timeout must be >= 0")
	}
	if !c.NoCache && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required unless no_cache is set")
	}
	for name, b := range c.Backends {
		if b.Timeout < 0 {
			return fmt.Errorf("backends.%s.timeout must be >= 0", name)
		}
	}
	return nil
}

// Backend returns the settings of one backend; unknown names get the zero
// value.
func (c *Config) Backend(name string) translator.ServiceConfig {
	return c.Backends[strings.ToLower(name)]
}
