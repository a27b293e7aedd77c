package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	PostgresURL   string       `mapstructure:"postgres_url" validate:"required"`
	SQLitePath    string       `mapstructure:"sqlite_path" validate:"required"`
	LogLevel      string       `mapstructure:"log_level" validate:"required,uppercase"`
	VerifyOptions VerifyConfig `mapstructure:"verify" validate:"required"`
}

type VerifyConfig struct {
	SampleSize  int `mapstructure:"sample_size" validate:"min=1"`
	MaxElements int `mapstructure:"max_elements" validate:"min=1"`
}

func Load() *Config {
	v := viper.New()

	v.SetDefault("postgres_url", "")
	v.SetDefault("sqlite_path", "./pgarray_verify.sqlite")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("verify.sample_size", 25)
	v.SetDefault("verify.max_elements", 16)

	v.SetEnvPrefix("PGARRAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configFile := os.Getenv("PGARRAY_CONFIG_PATH")
	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Info("Loading configuration from specified file", "path", configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pgarray/")
	}

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Failed to read config file", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("Configuration loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Failed to parse configuration", "error", err)
		os.Exit(1)
	}

	validateConfig(&cfg)
	logConfig(&cfg)
	return &cfg
}

func validateConfig(cfg *Config) {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		slog.Error("Config validation failed", "error", err)
		os.Exit(1)
	}
}

func logConfig(cfg *Config) {
	slog.Info("Final Configuration",
		"postgres_url", cfg.PostgresURL,
		"sqlite_path", cfg.SQLitePath,
		"log_level", cfg.LogLevel,
		"verify", cfg.VerifyOptions)
}
