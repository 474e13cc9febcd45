package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/groupstats/internal/core"
)

const (
	envConfigDefaultPath = "GROUPSTATS_CONFIG_DEFAULT_PATH"
	envAccessToken       = "GROUPME_ACCESS_TOKEN"
	defaultConfigName    = "config.yaml"
	dotEnvFile           = ".env"
)

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
// A .env file in the working directory is loaded into the environment first; it never overrides variables
// that are already set.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) && logger != nil {
		logger.Warn().Err(err).Str("path", dotEnvFile).Msg("failed to load env file")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("max_messages", cfg.MaxMessages)
	v.SetDefault("groups_per_page", cfg.GroupsPerPage)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("top_messages", cfg.TopMessages)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("read_header_timeout", cfg.ReadHeaderTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("stats_per_minute", cfg.StatsPerMinute)

	v.SetEnvPrefix("GROUPSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The token keeps the variable name GroupMe documents; the prefixed name wins when both are set.
	if err := v.BindEnv("access_token", "GROUPSTATS_ACCESS_TOKEN", envAccessToken); err != nil {
		return cfg, "", fmt.Errorf("bind access token env: %w", err)
	}

	configPath := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil && logger != nil {
				logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
			} else if logger != nil {
				logger.Debug().Str("path", configPath).Msg("created default config")
			}
			// try reading again in case it was just written
			if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
				logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
			}
		} else {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, configPath, nil
}

// Validate reports the first missing or invalid value as a *core.ConfigError.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return &core.ConfigError{Key: "access_token", Msg: "missing, set " + envAccessToken}
	}
	if c.BaseURL == "" {
		return &core.ConfigError{Key: "base_url", Msg: "must not be empty"}
	}
	if c.MaxMessages < 0 {
		return &core.ConfigError{Key: "max_messages", Msg: "must not be negative"}
	}
	if c.RequestTimeout <= 0 {
		return &core.ConfigError{Key: "request_timeout", Msg: "must be positive"}
	}
	if c.TopMessages < 0 {
		return &core.ConfigError{Key: "top_messages", Msg: "must not be negative"}
	}
	return nil
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
