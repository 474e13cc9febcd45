package config

import "time"

// Config holds application configuration values.
type Config struct {
	AccessToken    string        `mapstructure:"access_token" yaml:"-"`
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	MaxMessages    int           `mapstructure:"max_messages" yaml:"max_messages"`
	GroupsPerPage  int           `mapstructure:"groups_per_page" yaml:"groups_per_page"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	TopMessages    int           `mapstructure:"top_messages" yaml:"top_messages"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`

	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	StatsPerMinute    int           `mapstructure:"stats_per_minute" yaml:"stats_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		BaseURL:           "https://api.groupme.com/v3",
		MaxMessages:       2000,
		GroupsPerPage:     100,
		RequestTimeout:    5 * time.Second,
		TopMessages:       25,
		LogLevel:          "info",
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		StatsPerMinute:    30,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.AccessToken != "" {
		c.AccessToken = other.AccessToken
	}
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if other.MaxMessages != 0 {
		c.MaxMessages = other.MaxMessages
	}
	if other.GroupsPerPage != 0 {
		c.GroupsPerPage = other.GroupsPerPage
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.TopMessages != 0 {
		c.TopMessages = other.TopMessages
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.StatsPerMinute != 0 {
		c.StatsPerMinute = other.StatsPerMinute
	}
}
