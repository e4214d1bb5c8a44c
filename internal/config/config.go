// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Wiki   WikiConfig   `mapstructure:"wiki" yaml:"wiki"`
	Client ClientConfig `mapstructure:"client" yaml:"client"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// WikiConfig identifies the wiki this tool talks to and how it presents itself.
//
// AccessToken is optional; when set it is sent as an OAuth 2.0 bearer token.
// Anonymous access covers everything except deleted-contribution lookups.
type WikiConfig struct {
	Site        string `mapstructure:"site" yaml:"site"`
	UserAgent   string `mapstructure:"user_agent" yaml:"user_agent"`
	AccessToken string `mapstructure:"access_token" yaml:"access_token"`
}

// ClientConfig holds the knobs for the Action API wire client.
type ClientConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	// RateLimit is the sustained requests-per-second budget against the API.
	RateLimit  float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst  int     `mapstructure:"rate_burst" yaml:"rate_burst"`
	ForceHTTP2 bool    `mapstructure:"force_http2" yaml:"force_http2"`
	// MaxLag is passed to the API so the servers can shed us under replication lag.
	MaxLag int `mapstructure:"max_lag" yaml:"max_lag"`
}

// NewDefaultConfig returns a Config populated entirely from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "socklens")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Wiki --
	v.SetDefault("wiki.site", "en.wikipedia.org")
	v.SetDefault("wiki.user_agent", "socklens/1.0 (moderator tooling)")

	// -- Client --
	v.SetDefault("client.request_timeout", "30s")
	v.SetDefault("client.rate_limit", 5.0)
	v.SetDefault("client.rate_burst", 2)
	v.SetDefault("client.force_http2", true)
	v.SetDefault("client.max_lag", 5)
}
