// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Control ControlConfig `mapstructure:"control" yaml:"control"`
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Bot     BotConfig     `mapstructure:"bot" yaml:"bot"`
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

// ColorConfig defines the console color for each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// ControlConfig tunes the execution controller and its key listener.
type ControlConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	TerminateKey  string        `mapstructure:"terminate_key" yaml:"terminate_key"`
	PauseKey      string        `mapstructure:"pause_key" yaml:"pause_key"`
	PauseDebounce time.Duration `mapstructure:"pause_debounce" yaml:"pause_debounce"`
}

// APIConfig configures the local control-plane HTTP server.
type APIConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr      string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	WriteRateLimit  float64       `mapstructure:"write_rate_limit" yaml:"write_rate_limit"`
	WriteRateBurst  int           `mapstructure:"write_rate_burst" yaml:"write_rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// BotConfig holds settings for the bot runner itself.
type BotConfig struct {
	ItemDBPath  string        `mapstructure:"item_db_path" yaml:"item_db_path"`
	ProfilePath string        `mapstructure:"profile_path" yaml:"profile_path"`
	TickRate    time.Duration `mapstructure:"tick_rate" yaml:"tick_rate"`
	MaxStepErrs int           `mapstructure:"max_step_errs" yaml:"max_step_errs"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only; fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pixelpilot")
	v.SetDefault("logger.log_file", "pixelpilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Control --
	v.SetDefault("control.poll_interval", "250ms")
	v.SetDefault("control.terminate_key", "page up")
	v.SetDefault("control.pause_key", "page down")
	v.SetDefault("control.pause_debounce", "400ms")

	// -- API --
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.listen_addr", "127.0.0.1:5432")
	v.SetDefault("api.write_rate_limit", 2.0)
	v.SetDefault("api.write_rate_burst", 4)
	v.SetDefault("api.shutdown_timeout", "5s")

	// -- Bot --
	v.SetDefault("bot.item_db_path", "data/item_db.json")
	v.SetDefault("bot.profile_path", "")
	v.SetDefault("bot.tick_rate", "600ms")
	v.SetDefault("bot.max_step_errs", 3)
}

// envKeyReplacer maps nested config keys to environment variable segments,
// e.g. "api.listen_addr" becomes "API_LISTEN_ADDR".
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// BindEnv wires viper to PIXELPILOT_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PIXELPILOT")
	v.SetEnvKeyReplacer(envKeyReplacer())
	v.AutomaticEnv()
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Control.PollInterval <= 0 {
		return fmt.Errorf("control.poll_interval must be a positive duration")
	}
	if c.Control.PauseDebounce < 0 {
		return fmt.Errorf("control.pause_debounce must not be negative")
	}
	if c.Control.TerminateKey == "" || c.Control.PauseKey == "" {
		return fmt.Errorf("control.terminate_key and control.pause_key are required")
	}
	if c.Control.TerminateKey == c.Control.PauseKey {
		return fmt.Errorf("control.terminate_key and control.pause_key must differ")
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api configuration invalid: %w", err)
	}
	if c.Bot.TickRate <= 0 {
		return fmt.Errorf("bot.tick_rate must be a positive duration")
	}
	if c.Bot.MaxStepErrs < 0 {
		return fmt.Errorf("bot.max_step_errs must not be negative")
	}
	return nil
}

// Validate checks the control-plane settings.
func (a *APIConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required when the API is enabled")
	}
	if a.WriteRateLimit <= 0 {
		return fmt.Errorf("write_rate_limit must be greater than 0")
	}
	if a.WriteRateBurst <= 0 {
		return fmt.Errorf("write_rate_burst must be greater than 0")
	}
	if a.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be a positive duration")
	}
	return nil
}
