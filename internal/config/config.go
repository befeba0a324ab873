// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Chat    ChatConfig    `mapstructure:"chat" yaml:"chat"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// ChatConfig tunes the interaction with the chat UI: target URLs,
// selectors' wait budgets, and where diagnostics land on failure.
type ChatConfig struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	LoginURL          string        `mapstructure:"login_url" yaml:"login_url"`
	Model             string        `mapstructure:"model" yaml:"model"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	LoginTimeout      time.Duration `mapstructure:"login_timeout" yaml:"login_timeout"`
	UploadTimeout     time.Duration `mapstructure:"upload_timeout" yaml:"upload_timeout"`
	UploadAckTimeout  time.Duration `mapstructure:"upload_ack_timeout" yaml:"upload_ack_timeout"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout" yaml:"generation_timeout"`
	DiagnosticsDir    string        `mapstructure:"diagnostics_dir" yaml:"diagnostics_dir"`
}

// OutputConfig controls where generated artifacts are written.
type OutputConfig struct {
	ResultsDir string `mapstructure:"results_dir" yaml:"results_dir"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "promoshot")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1280)
	v.SetDefault("browser.window_height", 900)
	v.SetDefault("browser.navigation_timeout", "90s")
	v.SetDefault("browser.post_load_wait", "2s")

	// -- Chat --
	v.SetDefault("chat.base_url", "https://chat.openai.com/")
	v.SetDefault("chat.login_url", "https://chat.openai.com/auth/login")
	v.SetDefault("chat.model", "GPT-4o")
	v.SetDefault("chat.probe_timeout", "5s")
	v.SetDefault("chat.login_timeout", "30s")
	v.SetDefault("chat.upload_timeout", "10s")
	v.SetDefault("chat.upload_ack_timeout", "30s")
	v.SetDefault("chat.generation_timeout", "180s")
	v.SetDefault("chat.diagnostics_dir", "diagnostics")

	// -- Output --
	v.SetDefault("output.results_dir", "generated_images")
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the static defaults above.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
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
	if c.Chat.BaseURL == "" {
		return fmt.Errorf("chat.base_url is a required configuration field")
	}
	if c.Chat.GenerationTimeout <= 0 {
		return fmt.Errorf("chat.generation_timeout must be a positive duration")
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.Output.ResultsDir == "" {
		return fmt.Errorf("output.results_dir must not be empty")
	}
	return nil
}
