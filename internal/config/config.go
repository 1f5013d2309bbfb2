package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings for the local stub backend.
type DatabaseConfig struct {
	Path string
}

// AuthConfig controls the simulated network behaviour of the auth stub.
type AuthConfig struct {
	Latency time.Duration
	Jitter  time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Splash         time.Duration
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
}

// LogConfig holds the log file location. The TUI owns stdout, so logs go to a file.
type LogConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix CAMARON_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "camaron", "camaron.db"))
	v.SetDefault("auth.latency", "1s")
	v.SetDefault("auth.jitter", "1s")
	v.SetDefault("ui.splash", "3s")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "America/Mexico_City")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "camaron", "camaron.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CAMARON_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "camaron"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CAMARON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.Splash <= 0 {
		c.UI.Splash = 3 * time.Second
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Account settings use it to persist presentation preferences.
func Save(cfg Config) error {
	path := os.Getenv("CAMARON_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "camaron", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("auth.latency", cfg.Auth.Latency.String())
	v.Set("auth.jitter", cfg.Auth.Jitter.String())
	v.Set("ui.splash", cfg.UI.Splash.String())
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
