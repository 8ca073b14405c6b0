package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Auth modes.
const (
	AuthStatic = "static"
	AuthRemote = "remote"
)

// Config holds application configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// APIConfig points at the subcontractor backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig selects how logins are checked.
type AuthConfig struct {
	Mode string `mapstructure:"mode"`
}

// LogConfig holds logger settings. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DevHints bool `mapstructure:"dev_hints"`
}

// Load reads configuration from .env, file and env. Env var overrides use
// prefix SUBSPORTAL_.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	home := os.Getenv("HOME")
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8080/api/subcontractors")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "subsportal", "subsportal.db"))
	v.SetDefault("auth.mode", AuthStatic)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "subsportal", "subsportal.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.dev_hints", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SUBSPORTAL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "subsportal"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SUBSPORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit file must exist and parse
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Auth.Mode {
	case AuthStatic, AuthRemote:
	default:
		return fmt.Errorf("auth.mode %q: want %q or %q", c.Auth.Mode, AuthStatic, AuthRemote)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}

// Path returns the file Load reads and Save writes.
func Path() string {
	if p := os.Getenv("SUBSPORTAL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "subsportal", "config.toml")
}

// Save writes cfg to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("database.path", cfg.Database.Path)
	v.Set("auth.mode", cfg.Auth.Mode)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.dev_hints", cfg.UI.DevHints)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
