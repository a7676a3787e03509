// Package config provides configuration management for ember using Viper,
// loading from a YAML file with EMBER_ environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultCLIPath      = "arduino-cli"
	DefaultFQBN         = "esp32:esp32:esp32"
	DefaultBaudRate     = 115200
	DefaultPollMillis   = 100
	DefaultTemplatesDir = "templates"

	fileName = ".ember"
	fileType = "yml"
)

// Config holds all ember configuration.
type Config struct {
	CLIPath        string `mapstructure:"cli_path"`
	FQBN           string `mapstructure:"fqbn"`
	SerialPort     string `mapstructure:"serial_port"`
	SerialBaudRate int    `mapstructure:"serial_baud_rate"`
	PollIntervalMS int    `mapstructure:"poll_interval_ms"`
	TemplatesDir   string `mapstructure:"templates_dir"`
	BrokerURL      string `mapstructure:"broker_url"`
	StateDir       string `mapstructure:"state_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		CLIPath:        DefaultCLIPath,
		FQBN:           DefaultFQBN,
		SerialBaudRate: DefaultBaudRate,
		PollIntervalMS: DefaultPollMillis,
		TemplatesDir:   DefaultTemplatesDir,
	}
}

// PollInterval returns the serial poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// New returns a Viper instance with ember defaults and EMBER_ env
// overrides registered.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("cli_path", DefaultCLIPath)
	v.SetDefault("fqbn", DefaultFQBN)
	v.SetDefault("serial_baud_rate", DefaultBaudRate)
	v.SetDefault("poll_interval_ms", DefaultPollMillis)
	v.SetDefault("templates_dir", DefaultTemplatesDir)
	v.SetEnvPrefix("EMBER")
	v.AutomaticEnv()
	return v
}

// Load reads configuration into a Config. When file is empty, .ember.yml
// is searched in the working directory and ~/.config/ember; a missing
// file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ember"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the global ~/.config/ember/.ember.yml, or to
// path when given.
func Save(cfg Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(home, ".config", "ember")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path = filepath.Join(dir, fileName+"."+fileType)
	}

	v := viper.New()
	v.Set("cli_path", cfg.CLIPath)
	v.Set("fqbn", cfg.FQBN)
	v.Set("serial_port", cfg.SerialPort)
	v.Set("serial_baud_rate", cfg.SerialBaudRate)
	v.Set("poll_interval_ms", cfg.PollIntervalMS)
	v.Set("templates_dir", cfg.TemplatesDir)
	v.Set("broker_url", cfg.BrokerURL)
	v.Set("state_dir", cfg.StateDir)
	return v.WriteConfigAs(path)
}

func validate(cfg Config) error {
	if cfg.SerialBaudRate <= 0 {
		return fmt.Errorf("serial_baud_rate %d must be positive", cfg.SerialBaudRate)
	}
	if cfg.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms %d must be positive", cfg.PollIntervalMS)
	}
	if cfg.CLIPath == "" {
		return fmt.Errorf("cli_path must not be empty")
	}
	if cfg.FQBN == "" {
		return fmt.Errorf("fqbn must not be empty")
	}
	return nil
}
