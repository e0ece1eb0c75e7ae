// Package config resolves runtime settings for custseg from flags, the
// environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/f3rmion/custseg/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CUSTSEG_MODEL.
const EnvPrefix = "CUSTSEG"

// Config holds all runtime settings.
type Config struct {
	Model   string `mapstructure:"model"`    // Path to the segmentation artifact
	Verbose bool   `mapstructure:"verbose"`  // Debug logging
	LogFile string `mapstructure:"log_file"` // Where the interactive form logs; empty disables
	Addr    string `mapstructure:"addr"`     // Listen address for serve
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("model", model.DefaultPath)
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")
	v.SetDefault("addr", ":8501")
}

// Init wires environment overrides and reads the config file, if any. An
// explicit file must exist; the default location may be absent.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		dir, err := GetConfigDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// FromViper decodes the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// ModelPath returns the artifact path made absolute for error messages.
func (c Config) ModelPath() string {
	if abs, err := filepath.Abs(c.Model); err == nil {
		return abs
	}
	return c.Model
}

// Logger builds a text logger writing to w. A nil writer discards output.
func (c Config) Logger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "custseg"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "custseg"), nil
}
