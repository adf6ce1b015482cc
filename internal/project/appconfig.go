package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// EnvPrefix is the prefix of environment variables that override config
// values, e.g. PROFILECUT_DEFAULT_STRATEGY or PROFILECUT_LOGGING_LEVEL.
const EnvPrefix = "PROFILECUT"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.profilecut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".profilecut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given JSON file, applying
// PROFILECUT_* environment overrides. A missing file yields the defaults
// (plus overrides) with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setConfigDefaults(v, model.DefaultAppConfig())

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return model.AppConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return model.AppConfig{}, err
	}

	var config model.AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return model.AppConfig{}, err
	}
	return config, nil
}

// setConfigDefaults registers every key so environment overrides apply
// even when the file does not mention them.
func setConfigDefaults(v *viper.Viper, d model.AppConfig) {
	v.SetDefault("default_strategy", string(d.DefaultStrategy))
	v.SetDefault("min_offcut_length_mm", d.MinOffcutLengthMm)
	v.SetDefault("waste_percent", d.WastePercent)
	v.SetDefault("inventory_path", d.InventoryPath)
	v.SetDefault("plans_path", d.PlansPath)
	v.SetDefault("templates_path", d.TemplatesPath)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_file", d.Logging.OutputFile)
}
