package model

// LoggingConfig holds logging configuration options.
type LoggingConfig struct {
	Level      string `json:"level,omitempty" mapstructure:"level"`             // debug, info, warn, error
	Format     string `json:"format,omitempty" mapstructure:"format"`           // json, console
	OutputFile string `json:"output_file,omitempty" mapstructure:"output_file"` // optional file output
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Planning defaults
	DefaultStrategy   Strategy `json:"default_strategy" mapstructure:"default_strategy"`
	MinOffcutLengthMm int      `json:"min_offcut_length_mm" mapstructure:"min_offcut_length_mm"`
	WastePercent      float64  `json:"waste_percent" mapstructure:"waste_percent"` // purchase estimate margin

	// Storage locations; empty means the default under the user's home
	InventoryPath string `json:"inventory_path,omitempty" mapstructure:"inventory_path"`
	PlansPath     string `json:"plans_path,omitempty" mapstructure:"plans_path"`
	TemplatesPath string `json:"templates_path,omitempty" mapstructure:"templates_path"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultStrategy:   StrategyGreedy,
		MinOffcutLengthMm: DefaultMinOffcutLengthMm,
		WastePercent:      10,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configured values.
func (c AppConfig) Validate() error {
	if _, err := ParseStrategy(string(c.DefaultStrategy)); err != nil {
		return err
	}
	if c.MinOffcutLengthMm < 0 {
		return &InvalidConfigurationError{Field: "min_offcut_length_mm", Reason: "must not be negative"}
	}
	if c.WastePercent < 0 {
		return &InvalidConfigurationError{Field: "waste_percent", Reason: "must not be negative"}
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return &InvalidConfigurationError{Field: "logging.format", Reason: "must be json or console"}
	}
	return nil
}
