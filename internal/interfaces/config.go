package interfaces

// Config represents the application configuration
type Config struct {
	TemplatesLocation     string `toml:"templates_location"`
	OutputLocation        string `toml:"output_location"`
	ConverterPath         string `toml:"converter_path"`
	ConvertTimeoutSeconds int    `toml:"convert_timeout_seconds"`
	Target                string `toml:"target"`
	InteractiveDefault    bool   `toml:"interactive_default"`
}

// ConfigManager handles configuration loading and resolution
type ConfigManager interface {
	// Load loads configuration from the specified path
	Load(path string) (*Config, error)

	// Resolve applies precedence rules (flags > env > config > defaults)
	Resolve() (*Config, error)

	// Validate validates the configuration values
	Validate(config *Config) error
}
