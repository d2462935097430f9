package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"docufill-cli/internal/interfaces"
)

// Manager implements the ConfigManager interface
type Manager struct {
	v     *viper.Viper
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("DOCUFILL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	return &Manager{
		v:     v,
		flags: make(map[string]interface{}),
	}
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("templates_location", "./templates")
	v.SetDefault("output_location", "./output")
	v.SetDefault("converter_path", "libreoffice")
	v.SetDefault("convert_timeout_seconds", 30)
	v.SetDefault("target", "stdout")
	v.SetDefault("interactive_default", true)
}

// Load loads configuration from the specified path
func (m *Manager) Load(path string) (*interfaces.Config, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".config", "docufill", "config.toml")
	}

	path = expandPath(path)

	// A missing config file is not an error; defaults apply.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return m.getConfigFromViper(), nil
	}

	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return m.getConfigFromViper(), nil
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Resolve applies precedence rules (flags > env > config > defaults)
func (m *Manager) Resolve() (*interfaces.Config, error) {
	config := m.getConfigFromViper()
	m.applyFlagOverrides(config)
	return config, nil
}

// applyFlagOverrides applies flag values over the configuration
func (m *Manager) applyFlagOverrides(config *interfaces.Config) {
	if val, exists := m.flags["templates_location"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.TemplatesLocation = expandPath(str)
		}
	}

	if val, exists := m.flags["output_location"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.OutputLocation = expandPath(str)
		}
	}

	if val, exists := m.flags["converter_path"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.ConverterPath = str
		}
	}

	if val, exists := m.flags["convert_timeout_seconds"]; exists && val != nil {
		if n, ok := val.(int); ok && n > 0 {
			config.ConvertTimeoutSeconds = n
		}
	}

	if val, exists := m.flags["target"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.Target = str
		}
	}
}

// Validate validates the configuration values
func (m *Manager) Validate(config *interfaces.Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.ConvertTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid convert_timeout_seconds: %d (must be positive)", config.ConvertTimeoutSeconds)
	}

	validTargets := map[string]bool{
		"clipboard": true,
		"stdout":    true,
	}
	if !validTargets[config.Target] && !strings.HasPrefix(config.Target, "file:") {
		return fmt.Errorf("invalid target: %s (must be 'clipboard', 'stdout', or 'file:/path')", config.Target)
	}

	// The templates root must exist or be creatable; the output root is
	// created lazily per fill.
	if config.TemplatesLocation != "" {
		expanded := expandPath(config.TemplatesLocation)
		if _, err := os.Stat(expanded); os.IsNotExist(err) {
			if err := os.MkdirAll(expanded, 0o755); err != nil {
				return fmt.Errorf("templates_location directory does not exist and cannot be created: %s", expanded)
			}
		}
	}

	return nil
}

// getConfigFromViper converts viper configuration to Config struct
// This handles env > config > defaults precedence (flags are applied separately)
func (m *Manager) getConfigFromViper() *interfaces.Config {
	return &interfaces.Config{
		TemplatesLocation:     expandPath(m.v.GetString("templates_location")),
		OutputLocation:        expandPath(m.v.GetString("output_location")),
		ConverterPath:         m.v.GetString("converter_path"),
		ConvertTimeoutSeconds: m.v.GetInt("convert_timeout_seconds"),
		Target:                m.v.GetString("target"),
		InteractiveDefault:    m.v.GetBool("interactive_default"),
	}
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	return filepath.Join(homeDir, path[2:])
}
