// Package config provides configuration management for texclean.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"texclean/internal/logger"
	"texclean/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "texclean.json"
	// EnvEncoding is the environment variable consulted when the file sets no encoding
	EnvEncoding = "TEXCLEAN_ENCODING"
	// EnvLogLevel is the environment variable consulted when the file sets no log level
	EnvLogLevel = "TEXCLEAN_LOG_LEVEL"
	// DefaultEncoding detects BOMs, UTF-8 and GBK
	DefaultEncoding = "auto"
	// DefaultLogLevel keeps the console quiet; warnings are printed by the CLI itself
	DefaultLogLevel = "error"
)

// ConfigManager manages texclean configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
	loadErr    error
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses ~/.config/texclean/texclean.json.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "texclean", DefaultConfigFileName)
	}

	logger.Debug("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values. Encoding and LogLevel
// stay empty so the environment can fill them in.
func defaultConfig() *types.Config {
	return &types.Config{
		KeepComments:             false,
		KeepInlineMathDelimiters: true,
		NormalizeUnicode:         false,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, it uses default values.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))
	m.loadErr = nil

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
			return nil
		}
		logger.Error("failed to read config file", err, logger.String("path", m.configPath))
		return types.NewAppErrorWithDetails(types.ErrConfig, "failed to read config file", m.configPath, err)
	}

	// Absent keys keep their defaults.
	config := defaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
		m.config = defaultConfig()
		m.loadErr = types.NewAppErrorWithDetails(types.ErrConfig, "invalid config file format", m.configPath, err)
		return nil
	}

	logger.Debug("configuration loaded successfully",
		logger.String("path", m.configPath),
		logger.String("encoding", config.Encoding),
		logger.Int("skipRules", len(config.SkipRules)))
	m.config = config
	return nil
}

// LoadError returns the parse error that made the last Load fall back to
// defaults, or nil.
func (m *ConfigManager) LoadError() error {
	return m.loadErr
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.GetConfig(), "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved successfully", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetEncoding returns the input/output encoding.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetEncoding() string {
	if m.config != nil && m.config.Encoding != "" {
		return m.config.Encoding
	}
	if env := os.Getenv(EnvEncoding); env != "" {
		return env
	}
	return DefaultEncoding
}

// GetLogLevel returns the minimum log level name.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetLogLevel() string {
	if m.config != nil && m.config.LogLevel != "" {
		return m.config.LogLevel
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		return env
	}
	return DefaultLogLevel
}

// GetLogFile returns the log file path, empty for stderr only.
func (m *ConfigManager) GetLogFile() string {
	if m.config != nil {
		return m.config.LogFile
	}
	return ""
}

// GetSkipRules returns the names of rules to leave out of the pipeline.
func (m *ConfigManager) GetSkipRules() []string {
	if m.config != nil {
		return m.config.SkipRules
	}
	return nil
}
