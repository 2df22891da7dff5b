package logger

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFilePath is where the rotating log file lives unless overridden
const DefaultFilePath = "logs/dungeonbuilder.log"

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level" json:"level" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=WARNING,enum=ERROR"`
	ConsoleEnabled bool   `yaml:"console_enabled" json:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format" json:"console_format" jsonschema:"enum=text,enum=json"`
	FileEnabled    bool   `yaml:"file_enabled" json:"file_enabled"`
	FilePath       string `yaml:"file_path" json:"file_path"`
	FileFormat     string `yaml:"file_format" json:"file_format" jsonschema:"enum=text,enum=json"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb" json:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups" json:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days" json:"file_max_age_days"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only text logging at INFO
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       DefaultFilePath,
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file and applies
// environment variable overrides. A missing file yields the defaults; a file
// that cannot be parsed yields the defaults and an error.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	var loadErr error
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			var loggingConfig LoggingConfig
			if err := yaml.Unmarshal(data, &loggingConfig); err != nil {
				loadErr = fmt.Errorf("failed to parse logging config: %w", err)
			} else {
				config.merge(loggingConfig.Logging)
			}
		} else if !os.IsNotExist(err) {
			loadErr = fmt.Errorf("failed to read logging config: %w", err)
		}
	}

	config.applyEnv()
	return config, loadErr
}

// merge copies the set fields of loaded over c. Booleans are always taken.
func (c *Config) merge(loaded Config) {
	if loaded.Level != "" {
		c.Level = loaded.Level
	}
	c.ConsoleEnabled = loaded.ConsoleEnabled
	if loaded.ConsoleFormat != "" {
		c.ConsoleFormat = loaded.ConsoleFormat
	}
	c.FileEnabled = loaded.FileEnabled
	if loaded.FilePath != "" {
		c.FilePath = loaded.FilePath
	}
	if loaded.FileFormat != "" {
		c.FileFormat = loaded.FileFormat
	}
	if loaded.FileMaxSizeMB > 0 {
		c.FileMaxSizeMB = loaded.FileMaxSizeMB
	}
	if loaded.FileMaxBackups > 0 {
		c.FileMaxBackups = loaded.FileMaxBackups
	}
	if loaded.FileMaxAgeDays > 0 {
		c.FileMaxAgeDays = loaded.FileMaxAgeDays
	}
}

func (c *Config) applyEnv() {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Level = logLevel
	}
	if consoleFormat := os.Getenv("LOG_CONSOLE_FORMAT"); consoleFormat != "" {
		c.ConsoleFormat = consoleFormat
	}
	if fileEnabled := os.Getenv("LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			c.FileEnabled = enabled
		}
	}
	if filePath := os.Getenv("LOG_FILE_PATH"); filePath != "" {
		c.FilePath = filePath
	}
	if fileFormat := os.Getenv("LOG_FILE_FORMAT"); fileFormat != "" {
		c.FileFormat = fileFormat
	}
}
