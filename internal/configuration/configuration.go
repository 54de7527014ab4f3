package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger — logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server — HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Classifier — external image-classification service configuration
	Classifier ClassifierConfig `mapstructure:"classifier"`
	// Catalog — reference database configuration
	Catalog CatalogConfig `mapstructure:"catalog"`
	// Overrides — optional disposition override rules
	Overrides OverridesConfig `mapstructure:"overrides"`
	// Audit — decision audit trail configuration
	Audit AuditConfig `mapstructure:"audit"`
	// Speech — optional text-to-speech announcement service
	Speech SpeechConfig `mapstructure:"speech"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level — log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address — address and port where the server will listen (e.g., ":8080").
	Address string `mapstructure:"address"`
	// Static — path to directory with static files served by the server.
	// Can be empty if static serving is not required.
	Static string `mapstructure:"static"`
}

// ClassifierConfig points at the external classification service.
type ClassifierConfig struct {
	// URL — base URL of the classification service (e.g., "http://classifier:5000").
	URL string `mapstructure:"url"`
	// Timeout — per-request timeout. Image batches can be slow to score;
	// default is 30s.
	Timeout time.Duration `mapstructure:"timeout"`
}

// CatalogConfig defines the reference database location.
type CatalogConfig struct {
	// Path — sqlite database file holding airlines, rules and sticker
	// references.
	Path string `mapstructure:"path"`
}

// OverridesConfig points at the optional override-rules file.
type OverridesConfig struct {
	// Rules — path to the YAML file with disposition override rules.
	// Empty disables overrides.
	Rules string `mapstructure:"rules"`
}

// AuditConfig defines decision audit trail parameters.
type AuditConfig struct {
	// File — audit trail path (optional; empty disables auditing)
	File string `mapstructure:"file"`
	// Size — maximal trail file size in MB before rotation (default 100)
	Size int `mapstructure:"size"`
	// Amount — number of rotated files to keep (default 20)
	Amount int `mapstructure:"amount"`
}

// SpeechConfig defines the optional announcement channel.
type SpeechConfig struct {
	// URL — base URL of the text-to-speech service. Empty disables
	// announcements.
	URL string `mapstructure:"url"`
	// Voice — voice identifier passed to the service.
	Voice string `mapstructure:"voice"`
	// Timeout — per-announcement timeout (default 10s).
	Timeout time.Duration `mapstructure:"timeout"`
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected
// error. Returns nil if the configuration is valid.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	if err := c.Classifier.Validate(); err != nil {
		return err
	}

	if err := c.Catalog.Validate(); err != nil {
		return err
	}

	if err := c.Audit.Validate(); err != nil {
		return err
	}

	if err := c.Speech.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks the correctness of the logger configuration.
// Verifies that the log level is set and is one of the supported values.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	return nil
}

// Validate checks the correctness of the server configuration.
// Verifies that the server address is set.
func (n *ServerConfig) Validate() error {
	if n.Address == "" {
		return errors.New("server.address: must be specified")
	}

	return nil
}

// Validate checks the classifier configuration and applies the default
// timeout.
func (c *ClassifierConfig) Validate() error {
	if c.URL == "" {
		return errors.New("classifier.url: must be specified")
	}
	if _, err := url.Parse(c.URL); err != nil {
		return errors.New("classifier.url: URL is incorrect")
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	return nil
}

// Validate verifies the catalog path is set.
func (c *CatalogConfig) Validate() error {
	if c.Path == "" {
		return errors.New("catalog.path: must be specified")
	}

	return nil
}

// Validate audit parameters.
func (a *AuditConfig) Validate() error {
	if a.Amount == 0 {
		a.Amount = 20
	}

	if a.Size == 0 {
		a.Size = 100
	}

	return nil
}

// Validate checks the speech configuration and applies the default timeout.
// An empty URL is valid: announcements are optional.
func (s *SpeechConfig) Validate() error {
	if s.URL != "" {
		if _, err := url.Parse(s.URL); err != nil {
			return errors.New("speech.url: URL is incorrect")
		}
	}
	if s.Timeout == 0 {
		s.Timeout = 10 * time.Second
	}

	return nil
}

// LoadConfig loads configuration from the specified file using Viper.
// Supports YAML format. Also includes environment variable loading
// (AutomaticEnv), which can override values from the file.
//
// Parameter configPath — path to the configuration file.
//
// Returns a pointer to AppConfig or an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
