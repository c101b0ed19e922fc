// Package config provides YAML-based configuration for the sylly server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Extraction modes.
const (
	ExtractModeScript = "script"
	ExtractModeMock   = "mock"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCORS"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	// BodyLimit must stay above Storage.MaxUploadBytes so oversized files
	// reach the validator and get the size error instead of a bare 413.
	BodyLimit         string `yaml:"bodyLimit"`
	EnableCompression bool   `yaml:"enableCompression"`
}

// StorageConfig contains upload directory settings
type StorageConfig struct {
	DataDirectory    string   `yaml:"dataDirectory"`
	UploadsDirectory string   `yaml:"uploadsDirectory"`
	TempDirectory    string   `yaml:"tempDirectory"`
	PublicPrefix     string   `yaml:"publicPrefix"`
	MaxUploadBytes   int64    `yaml:"maxUploadBytes"`
	IgnorePatterns   []string `yaml:"ignorePatterns"`
}

// ExtractionConfig selects and configures the extraction collaborator
type ExtractionConfig struct {
	Mode           string   `yaml:"mode"` // "script" or "mock"
	Interpreter    string   `yaml:"interpreter"`
	Args           []string `yaml:"args"`
	Script         string   `yaml:"script"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level                string `yaml:"level"`
	Format               string `yaml:"format"` // "json" or "text"
	EnableRequestLogging bool   `yaml:"enableRequestLogging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:              8080,
			BindAddress:       "0.0.0.0",
			EnableCORS:        true,
			AllowOrigins:      "*",
			ReadTimeout:       30,
			WriteTimeout:      150,
			IdleTimeout:       120,
			BodyLimit:         "12M",
			EnableCompression: true,
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			TempDirectory:    "./data/tmp",
			PublicPrefix:     "uploads",
			MaxUploadBytes:   10 * 1024 * 1024,
			IgnorePatterns:   []string{"*.tmp", "*.part"},
		},
		Extraction: ExtractionConfig{
			Mode:           ExtractModeScript,
			Interpreter:    "python3",
			Script:         "./run_extract.py",
			TimeoutSeconds: 120,
		},
		Logging: LoggingConfig{
			Level:                "info",
			Format:               "json",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults first
// when the file does not exist yet.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		if err := config.Validate(); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# sylly server configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the server cannot run with
func (c *AppConfig) Validate() error {
	switch c.Extraction.Mode {
	case ExtractModeScript, ExtractModeMock:
	default:
		return fmt.Errorf("invalid extraction mode %q (want %q or %q)", c.Extraction.Mode, ExtractModeScript, ExtractModeMock)
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("maxUploadBytes must be positive")
	}
	if c.Extraction.TimeoutSeconds <= 0 {
		return fmt.Errorf("extraction timeoutSeconds must be positive")
	}
	// the write deadline runs from the request headers, so it has to outlast
	// the collaborator or a timed-out extraction cannot be reported
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Extraction.TimeoutSeconds {
		return fmt.Errorf("server writeTimeoutSeconds (%d) must exceed extraction timeoutSeconds (%d)",
			c.Server.WriteTimeout, c.Extraction.TimeoutSeconds)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	// DATA_DIR moves every storage directory with it
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.TempDirectory = filepath.Join(dataDir, "tmp")
	}

	if mode := os.Getenv("SYLLY_EXTRACT_MODE"); mode != "" {
		c.Extraction.Mode = mode
	}

	if script := os.Getenv("SYLLY_EXTRACT_SCRIPT"); script != "" {
		c.Extraction.Script = script
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(configDir, c.Storage.UploadsDirectory)
	}
	if !filepath.IsAbs(c.Storage.TempDirectory) {
		c.Storage.TempDirectory = filepath.Join(configDir, c.Storage.TempDirectory)
	}
	if c.Extraction.Script != "" && !filepath.IsAbs(c.Extraction.Script) {
		c.Extraction.Script = filepath.Join(configDir, c.Extraction.Script)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetTempDir returns the directory incoming files are spooled to
func (c *AppConfig) GetTempDir() string {
	return c.Storage.TempDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetExtractionTimeout returns the per-run bound for the extraction collaborator
func (c *AppConfig) GetExtractionTimeout() time.Duration {
	return time.Duration(c.Extraction.TimeoutSeconds) * time.Second
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.TempDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
