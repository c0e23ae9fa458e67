// Package config provides XML-based configuration with environment overrides.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"SuperApp"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Database configuration
	Database DatabaseConfig `xml:"Database"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Import pipeline configuration
	Import ImportConfig `xml:"Import"`

	// Outgoing mail
	Mail MailConfig `xml:"Mail"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// DatabaseConfig selects the SQL backend. Driver is "duckdb" or "postgres".
type DatabaseConfig struct {
	Driver       string `xml:"Driver"`
	Path         string `xml:"Path"`
	Host         string `xml:"Host"`
	Port         int    `xml:"Port"`
	User         string `xml:"User"`
	Password     string `xml:"Password"`
	Name         string `xml:"Name"`
	SSLMode      string `xml:"SSLMode"`
	MaxOpenConns int    `xml:"MaxOpenConns"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	UploadsDirectory string `xml:"UploadsDirectory"`
	InboxDirectory   string `xml:"InboxDirectory"`
	MaxUploadSize    string `xml:"MaxUploadSize"`
	EnableArchive    bool   `xml:"EnableArchive"`
}

// ImportConfig contains ingestion settings
type ImportConfig struct {
	DuplicatePolicy        string `xml:"DuplicatePolicy"`
	JobRetentionMinutes    int    `xml:"JobRetentionMinutes"`
	CleanupIntervalMinutes int    `xml:"CleanupIntervalMinutes"`
	WatchPattern           string `xml:"WatchPattern"`
}

// MailConfig contains SMTP settings for the report email. An empty Host
// disables email export.
type MailConfig struct {
	Host             string `xml:"Host"`
	Port             int    `xml:"Port"`
	User             string `xml:"User"`
	Password         string `xml:"Password"`
	From             string `xml:"From"`
	DefaultRecipient string `xml:"DefaultRecipient"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel                string `xml:"LogLevel"`
	EnableRequestLogging    bool   `xml:"EnableRequestLogging"`
	DuckDBThreads           int    `xml:"DuckDBThreads"`
	DuckDBMemoryLimit       string `xml:"DuckDBMemoryLimit"`
	WebSocketMaxMessageSize int    `xml:"WebSocketMaxMessageSizeKB"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         3000,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "50M",
		},
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "./data/superapp.duckdb",
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Name:         "super_app",
			SSLMode:      "disable",
			MaxOpenConns: 10,
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			InboxDirectory:   "./data/inbox",
			MaxUploadSize:    "50M",
			EnableArchive:    true,
		},
		Import: ImportConfig{
			DuplicatePolicy:        "upsert",
			JobRetentionMinutes:    60,
			CleanupIntervalMinutes: 5,
			WatchPattern:           "*.{csv,xlsx}",
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Advanced: AdvancedConfig{
			LogLevel:                "info",
			EnableRequestLogging:    true,
			DuckDBThreads:           4,
			DuckDBMemoryLimit:       "1GB",
			WebSocketMaxMessageSize: 64,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Super App Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
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

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.InboxDirectory = filepath.Join(dataDir, "inbox")
		c.Database.Path = filepath.Join(dataDir, "superapp.duckdb")
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}

	// Gmail app credentials double as sender and default recipient.
	if v := os.Getenv("EMAIL_USER"); v != "" {
		c.Mail.User = v
		if c.Mail.From == "" {
			c.Mail.From = v
		}
		if c.Mail.DefaultRecipient == "" {
			c.Mail.DefaultRecipient = v
		}
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		c.Mail.Password = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Advanced.LogLevel = v
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
	resolve(&c.Storage.DataDirectory)
	resolve(&c.Storage.UploadsDirectory)
	resolve(&c.Storage.InboxDirectory)
	if c.Database.Driver == "duckdb" {
		resolve(&c.Database.Path)
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

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// MailEnabled reports whether report emails can be sent.
func (c *AppConfig) MailEnabled() bool {
	return c.Mail.Host != "" && c.Mail.User != ""
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.InboxDirectory,
	}
	if c.Database.Driver == "duckdb" && c.Database.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Database.Path))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ParseSize parses sizes such as "512", "64K", "50M" or "1G" into bytes.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1 << 10
	case strings.HasSuffix(s, "M"):
		mult = 1 << 20
	case strings.HasSuffix(s, "G"):
		mult = 1 << 30
	}
	if mult > 1 {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * mult, nil
}

// MaxUploadBytes returns Storage.MaxUploadSize in bytes, or 0 (no limit)
// when it does not parse.
func (c *AppConfig) MaxUploadBytes() int64 {
	n, err := ParseSize(c.Storage.MaxUploadSize)
	if err != nil {
		return 0
	}
	return n
}
