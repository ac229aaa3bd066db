package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port   string `json:"port" validate:"required"`
	Host   string `json:"host"`
	APIKey string `json:"-"`

	// Source selection
	Profile    string `json:"profile"`
	ProfileDir string `json:"profile_dir"`
	File       string `json:"file"`

	// Validation settings
	RequireChecksum bool    `json:"require_checksum"`
	ExtraChainIDs   []int64 `json:"extra_chain_ids"`

	// Application settings
	LogLevel       string `json:"log_level"`
	LogFormat      string `json:"log_format"`
	RequestTimeout int    `json:"request_timeout"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:       getEnvOrDefault("PORT", "3000"),
		Host:       getEnvOrDefault("HOST", "0.0.0.0"),
		APIKey:     os.Getenv("MARKETCONF_API_KEY"),
		Profile:    getEnvOrDefault("MARKETCONF_PROFILE", "alfajores"),
		ProfileDir: os.Getenv("MARKETCONF_DIR"),
		File:       os.Getenv("MARKETCONF_FILE"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:  getEnvOrDefault("LOG_FORMAT", "text"),
	}

	var err error
	if config.RequireChecksum, err = getEnvBoolOrDefault("MARKETCONF_REQUIRE_CHECKSUM", true); err != nil {
		return nil, err
	}
	if config.RequestTimeout, err = getEnvIntOrDefault("REQUEST_TIMEOUT", 30); err != nil {
		return nil, err
	}
	if config.ExtraChainIDs, err = getEnvInt64List("MARKETCONF_EXTRA_CHAIN_IDS"); err != nil {
		return nil, err
	}

	return config, nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Host + ":" + c.Port
}

// GetRequestTimeout returns the per-request timeout of the HTTP server
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %q", c.Port)
	}
	if c.File == "" && c.Profile == "" {
		return fmt.Errorf("a profile or a configuration file is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	for _, id := range c.ExtraChainIDs {
		if id <= 0 {
			return fmt.Errorf("extra chain id %d must be positive", id)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// SetupLogging applies the log level and format to the standard logger and
// sends its output to w
func (c *Config) SetupLogging(w io.Writer) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetOutput(w)
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return intValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("environment variable %s must be a boolean: %w", key, err)
	}
	return boolValue, nil
}

func getEnvInt64List(key string) ([]int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	var out []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("environment variable %s must be a comma separated list of integers: %w", key, err)
		}
		out = append(out, id)
	}
	return out, nil
}
