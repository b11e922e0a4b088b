// Package config loads emrtdctl's settings from a YAML file, environment
// variables, and built-in defaults, via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	configData Config
	v          *viper.Viper
)

// Config holds all configuration settings.
type Config struct {
	// Reader configuration
	Reader struct {
		Index      int // PC/SC reader index, as reported by ListReaders
		TimeoutMs  int
		ChunkBytes int // READ BINARY chunk size setting; pkg/files reads in fixed chunks and does not consult it
	}
	// Simulate configuration
	Simulate struct {
		Address string
	}
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
}

// Initialize sets up the configuration system.
func Initialize() error {
	v = viper.New()

	v.SetConfigName("config")          // name of config file (without extension)
	v.SetConfigType("yaml")            // config file type
	v.AddConfigPath(".")               // optionally look for config in working directory
	v.AddConfigPath("$HOME/.emrtdctl") // look for config in .emrtdctl directory in home
	v.AddConfigPath("/etc/emrtdctl/")  // path to look for the config file in

	setDefaults()

	v.SetEnvPrefix("EMRTDCTL") // prefix for env vars
	v.AutomaticEnv()           // read in environment variables that match
	v.SetEnvKeyReplacer(       // replace dots with underscores in env vars
		strings.NewReplacer(".", "_"),
	)

	if err := ensureConfig(); err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if we can't find a config file, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// setDefaults sets default values for all configuration options.
func setDefaults() {
	v.SetDefault("reader.index", 0)
	v.SetDefault("reader.timeoutms", 5000)
	v.SetDefault("reader.chunkbytes", 0)

	v.SetDefault("simulate.address", "127.0.0.1:9303")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "human")
}

// ensureConfig creates a default config file if none exists.
func ensureConfig() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".emrtdctl")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return err
		}
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaultConfig := `# emrtdctl Configuration File
reader:
  index: 0
  timeoutms: 5000
  chunkbytes: 0

simulate:
  address: 127.0.0.1:9303

log:
  level: info
  format: human
`
		if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance.
func GetViper() *viper.Viper {
	return v
}
