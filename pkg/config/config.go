package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("LINGLOOP")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
			// Config file doesn't exist, which is fine - we'll use defaults
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		return fmt.Errorf("database.path must be configured")
	}

	if viper.GetString("storage.media_dir") == "" {
		return fmt.Errorf("storage.media_dir must be configured")
	}

	// Auto-correct out-of-range playback defaults rather than failing:
	// they only seed the durable settings record.
	loopCount := viper.GetInt("playback.loop_count")
	if loopCount == 0 || loopCount < -1 {
		viper.Set("playback.loop_count", 3)
	}
	if viper.GetFloat64("playback.loop_delay") < 0 {
		viper.Set("playback.loop_delay", 1.0)
	}
	rate := viper.GetFloat64("playback.playback_rate")
	if rate < 0.5 || rate > 3.0 {
		viper.Set("playback.playback_rate", 1.0)
	}

	if viper.GetDuration("session.snapshot_interval") <= 0 {
		viper.Set("session.snapshot_interval", 5*time.Second)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path must be configured")
	}

	if c.Storage.MediaDir == "" {
		return fmt.Errorf("storage.media_dir must be configured")
	}

	if c.Session.SnapshotInterval <= 0 {
		c.Session.SnapshotInterval = 5 * time.Second
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/lingloop.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.media_dir", "./data/media")
	viper.SetDefault("storage.max_upload_mb", 512)

	// Playback defaults (seed the durable settings record on first run)
	viper.SetDefault("playback.loop_count", 3)
	viper.SetDefault("playback.loop_delay", 1.0)
	viper.SetDefault("playback.playback_rate", 1.0)
	viper.SetDefault("playback.auto_play_next", true)

	// Session sync defaults
	viper.SetDefault("session.snapshot_interval", 5*time.Second)

	// Remote fetch defaults
	viper.SetDefault("fetch.timeout", 15*time.Second)
	viper.SetDefault("fetch.user_agent", "LingloopPlayerAPI/1.0")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"import":  10,
		"media":   20,
		"player":  100,
		"default": 120,
	})

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
}
