package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Storage      StorageConfig   `mapstructure:"storage"`
	Playback     PlaybackConfig  `mapstructure:"playback"`
	Session      SessionConfig   `mapstructure:"session"`
	Fetch        FetchConfig     `mapstructure:"fetch"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Security     SecurityConfig  `mapstructure:"security"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains binary media store settings
type StorageConfig struct {
	MediaDir    string `mapstructure:"media_dir"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// PlaybackConfig seeds the durable playback settings record on first run.
// After that the persisted record wins; these are only defaults.
type PlaybackConfig struct {
	LoopCount    int     `mapstructure:"loop_count"` // -1 means unbounded
	LoopDelay    float64 `mapstructure:"loop_delay"`
	PlaybackRate float64 `mapstructure:"playback_rate"`
	AutoPlayNext bool    `mapstructure:"auto_play_next"`
}

// SessionConfig contains session sync settings
type SessionConfig struct {
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval"`
}

// FetchConfig contains remote text fetch settings
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}
