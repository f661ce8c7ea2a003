package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		cleanup func()
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "missing config file with defaults",
			setup: func() {
				// Reset viper for clean test
				viper.Reset()
				// No config file created
			},
			cleanup: func() {
				viper.Reset()
			},
			wantErr: false,
			check: func(t *testing.T) {
				// Should use defaults
				if GetInt("server.port") != 8080 {
					t.Errorf("Expected default server.port to be 8080, got %d", GetInt("server.port"))
				}
				if GetString("database.path") != "./data/lingloop.db" {
					t.Errorf("Expected default database.path, got %s", GetString("database.path"))
				}
				if GetInt("playback.loop_count") != 3 {
					t.Errorf("Expected default playback.loop_count to be 3, got %d", GetInt("playback.loop_count"))
				}
			},
		},
		{
			name: "environment variable override",
			setup: func() {
				viper.Reset()
				os.Setenv("LINGLOOP_SERVER_PORT", "9090")
			},
			cleanup: func() {
				os.Unsetenv("LINGLOOP_SERVER_PORT")
				viper.Reset()
			},
			wantErr: false,
			check: func(t *testing.T) {
				if GetInt("server.port") != 9090 {
					t.Errorf("Expected server.port to be overridden to 9090, got %d", GetInt("server.port"))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.cleanup()

			// Bypass the Init() sync.Once so each case exercises a fresh load
			setDefaults()
			viper.SetEnvPrefix("LINGLOOP")
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			viper.AutomaticEnv()

			err := validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.check != nil && err == nil {
				tt.check(t)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Server: ServerConfig{
					Host: "localhost",
					Port: 8080,
				},
				Database: DatabaseConfig{
					Path: "./data/lingloop.db",
				},
				Storage: StorageConfig{
					MediaDir: "./data/media",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid port",
			config: &Config{
				Server: ServerConfig{
					Host: "localhost",
					Port: 0,
				},
			},
			wantErr: true,
		},
		{
			name: "empty database path",
			config: &Config{
				Server: ServerConfig{
					Host: "localhost",
					Port: 8080,
				},
				Database: DatabaseConfig{
					Path: "",
				},
				Storage: StorageConfig{
					MediaDir: "./data/media",
				},
			},
			wantErr: true,
		},
		{
			name: "empty media dir",
			config: &Config{
				Server: ServerConfig{
					Host: "localhost",
					Port: 8080,
				},
				Database: DatabaseConfig{
					Path: "./data/lingloop.db",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
