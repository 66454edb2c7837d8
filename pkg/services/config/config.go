package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "ATLAS"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	MaxUploadMB    int64    `mapstructure:"max_upload_mb"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig points at the ini file with storage profiles and the profile to use.
// Without a file, keys are read from the local working directory.
type StorageConfig struct {
	Config  string `mapstructure:"config"`
	Profile string `mapstructure:"profile"`
}

// DatabaseConfig holds the run history DSN: a DuckDB path or a postgres:// URL.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.config", "")
	v.SetDefault("storage.profile", DefaultStorageProfile)
	v.SetDefault("database.dsn", "variation-atlas.db")
}

// LoadConfig reads the application config. An empty path uses defaults and ATLAS_*
// environment variables only (ATLAS_SERVER_PORT overrides server.port).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("server.max_upload_mb must be positive, got %d", cfg.Server.MaxUploadMB)
	}
	return &cfg, nil
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// ZerologLevel maps the configured level name, falling back to info.
func (c LogConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
