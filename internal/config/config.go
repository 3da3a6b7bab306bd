package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Storage driver names accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverJSONFile = "jsonfile"
	DriverMemory   = "memory"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// StorageDriver selects the adapter set: postgres, jsonfile, or memory.
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"jsonfile"`
	DatabaseURL   string `envconfig:"DATABASE_URL" default:""`
	DBMinConns    int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"8"`
	JSONFilePath  string `envconfig:"JSONFILE_PATH" default:"lingot.db.json"`

	// MediaDir is the root for uploaded documents and synthesized audio.
	MediaDir string `envconfig:"MEDIA_DIR" default:"uploads"`

	TTSEnabled  bool   `envconfig:"TTS_ENABLED" default:"true"`
	TTSEndpoint string `envconfig:"TTS_ENDPOINT" default:"https://translate.google.com/translate_tts"`

	SessionTTLHours     int    `envconfig:"SESSION_TTL_HOURS" default:"168"`
	SessionCookieName   string `envconfig:"SESSION_COOKIE_NAME" default:"lingot_session"`
	SessionCookieSecure bool   `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
	CORSAllowedOrigins  string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StorageDriver)) {
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case DriverJSONFile:
		if strings.TrimSpace(c.JSONFilePath) == "" {
			return fmt.Errorf("JSONFILE_PATH is required when STORAGE_DRIVER=jsonfile")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of postgres, jsonfile, memory")
	}

	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.MediaDir) == "" {
		return fmt.Errorf("MEDIA_DIR is required")
	}
	if c.TTSEnabled && strings.TrimSpace(c.TTSEndpoint) == "" {
		return fmt.Errorf("TTS_ENDPOINT is required when TTS_ENABLED=true")
	}
	if c.SessionTTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be >= 1")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	return nil
}

// Driver returns the normalized storage driver name.
func (c *Config) Driver() string {
	return strings.ToLower(strings.TrimSpace(c.StorageDriver))
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
