package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/session"
)

// Config holds runtime settings for the herocards client.
type Config struct {
	RemoteAddr          string        `env:"REMOTE_ADDR"`
	DatabasePath        string        `env:"DATABASE_PATH"`
	SessionDir          string        `env:"SESSION_DIR"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	EventBuffer         int           `env:"EVENT_BUFFER"`

	LogLevel string `env:"LOG_LEVEL"`
	LogFile  string `env:"LOG_FILE"`

	// IdentityToken is an HS256 ID token; IdentitySecret verifies it.
	IdentityToken  string `env:"IDENTITY_TOKEN"`
	IdentitySecret string `env:"IDENTITY_SECRET"`

	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteAddr = "127.0.0.1:50051"
	c.DatabasePath = defaultDatabasePath()
	c.SessionDir = session.DefaultDir()
	c.OnlineCheckInterval = 3 * time.Second
	c.EventBuffer = 64
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// MediaEnabled reports whether image uploads are configured.
func (c *Config) MediaEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then HEROCARDS_* environment variables, then flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func defaultDatabasePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "herocards", "cache.db")
}
