package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/herocards/internal/flagx"
	"github.com/dmitrijs2005/herocards/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Intervals go through
// timex.Duration so they may be written as "3s" or as nanoseconds.
type JsonConfig struct {
	RemoteAddr          string         `json:"remote_addr"`
	DatabasePath        string         `json:"database_path"`
	SessionDir          string         `json:"session_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	EventBuffer         int            `json:"event_buffer"`
	LogLevel            string         `json:"log_level"`
	LogFile             string         `json:"log_file"`
	IdentityToken       string         `json:"identity_token"`
	IdentitySecret      string         `json:"identity_secret"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
}

// parseJson overlays cfg with the non-empty fields of the file named by
// -c/-config. Without that flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.RemoteAddr, jc.RemoteAddr)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.SessionDir, jc.SessionDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.IdentityToken, jc.IdentityToken)
	setString(&cfg.IdentitySecret, jc.IdentitySecret)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.EventBuffer > 0 {
		cfg.EventBuffer = jc.EventBuffer
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
