package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/apodkeeper/internal/flagx"
	"github.com/dmitrijs2005/apodkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// use timex.Duration so they can be written as "3s".
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DBPath              string         `json:"db_path"`
	Store               string         `json:"store"`
	FavoritesMode       string         `json:"favorites_mode"`
	RandomCount         int            `json:"random_count"`
	LogLevel            string         `json:"log_level"`
	Seal                bool           `json:"seal"`

	S3Region       string `json:"s3_region"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3Bucket       string `json:"s3_bucket"`
	S3Prefix       string `json:"s3_prefix"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with the non-empty values of the JSON file
// named by -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.Store, jc.Store)
	setString(&cfg.FavoritesMode, jc.FavoritesMode)
	if jc.RandomCount > 0 {
		cfg.RandomCount = jc.RandomCount
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	cfg.Seal = cfg.Seal || jc.Seal

	setString(&cfg.S3.Region, jc.S3Region)
	setString(&cfg.S3.AccessKey, jc.S3AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3SecretKey)
	setString(&cfg.S3.BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3.Bucket, jc.S3Bucket)
	setString(&cfg.S3.Prefix, jc.S3Prefix)
}
