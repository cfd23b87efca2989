package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/apodkeeper/internal/flagx"
	"github.com/dmitrijs2005/apodkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so they may be written as "15s" or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	GoogleClientID        string         `json:"google_client_id"`
	NASAAPIKey            string         `json:"nasa_api_key"`
	NASAAPIURL            string         `json:"nasa_api_url"`
	RateLimit             int            `json:"rate_limit"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	LogLevel              string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays config with the values of the JSON file named by -c or
// -config. Empty values keep what config already holds. Read or unmarshal
// failures panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.NASAAPIKey, c.NASAAPIKey)
	setString(&config.NASAAPIURL, c.NASAAPIURL)
	if c.RateLimit > 0 {
		config.RateLimit = c.RateLimit
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
}
