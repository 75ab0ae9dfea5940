package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/flagx"
	"github.com/dmitrijs2005/todokeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "15m" strings and integer nanoseconds work.
// It is only an intermediate DTO; values are copied into Config.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	DBConnectTimeout      timex.Duration `json:"db_connect_timeout"`
	DBStatementTimeout    timex.Duration `json:"db_statement_timeout"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	PasswordCost          int            `json:"password_cost"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	MaxPictureBytes       int64          `json:"max_picture_bytes"`
	PictureURLValidity    timex.Duration `json:"picture_url_validity"`
	TrustedOrigins        []string       `json:"trusted_origins"`
	LogLevel              string         `json:"log_level"`
}

// parseJson loads the file named by -c / -config, if any, and copies every
// field that is present (non-zero) into config. Unreadable files and invalid
// JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
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

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DBConnectTimeout.Duration > 0 {
		config.DBConnectTimeout = c.DBConnectTimeout.Duration
	}
	if c.DBStatementTimeout.Duration > 0 {
		config.DBStatementTimeout = c.DBStatementTimeout.Duration
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.PasswordCost > 0 {
		config.PasswordCost = c.PasswordCost
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.MaxPictureBytes > 0 {
		config.MaxPictureBytes = c.MaxPictureBytes
	}
	if c.PictureURLValidity.Duration > 0 {
		config.PictureURLValidity = c.PictureURLValidity.Duration
	}
	if c.TrustedOrigins != nil {
		config.TrustedOrigins = c.TrustedOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
