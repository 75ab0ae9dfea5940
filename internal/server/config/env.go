package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "TODOKEEPER_"

// parseEnv overlays Config with TODOKEEPER_* environment variables.
//
// A dotenv file is loaded first: the one named by -env-file (must exist) or
// ./.env when present. Variables already set in the process environment take
// precedence over the file, as godotenv never overrides them.
//
// Invalid numeric or duration values panic, matching the JSON and flag layers.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString("HTTP_ADDR", &config.EndpointAddrHTTP)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envDuration("DB_CONNECT_TIMEOUT", &config.DBConnectTimeout)
	envDuration("DB_STATEMENT_TIMEOUT", &config.DBStatementTimeout)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("TOKEN_VALIDITY", &config.TokenValidityDuration)
	envInt("PASSWORD_COST", &config.PasswordCost)
	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envInt64("MAX_PICTURE_BYTES", &config.MaxPictureBytes)
	envDuration("PICTURE_URL_VALIDITY", &config.PictureURLValidity)
	if v, ok := os.LookupEnv(envPrefix + "TRUSTED_ORIGINS"); ok {
		config.TrustedOrigins = splitList(v)
	}
	envString("LOG_LEVEL", &config.LogLevel)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envInt64(name string, dst *int64) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envDuration(name string, dst *time.Duration) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
