package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// loadDotEnv is a seam for tests.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv reads a .env file from the working directory when present and
// then overlays every variable that is set and non-empty.
//
// Recognised variables:
//
//	HTTP_ADDR, PORT                  listen address (PORT becomes ":<port>")
//	DATABASE_DSN, MONGO_URI          account store DSN (DATABASE_DSN wins)
//	MONGO_DATABASE
//	SESSION_SECRET, SESSION_TTL
//	ADMIN_PASSWORD, RESET_PASSWORD
//	REFERRAL_CREDIT, BCRYPT_COST
//	REDIS_ADDR, REDIS_PASSWORD
//	LOG_BACKEND, LOG_LEVEL, LOG_FILE, LOG_MAX_SIZE, LOG_MAX_BACKUPS, LOG_MAX_AGE
//	PUBLIC_DIR, DOWNLOADS_DIR, PUBLIC_BASE_URL
//	S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_PRESIGN_TTL
//
// A malformed numeric or duration value panics, matching parseJson.
func parseEnv(config *Config) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv("PORT"); v != "" {
		config.HTTPAddr = ":" + v
	}
	setString(&config.HTTPAddr, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "MONGO_URI")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.MongoDatabase, "MONGO_DATABASE")
	setString(&config.SessionSecret, "SESSION_SECRET")
	setDuration(&config.SessionTTL, "SESSION_TTL")
	setString(&config.AdminPassword, "ADMIN_PASSWORD")
	setString(&config.DefaultResetPassword, "RESET_PASSWORD")
	if v := os.Getenv("REFERRAL_CREDIT"); v != "" {
		config.ReferralCredit = decimal.RequireFromString(v)
	}
	setInt(&config.BcryptCost, "BCRYPT_COST")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setString(&config.RedisPassword, "REDIS_PASSWORD")
	setString(&config.LogBackend, "LOG_BACKEND")
	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.LogFile, "LOG_FILE")
	setInt(&config.LogMaxSize, "LOG_MAX_SIZE")
	setInt(&config.LogMaxBackups, "LOG_MAX_BACKUPS")
	setInt(&config.LogMaxAge, "LOG_MAX_AGE")
	setString(&config.PublicDir, "PUBLIC_DIR")
	setString(&config.DownloadsDir, "DOWNLOADS_DIR")
	setString(&config.PublicBaseURL, "PUBLIC_BASE_URL")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.S3AccessKey, "S3_ACCESS_KEY")
	setString(&config.S3SecretKey, "S3_SECRET_KEY")
	setDuration(&config.PresignTTL, "S3_PRESIGN_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
