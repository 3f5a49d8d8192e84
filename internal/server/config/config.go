// Package config handles configuration for the referral server and the admin
// console: defaults, environment (with an optional .env file), a JSON overlay
// and command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings.
//
// DatabaseDSN selects the account store: empty keeps everything in memory,
// a postgres:// URL uses PostgreSQL (pgx) and a mongodb:// URL uses MongoDB.
// An empty RedisAddr keeps sessions in process memory. An empty S3Bucket
// serves downloads from DownloadsDir.
type Config struct {
	HTTPAddr      string
	DatabaseDSN   string
	MongoDatabase string

	SessionSecret        string
	SessionTTL           time.Duration
	AdminPassword        string
	DefaultResetPassword string
	ReferralCredit       decimal.Decimal
	MaxCodeAttempts      int
	BcryptCost           int

	RedisAddr     string
	RedisPassword string

	LogBackend    string
	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int

	PublicDir    string
	DownloadsDir string

	// PublicBaseURL is the externally visible origin used in share links.
	// Empty means the request's Host header.
	PublicBaseURL string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	PresignTTL     time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets below are well known and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.DatabaseDSN = ""
	c.MongoDatabase = "referrals"
	c.SessionSecret = "fallbackSecret"
	c.SessionTTL = 24 * time.Hour
	c.AdminPassword = "admin123"
	c.DefaultResetPassword = "123456"
	c.ReferralCredit = decimal.NewFromInt(5)
	c.MaxCodeAttempts = 10
	c.BcryptCost = bcrypt.DefaultCost
	c.RedisAddr = ""
	c.RedisPassword = ""
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFile = "logs/referralhub.log"
	c.LogMaxSize = 10
	c.LogMaxBackups = 3
	c.LogMaxAge = 28
	c.PublicDir = "public"
	c.DownloadsDir = "public/downloads"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.PresignTTL = 15 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then the environment,
// then an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings that would break the running service: the
// referral credit must be positive and PublicBaseURL, when set, must be an
// absolute http(s) origin.
func (c *Config) Validate() error {
	if !c.ReferralCredit.IsPositive() {
		return fmt.Errorf("%w: referral credit must be positive, got %s", ErrInvalidConfig, c.ReferralCredit)
	}
	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("%w: public base URL %q must be an absolute http(s) URL", ErrInvalidConfig, c.PublicBaseURL)
		}
	}
	return nil
}

// LoggingOptions maps the log settings onto logging.Options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Backend:    c.LogBackend,
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
	}
}
