package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/flagx"
	"github.com/shopspring/decimal"
)

// Duration unmarshals either a Go duration string ("15m") or an integer
// number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

// JsonConfig is the on-disk shape of the optional JSON config file. Only
// fields present with a non-zero value override the running Config.
type JsonConfig struct {
	HTTPAddr             string           `json:"http_addr"`
	DatabaseDSN          string           `json:"database_dsn"`
	MongoDatabase        string           `json:"mongo_database"`
	SessionSecret        string           `json:"session_secret"`
	SessionTTL           Duration         `json:"session_ttl"`
	AdminPassword        string           `json:"admin_password"`
	DefaultResetPassword string           `json:"reset_password"`
	ReferralCredit       *decimal.Decimal `json:"referral_credit"`
	MaxCodeAttempts      int              `json:"max_code_attempts"`
	BcryptCost           int              `json:"bcrypt_cost"`
	RedisAddr            string           `json:"redis_addr"`
	RedisPassword        string           `json:"redis_password"`
	Log                  struct {
		Backend    string `json:"backend"`
		Level      string `json:"level"`
		File       string `json:"file"`
		MaxSize    int    `json:"max_size"`
		MaxBackups int    `json:"max_backups"`
		MaxAge     int    `json:"max_age"`
	} `json:"log"`
	PublicDir      string   `json:"public_dir"`
	DownloadsDir   string   `json:"downloads_dir"`
	PublicBaseURL  string   `json:"public_base_url"`
	S3Bucket       string   `json:"s3_bucket"`
	S3Region       string   `json:"s3_region"`
	S3BaseEndpoint string   `json:"s3_base_endpoint"`
	S3AccessKey    string   `json:"s3_access_key"`
	S3SecretKey    string   `json:"s3_secret_key"`
	PresignTTL     Duration `json:"s3_presign_ttl"`
}

// parseJson loads the file named by -c/-config (or $CONFIG) into config.
// A missing flag means nothing to load; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, v Duration) {
		if v.Duration != 0 {
			*dst = v.Duration
		}
	}

	str(&config.HTTPAddr, c.HTTPAddr)
	str(&config.DatabaseDSN, c.DatabaseDSN)
	str(&config.MongoDatabase, c.MongoDatabase)
	str(&config.SessionSecret, c.SessionSecret)
	dur(&config.SessionTTL, c.SessionTTL)
	str(&config.AdminPassword, c.AdminPassword)
	str(&config.DefaultResetPassword, c.DefaultResetPassword)
	if c.ReferralCredit != nil {
		config.ReferralCredit = *c.ReferralCredit
	}
	num(&config.MaxCodeAttempts, c.MaxCodeAttempts)
	num(&config.BcryptCost, c.BcryptCost)
	str(&config.RedisAddr, c.RedisAddr)
	str(&config.RedisPassword, c.RedisPassword)
	str(&config.LogBackend, c.Log.Backend)
	str(&config.LogLevel, c.Log.Level)
	str(&config.LogFile, c.Log.File)
	num(&config.LogMaxSize, c.Log.MaxSize)
	num(&config.LogMaxBackups, c.Log.MaxBackups)
	num(&config.LogMaxAge, c.Log.MaxAge)
	str(&config.PublicDir, c.PublicDir)
	str(&config.DownloadsDir, c.DownloadsDir)
	str(&config.PublicBaseURL, c.PublicBaseURL)
	str(&config.S3Bucket, c.S3Bucket)
	str(&config.S3Region, c.S3Region)
	str(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	str(&config.S3AccessKey, c.S3AccessKey)
	str(&config.S3SecretKey, c.S3SecretKey)
	dur(&config.PresignTTL, c.PresignTTL)
}
