package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDotEnv(t *testing.T, fn func() error) {
	t.Helper()
	orig := loadDotEnv
	t.Cleanup(func() { loadDotEnv = orig })
	loadDotEnv = fn
}

func TestParseEnv_Overrides(t *testing.T) {
	withDotEnv(t, func() error { return fs.ErrNotExist })

	t.Setenv("PORT", "8080")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("SESSION_SECRET", "s3cr3t")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("REFERRAL_CREDIT", "7.5")
	t.Setenv("LOG_MAX_SIZE", "42")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PUBLIC_BASE_URL", "https://refer.example.com")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "mongodb://mongo:27017", c.DatabaseDSN)
	assert.Equal(t, "s3cr3t", c.SessionSecret)
	assert.Equal(t, 90*time.Minute, c.SessionTTL)
	assert.Equal(t, "hunter2", c.AdminPassword)
	assert.Equal(t, "7.5", c.ReferralCredit.String())
	assert.Equal(t, 42, c.LogMaxSize)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, "https://refer.example.com", c.PublicBaseURL)
	assert.Equal(t, "123456", c.DefaultResetPassword, "unset variables keep defaults")
}

func TestParseEnv_DatabaseDSNBeatsMongoURI(t *testing.T) {
	withDotEnv(t, func() error { return nil })

	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("DATABASE_DSN", "postgres://pg/referrals")

	var c Config
	parseEnv(&c)

	assert.Equal(t, "postgres://pg/referrals", c.DatabaseDSN)
}

func TestParseEnv_Panics(t *testing.T) {
	t.Run("bad dotenv", func(t *testing.T) {
		withDotEnv(t, func() error { return errors.New("line 3: unexpected character") })
		require.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("bad int", func(t *testing.T) {
		withDotEnv(t, func() error { return nil })
		t.Setenv("BCRYPT_COST", "lots")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("bad duration", func(t *testing.T) {
		withDotEnv(t, func() error { return nil })
		t.Setenv("SESSION_TTL", "forever")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
