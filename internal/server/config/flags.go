package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/flagx"
	"github.com/shopspring/decimal"
)

// parseFlags overlays command-line flags.
//
//	-a string   HTTP listen address (e.g. ":3000")
//	-d string   account store DSN (postgres:// or mongodb://; empty for memory)
//	-s string   session signing secret
//	-p string   admin password
//	-r string   redis address for sessions
//	-t int      session lifetime, minutes
//	-k string   referral credit amount
//	-l string   log backend (slog or zap)
//	-v string   log level
//	-w string   local downloads directory
//	-b string   S3 bucket for downloads
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-u string   public base URL for share links
//
// Only these flags are parsed; everything else in os.Args is left for other
// components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-p", "-r", "-t", "-k", "-l", "-v", "-w", "-b", "-g", "-e", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "admin password")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")
	credit := fs.String("k", config.ReferralCredit.String(), "referral credit amount")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.DownloadsDir, "w", config.DownloadsDir, "downloads directory")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.PublicBaseURL, "u", config.PublicBaseURL, "public base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	config.ReferralCredit = decimal.RequireFromString(*credit)
}
