package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/verifylink/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultTimezone     = "UTC"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the verifylink service will be run
	ListenAddr string

	// Database to connect to
	// In-memory storage is used if empty
	DatabaseDSN string

	// Environment
	Environment string

	// Link shortener api host (like 'api.shareus.io') and key
	// Links are not shortened if host is empty
	ShortlinkURL string
	ShortlinkAPI string

	// Verification link prefix, the payload 'verify-<id>-<token>' is appended to it
	BaseLink string

	// IANA timezone the "verified today" is computed in
	Timezone string

	// Tokens lifetime, zero means tokens never expire
	TokenTTL time.Duration

	// Record verification only on unused token redeem
	StrictRedeem bool

	// Errors are reported to sentry if set
	SentryDSN string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		Timezone:    defaultTimezone,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	// Keep previous value if env value could not be parsed
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}

	setBool := func(o *bool) func(value string) {
		return func(value string) {
			if b, err := strconv.ParseBool(value); err == nil {
				*o = b
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":   setString(&c.ListenAddr),
		"DATABASE_URI":  setString(&c.DatabaseDSN),
		"LOG_LEVEL":     setString(&c.LogLevel),
		"ENVIRONMENT":   setString(&c.Environment),
		"SHORTLINK_URL": setString(&c.ShortlinkURL),
		"SHORTLINK_API": setString(&c.ShortlinkAPI),
		"BASE_LINK":     setString(&c.BaseLink),
		"TIMEZONE":      setString(&c.Timezone),
		"TOKEN_TTL":     setDuration(&c.TokenTTL),
		"STRICT_REDEEM": setBool(&c.StrictRedeem),
		"SENTRY_DSN":    setString(&c.SentryDSN),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("verifylink", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string, in-memory storage if empty")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVarP(&c.ShortlinkURL, "shortlink-url", "u", c.ShortlinkURL, "Link shortener api host")
	fs.StringVarP(&c.ShortlinkAPI, "shortlink-api", "k", c.ShortlinkAPI, "Link shortener api key")
	fs.StringVarP(&c.BaseLink, "base-link", "b", c.BaseLink, "Verification link prefix")
	fs.StringVarP(&c.Timezone, "timezone", "z", c.Timezone, "Timezone of the verification day")
	fs.DurationVarP(&c.TokenTTL, "token-ttl", "t", c.TokenTTL, "Token lifetime, 0 to never expire")
	fs.BoolVar(&c.StrictRedeem, "strict-redeem", c.StrictRedeem, "Verify user only on unused token redeem")
	fs.StringVar(&c.SentryDSN, "sentry-dsn", c.SentryDSN, "Sentry DSN to report errors to")

	return fs.Parse(args)
}
