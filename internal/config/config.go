package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the kiosk's environment-driven configuration.
// Every setting is read once at startup; there is no config file.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   int    `envconfig:"PORT" default:"8080"`

	// UnlockPIN is the manual fallback for the session lock
	UnlockPIN string `envconfig:"KIOSK_UNLOCK_PIN" default:"1234"`
	// RelockAfter is the idle duration before the session re-locks (0 = never)
	RelockAfter time.Duration `envconfig:"KIOSK_RELOCK_AFTER" default:"0"`
	// TokenSecret signs kiosk session tokens issued at unlock
	TokenSecret string `envconfig:"KIOSK_TOKEN_SECRET" default:"dev-insecure-secret"`

	// ExportsDir is the base folder for QR codes, confirmations and reports
	ExportsDir string `envconfig:"KIOSK_EXPORTS_DIR" default:"./exports"`

	// Roster source (membership database, read-only)
	RosterDSN string `envconfig:"ROSTER_DSN"`

	// Check-in mirror store
	MirrorDriver string `envconfig:"MIRROR_DRIVER" default:"sqlite"`
	MirrorDSN    string `envconfig:"MIRROR_DSN" default:"rangekiosk.db"`

	// SMTP delivery for confirmations and the finalisation report.
	// An empty host means "not configured" and degrades to save-locally.
	SMTPHost      string `envconfig:"SMTP_HOST"`
	SMTPPort      int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser      string `envconfig:"SMTP_USER"`
	SMTPPass      string `envconfig:"SMTP_PASS"`
	SMTPFrom      string `envconfig:"SMTP_FROM" default:"no-reply@prsci.org.au"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@prsci.org.au"`
	ClubName      string `envconfig:"CLUB_NAME" default:"Pine Rivers Shooting Club"`
	RangeLocation string `envconfig:"RANGE_LOCATION" default:"Belmont SSAA"`

	// Redis cache (optional; in-memory cache is used when host is empty)
	RedisHost string `envconfig:"REDIS_HOST"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`

	// RosterSyncInterval drives the scheduled background re-sync
	RosterSyncInterval time.Duration `envconfig:"ROSTER_SYNC_INTERVAL" default:"1h"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// SMTPConfigured reports whether a mail delivery channel is available
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != ""
}
