// Package config loads the service settings from the environment, after an
// optional .env file.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"vetrina/internal/export"
)

// Config holds every setting of the service and the export command.
type Config struct {
	AppPort       string
	DBDriver      string
	DatabaseDSN   string
	RabbitMQURL   string
	JWTSecret     string
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	DefaultRegion string
	Location      *time.Location
	ExportDir     string
	ExportLayout  string
	LogLevel      log.Level
	SessionTTL    time.Duration
	TokenTTL      time.Duration
}

// SetDefaults registers the default of every key and binds them to the
// environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "vetrina.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("MAP_DEFAULT_REGION", "Italia")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("EXPORT_DIR", "exports")
	v.SetDefault("EXPORT_DATE_LAYOUT", export.DefaultDateLayout)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("TOKEN_TTL", "24h")
	v.AutomaticEnv()
}

// Load reads .env files when present, then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.WithError(err).Debug("No .env file loaded")
	}
	v := viper.New()
	SetDefaults(v)
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:       v.GetString("APP_PORT"),
		DBDriver:      v.GetString("DB_DRIVER"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		AdminUsername: v.GetString("ADMIN_USERNAME"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		DefaultRegion: v.GetString("MAP_DEFAULT_REGION"),
		ExportDir:     v.GetString("EXPORT_DIR"),
		ExportLayout:  v.GetString("EXPORT_DATE_LAYOUT"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
	}

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid TIMEZONE %q", v.GetString("TIMEZONE"))
	}
	cfg.Location = loc

	level, err := log.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid LOG_LEVEL")
	}
	cfg.LogLevel = level
	return cfg, nil
}

// ExportOptions is how exported order dates are rendered.
func (c *Config) ExportOptions() export.Options {
	return export.Options{DateLayout: c.ExportLayout, Location: c.Location}
}

// Validate checks the settings the HTTP service cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}
