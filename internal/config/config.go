package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/svbk/countdown/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Session    SessionConfig   `validate:"required"`
	Countdown  CountdownConfig `validate:"required"`
	Cache      CacheConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	// Secret signs the session cookie; required outside local mode.
	Secret     string
	CookieName string `validate:"required"`
	// MaxAge bounds the lifetime of the anonymous session tier.
	MaxAge time.Duration
}

// CountdownConfig carries the promotional-discount defaults.
type CountdownConfig struct {
	// KeyPrefix namespaces the per-identity expiration keys,
	// e.g. svbk_rcp_ctd_<role>_discount_expires.
	KeyPrefix string `validate:"required"`
	// TaxRate divides tax-inclusive prices for display, e.g. 1.22 strips 22% VAT.
	TaxRate float64 `validate:"required,gt=0"`
	// Template governs countdown field formatting on the client.
	Template       string `validate:"required"`
	CurrencySymbol string
	CacheTTL       time.Duration
}

type CacheConfig struct {
	Enabled bool
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/countdown")

	v.SetEnvPrefix("COUNTDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("session.cookiename", "svbk_countdown")
	v.SetDefault("session.maxage", 30*24*time.Hour)
	v.SetDefault("countdown.keyprefix", "svbk_rcp_ctd")
	v.SetDefault("countdown.taxrate", 1.22)
	v.SetDefault("countdown.template", "%D:%H:%M:%S")
	v.SetDefault("countdown.currencysymbol", "€")
	v.SetDefault("countdown.cachettl", 5*time.Minute)
	v.SetDefault("cache.enabled", true)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Deployment.Mode != types.ModeLocal && c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required outside local mode")
	}
	return nil
}

// GetDSN returns the Postgres connection string
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetDefaultConfig returns a default configuration for local development
// and tests; no config file or env required.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Session: SessionConfig{
			Secret:     "local-dev-session-secret",
			CookieName: "svbk_countdown",
			MaxAge:     30 * 24 * time.Hour,
		},
		Countdown: CountdownConfig{
			KeyPrefix:      "svbk_rcp_ctd",
			TaxRate:        1.22,
			Template:       "%D:%H:%M:%S",
			CurrencySymbol: "€",
			CacheTTL:       5 * time.Minute,
		},
		Cache: CacheConfig{Enabled: true},
	}
}
