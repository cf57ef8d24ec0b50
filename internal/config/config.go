package config

import (
	"strings"
	"time"

	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/spf13/viper"
)

type DeploymentMode string

const (
	ModeLocal DeploymentMode = "local"
	ModeProd  DeploymentMode = "prod"
)

// Configuration is the full application configuration, loaded once at boot
// from config/config.yaml with BILLKAZI_* environment overrides.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Firestore  FirestoreConfig  `mapstructure:"firestore"`
	Email      EmailConfig      `mapstructure:"email"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Invoice    InvoiceConfig    `mapstructure:"invoice"`
}

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// PublicBaseURL is the externally reachable base URL used when building
	// invoice share links, ex: https://app.billkazi.com
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type AuthConfig struct {
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	// CronAPIKey protects the /cron endpoints invoked by the scheduler.
	CronAPIKey string `mapstructure:"cron_api_key"`
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKeyID   string `mapstructure:"access_key_id"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type CacheConfig struct {
	Type string `mapstructure:"type"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// InvoiceConfig holds the invoice numbering defaults applied when a user has
// not customized them.
type InvoiceConfig struct {
	NumberPrefix    string `mapstructure:"number_prefix"`
	NumberSeparator string `mapstructure:"number_separator"`
	SuffixLength    int    `mapstructure:"suffix_length"`
	DueDateDays     int    `mapstructure:"due_date_days"`
	// ReminderCooldown is the minimum interval between two payment
	// reminders for the same invoice.
	ReminderCooldown time.Duration `mapstructure:"reminder_cooldown"`
}

// NewConfig loads the configuration from ./config/config.yaml (optional) and
// the environment.
func NewConfig() (*Configuration, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLKAZI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("auth.token_expiry", 24*time.Hour)
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("invoice.number_prefix", "INV")
	v.SetDefault("invoice.number_separator", "-")
	v.SetDefault("invoice.suffix_length", 3)
	v.SetDefault("invoice.due_date_days", 14)
	v.SetDefault("invoice.reminder_cooldown", 72*time.Hour)
}

func (c *Configuration) Validate() error {
	if c.Auth.Secret == "" {
		return ierr.NewError("auth secret is not configured").
			WithHint("Set BILLKAZI_AUTH_SECRET or auth.secret in config.yaml").
			Mark(ierr.ErrValidation)
	}
	if c.Invoice.SuffixLength < 1 || c.Invoice.SuffixLength > 10 {
		return ierr.NewError("invoice suffix length out of range").
			WithHint("Invoice number suffix length must be between 1 and 10").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a minimal configuration for scripts and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeLocal},
		Server:     ServerConfig{Address: ":8080", PublicBaseURL: "http://localhost:8080"},
		Auth:       AuthConfig{Secret: "test-secret", TokenExpiry: 24 * time.Hour},
		Cache:      CacheConfig{Type: "inmemory"},
		Logging:    LoggingConfig{Level: "debug"},
		Invoice: InvoiceConfig{
			NumberPrefix:     "INV",
			NumberSeparator:  "-",
			SuffixLength:     3,
			DueDateDays:      14,
			ReminderCooldown: 72 * time.Hour,
		},
	}
}
