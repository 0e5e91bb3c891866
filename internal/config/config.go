package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Auth       AuthConfig       `validate:"required"`
	Gateway    GatewayConfig    `validate:"required"`
	Sweep      SweepConfig      `validate:"required"`
	Email      EmailConfig      `mapstructure:"email"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type PostgresConfig struct {
	Host                  string `validate:"required"`
	Port                  int    `validate:"required"`
	User                  string `validate:"required"`
	Password              string
	DBName                string `validate:"required"`
	SSLMode               string `validate:"required"`
	MaxOpenConns          int    `mapstructure:"max_open_conns"`
	MaxIdleConns          int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int   `mapstructure:"conn_max_lifetime_minutes"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type AuthConfig struct {
	// Secret signs management JWTs issued for dashboard sessions
	Secret string `validate:"required"`
	// APIKeys maps hashed api keys to account metadata
	APIKeys map[string]APIKeyDetails `mapstructure:"api_keys"`
}

type APIKeyDetails struct {
	AccountID string `mapstructure:"account_id"`
	Name      string `mapstructure:"name"`
	IsActive  bool   `mapstructure:"is_active"`
}

// GatewayConfig configures the upstream payment provider client.
type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required"`
	APIKey         string `mapstructure:"api_key" validate:"required"`
	EncryptionKey  string `mapstructure:"encryption_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	// RequestsPerSecond caps outbound calls to the provider
	RequestsPerSecond int `mapstructure:"requests_per_second"`
}

func (c GatewayConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EmailConfig configures the transactional email provider used for
// expiration reminders. Disabled by default, reminders then only log.
type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
	ReplyTo     string `mapstructure:"reply_to"`
}

// SweepConfig configures the daily expiration and notification sweeps.
type SweepConfig struct {
	// Schedule is a cron expression, defaults to 04:00 UTC daily
	Schedule string `mapstructure:"schedule"`
	// BatchSize bounds how many charges one sweep advances concurrently
	BatchSize int `mapstructure:"batch_size"`
}

func (c SweepConfig) GetSchedule() string {
	if c.Schedule == "" {
		return "0 4 * * *"
	}
	return c.Schedule
}

func (c SweepConfig) GetBatchSize() int {
	if c.BatchSize <= 0 {
		return 16
	}
	return c.BatchSize
}

func NewConfig() (*Configuration, error) {
	// Load .env if present, real env vars still win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grouppay")

	v.SetEnvPrefix("GROUPPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

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

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests, where no config file or env is available.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Auth:       AuthConfig{Secret: "local-secret"},
		Gateway: GatewayConfig{
			BaseURL: "http://localhost:9090",
			APIKey:  "local-key",
		},
		Sweep: SweepConfig{},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

func (c PostgresConfig) GetConnMaxLifetime() time.Duration {
	if c.ConnMaxLifetimeMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}
