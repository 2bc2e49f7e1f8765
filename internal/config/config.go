package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. PORTAL_DATABASE_HOST.
const EnvPrefix = "PORTAL"

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Demo         DemoConfig         `mapstructure:"demo"`
	Appointments AppointmentsConfig `mapstructure:"appointments"`
	Receipts     ReceiptsConfig     `mapstructure:"receipts"`
	Reminders    RemindersConfig    `mapstructure:"reminders"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit" envconfig:"rate_limit"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" envconfig:"timeout_seconds"`
}

func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" envconfig:"max_idle_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"expiry_hours"`
}

func (j JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

type RedisConfig struct {
	URL        string `mapstructure:"url"`
	MaxRetries int    `mapstructure:"max_retries" envconfig:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size" envconfig:"pool_size"`
}

// DemoConfig controls the unauthenticated sandbox path. With DoctorID set,
// demo visitors only see that doctor's records.
type DemoConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	DoctorID string `mapstructure:"doctor_id" envconfig:"doctor_id"`
}

// SandboxDoctor returns the configured sandbox doctor, or nil when unset.
func (d DemoConfig) SandboxDoctor() (*uuid.UUID, error) {
	if strings.TrimSpace(d.DoctorID) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(d.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid demo.doctor_id: %w", err)
	}
	return &id, nil
}

type AppointmentsConfig struct {
	StrictTransitions bool   `mapstructure:"strict_transitions" envconfig:"strict_transitions"`
	Timezone          string `mapstructure:"timezone"`
}

func (a AppointmentsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

type ReceiptsConfig struct {
	Source string `mapstructure:"source"`
}

// RemindersConfig drives the worker's upcoming-appointment emails.
type RemindersConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	LeadHours       int  `mapstructure:"lead_hours" envconfig:"lead_hours"`
	IntervalMinutes int  `mapstructure:"interval_minutes" envconfig:"interval_minutes"`
}

func (r RemindersConfig) Lead() time.Duration {
	return time.Duration(r.LeadHours) * time.Hour
}

func (r RemindersConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMinutes) * time.Minute
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("jwt.issuer", "doctor-portal")
	v.SetDefault("jwt.expiry_hours", 24)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("demo.enabled", true)
	v.SetDefault("appointments.strict_transitions", true)
	v.SetDefault("appointments.timezone", "UTC")
	v.SetDefault("receipts.source", "appointments")
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.lead_hours", 24)
	v.SetDefault("reminders.interval_minutes", 15)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from the working directory or ./config,
// then applies PORTAL_* environment overrides, including any set in a local
// .env file. A missing file is not an error; defaults and the environment
// are enough to boot.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	switch c.Receipts.Source {
	case "appointments", "finance":
	default:
		return fmt.Errorf("receipts.source must be appointments or finance, got %q", c.Receipts.Source)
	}
	if _, err := c.Demo.SandboxDoctor(); err != nil {
		return err
	}
	if _, err := c.Appointments.Location(); err != nil {
		return fmt.Errorf("invalid appointments.timezone: %w", err)
	}
	return nil
}
