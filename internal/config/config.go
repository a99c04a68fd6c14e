package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// EnvPrefix префикс переменных окружения, перекрывающих config.toml
const EnvPrefix = "AUTOBOOKER"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Tracing      TracingConfig      `toml:"tracing"`
	Storage      StorageConfig      `toml:"storage"`
	Database     DatabaseConfig     `toml:"database"`
	Ledger       LedgerConfig       `toml:"ledger"`
	Auth         AuthConfig         `toml:"auth"`
	Integrations IntegrationsConfig `toml:"integrations"`
}

type ServerConfig struct {
	HTTPPort        int    `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	Environment     string `toml:"environment" envconfig:"ENV"`
	Version         string `toml:"version"`
}

type LogsConfig struct {
	Level string `toml:"level" envconfig:"LOG_LEVEL"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" envconfig:"METRICS_ENABLED"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Endpoint string `toml:"endpoint" envconfig:"OTLP_ENDPOINT"`
	Insecure bool   `toml:"insecure"`
}

type StorageConfig struct {
	Driver        string `toml:"driver" envconfig:"STORAGE_DRIVER"`
	MigrationsDir string `toml:"migrations_dir"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"DB_HOST"`
	Port            int    `toml:"port" envconfig:"DB_PORT"`
	User            string `toml:"user" envconfig:"DB_USER"`
	Password        string `toml:"password" envconfig:"DB_PASSWORD"`
	DBName          string `toml:"dbname" envconfig:"DB_NAME"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// LedgerConfig правила журнала бронирований
type LedgerConfig struct {
	Timezone   string   `toml:"timezone" envconfig:"TIMEZONE"`
	SlotLabels []string `toml:"slot_labels"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL     int    `toml:"token_ttl"` // в минутах
	BcryptCost   int    `toml:"bcrypt_cost"`
	DemoEmail    string `toml:"demo_email" envconfig:"DEMO_EMAIL"`
	DemoPassword string `toml:"demo_password" envconfig:"DEMO_PASSWORD"`
	SecureCookie bool   `toml:"secure_cookie"`
}

type IntegrationsConfig struct {
	Timeout  int            `toml:"timeout"` // в секундах
	SMTP     SMTPConfig     `toml:"smtp"`
	Twilio   TwilioConfig   `toml:"twilio"`
	Calendar CalendarConfig `toml:"calendar"`
	Stripe   StripeConfig   `toml:"stripe"`
	AMQP     AMQPConfig     `toml:"amqp"`
	OpenAI   OpenAIConfig   `toml:"openai"`
}

type SMTPConfig struct {
	Host         string `toml:"host" envconfig:"SMTP_HOST"`
	Port         int    `toml:"port" envconfig:"SMTP_PORT"`
	Username     string `toml:"username" envconfig:"SMTP_USER"`
	Password     string `toml:"password" envconfig:"SMTP_PASS"`
	From         string `toml:"from" envconfig:"FROM_EMAIL"`
	DashboardURL string `toml:"dashboard_url"`
}

type TwilioConfig struct {
	BaseURL    string `toml:"base_url" envconfig:"TWILIO_BASE_URL"`
	AccountSID string `toml:"account_sid" envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `toml:"auth_token" envconfig:"TWILIO_AUTH_TOKEN"`
	From       string `toml:"from" envconfig:"TWILIO_PHONE_NUMBER"`
}

type CalendarConfig struct {
	WebhookURL string `toml:"webhook_url" envconfig:"CALENDAR_WEBHOOK_URL"`
	Token      string `toml:"token" envconfig:"CALENDAR_TOKEN"`
}

type StripeConfig struct {
	BaseURL   string `toml:"base_url" envconfig:"STRIPE_BASE_URL"`
	SecretKey string `toml:"secret_key" envconfig:"STRIPE_SECRET_KEY"`
	Currency  string `toml:"currency"`
}

type AMQPConfig struct {
	URL      string `toml:"url" envconfig:"AMQP_URL"`
	Exchange string `toml:"exchange"`
}

// OpenAIConfig генерация персонального текста письма через chat completions
type OpenAIConfig struct {
	BaseURL string `toml:"base_url" envconfig:"OPENAI_BASE_URL"`
	APIKey  string `toml:"api_key" envconfig:"OPENAI_API_KEY"`
	Model   string `toml:"model" envconfig:"OPENAI_MODEL"`
}

// Load читает config.toml (если файл есть), перекрывает значения из окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv каждая секция читается со своим набором переменных AUTOBOOKER_*
func applyEnv(cfg *Config) error {
	sections := []interface{}{
		&cfg.Server, &cfg.Logs, &cfg.Metrics, &cfg.Tracing, &cfg.Storage, &cfg.Database,
		&cfg.Ledger, &cfg.Auth,
		&cfg.Integrations.SMTP, &cfg.Integrations.Twilio, &cfg.Integrations.Calendar,
		&cfg.Integrations.Stripe, &cfg.Integrations.AMQP, &cfg.Integrations.OpenAI,
	}
	for _, s := range sections {
		if err := envconfig.Process(EnvPrefix, s); err != nil {
			return fmt.Errorf("config: env: %w", err)
		}
	}
	return nil
}

// Default значения для локального запуска без файла
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			Environment:     "development",
			Version:         "1.0.0",
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "autobooker",
		},
		Storage: StorageConfig{
			Driver:        StorageMemory,
			MigrationsDir: "migrations",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "autobooker",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Ledger: LedgerConfig{Timezone: "UTC"},
		Auth: AuthConfig{
			TokenTTL:   60 * 24,
			BcryptCost: 10,
			DemoEmail:  "demo@autobooker.com",
		},
		Integrations: IntegrationsConfig{
			Timeout: 10,
			SMTP:    SMTPConfig{Port: 587},
			Stripe:  StripeConfig{Currency: "eur"},
			AMQP:    AMQPConfig{Exchange: "autobooker.bookings"},
			OpenAI:  OpenAIConfig{Model: "gpt-3.5-turbo"},
		},
	}
}

// Validate отклоняет заведомо невозможные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: server.http_port %d is out of range", c.Server.HTTPPort)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be positive")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("config: database.host and database.dbname are required for postgres storage")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}

	if _, err := c.Ledger.Location(); err != nil {
		return err
	}
	for _, label := range c.Ledger.SlotLabels {
		if _, err := types.NewTimeStringFromString(label); err != nil {
			return fmt.Errorf("config: ledger.slot_labels: %w", err)
		}
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: auth.token_ttl must be positive")
	}
	if c.Integrations.Timeout <= 0 {
		return fmt.Errorf("config: integrations.timeout must be positive")
	}
	if u := c.Integrations.Calendar.WebhookURL; u != "" {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("config: integrations.calendar.webhook_url: %w", err)
		}
	}
	return nil
}

// DSN строка подключения к Postgres
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location часовой пояс, в котором интерпретируются дата и время слотов
func (l LedgerConfig) Location() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: ledger.timezone: %w", err)
	}
	return loc, nil
}

// TTL срок жизни access-токена
func (a AuthConfig) TTL() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// SMTPEnabled письма отправляются только при заданном хосте и отправителе
func (i IntegrationsConfig) SMTPEnabled() bool {
	return i.SMTP.Host != "" && i.SMTP.From != ""
}

func (i IntegrationsConfig) TwilioEnabled() bool {
	return i.Twilio.AccountSID != "" && i.Twilio.AuthToken != "" && i.Twilio.From != ""
}

func (i IntegrationsConfig) CalendarEnabled() bool {
	return i.Calendar.WebhookURL != ""
}

func (i IntegrationsConfig) StripeEnabled() bool {
	return i.Stripe.SecretKey != ""
}

func (i IntegrationsConfig) AMQPEnabled() bool {
	return i.AMQP.URL != ""
}

func (i IntegrationsConfig) OpenAIEnabled() bool {
	return i.OpenAI.APIKey != ""
}

// CallTimeout таймаут одного вызова внешнего сервиса
func (i IntegrationsConfig) CallTimeout() time.Duration {
	return time.Duration(i.Timeout) * time.Second
}
