package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ieee-sb/thesandbox/pkg/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	OAuth         OAuthConfig         `yaml:"oauth"`
	NATS          NATSConfig          `yaml:"nats"`
	Queue         QueueConfig         `yaml:"queue"`
	Storage       StorageConfig       `yaml:"storage"`
	Email         EmailConfig         `yaml:"email"`
	Sheets        SheetsConfig        `yaml:"sheets"`
	Telegram      TelegramConfig      `yaml:"telegram"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds the CockroachDB/Postgres connection string.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS"`
	PublicBaseURL   string        `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JWT_DEFAULT_TTL"`
}

// OAuthConfig holds Google sign-in settings. Social login is disabled when
// ClientID is empty.
type OAuthConfig struct {
	GoogleClientID     string `yaml:"google_client_id" env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `yaml:"google_redirect_url" env:"GOOGLE_REDIRECT_URL"`
}

// NATSConfig holds NATS configuration. An empty URL keeps the event bus in
// process.
type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL"`
}

// QueueConfig holds River settings.
type QueueConfig struct {
	Enabled    bool `yaml:"enabled" env:"QUEUE_ENABLED"`
	MaxWorkers int  `yaml:"max_workers" env:"QUEUE_MAX_WORKERS"`
}

// StorageConfig selects where uploaded files go.
type StorageConfig struct {
	Backend        string `yaml:"backend" env:"STORAGE_BACKEND"` // local|supabase
	LocalDir       string `yaml:"local_dir" env:"STORAGE_LOCAL_DIR"`
	LocalPublicURL string `yaml:"local_public_url" env:"STORAGE_LOCAL_PUBLIC_URL"`
	SupabaseURL    string `yaml:"supabase_url" env:"SUPABASE_URL"`
	SupabaseKey    string `yaml:"supabase_key" env:"SUPABASE_SERVICE_KEY"`
	Bucket         string `yaml:"bucket" env:"STORAGE_BUCKET"`
}

// EmailConfig holds outbound mail settings. Resend is used when ResendAPIKey
// is set, SMTP otherwise. Mail is disabled when neither is configured.
type EmailConfig struct {
	From         string `yaml:"from" env:"EMAIL_FROM"`
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUsername string `yaml:"smtp_username" env:"SMTP_USERNAME"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
}

// SheetsConfig holds the registration spreadsheet mirror settings.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_SHEETS_CREDENTIALS_FILE"`
	SpreadsheetID   string `yaml:"spreadsheet_id" env:"GOOGLE_SHEETS_SPREADSHEET_ID"`
}

// TelegramConfig holds the staff chat alert settings.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment string `yaml:"environment" env:"ENV"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
}

// LoadConfig loads the configuration from a YAML file, overlays environment
// variables and validates the result. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	cfg, err := Read(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is LoadConfig without validation. Maintenance commands that only
// touch the database use it.
func Read(filename string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	switch c.Storage.Backend {
	case "local", "supabase":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			PublicBaseURL:   "http://localhost:3000",
			ShutdownTimeout: 15 * time.Second,
		},
		JWT: JWTConfig{
			Issuer:     "thesandbox",
			DefaultTTL: 24 * time.Hour,
		},
		Queue: QueueConfig{
			Enabled:    true,
			MaxWorkers: 10,
		},
		Storage: StorageConfig{
			Backend:        "local",
			LocalDir:       "uploads",
			LocalPublicURL: "http://localhost:8080/uploads",
			Bucket:         "sandbox",
		},
		Email: EmailConfig{
			From:     "The Sandbox <noreply@thesandbox.id>",
			SMTPPort: 587,
		},
		Observability: ObservabilityConfig{
			Environment: "production",
			LogLevel:    "info",
		},
	}
}

// SecureCookies reports whether session cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.Observability.Environment != "development"
}

// ToObsConfig converts the observability section.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "thesandbox",
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
	}
}
