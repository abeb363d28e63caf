package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

type ServerConfig struct {
	Port         int           `yaml:"port" env:"PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	// Allowed CORS origins; empty means any origin.
	AllowOrigins []string `yaml:"allow_origins" env:"ALLOW_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	DSN          string `yaml:"url" env:"URL"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

type SessionConfig struct {
	// Store is "redis" or "memory".
	Store      string        `yaml:"store" env:"STORE"`
	CookieName string        `yaml:"cookie_name" env:"COOKIE_NAME"`
	TTL        time.Duration `yaml:"ttl" env:"TTL"`
	Secure     bool          `yaml:"secure" env:"SECURE"`
}

type ResetConfig struct {
	Cooldown               time.Duration `yaml:"cooldown" env:"COOLDOWN"`
	CodeTTL                time.Duration `yaml:"code_ttl" env:"CODE_TTL"`
	DeliveryTimeout        time.Duration `yaml:"delivery_timeout" env:"DELIVERY_TIMEOUT"`
	CodePepper             string        `yaml:"code_pepper" env:"CODE_PEPPER"`
	DefaultCountryCode     string        `yaml:"default_country_code" env:"DEFAULT_COUNTRY_CODE"`
	ConcealUnknownAccounts bool          `yaml:"conceal_unknown_accounts" env:"CONCEAL_UNKNOWN_ACCOUNTS"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"ACCESS_TTL"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"REFRESH_TTL"`
}

type EmailConfig struct {
	// Provider is one of smtp, resend, ses, dry-run.
	Provider     string `yaml:"provider" env:"PROVIDER"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser     string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email" env:"FROM_EMAIL"`
	FromName     string `yaml:"from_name" env:"FROM_NAME"`
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	SESRegion    string `yaml:"ses_region" env:"SES_REGION"`
}

type SMSConfig struct {
	// Provider is one of twilio, mobizon, dry-run.
	Provider         string `yaml:"provider" env:"PROVIDER"`
	TwilioAccountSID string `yaml:"twilio_account_sid" env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `yaml:"twilio_auth_token" env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `yaml:"twilio_from" env:"TWILIO_FROM"`
	TwilioBaseURL    string `yaml:"twilio_base_url" env:"TWILIO_BASE_URL"`
	MobizonAPIKey    string `yaml:"mobizon_api_key" env:"MOBIZON_API_KEY"`
	MobizonSender    string `yaml:"mobizon_sender" env:"MOBIZON_SENDER"`
	MobizonBaseURL   string `yaml:"mobizon_base_url" env:"MOBIZON_BASE_URL"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token" env:"BOT_TOKEN"`
	OpsChatID int64  `yaml:"ops_chat_id" env:"OPS_CHAT_ID"`
}

type ReaperConfig struct {
	Enabled   bool          `yaml:"enabled" env:"ENABLED"`
	Interval  time.Duration `yaml:"interval" env:"INTERVAL"`
	Retention time.Duration `yaml:"retention" env:"RETENTION"`
}

type ReportsConfig struct {
	FontPath string `yaml:"font_path" env:"FONT_PATH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Pretty bool   `yaml:"pretty" env:"PRETTY"`
}

type Config struct {
	Env      string         `yaml:"env" env:"APP_ENV"`
	Brand    string         `yaml:"brand" env:"APP_BRAND"`
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	Session  SessionConfig  `yaml:"session" envPrefix:"SESSION_"`
	Reset    ResetConfig    `yaml:"reset" envPrefix:"RESET_"`
	Auth     AuthConfig     `yaml:"auth" envPrefix:"AUTH_"`
	Email    EmailConfig    `yaml:"email" envPrefix:"EMAIL_"`
	SMS      SMSConfig      `yaml:"sms" envPrefix:"SMS_"`
	Telegram TelegramConfig `yaml:"telegram" envPrefix:"TELEGRAM_"`
	Reaper   ReaperConfig   `yaml:"reaper" envPrefix:"REAPER_"`
	Reports  ReportsConfig  `yaml:"reports" envPrefix:"REPORTS_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// Defaults holds the values used for anything neither the file nor the
// environment sets.
func Defaults() Config {
	return Config{
		Env:   "development",
		Brand: "Luxera",
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 4,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Session: SessionConfig{
			Store:      "redis",
			CookieName: "luxera_session",
			TTL:        2 * time.Hour,
		},
		Reset: ResetConfig{
			Cooldown:           60 * time.Second,
			CodeTTL:            10 * time.Minute,
			DeliveryTimeout:    10 * time.Second,
			DefaultCountryCode: "+60",
		},
		Auth: AuthConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 30 * 24 * time.Hour,
		},
		Email: EmailConfig{
			Provider: "dry-run",
			SMTPPort: 587,
			FromName: "Luxera Store Support",
		},
		SMS: SMSConfig{
			Provider:      "dry-run",
			TwilioBaseURL:  "https://api.twilio.com/2010-04-01",
			MobizonBaseURL: "https://api.mobizon.kz",
		},
		Reaper: ReaperConfig{
			Interval:  time.Hour,
			Retention: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the config file named by LUXERA_CONFIG (or
// config/config.yaml), applies .env and environment overrides and fills
// the remaining fields from Defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("LUXERA_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	return Load(path)
}

// MustLoadConfig panics when the configuration cannot be loaded.
func MustLoadConfig() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Load builds the config from the YAML file at path. A missing file is not
// an error; the environment alone may configure the service.
func Load(path string) (*Config, error) {
	fileCfg := &Config{}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if fileCfg, err = parseYAML(f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	envCfg := &Config{}
	if err := env.Parse(envCfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	cfg := new(Config)
	if err := mergo.Merge(cfg, fileCfg); err != nil {
		return nil, fmt.Errorf("error merging file config: %w", err)
	}
	if err := mergo.Merge(cfg, envCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging env config: %w", err)
	}
	defaults := Defaults()
	if err := mergo.Merge(cfg, defaults); err != nil {
		return nil, fmt.Errorf("error merging defaults: %w", err)
	}

	return cfg, cfg.Validate()
}

func parseYAML(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
