package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CookieDomain   string        `yaml:"cookie_domain"`
	SecureCookie   bool          `yaml:"secure_cookie"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConns       int32  `yaml:"max_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
	SeedOnStart    bool   `yaml:"seed_on_start"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables caching and rate limiting
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Provider        string `yaml:"provider"` // gemini | openai | noop
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	DefaultModel    string `yaml:"default_model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"`  // max concurrent AI calls
	GeneratePerHour int    `yaml:"generate_per_hour"` // per-user limit; 0 disables
}

type RazorpayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
	Currency  string `yaml:"currency"`
	BaseURL   string `yaml:"base_url"`
}

type PaymentConfig struct {
	Razorpay RazorpayConfig `yaml:"razorpay"`
}

type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled reports whether SMTP credentials are present.
func (c EmailConfig) Enabled() bool { return c.Username != "" && c.Password != "" }

type TelegramConfig struct {
	Token    string  `yaml:"token"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type SchedulerConfig struct {
	StalePaymentInterval time.Duration `yaml:"stale_payment_interval"`
	StalePaymentAge      time.Duration `yaml:"stale_payment_age"`
}

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Payment   PaymentConfig   `yaml:"payment"`
	Email     EmailConfig     `yaml:"email"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Session   SessionConfig   `yaml:"session"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file is allowed when the
// environment carries everything), applies environment overrides and defaults,
// then validates.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deployment
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg, os.LookupEnv)
	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&cfg.Database.URL, "DATABASE_URL")
	set(&cfg.Payment.Razorpay.KeyID, "RAZORPAY_KEY")
	set(&cfg.Payment.Razorpay.KeySecret, "RAZORPAY_SECRET")
	set(&cfg.AI.GeminiKey, "AI_INTEGRATIONS_GEMINI_API_KEY")
	set(&cfg.AI.GeminiURL, "AI_INTEGRATIONS_GEMINI_BASE_URL")
	set(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	set(&cfg.Email.Username, "EMAIL_USER")
	set(&cfg.Email.Password, "EMAIL_PASS")
	set(&cfg.Email.From, "EMAIL_FROM")
	set(&cfg.Session.Secret, "SESSION_SECRET")
	set(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	set(&cfg.Redis.URL, "REDIS_URL")
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":5000"
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 60 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	if cfg.AI.Provider == "" {
		switch {
		case cfg.AI.GeminiKey != "":
			cfg.AI.Provider = "gemini"
		case cfg.AI.OpenAIKey != "":
			cfg.AI.Provider = "openai"
		default:
			cfg.AI.Provider = "noop"
		}
	}
	if cfg.AI.DefaultModel == "" {
		if cfg.AI.Provider == "openai" {
			cfg.AI.DefaultModel = "gpt-4o-mini"
		} else {
			cfg.AI.DefaultModel = "gemini-2.5-flash"
		}
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 4096
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 4
	}

	// Same placeholders the checkout uses in local development.
	if cfg.Payment.Razorpay.KeyID == "" {
		cfg.Payment.Razorpay.KeyID = "rzp_test_placeholder"
	}
	if cfg.Payment.Razorpay.KeySecret == "" {
		cfg.Payment.Razorpay.KeySecret = "secret_placeholder"
	}
	if cfg.Payment.Razorpay.Currency == "" {
		cfg.Payment.Razorpay.Currency = "INR"
	}
	if cfg.Payment.Razorpay.BaseURL == "" {
		cfg.Payment.Razorpay.BaseURL = "https://api.razorpay.com/v1"
	}

	if cfg.Email.Host == "" {
		cfg.Email.Host = "smtp.gmail.com"
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "noreply@projectnest.com"
	}

	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 7 * 24 * time.Hour
	}
	if cfg.Scheduler.StalePaymentInterval <= 0 {
		cfg.Scheduler.StalePaymentInterval = 15 * time.Minute
	}
	if cfg.Scheduler.StalePaymentAge <= 0 {
		cfg.Scheduler.StalePaymentAge = 24 * time.Hour
	}
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiKey == "" {
			return errors.New("ai.gemini_key is required for provider gemini")
		}
	case "openai":
		if c.AI.OpenAIKey == "" {
			return errors.New("ai.openai_key is required for provider openai")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
