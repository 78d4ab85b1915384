package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Catalog  CatalogConfig
	Storage  StorageConfig
	Notify   NotifyConfig
	Sentry   SentryConfig
	Session  SessionConfig
	Carousel CarouselConfig
}

// CatalogConfig points at the product data document.
// Source is a file path, an http(s) URL or s3://bucket/key.
type CatalogConfig struct {
	Source       string
	FetchTimeout time.Duration
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
}

// StorageConfig selects the cart slot backend.
type StorageConfig struct {
	Provider    string // "memory", "local", "postgres" or "redis"
	LocalPath   string
	DatabaseURL string
	RedisURL    string
	RedisTTL    time.Duration
}

// NotifyConfig configures cart change notifications. An empty NATSURL
// disables publishing; changes are still logged.
type NotifyConfig struct {
	NATSURL string
	Subject string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

type SessionConfig struct {
	SecureCookies bool
	IdleTimeout   time.Duration
	MaxSessions   int
}

type CarouselConfig struct {
	CardsPerView int
}

var validProviders = []string{"memory", "local", "postgres", "redis"}

func NewConfig() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Port:     uint16(v.GetUint("PORT")),
		Catalog: CatalogConfig{
			Source:       v.GetString("CATALOG_SOURCE"),
			FetchTimeout: v.GetDuration("CATALOG_FETCH_TIMEOUT"),
			S3Region:     v.GetString("S3_REGION"),
			S3Endpoint:   v.GetString("S3_ENDPOINT"),
			S3AccessKey:  v.GetString("S3_ACCESS_KEY_ID"),
			S3SecretKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
		},
		Storage: StorageConfig{
			Provider:    strings.ToLower(v.GetString("CART_STORE")),
			LocalPath:   v.GetString("CART_LOCAL_PATH"),
			DatabaseURL: v.GetString("DATABASE_URL"),
			RedisURL:    v.GetString("REDIS_URL"),
			RedisTTL:    v.GetDuration("REDIS_CART_TTL"),
		},
		Notify: NotifyConfig{
			NATSURL: v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Sentry: SentryConfig{
			DSN:              v.GetString("SENTRY_DSN"),
			Enabled:          v.GetBool("SENTRY_ENABLED"),
			Environment:      v.GetString("SENTRY_ENVIRONMENT"),
			Release:          v.GetString("SENTRY_RELEASE"),
			SampleRate:       v.GetFloat64("SENTRY_SAMPLE_RATE"),
			TracesSampleRate: v.GetFloat64("SENTRY_TRACES_SAMPLE_RATE"),
			Debug:            v.GetBool("SENTRY_DEBUG"),
		},
		Session: SessionConfig{
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			IdleTimeout:   v.GetDuration("SESSION_IDLE_TIMEOUT"),
			MaxSessions:   v.GetInt("SESSION_MAX"),
		},
		Carousel: CarouselConfig{
			CardsPerView: v.GetInt("CAROUSEL_CARDS_PER_VIEW"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("CATALOG_SOURCE", "./data/products.json")
	v.SetDefault("CATALOG_FETCH_TIMEOUT", 15*time.Second)
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("CART_STORE", "memory")
	v.SetDefault("CART_LOCAL_PATH", "./data/carts")
	v.SetDefault("REDIS_CART_TTL", 30*24*time.Hour)
	v.SetDefault("NATS_SUBJECT", "vitrine.cart.changed")
	v.SetDefault("SENTRY_ENABLED", false)
	v.SetDefault("SENTRY_ENVIRONMENT", "development")
	v.SetDefault("SENTRY_SAMPLE_RATE", 1.0)
	v.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.0)
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("SESSION_IDLE_TIMEOUT", 2*time.Hour)
	v.SetDefault("SESSION_MAX", 10000)
	v.SetDefault("CAROUSEL_CARDS_PER_VIEW", 4)
}

// loadDotEnv loads .env from the working directory, walking up at most
// two parents to find it.
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}
	dir, _ := os.Getwd()
	for i := 0; i < 2; i++ {
		dir = filepath.Join(dir, "..")
		if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
			return
		}
	}
	log.Warn().Msg(".env file not found, using environment variables and defaults")
}

func (cfg *Config) validate() error {
	if cfg.Env != "dev" && cfg.Env != "prod" {
		log.Warn().Str("env", cfg.Env).Msg("Invalid environment. Using default: prod")
		cfg.Env = "prod"
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		log.Warn().Str("value", cfg.LogLevel).Msg("Invalid log level. Using default: info")
		cfg.LogLevel = "info"
	}

	valid := false
	for _, p := range validProviders {
		if cfg.Storage.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("CART_STORE must be one of %s, got %q", strings.Join(validProviders, ", "), cfg.Storage.Provider)
	}
	if cfg.Storage.Provider == "postgres" && cfg.Storage.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required when CART_STORE=postgres")
	}
	if cfg.Storage.Provider == "redis" && cfg.Storage.RedisURL == "" {
		return fmt.Errorf("REDIS_URL required when CART_STORE=redis")
	}

	if cfg.Carousel.CardsPerView < 1 {
		log.Warn().Int("value", cfg.Carousel.CardsPerView).Msg("Invalid cards per view. Using default: 4")
		cfg.Carousel.CardsPerView = 4
	}

	if cfg.Sentry.Enabled && cfg.Sentry.DSN == "" {
		log.Warn().Msg("SENTRY_ENABLED is set without SENTRY_DSN; error tracking disabled")
		cfg.Sentry.Enabled = false
	}

	return nil
}
