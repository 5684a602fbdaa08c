package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	passwordvalidator "github.com/wagslane/go-password-validator"

	"github.com/talx-hub/gopher-rewards/internal/model"
)

const minSecretEntropyBits = 60

type Config struct {
	RunAddr              string        `env:"RUN_ADDRESS"                 envDefault:"localhost:8080"`
	DatabaseURI          string        `env:"DATABASE_URI"                envDefault:""`
	SecretKey            string        `env:"SECRET_KEY"                  envDefault:""`
	StripeSecretKey      string        `env:"STRIPE_SECRET_KEY"           envDefault:""`
	StripeWebhookSecret  string        `env:"STRIPE_WEBHOOK_SECRET"       envDefault:""`
	StripeAPIURL         string        `env:"STRIPE_API_URL"              envDefault:""`
	CategoryCatalog      string        `env:"CATEGORY_CATALOG"            envDefault:""`
	LogLevel             string        `env:"LOG_LEVEL"                   envDefault:"info"`
	RedisAddr            string        `env:"REDIS_ADDR"                  envDefault:""`
	OTLPEndpoint         string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	WebhookTolerance     time.Duration `env:"WEBHOOK_TOLERANCE"           envDefault:"5m"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT"            envDefault:"10s"`
	RateLimitRPS         float64       `env:"RATE_LIMIT_RPS"              envDefault:"10"`
	ClassifierCacheSize  int           `env:"CLASSIFIER_CACHE_SIZE"       envDefault:"10000"`
	RateLimitBurst       int           `env:"RATE_LIMIT_BURST"            envDefault:"20"`
	AuthorizeConcurrency uint64        `env:"AUTHORIZE_CONCURRENCY"       envDefault:"16"`
}

type Builder struct {
	cfg *Config
	log *slog.Logger
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{
		cfg: &Config{
			ShutdownTimeout: model.DefaultShutdownTimeout,
		},
		log: log,
	}
}

// FromDotEnv loads an optional .env file into the process environment.
// Variables already set win.
func (b *Builder) FromDotEnv(path string) *Builder {
	if _, err := os.Stat(path); err != nil {
		return b
	}
	if err := godotenv.Load(path); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelWarn, "Failed to load .env file",
			slog.String("path", path),
			slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) FromEnv() *Builder {
	if err := env.Parse(b.cfg); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelError, "Failed to parse config", slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) FromFlags() *Builder {
	return b.fromFlagSet(flag.CommandLine, os.Args[1:])
}

func (b *Builder) fromFlagSet(fs *flag.FlagSet, args []string) *Builder {
	fs.StringVar(&b.cfg.RunAddr, "a", b.cfg.RunAddr, "Run address")
	fs.StringVar(&b.cfg.DatabaseURI, "d", b.cfg.DatabaseURI, "Database URI (postgres:// or sqlite://path)")
	fs.StringVar(&b.cfg.SecretKey, "k", b.cfg.SecretKey, "JWT secret key")
	fs.StringVar(&b.cfg.LogLevel, "l", b.cfg.LogLevel, "Log level")
	fs.StringVar(&b.cfg.CategoryCatalog, "c", b.cfg.CategoryCatalog, "Category catalog file")
	fs.StringVar(&b.cfg.StripeAPIURL, "s", b.cfg.StripeAPIURL, "Payment gateway API URL")
	fs.StringVar(&b.cfg.RedisAddr, "r", b.cfg.RedisAddr, "Redis address for shared rate limiting")

	if err := fs.Parse(args); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelError, "Failed to parse flags", slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) GetConfig() *Config {
	return b.cfg
}

func (c *Config) Validate() error {
	errs := make([]error, 0)
	if c.DatabaseURI == "" {
		errs = append(errs, errors.New("DATABASE_URI is empty"))
	}
	if c.StripeSecretKey == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY is empty"))
	}
	if err := passwordvalidator.Validate(c.SecretKey, minSecretEntropyBits); err != nil {
		errs = append(errs, fmt.Errorf("SECRET_KEY is too weak: %w", err))
	}
	if err := passwordvalidator.Validate(c.StripeWebhookSecret, minSecretEntropyBits); err != nil {
		errs = append(errs, fmt.Errorf("STRIPE_WEBHOOK_SECRET is too weak: %w", err))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limit must be positive"))
	}
	if c.ClassifierCacheSize <= 0 {
		errs = append(errs, errors.New("CLASSIFIER_CACHE_SIZE must be positive"))
	}
	if c.AuthorizeConcurrency == 0 {
		errs = append(errs, errors.New("AUTHORIZE_CONCURRENCY must be positive"))
	}
	return errors.Join(errs...)
}
