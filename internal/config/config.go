package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// ErrNoJwtSecret is returned by RequireJwtSecret when JWT_SECRET is unset.
var ErrNoJwtSecret = errors.New("JWT_SECRET is required")

type Config struct {
	DB       DBconfig
	RabbitMq RabbitMqconfig
	Srv      Serviceconfig
	App      Appconfig
	SMTP     SMTPconfig
	Log      Loggerconfig
}

type DBconfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost" validate:"required"`
	Port     int    `env:"DB_PORT" envDefault:"5432" validate:"gt=0,lt=65536"`
	User     string `env:"DB_USER" envDefault:"taxi_user" validate:"required"`
	Password string `env:"DB_PASSWORD" envDefault:"taxi_pass"`
	Database string `env:"DB_NAME" envDefault:"taxi_db" validate:"required"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10" validate:"gt=0"`
	// MigrateOnStart applies pending migrations before the services that own
	// the database open their pool.
	MigrateOnStart bool `env:"DB_MIGRATE_ON_START" envDefault:"true"`
}

type RabbitMqconfig struct {
	Host     string `env:"RABBITMQ_HOST" envDefault:"localhost" validate:"required"`
	Port     int    `env:"RABBITMQ_PORT" envDefault:"5672" validate:"gt=0,lt=65536"`
	User     string `env:"RABBITMQ_USER" envDefault:"guest"`
	Password string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	VHost    string `env:"RABBITMQ_VHOST" envDefault:""`
}

type Serviceconfig struct {
	AuthServicePort  string `env:"AUTH_SERVICE_PORT" envDefault:"3000" validate:"required,numeric"`
	WebServicePort   string `env:"WEB_SERVICE_PORT" envDefault:"3001" validate:"required,numeric"`
	EmailServicePort string `env:"EMAIL_SERVICE_PORT" envDefault:"3002" validate:"required,numeric"`
}

type Appconfig struct {
	JwtSecret string        `env:"JWT_SECRET" validate:"omitempty,min=32"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"168h" validate:"gt=0"`
	// NotifyAsync delivers post-commit effects in the background instead of
	// before the response is written.
	NotifyAsync bool `env:"NOTIFY_ASYNC" envDefault:"true"`
	// LoginPerMinute throttles login and register per client IP.
	LoginPerMinute float64 `env:"LOGIN_PER_MINUTE" envDefault:"30" validate:"gt=0"`
	LoginBurst     int     `env:"LOGIN_BURST" envDefault:"10" validate:"gt=0"`
	// EmailWorkers is the number of concurrent email consumers.
	EmailWorkers int `env:"EMAIL_WORKERS" envDefault:"4" validate:"gt=0"`
}

type SMTPconfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com" validate:"required"`
	Port     int    `env:"SMTP_PORT" envDefault:"587" validate:"gt=0,lt=65536"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@taxiweb.local" validate:"required,email"`
}

type Loggerconfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// New reads the configuration from the environment and validates it.
func New() (*Config, error) {
	cnf := &Config{}
	if err := env.Parse(cnf); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cnf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cnf, nil
}

// RequireJwtSecret fails for services that sign or verify tokens when no
// secret is configured. Length is already checked by New.
func (c Appconfig) RequireJwtSecret() error {
	if c.JwtSecret == "" {
		return ErrNoJwtSecret
	}
	return nil
}

// URL returns the postgres connection string.
func (c DBconfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// URL returns the amqp connection string.
func (c RabbitMqconfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.VHost,
	}
	return u.String()
}
