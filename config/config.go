package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MySQLConfig holds the connection settings used when DBDriver is "mysql".
type MySQLConfig struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     string `env:"PORT" envDefault:"3306"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE" envDefault:"taskboard"`
}

// SMTPConfig uses the same variable names as the OTP mailer.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// Enabled reports whether every SMTP setting is present.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

type Config struct {
	Addr       string      `env:"TASKBOARD_ADDR" envDefault:":8080"`
	DBDriver   string      `env:"TASKBOARD_DB_DRIVER" envDefault:"sqlite"`
	SQLitePath string      `env:"TASKBOARD_SQLITE_PATH" envDefault:"data/taskboard.db"`
	MySQL      MySQLConfig `envPrefix:"TASKBOARD_MYSQL_"`

	JWTSecret string `env:"JWT_SECRET_KEY"`

	SMTP                SMTPConfig `envPrefix:"SMTP_"`
	FirebaseCredentials string     `env:"GOOGLE_APPLICATION_CREDENTIALS_1"`
	FirebaseProjectID   string     `env:"FIREBASE_PROJECT_ID"`

	AppBaseURL    string `env:"APP_BASE_URL" envDefault:"http://localhost:5173"`
	AuditSchedule string `env:"INVITATION_AUDIT_SCHEDULE" envDefault:"0 */15 * * * *"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	// .env is only a local convenience; deployments set real env vars.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	switch c.DBDriver {
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("TASKBOARD_SQLITE_PATH is required for the sqlite driver")
		}
	case "mysql":
		if c.MySQL.User == "" {
			return errors.New("TASKBOARD_MYSQL_USER is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
