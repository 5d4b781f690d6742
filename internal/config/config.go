package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort  string
	AppEnv      string
	AuthDevMode bool
	LogLevel    string
	StaticDir   string
	// CarryOverDelayMS is the pause before carried-over tasks are appended
	// to a freshly created agenda.
	CarryOverDelayMS int
	// NotifyDismissMS is how long a toast notification stays visible.
	NotifyDismissMS int
	DB               DBConfig
	Cognito          CognitoConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	if c.CarryOverDelayMS <= 0 {
		return fmt.Errorf("CARRYOVER_DELAY_MS must be positive, got %d", c.CarryOverDelayMS)
	}
	if c.NotifyDismissMS <= 0 {
		return fmt.Errorf("NOTIFY_DISMISS_MS must be positive, got %d", c.NotifyDismissMS)
	}
	return nil
}

// CarryOverDelay returns the configured carry-over pause as a duration.
func (c Config) CarryOverDelay() time.Duration {
	return time.Duration(c.CarryOverDelayMS) * time.Millisecond
}

// NotifyDismiss returns the configured toast lifetime as a duration.
func (c Config) NotifyDismiss() time.Duration {
	return time.Duration(c.NotifyDismissMS) * time.Millisecond
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type CognitoConfig struct {
	Region          string
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
}

func Load() Config {
	return Config{
		ServerPort:       envOrDefault("SERVER_PORT", "8080"),
		AppEnv:           envOrDefault("APP_ENV", "local"),
		AuthDevMode:      strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		StaticDir:        envOrDefault("STATIC_DIR", "./dist"),
		CarryOverDelayMS: envIntOrDefault("CARRYOVER_DELAY_MS", 1000),
		NotifyDismissMS:  envIntOrDefault("NOTIFY_DISMISS_MS", 2500),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "agenda"),
			Password: envOrDefault("DB_PASSWORD", "agenda"),
			Name:     envOrDefault("DB_NAME", "agenda"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Cognito: CognitoConfig{
			Region:          envOrDefault("COGNITO_REGION", "ap-northeast-1"),
			UserPoolID:      os.Getenv("COGNITO_USER_POOL_ID"),
			AppClientID:     os.Getenv("COGNITO_APP_CLIENT_ID"),
			AppClientSecret: os.Getenv("COGNITO_APP_CLIENT_SECRET"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
