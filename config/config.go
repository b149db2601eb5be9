package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

type Config struct {
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Bounds the metadata round trip to the video site.
	ResolveTimeout time.Duration
	MaxBodyBytes   int64

	Locale   LocaleConfig
	Upstream UpstreamConfig
	CORS     CORSConfig
	Log      LogConfig
}

type LocaleConfig struct {
	MessageLanguage string
	NumberLocale    string
	DateLocale      string
}

type UpstreamConfig struct {
	HeaderTimeout time.Duration
	ChunkSize     int64
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var defaultAllowedHeaders = []string{
	"X-CSRF-Token",
	"X-Requested-With",
	"Accept",
	"Accept-Version",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Date",
	"X-Api-Version",
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:      GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 0),
		IdleTimeout:     getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		ResolveTimeout:  getEnvAsDuration("RESOLVE_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    getEnvAsInt64("MAX_BODY_BYTES", 1<<20),

		Locale: LocaleConfig{
			MessageLanguage: GetEnv("MESSAGE_LANGUAGE", "en"),
			NumberLocale:    GetEnv("NUMBER_LOCALE", "en-US"),
			DateLocale:      GetEnv("DATE_LOCALE", "es-ES"),
		},

		Upstream: UpstreamConfig{
			HeaderTimeout: getEnvAsDuration("UPSTREAM_HEADER_TIMEOUT", 30*time.Second),
			ChunkSize:     getEnvAsInt64("UPSTREAM_CHUNK_SIZE", 10*1024*1024),
		},

		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "OPTIONS", "PATCH", "DELETE", "POST", "PUT"},
			),
			AllowedHeaders:   getEnvAsStringSlice("CORS_ALLOWED_HEADERS", defaultAllowedHeaders),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
		},

		Log: LogConfig{
			Level:      GetEnv("LOG_LEVEL", "info"),
			Format:     GetEnv("LOG_FORMAT", "text"),
			File:       GetEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout < 0 {
		return errors.New("write timeout must not be negative")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.ResolveTimeout <= 0 {
		return errors.New("resolve timeout must be greater than 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be greater than 0")
	}
	if cfg.Upstream.ChunkSize <= 0 {
		return errors.New("upstream chunk size must be greater than 0")
	}

	locales := map[string]string{
		"message language": cfg.Locale.MessageLanguage,
		"number locale":    cfg.Locale.NumberLocale,
		"date locale":      cfg.Locale.DateLocale,
	}
	for name, tag := range locales {
		if _, err := language.Parse(tag); err != nil {
			return errors.Wrapf(err, "invalid %s %q", name, tag)
		}
	}
	return nil
}
