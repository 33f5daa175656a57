package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// Config holds the settings of the stub backend.
type Config struct {
	Port            int
	Environment     string
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	JWTTTL          time.Duration
	VerificationTTL time.Duration
	AllowedOrigins  []string
	PublicBaseURL   string
	SMTP            SMTPConfig
}

// SMTPConfig describes the mail relay used for verification e-mails.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// ProbeConfig holds the fixed inputs of a verify-then-login probe run.
type ProbeConfig struct {
	BaseURL  string
	Token    string
	Email    string
	Password string
	Timeout  time.Duration
}

const (
	defaultPort          = 8080
	defaultMongoDatabase = "authprobe"
	defaultEnvironment   = "development"
	defaultSMTPHost      = "smtp.gmail.com"
	defaultSMTPPort      = 587
	defaultTokenTTL      = 24 * time.Hour
	defaultProbeBaseURL  = "http://localhost:8080/api/auth"
	defaultProbeToken    = "3f9c1b7e2d4a8f6051c2e9d7b3a6f8e1"
	defaultProbeEmail    = "test@example.com"
	defaultProbePassword = "password123"
)

// Load reads the backend configuration from the environment.
func Load() (*Config, error) {
	port := parseInt("PORT", defaultPort)
	cfg := &Config{
		Port:            port,
		Environment:     getEnv("NODE_ENV", defaultEnvironment),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   getEnv("MONGO_DATABASE", defaultMongoDatabase),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          parseDuration("JWT_TTL", defaultTokenTTL),
		VerificationTTL: parseDuration("VERIFICATION_TTL", defaultTokenTTL),
		AllowedOrigins:  splitList(os.Getenv("ALLOWED_ORIGINS")),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", defaultSMTPHost),
			Port:     parseInt("SMTP_PORT", defaultSMTPPort),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

// LoadProbe returns the probe inputs. Every value has a fixed default; the
// environment can only override it.
func LoadProbe() *ProbeConfig {
	return &ProbeConfig{
		BaseURL:  strings.TrimRight(getEnv("PROBE_BASE_URL", defaultProbeBaseURL), "/"),
		Token:    getEnv("PROBE_VERIFY_TOKEN", defaultProbeToken),
		Email:    getEnv("PROBE_EMAIL", defaultProbeEmail),
		Password: getEnv("PROBE_PASSWORD", defaultProbePassword),
		Timeout:  parseDuration("PROBE_TIMEOUT", 0),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("Invalid integer in environment, using default")
		return fallback
	}
	return n
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", fallback).Msg("Invalid duration in environment, using default")
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
