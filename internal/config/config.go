package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Monitor  MonitorConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

// MonitorConfig holds location deviation detection configuration
type MonitorConfig struct {
	ThresholdKm float64
}

func Load() (*Config, error) {
	// Missing .env is fine; environment variables may be set directly.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance-tracker"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	thresholdKm, err := strconv.ParseFloat(getEnv("MONITOR_THRESHOLD_KM", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_THRESHOLD_KM: %w", err)
	}
	config.Monitor = MonitorConfig{
		ThresholdKm: thresholdKm,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Monitor.ThresholdKm <= 0 {
		return fmt.Errorf("MONITOR_THRESHOLD_KM must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// AgentConfig holds configuration for the client location agent.
type AgentConfig struct {
	APIBaseURL  string
	AccessToken string
	StatePath   string

	PollInterval      time.Duration
	ReportInterval    time.Duration
	FallbackInterval  time.Duration
	CycleTimeout      time.Duration
	DistanceTriggerKm float64

	LocationFile string

	TelegramToken  string
	TelegramChatID int64
}

func LoadAgent() (*AgentConfig, error) {
	_ = godotenv.Load()

	cfg := &AgentConfig{
		APIBaseURL:   getEnv("AGENT_API_BASE_URL", "http://localhost:8080"),
		AccessToken:  getEnv("AGENT_ACCESS_TOKEN", ""),
		StatePath:    getEnv("AGENT_STATE_PATH", "agent.db"),
		LocationFile: getEnv("AGENT_LOCATION_FILE", ""),
	}

	var err error
	if cfg.PollInterval, err = time.ParseDuration(getEnv("AGENT_POLL_INTERVAL", "30s")); err != nil {
		return nil, fmt.Errorf("invalid AGENT_POLL_INTERVAL: %w", err)
	}
	if cfg.ReportInterval, err = time.ParseDuration(getEnv("AGENT_REPORT_INTERVAL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid AGENT_REPORT_INTERVAL: %w", err)
	}
	if cfg.FallbackInterval, err = time.ParseDuration(getEnv("AGENT_FALLBACK_INTERVAL", "15m")); err != nil {
		return nil, fmt.Errorf("invalid AGENT_FALLBACK_INTERVAL: %w", err)
	}
	if cfg.CycleTimeout, err = time.ParseDuration(getEnv("AGENT_CYCLE_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid AGENT_CYCLE_TIMEOUT: %w", err)
	}
	if cfg.DistanceTriggerKm, err = strconv.ParseFloat(getEnv("AGENT_DISTANCE_TRIGGER_KM", "0.1"), 64); err != nil {
		return nil, fmt.Errorf("invalid AGENT_DISTANCE_TRIGGER_KM: %w", err)
	}

	if chatID := getEnv("AGENT_TELEGRAM_CHAT_ID", ""); chatID != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AGENT_TELEGRAM_CHAT_ID: %w", err)
		}
	}
	cfg.TelegramToken = getEnv("AGENT_TELEGRAM_TOKEN", "")

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("AGENT_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
