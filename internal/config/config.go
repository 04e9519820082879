package config

import (
	"os"
	"strconv"
	"time"

	"tinysteps/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Storage StorageConfig
	AI      AIConfig
	Server  ServerConfig
	Reports ReportConfig
}

// StorageConfig selects the persistence backend. When URL is empty the app
// runs on the local JSON store under DataDir; when set it runs on Postgres.
type StorageConfig struct {
	URL     string
	DataDir string
	SSLMode string
}

// AIConfig holds AI/LLM related settings. An empty key is allowed: the AI
// services then serve their fallback payloads only.
type AIConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	PromptsDir    string
	MaxInFlight   int64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
}

// ReportConfig holds report export settings
type ReportConfig struct {
	ExcelFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Storage: loadStorageConfig(),
		AI:      loadAIConfig(),
		Server:  loadServerConfig(),
		Reports: loadReportConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// UseLocalStore reports whether the local JSON backend is active.
func (c *Config) UseLocalStore() bool {
	return c.Storage.URL == ""
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		URL:     os.Getenv("DATABASE_URL"),
		DataDir: getEnvOrDefault("DATA_DIR", "./data"),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		SystemContext: "You are a supportive productivity assistant",
		MaxTokens:     getEnvIntOrDefault("MAX_TOKENS", 1000),
		Temperature:   getEnvFloatOrDefault("TEMPERATURE", 0.8),
		PromptsDir:    os.Getenv("PROMPTS_DIR"),
		MaxInFlight:   int64(getEnvIntOrDefault("AI_MAX_IN_FLIGHT", 4)),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		OpsPort: getEnvOrDefault("OPS_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		ExcelFile: getEnvOrDefault("EXCEL_FILE", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Storage.URL == "" && config.Storage.DataDir == "" {
		return errors.ConfigInvalid("either DATABASE_URL or DATA_DIR is required")
	}
	if config.AI.MaxInFlight <= 0 {
		return errors.ConfigInvalid("AI_MAX_IN_FLIGHT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
