package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cable-inspector/internal/domain/entity"
)

type Config struct {
	TelegramToken string

	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	LogLevel  string
	OutputDir string

	AzureAccount string
	AzureKey     string

	Params entity.Params
}

// ServerAddress возвращает адрес HTTP-сервера host:port
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// AzureEnabled сообщает, заданы ли учётные данные Azure Blob Storage
func (c *Config) AzureEnabled() bool {
	return c.AzureAccount != "" && c.AzureKey != ""
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv собирает конфигурацию из переменных окружения без чтения .env
func FromEnv() (*Config, error) {
	params := entity.DefaultParams()
	params.MeasureThreshLow = parseIntOrDefault("CABLE_MEASURE_THRESHOLD", params.MeasureThreshLow)
	params.CannyLow = parseIntOrDefault("CABLE_CANNY_LOW", params.CannyLow)
	params.CannyHigh = parseIntOrDefault("CABLE_CANNY_HIGH", params.CannyHigh)
	params.AreaFilter = parseIntOrDefault("CABLE_AREA_FILTER", params.AreaFilter)
	params.GroupThreshLow = parseIntOrDefault("CABLE_GROUP_THRESHOLD", params.GroupThreshLow)
	params.ScratchIntensity = parseIntOrDefault("CABLE_SCRATCH_INTENSITY", params.ScratchIntensity)
	params.AspectCut = parseFloatOrDefault("CABLE_ASPECT_CUT", params.AspectCut)

	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		Host:               getEnvOrDefault("HTTP_HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("HTTP_PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxRequestBodySize: int64(parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024)), // 10MB
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		OutputDir:          getEnvOrDefault("OUTPUT_DIR", "."),
		AzureAccount:       os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:           os.Getenv("AZURE_STORAGE_KEY"),
		Params:             params,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить подстановкой по умолчанию
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", c.RequestTimeout)
	}
	if (c.AzureAccount == "") != (c.AzureKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("invalid pipeline parameters: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
