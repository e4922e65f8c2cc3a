package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port                int
	HistoryCapacity     int
	DefaultTotalPrice   float64
	DefaultDownPayment  float64
	DefaultInterestRate float64
	DefaultLoanTerm     int
	OTELEndpoint        string
	OTELServiceName     string
	LogLevel            string
	LogFormat           string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvInt("PORT", 8000),
		HistoryCapacity:     getEnvInt("HISTORY_CAPACITY", 10),
		DefaultTotalPrice:   getEnvFloat("DEFAULT_TOTAL_PRICE", 1410528.0),
		DefaultDownPayment:  getEnvFloat("DEFAULT_DOWN_PAYMENT", 600000),
		DefaultInterestRate: getEnvFloat("DEFAULT_INTEREST_RATE", 3.15),
		DefaultLoanTerm:     getEnvInt("DEFAULT_LOAN_TERM", 360),
		OTELEndpoint:        getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:     getEnvString("OTEL_SERVICE_NAME", "mortgage-planner"),
		LogLevel:            getEnvString("LOG_LEVEL", "INFO"),
		LogFormat:           getEnvString("LOG_FORMAT", "text"),
	}

	if cfg.HistoryCapacity < 1 {
		cfg.HistoryCapacity = 10
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// DefaultParameters возвращает сценарий, с которого начинается новая сессия
func (c *Config) DefaultParameters() calculations.LoanParameters {
	return calculations.LoanParameters{
		TotalPrice:        c.DefaultTotalPrice,
		DownPayment:       c.DefaultDownPayment,
		AnnualRatePercent: c.DefaultInterestRate,
		TermMonths:        c.DefaultLoanTerm,
	}
}
