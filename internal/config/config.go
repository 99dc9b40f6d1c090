package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Auth     AuthConfig
	Poller   PollerConfig
}

// HTTPConfig содержит конфигурацию HTTP сервера
type HTTPConfig struct {
	Port int
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	DSN string
}

// TelegramConfig содержит конфигурацию Telegram бота
type TelegramConfig struct {
	Token       string
	Mode        string
	WebhookURL  string
	WebhookPort int
}

// AuthConfig содержит конфигурацию выпуска токенов.
// Секрет подписи задается только через окружение.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
}

// PollerConfig содержит конфигурацию опроса обновлений
type PollerConfig struct {
	Interval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Файл .env подхватывается, если он есть.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTP: HTTPConfig{
			Port: getEnvAsInt("HTTP_PORT", 8000),
		},
		Database: DatabaseConfig{
			DSN: getDSN(),
		},
		Telegram: TelegramConfig{
			Token:       getEnvOrDefault("TELEGRAM_BOT_TOKEN", ""),
			Mode:        getEnvOrDefault("TELEGRAM_BOT_MODE", "polling"),
			WebhookURL:  getEnvOrDefault("TELEGRAM_WEBHOOK_URL", ""),
			WebhookPort: getEnvAsInt("TELEGRAM_WEBHOOK_PORT", 8080),
		},
		Auth: AuthConfig{
			Secret: getEnvOrDefault("JWT_SECRET", ""),
			TTL:    time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
		},
		Poller: PollerConfig{
			Interval: time.Duration(getEnvAsInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		},
	}
}

// getDSN формирует строку подключения к базе данных
func getDSN() string {
	// Сначала проверяем переменную окружения
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}

	// Если переменная не задана, формируем DSN из отдельных параметров
	host := getEnvOrDefault("POSTGRES_HOST", "localhost")
	port := getEnvOrDefault("POSTGRES_PORT", "5432")
	user := getEnvOrDefault("POSTGRES_USER", "upnepa_user")
	password := getEnvOrDefault("POSTGRES_PASSWORD", "upnepa_password")
	dbname := getEnvOrDefault("POSTGRES_DB", "upnepa")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

// getEnvOrDefault получает значение переменной окружения или возвращает значение по умолчанию
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает значение переменной окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
