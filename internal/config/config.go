package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	NATSServers    string
	TelegramToken  string
	DBDSN          string
	Environment    string
	FontsDir       string
	MigrationsPath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		NATSServers:    os.Getenv("NATS_SERVERS"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		FontsDir:       os.Getenv("FONTS_DIR"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	// Проверяем обязательные поля
	if cfg.NATSServers == "" {
		return nil, fmt.Errorf("NATS_SERVERS is required but not set")
	}

	return cfg, nil
}

// RequireTelegramToken проверяет наличие токена для воркеров,
// которым нужен доступ к Telegram API
func (c *Config) RequireTelegramToken() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}
