package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
)

// connectTimeout ограничивает общее время ожидания готовности базы
const connectTimeout = 30 * time.Second

// Connect открывает соединение с Postgres и дожидается его готовности.
// База может подниматься дольше сервиса, поэтому ping повторяется
// с экспоненциальной паузой.
func Connect(dsn string) (*sql.DB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := database.PingContext(ctx); pingErr != nil {
			log.Printf("[DB] Postgres еще не готов: %v", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("Postgres недоступен: %w", err)
	}

	return database, nil
}

// Migrate применяет миграции goose из указанного каталога
func Migrate(database *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("ошибка выбора диалекта миграций: %w", err)
	}

	if err := goose.Up(database, dir); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	return nil
}
