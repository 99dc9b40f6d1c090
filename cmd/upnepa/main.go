package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"UpNepa/internal/config"
	"UpNepa/internal/contracts"
	"UpNepa/internal/db"
	"UpNepa/internal/handlers"
	"UpNepa/internal/poller"
	"UpNepa/internal/services"
	"UpNepa/internal/telegram"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()

	// Проверяем обязательные переменные окружения
	if cfg.Telegram.Token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN не задан в переменных окружения")
	}
	if cfg.Auth.Secret == "" {
		log.Fatal("JWT_SECRET не задан в переменных окружения")
	}

	// Подключаемся к базе данных и применяем миграции
	database, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к Postgres: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, "internal/migrations"); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	// Инициализируем сервисы
	userService := services.NewUserService(database)
	authService := services.NewAuthService(cfg.Auth.Secret, cfg.Auth.TTL)
	log.Println("Сервис пользователей инициализирован")

	// Создаем клиент Telegram и проверяем токен
	client := telegram.NewClient(cfg.Telegram.Token)
	if _, err := client.GetMe(); err != nil {
		log.Fatalf("Ошибка проверки токена бота: %v", err)
	}

	sender := &TelegramSenderAdapter{client: client}
	notifyService := services.NewNotifyService(userService, sender, clockwork.NewRealClock())
	dispatcher := poller.NewDispatcher(userService, sender)

	// Запускаем прием обновлений в выбранном режиме
	var updatePoller *poller.Poller
	var bot *telegram.Bot

	if cfg.Telegram.Mode == "webhook" {
		bot, err = telegram.NewWebhookBot(client, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookPort, dispatcher)
		if err != nil {
			log.Fatalf("Ошибка создания Telegram бота: %v", err)
		}
		if err := bot.Start(); err != nil {
			log.Fatalf("Ошибка запуска Telegram бота: %v", err)
		}
		log.Printf("Telegram бот запущен в режиме: webhook")
	} else {
		channel := &TelegramChannelAdapter{client: client}
		updatePoller = poller.New(channel, dispatcher, cfg.Poller.Interval)
		if err := updatePoller.Start(); err != nil {
			log.Fatalf("Ошибка запуска опроса обновлений: %v", err)
		}
		log.Printf("Telegram бот запущен в режиме: polling")
	}

	// Настраиваем HTTP API
	httpHandler := handlers.NewHTTPHandler(userService, authService, notifyService)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: httpHandler.Router(),
	}

	// Создаем канал для обработки сигналов
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("Сервер запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Ожидаем сигнала для завершения
	<-signalChan

	log.Println("Сервер завершает работу")

	// Graceful shutdown: сначала останавливаем прием обновлений,
	// давая текущему циклу опроса завершиться
	if updatePoller != nil {
		if err := updatePoller.Stop(); err != nil {
			log.Printf("Ошибка остановки опроса: %v", err)
		}
	}
	if bot != nil {
		if err := bot.Stop(); err != nil {
			log.Printf("Ошибка остановки бота: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка остановки HTTP сервера: %v", err)
	}

	log.Println("Сервер успешно завершил работу")
}

// TelegramChannelAdapter адаптирует telegram.Client к интерфейсу contracts.UpdateChannel
type TelegramChannelAdapter struct {
	client *telegram.Client
}

func (a *TelegramChannelAdapter) ListUpdates(offset, limit int) ([]contracts.Update, error) {
	updates, err := a.client.GetUpdates(offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]contracts.Update, 0, len(updates))
	for _, update := range updates {
		result = append(result, update.ToContract())
	}
	return result, nil
}

// TelegramSenderAdapter адаптирует telegram.Client к интерфейсу contracts.MessageSender
type TelegramSenderAdapter struct {
	client *telegram.Client
}

func (a *TelegramSenderAdapter) SendMessage(chatID int64, text string) error {
	return a.client.SendMessage(chatID, text)
}
