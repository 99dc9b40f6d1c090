package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"UpNepa/internal/contracts"
)

// UpdateDispatcher обрабатывает одно разобранное входящее обновление
type UpdateDispatcher interface {
	Dispatch(update contracts.Update) error
}

// Bot принимает обновления от Telegram в режиме webhook и передает их
// диспетчеру. В режиме polling приемом обновлений и курсором владеет
// poller.Poller, этот тип не используется.
type Bot struct {
	client     *Client
	webhookURL string
	port       int
	dispatcher UpdateDispatcher
	server     *http.Server
	wg         sync.WaitGroup
}

// NewWebhookBot создает бота в режиме webhook
func NewWebhookBot(client *Client, webhookURL string, port int, dispatcher UpdateDispatcher) (*Bot, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL обязателен для webhook режима")
	}

	return &Bot{
		client:     client,
		webhookURL: webhookURL,
		port:       port,
		dispatcher: dispatcher,
	}, nil
}

// Start регистрирует webhook в Telegram и запускает HTTP сервер приема обновлений
func (b *Bot) Start() error {
	// Удаляем старый webhook если есть
	if err := b.client.DeleteWebhook(); err != nil {
		log.Printf("Предупреждение: не удалось удалить старый webhook: %v", err)
	}

	if err := b.client.SetWebhook(b.webhookURL); err != nil {
		return fmt.Errorf("ошибка установки webhook: %w", err)
	}

	log.Printf("[TelegramBot] Webhook установлен: %s", b.webhookURL)

	serveMux := http.NewServeMux()
	serveMux.HandleFunc("/webhook", b.webhookHandler)

	b.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", b.port),
		Handler: serveMux,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		log.Printf("[TelegramBot] Webhook сервер запущен на порту %d", b.port)
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Ошибка HTTP сервера webhook: %v", err)
		}
	}()

	return nil
}

// Stop останавливает сервер приема обновлений
func (b *Bot) Stop() error {
	log.Println("Остановка Telegram бота...")

	if b.server != nil {
		if err := b.server.Shutdown(context.Background()); err != nil {
			log.Printf("Ошибка остановки HTTP сервера: %v", err)
		}
	}

	b.wg.Wait()
	log.Println("Telegram бот остановлен")
	return nil
}

// webhookHandler обрабатывает входящие webhook запросы.
// Курсор здесь не нужен: Telegram доставляет каждое обновление ровно один раз.
func (b *Bot) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Метод не поддерживается", http.StatusMethodNotAllowed)
		return
	}

	update, err := b.client.ParseUpdate(r.Body)
	if err != nil {
		log.Printf("[TelegramBot] Ошибка парсинга webhook: %v", err)
		http.Error(w, "Ошибка парсинга", http.StatusBadRequest)
		return
	}

	if err := b.dispatcher.Dispatch(update.ToContract()); err != nil {
		log.Printf("[TelegramBot] Ошибка обработки обновления %d: %v", update.UpdateID, err)
	}

	w.WriteHeader(http.StatusOK)
}
