package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"UpNepa/internal/contracts"
)

// Client представляет клиент для работы с Telegram Bot API
type Client struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// User представляет пользователя Telegram
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// Chat представляет чат Telegram
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Message представляет сообщение Telegram
type Message struct {
	MessageID int    `json:"message_id"`
	From      User   `json:"from"`
	Chat      Chat   `json:"chat"`
	Date      int    `json:"date"`
	Text      string `json:"text"`
}

// Update представляет обновление от Telegram
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// GetUpdatesResponse представляет ответ на запрос обновлений
type GetUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Description string   `json:"description,omitempty"`
	Result      []Update `json:"result"`
}

// SendMessageRequest представляет запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// APIResponse представляет общий ответ Telegram API
type APIResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// NewClient создает новый экземпляр Client
func NewClient(token string) *Client {
	return &Client{
		Token:   token,
		BaseURL: "https://api.telegram.org/bot" + token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMe получает информацию о боте и проверяет валидность токена
func (c *Client) GetMe() (map[string]interface{}, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/getMe")
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса getMe: %w", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ошибка декодирования ответа: %w", err)
	}

	if ok, exists := result["ok"].(bool); !exists || !ok {
		return nil, fmt.Errorf("ошибка Telegram API: %v", result["description"])
	}

	return result, nil
}

// GetUpdates получает обновления от Telegram начиная с указанного offset.
// offset == 0 означает запрос всех доступных обновлений.
func (c *Client) GetUpdates(offset, limit int) ([]Update, error) {
	params := url.Values{}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	requestURL := c.BaseURL + "/getUpdates"
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	resp, err := c.HTTPClient.Get(requestURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса getUpdates: %w", err)
	}
	defer resp.Body.Close()

	var result GetUpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ошибка декодирования ответа: %w", err)
	}

	if !result.OK {
		return nil, fmt.Errorf("ошибка Telegram API: %s", result.Description)
	}

	return result.Result, nil
}

// SendMessage отправляет текстовое сообщение в чат
func (c *Client) SendMessage(chatID int64, text string) error {
	request := SendMessageRequest{
		ChatID: chatID,
		Text:   text,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("ошибка маршалинга запроса: %w", err)
	}

	log.Printf("[TelegramAPI] Отправка сообщения: chat_id=%d", chatID)

	resp, err := c.HTTPClient.Post(
		c.BaseURL+"/sendMessage",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var result APIResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return fmt.Errorf("ошибка декодирования ответа: %w", err)
	}

	if !result.OK {
		log.Printf("[TelegramAPI] Ошибка отправки сообщения: %s", result.Description)
		return fmt.Errorf("ошибка Telegram API: %s", result.Description)
	}

	return nil
}

// SetWebhook устанавливает webhook для бота
func (c *Client) SetWebhook(webhookURL string) error {
	params := url.Values{}
	params.Set("url", webhookURL)

	resp, err := c.HTTPClient.PostForm(c.BaseURL+"/setWebhook", params)
	if err != nil {
		return fmt.Errorf("ошибка установки webhook: %w", err)
	}
	defer resp.Body.Close()

	var result APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("ошибка декодирования ответа: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("ошибка установки webhook: %s", result.Description)
	}

	return nil
}

// DeleteWebhook удаляет webhook
func (c *Client) DeleteWebhook() error {
	resp, err := c.HTTPClient.Post(c.BaseURL+"/deleteWebhook", "application/json", nil)
	if err != nil {
		return fmt.Errorf("ошибка удаления webhook: %w", err)
	}
	defer resp.Body.Close()

	var result APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("ошибка декодирования ответа: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("ошибка удаления webhook: %s", result.Description)
	}

	return nil
}

// ParseUpdate парсит обновление из JSON
func (c *Client) ParseUpdate(body io.Reader) (*Update, error) {
	var update Update
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		return nil, fmt.Errorf("ошибка парсинга обновления: %w", err)
	}
	return &update, nil
}

// ToContract преобразует обновление из формата Bot API во внутреннее представление.
// Обновления без текстового сообщения дают Update с пустым Message.
func (u Update) ToContract() contracts.Update {
	converted := contracts.Update{UpdateID: u.UpdateID}
	if u.Message != nil {
		converted.Message = &contracts.IncomingMessage{
			SenderUsername: u.Message.From.Username,
			SenderChatID:   u.Message.From.ID,
			Text:           u.Message.Text,
		}
	}
	return converted
}
