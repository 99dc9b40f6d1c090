package contracts

import "time"

// User представляет зарегистрированного пользователя сервиса
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ChatID    *int64    `json:"chat_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasChat сообщает, привязан ли к пользователю чат Telegram.
// Пользователь без привязанного чата не может получать уведомления.
func (u *User) HasChat() bool {
	return u != nil && u.ChatID != nil
}

// IncomingMessage представляет входящее сообщение из канала обновлений
type IncomingMessage struct {
	SenderUsername string
	SenderChatID   int64
	Text           string
}

// Update представляет одно обновление от канала сообщений.
// Message равен nil, если обновление не содержит текстового сообщения —
// такие обновления учитываются курсором, но не обрабатываются.
type Update struct {
	UpdateID int
	Message  *IncomingMessage
}
