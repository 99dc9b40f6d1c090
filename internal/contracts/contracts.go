package contracts

import "errors"

// ErrInvalidUser возвращается, когда пользователь не найден
// или к нему не привязан чат Telegram
var ErrInvalidUser = errors.New("invalid user")

// UpdateChannel предоставляет входящие обновления начиная с курсора.
// offset == 0 означает "забрать все доступные обновления".
type UpdateChannel interface {
	ListUpdates(offset, limit int) ([]Update, error)
}

// MessageSender отправляет сообщение в чат
type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// UserDirectory предоставляет доступ к справочнику пользователей
type UserDirectory interface {
	FindByUsername(username string) (*User, error)
	FindByID(id string) (*User, error)
	UpdateChatID(id string, chatID int64) error
}

// UserRegistry регистрирует пользователей по имени
type UserRegistry interface {
	Register(username string) (*User, error)
}

// TokenService выпускает и проверяет токены доступа
type TokenService interface {
	IssueToken(user *User) (string, error)
	ParseToken(token string) (string, error)
}

// PowerNotifier отправляет пользователю уведомление о состоянии электроснабжения
type PowerNotifier interface {
	NotifyPowerStatus(userID string, restored bool) error
}
