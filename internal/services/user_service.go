package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"UpNepa/internal/contracts"
)

// UserService предоставляет методы для работы со справочником пользователей
type UserService struct {
	db *sql.DB
}

// NewUserService создает новый экземпляр UserService
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register регистрирует пользователя с указанным именем.
// Повторная регистрация существующего имени возвращает уже созданную запись —
// операция идемпотентна.
func (s *UserService) Register(username string) (*contracts.User, error) {
	existing, err := s.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	query := `
		INSERT INTO users (id, username)
		VALUES ($1, $2)
		RETURNING id, username, chat_id, created_at, updated_at
	`

	user, err := scanUser(s.db.QueryRow(query, uuid.NewString(), username))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("пользователь %q не создан", username)
	}

	return user, nil
}

// FindByUsername получает пользователя по имени
func (s *UserService) FindByUsername(username string) (*contracts.User, error) {
	query := `
		SELECT id, username, chat_id, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	user, err := scanUser(s.db.QueryRow(query, username))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}

// FindByID получает пользователя по идентификатору
func (s *UserService) FindByID(id string) (*contracts.User, error) {
	query := `
		SELECT id, username, chat_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(s.db.QueryRow(query, id))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}

// UpdateChatID привязывает чат Telegram к пользователю
func (s *UserService) UpdateChatID(id string, chatID int64) error {
	query := `
		UPDATE users
		SET chat_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := s.db.Exec(query, chatID, id)
	if err != nil {
		return fmt.Errorf("ошибка привязки чата: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пользователь с id %s не найден", id)
	}

	return nil
}

// scanUser читает одну строку пользователя; отсутствие строки не является ошибкой
func scanUser(row *sql.Row) (*contracts.User, error) {
	user := &contracts.User{}
	var chatID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Username,
		&chatID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Пользователь не найден
		}
		return nil, err
	}

	if chatID.Valid {
		value := chatID.Int64
		user.ChatID = &value
	}

	return user, nil
}
