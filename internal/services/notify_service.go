package services

import (
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"UpNepa/internal/contracts"
)

// Тексты уведомлений о состоянии электроснабжения
const (
	msgPowerRestored = "Them don bring light! The time wey them bring am na %s"
	msgPowerOut      = "Them don take light! The time wey them take am na %s"
)

// NotifyService отправляет уведомления о включении и отключении света
// в привязанный чат пользователя
type NotifyService struct {
	directory contracts.UserDirectory
	sender    contracts.MessageSender
	clock     clockwork.Clock
}

// NewNotifyService создает новый экземпляр NotifyService
func NewNotifyService(directory contracts.UserDirectory, sender contracts.MessageSender, clock clockwork.Clock) *NotifyService {
	return &NotifyService{
		directory: directory,
		sender:    sender,
		clock:     clock,
	}
}

// NotifyPowerStatus отправляет пользователю сообщение о текущем состоянии
// электроснабжения. Если пользователь не найден или к нему не привязан чат,
// возвращается contracts.ErrInvalidUser и ничего не отправляется.
func (s *NotifyService) NotifyPowerStatus(userID string, restored bool) error {
	user, err := s.directory.FindByID(userID)
	if err != nil {
		return fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if !user.HasChat() {
		return contracts.ErrInvalidUser
	}

	stamp := formatPowerTime(s.clock.Now())
	text := fmt.Sprintf(msgPowerOut, stamp)
	if restored {
		text = fmt.Sprintf(msgPowerRestored, stamp)
	}

	if err := s.sender.SendMessage(*user.ChatID, text); err != nil {
		return fmt.Errorf("ошибка отправки уведомления: %w", err)
	}

	log.Printf("[Notify] Уведомление отправлено пользователю %s (restored=%t)", user.Username, restored)
	return nil
}

// formatPowerTime форматирует время в виде "Monday, 03 Jun 2024  2:15 PM".
// Час в 12-часовом формате дополняется пробелом слева до двух знаков.
func formatPowerTime(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %2d:%02d %s", t.Format("Monday, 02 Jan 2006"), hour, t.Minute(), t.Format("PM"))
}
