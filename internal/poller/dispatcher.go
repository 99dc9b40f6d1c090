package poller

import (
	"fmt"
	"log"

	"UpNepa/internal/contracts"
)

// StartCommand — единственная распознаваемая команда бота
const StartCommand = "/start"

// Тексты ответов бота
const (
	msgWelcome = "Hi %s, Welcome to UpNepa. UpNepa is a bot that helps you keep track of PHCN power supply."
	msgLinked  = "Congratulations %s! You can now receive notifications for power status via telegram."

	msgUnknownUser    = "Your username is not recognized please set a valid username!"
	msgInvalidCommand = "Invalid command: %s"
)

// Dispatcher разбирает входящее обновление: находит отправителя в справочнике,
// привязывает к нему чат и отвечает на команду. Используется и поллером,
// и webhook-транспортом — логика не зависит от способа доставки обновлений.
type Dispatcher struct {
	directory contracts.UserDirectory
	sender    contracts.MessageSender
}

// NewDispatcher создает новый Dispatcher
func NewDispatcher(directory contracts.UserDirectory, sender contracts.MessageSender) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		sender:    sender,
	}
}

// Dispatch обрабатывает одно обновление.
// Обновления без текстового сообщения пропускаются.
func (d *Dispatcher) Dispatch(update contracts.Update) error {
	message := update.Message
	if message == nil {
		log.Printf("[Dispatcher] Обновление %d без текстового сообщения, пропускаем", update.UpdateID)
		return nil
	}

	user, err := d.directory.FindByUsername(message.SenderUsername)
	if err != nil {
		return fmt.Errorf("ошибка поиска пользователя %q: %w", message.SenderUsername, err)
	}

	if user == nil {
		// Отправитель не зарегистрирован в сервисе — отвечаем подсказкой,
		// состояние не меняем
		if err := d.sender.SendMessage(message.SenderChatID, msgUnknownUser); err != nil {
			return fmt.Errorf("ошибка отправки ответа незарегистрированному отправителю: %w", err)
		}
		return nil
	}

	// Каждое входящее сообщение перепривязывает чат к пользователю;
	// при нескольких сообщениях в одном пакете побеждает больший update_id,
	// так как пакет обрабатывается по возрастанию
	if err := d.directory.UpdateChatID(user.ID, message.SenderChatID); err != nil {
		return fmt.Errorf("ошибка привязки чата %d к пользователю %s: %w", message.SenderChatID, user.Username, err)
	}

	if message.Text == StartCommand {
		if err := d.sender.SendMessage(message.SenderChatID, fmt.Sprintf(msgWelcome, user.Username)); err != nil {
			log.Printf("[Dispatcher] Ошибка отправки приветствия пользователю %s: %v", user.Username, err)
		}
		if err := d.sender.SendMessage(message.SenderChatID, fmt.Sprintf(msgLinked, user.Username)); err != nil {
			return fmt.Errorf("ошибка отправки подтверждения пользователю %s: %w", user.Username, err)
		}
		return nil
	}

	if err := d.sender.SendMessage(message.SenderChatID, fmt.Sprintf(msgInvalidCommand, message.Text)); err != nil {
		return fmt.Errorf("ошибка отправки ответа пользователю %s: %w", user.Username, err)
	}

	return nil
}
