// Package notify отправляет уведомления пользователям и администраторам
// через Telegram (telego). Все отправки fire-and-forget: ошибка доставки
// логируется и глотается — финансовая операция из-за неё не падает.
// Если токен бота не задан, сервис работает в режиме «только лог».
package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/config"
)

// Типы уведомлений (попадают в заголовок сообщения).
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
)

// Service — отправитель уведомлений.
type Service struct {
	bot      *telego.Bot // nil, если токен не задан
	adminIDs []int64
}

// NewService создаёт сервис уведомлений.
// Ошибка создания бота не фатальна: деградируем до режима «только лог».
func NewService(cfg *config.Config) *Service {
	s := &Service{adminIDs: cfg.AdminIDs}

	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN не задан — уведомления пишутся только в лог")
		return s
	}

	bot, err := telego.NewBot(cfg.TelegramBotToken)
	if err != nil {
		log.WithError(err).Error("Не удалось создать Telegram-бота, уведомления только в лог")
		return s
	}
	s.bot = bot
	return s
}

// Send отправляет уведомление пользователю.
func (s *Service) Send(ctx context.Context, userID int64, title, message, kind string) {
	s.deliver(ctx, userID, title, message, kind)
}

// SendAdmins рассылает уведомление всем администраторам.
func (s *Service) SendAdmins(ctx context.Context, title, message string) {
	for _, id := range s.adminIDs {
		s.deliver(ctx, id, title, message, KindWarning)
	}
}

// deliver — собственно доставка. Ошибки не возвращаются наружу.
func (s *Service) deliver(ctx context.Context, chatID int64, title, message, kind string) {
	entry := log.WithFields(log.Fields{
		"chat_id": chatID,
		"title":   title,
		"kind":    kind,
	})

	if s.bot == nil {
		entry.WithField("message", message).Debug("Уведомление (без доставки)")
		return
	}

	text := fmt.Sprintf("%s\n\n%s", title, message)
	_, err := s.bot.SendMessage(&telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	if err != nil {
		entry.WithError(err).Warn("Уведомление не доставлено")
		return
	}
	entry.Debug("Уведомление отправлено")
}
