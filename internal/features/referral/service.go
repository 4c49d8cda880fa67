// Package referral — service.go: обработчики реферальных триггеров.
// Подключаются хуками из members и ledger/investment в app.New, чтобы
// не создавать циклических зависимостей между модулями.
package referral

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/audit"
	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/config"
	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/members"
	"investra.ru/invest-core/internal/notify"
	"investra.ru/invest-core/internal/settings"
)

// Service управляет реферальной программой.
type Service struct {
	repo     *Repository
	members  *members.Service
	settings *settings.Service
	audit    *audit.Service
	notifier *notify.Service
	cfg      *config.Config
}

// NewService создаёт сервис реферальной программы.
func NewService(
	repo *Repository,
	membersService *members.Service,
	settingsService *settings.Service,
	auditService *audit.Service,
	notifier *notify.Service,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:     repo,
		members:  membersService,
		settings: settingsService,
		audit:    auditService,
		notifier: notifier,
		cfg:      cfg,
	}
}

// HandleSignup — триггер регистрации по реферальной ссылке.
func (s *Service) HandleSignup(ctx context.Context, referredID int64) {
	s.handleForReferrer(ctx, referredID, TriggerSignup)
}

// HandleFirstDeposit — триггер первого завершённого депозита приглашённого.
func (s *Service) HandleFirstDeposit(ctx context.Context, referredID int64) {
	s.handleForReferrer(ctx, referredID, TriggerFirstDeposit)
}

// HandleFirstInvest — триггер первой инвестиции приглашённого.
func (s *Service) HandleFirstInvest(ctx context.Context, referredID int64) {
	s.handleForReferrer(ctx, referredID, TriggerFirstInvest)
}

// Stats возвращает сводку реферальной программы пользователя.
func (s *Service) Stats(ctx context.Context, referrerID int64) (*Stats, error) {
	return s.repo.StatsFor(ctx, referrerID)
}

// Bonuses возвращает начисленные бонусы пользователя.
func (s *Service) Bonuses(ctx context.Context, referrerID int64) ([]*ReferralBonus, error) {
	return s.repo.ListByReferrer(ctx, referrerID)
}

// handleForReferrer находит пригласившего и начисляет бонус.
// Отсутствие пригласившего — норма, а не ошибка.
func (s *Service) handleForReferrer(ctx context.Context, referredID int64, trigger string) {
	referrerID, err := s.members.ReferrerOf(ctx, referredID)
	if err != nil {
		log.WithError(err).WithField("referred_id", referredID).Error("Не удалось определить пригласившего")
		return
	}
	if referrerID == nil {
		return
	}
	s.tryCredit(ctx, *referrerID, referredID, trigger)
}

// tryCredit начисляет бонус за триггер, если он настроен и ещё не срабатывал.
// Бонусы — побочный эффект чужих операций: любая ошибка логируется
// и не поднимается наверх.
func (s *Service) tryCredit(ctx context.Context, referrerID, referredID int64, trigger string) {
	amount := s.bonusAmount(trigger)
	if amount.Sign() <= 0 {
		// Нулевой бонус означает выключенный триггер
		return
	}

	meta, err := ledger.MarshalMeta(ledger.ReferralMeta{ReferredID: referredID, TriggerType: trigger})
	if err != nil {
		log.WithError(err).Error("Не удалось собрать metadata бонуса")
		return
	}
	t := &ledger.Transaction{
		UserID:    referrerID,
		Type:      ledger.TxTypeReferralBonus,
		Amount:    amount,
		Fee:       decimal.Zero,
		NetAmount: amount,
		Currency:  s.cfg.CurrencyCode,
		Method:    "system",
		Status:    ledger.StatusCompleted,
		Metadata:  meta,
	}
	bonus := &ReferralBonus{
		ReferrerID:  referrerID,
		ReferredID:  referredID,
		TriggerType: trigger,
		Amount:      amount,
	}

	credited, err := s.repo.CreditTx(ctx, bonus, t)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"referrer_id": referrerID,
			"referred_id": referredID,
			"trigger":     trigger,
		}).Error("Начисление реферального бонуса не прошло")
		return
	}
	if !credited {
		return
	}

	s.audit.Record(ctx, 0, "referral.bonus", "referral_bonus", bonus.ID, map[string]any{
		"referrer_id": referrerID, "referred_id": referredID,
		"trigger": trigger, "amount": amount.String(),
	})
	s.notifier.Send(ctx, referrerID, "Реферальный бонус",
		fmt.Sprintf("Вам начислено %s за приглашённого пользователя (%s)",
			common.FormatAmount(amount, s.cfg.CurrencyCode), trigger),
		notify.KindSuccess)

	log.WithFields(log.Fields{
		"referrer_id": referrerID,
		"referred_id": referredID,
		"trigger":     trigger,
		"amount":      amount.String(),
	}).Info("Реферальный бонус начислен")
}

// bonusAmount возвращает размер бонуса для триггера из настроек.
func (s *Service) bonusAmount(trigger string) decimal.Decimal {
	switch trigger {
	case TriggerSignup:
		return s.settings.GetDecimal(settings.KeyBonusSignup, decimal.Zero)
	case TriggerFirstDeposit:
		return s.settings.GetDecimal(settings.KeyBonusFirstDeposit, decimal.Zero)
	case TriggerFirstInvest:
		return s.settings.GetDecimal(settings.KeyBonusFirstInvest, decimal.Zero)
	default:
		return decimal.Zero
	}
}
