// Package investment — service.go содержит бизнес-логику создания инвестиций,
// чтения портфеля и ленивого пересчёта накопленного дохода.
//
// Порядок проверок при создании фиксирован: риск-декларация, лимит активных,
// кулдаун, KYC — и только потом атомарное списание средств.
package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/audit"
	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/config"
	"investra.ru/invest-core/internal/features/admin"
	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/members"
	"investra.ru/invest-core/internal/notify"
	"investra.ru/invest-core/internal/settings"
)

// FirstInvestHook вызывается один раз после первой инвестиции пользователя.
// Подключается в app.New к реферальному модулю.
type FirstInvestHook func(ctx context.Context, userID int64)

// Service управляет инвестициями.
type Service struct {
	repo     *Repository
	wallets  *admin.WalletRepository
	members  *members.Service
	settings *settings.Service
	audit    *audit.Service
	notifier *notify.Service
	cfg      *config.Config

	firstInvestHook FirstInvestHook
}

// NewService создаёт сервис инвестиций.
func NewService(
	repo *Repository,
	wallets *admin.WalletRepository,
	membersService *members.Service,
	settingsService *settings.Service,
	auditService *audit.Service,
	notifier *notify.Service,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:     repo,
		wallets:  wallets,
		members:  membersService,
		settings: settingsService,
		audit:    auditService,
		notifier: notifier,
		cfg:      cfg,
	}
}

// SetFirstInvestHook подключает обработчик реферального триггера first_invest.
func (s *Service) SetFirstInvestHook(hook FirstInvestHook) {
	s.firstInvestHook = hook
}

// Create создаёт инвестицию.
//
// Проверки в строгом порядке:
//  1. сумма > 0 и срок > 0;
//  2. риск-декларация принята (risk_disclosure_required);
//  3. лимит активных инвестиций (invest_max_active);
//  4. кулдаун с момента последней инвестиции (invest_cooldown_minutes);
//  5. KYC, если включён kyc_required_invest;
//  6. достаточность средств — внутри атомарного списания.
//
// Принципал уходит на активный казначейский кошелёк. После коммита:
// аудит, уведомления и реферальный триггер first_invest.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Investment, error) {
	if p.Amount.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if p.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: срок должен быть положительным", common.ErrInvalidAmount)
	}

	if s.settings.GetBool(settings.KeyRiskRequired, true) {
		accepted, err := s.members.RiskAccepted(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if !accepted {
			return nil, common.ErrRiskDisclosureRequired
		}
	}

	maxActive := s.settings.GetInt(settings.KeyInvestMaxActive, 10)
	if maxActive > 0 {
		active, err := s.repo.CountActive(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if active >= maxActive {
			return nil, common.ErrMaxOpenInvestments
		}
	}

	cooldown := s.settings.GetInt(settings.KeyInvestCooldownMin, 0)
	if cooldown > 0 {
		last, err := s.repo.LastCreatedAt(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			until := last.Add(time.Duration(cooldown) * time.Minute)
			if time.Now().Before(until) {
				return nil, fmt.Errorf("%w: следующая инвестиция доступна с %s",
					common.ErrCooldownActive, common.FormatDateTime(until))
			}
		}
	}

	if s.settings.GetBool(settings.KeyKycRequiredInvest, false) {
		verified, err := s.members.KycVerified(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if !verified {
			return nil, common.ErrKycRequired
		}
	}

	treasury, err := s.wallets.GetActiveByType(ctx, admin.WalletTreasury)
	if err != nil {
		return nil, err
	}

	now := common.PlatformTime()
	inv := &Investment{
		UserID:          p.UserID,
		ProjectID:       p.ProjectID,
		PlanName:        p.PlanName,
		Amount:          p.Amount,
		APY:             p.APY,
		TermMonths:      p.TermMonths,
		PayoutFrequency: p.PayoutFrequency,
		RiskLevel:       p.RiskLevel,
		MonthlyYield:    MonthlyYield(p.Amount, p.APY),
		StartDate:       now,
		MaturityDate:    now.AddDate(0, p.TermMonths, 0),
	}
	if inv.PayoutFrequency == "" {
		inv.PayoutFrequency = "monthly"
	}

	meta, err := ledger.MarshalMeta(ledger.InvestMeta{
		ProjectID:  p.ProjectID,
		PlanName:   p.PlanName,
		TermMonths: p.TermMonths,
		APY:        p.APY.String(),
	})
	if err != nil {
		return nil, err
	}
	t := &ledger.Transaction{
		UserID:    p.UserID,
		Type:      ledger.TxTypeInvest,
		Amount:    p.Amount,
		Fee:       decimal.Zero,
		NetAmount: p.Amount,
		Currency:  s.cfg.CurrencyCode,
		Method:    "wallet",
		Status:    ledger.StatusCompleted,
		Metadata:  meta,
	}

	if err := s.repo.CreateAtomic(ctx, inv, t, treasury.ID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, p.UserID, "investment.create", "investment", inv.ID, map[string]any{
		"amount": p.Amount.String(), "apy": p.APY.String(), "term_months": p.TermMonths,
	})
	s.notifier.Send(ctx, p.UserID, "Инвестиция открыта",
		fmt.Sprintf("Вложено %s в план «%s», ежемесячный доход %s до %s",
			common.FormatAmount(inv.Amount, t.Currency), inv.PlanName,
			common.FormatAmount(inv.MonthlyYield, t.Currency),
			common.FormatDateTime(inv.MaturityDate)),
		notify.KindSuccess)
	s.notifier.SendAdmins(ctx, "Новая инвестиция",
		fmt.Sprintf("Пользователь %d вложил %s в «%s»",
			p.UserID, common.FormatAmount(inv.Amount, t.Currency), inv.PlanName))

	s.fireFirstInvest(ctx, p.UserID)

	log.WithFields(log.Fields{
		"user_id":       p.UserID,
		"investment_id": inv.ID,
		"amount":        p.Amount.String(),
		"plan":          inv.PlanName,
	}).Info("Инвестиция создана")

	return inv, nil
}

// Get возвращает инвестицию, лениво досчитывая total_earned до текущего
// момента. Пересчёт монотонный: значение в БД поднимается, но никогда
// не опускается, даже при гонке с плановой выплатой.
func (s *Service) Get(ctx context.Context, id int64) (*Investment, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshEarned(ctx, inv)
	return inv, nil
}

// List возвращает инвестиции пользователя с актуализированным доходом.
func (s *Service) List(ctx context.Context, userID int64) ([]*Investment, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		s.refreshEarned(ctx, inv)
	}
	return list, nil
}

// Portfolio возвращает сводку по активным инвестициям пользователя.
// Перед сборкой total_earned актуализируется так же, как в Get/List,
// поэтому сводка и карточка одной инвестиции показывают одно и то же.
func (s *Service) Portfolio(ctx context.Context, userID int64) (*Portfolio, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		s.refreshEarned(ctx, inv)
	}
	return BuildPortfolio(list), nil
}

// MatureDue переводит истёкшие инвестиции в matured и уведомляет владельцев.
// Вызывается планировщиком ежедневно.
func (s *Service) MatureDue(ctx context.Context) (int, error) {
	matured, err := s.repo.MatureDue(ctx, common.PlatformTime())
	if err != nil {
		return 0, err
	}
	for _, inv := range matured {
		s.audit.Record(ctx, 0, "investment.mature", "investment", inv.ID, map[string]any{
			"user_id": inv.UserID, "amount": inv.Amount.String(),
		})
		s.notifier.Send(ctx, inv.UserID, "Инвестиция завершена",
			fmt.Sprintf("Срок инвестиции №%d (%s) истёк, всего начислено %s",
				inv.ID, inv.PlanName, common.FormatAmount(inv.TotalEarned, s.cfg.CurrencyCode)),
			notify.KindInfo)
	}
	if len(matured) > 0 {
		log.WithField("count", len(matured)).Info("Инвестиции переведены в matured")
	}
	return len(matured), nil
}

// refreshEarned досчитывает total_earned по формуле начислений.
// Ошибка записи не мешает чтению: возвращаем актуальное значение в памяти.
func (s *Service) refreshEarned(ctx context.Context, inv *Investment) {
	if inv.Status != StatusActive {
		return
	}
	accrued := AccruedToDate(inv.MonthlyYield, inv.StartDate, common.PlatformTime(), inv.TermMonths)
	if accrued.GreaterThan(inv.TotalEarned) {
		if err := s.repo.RaiseTotalEarned(ctx, inv.ID, accrued); err != nil {
			log.WithError(err).WithField("investment_id", inv.ID).Warn("Не удалось обновить total_earned")
		}
		inv.TotalEarned = accrued
	}
}

// fireFirstInvest запускает реферальный триггер first_invest.
// Как и с депозитами, триггер дёргается на каждой инвестиции:
// однократность бонуса обеспечивает уникальность (referred_id, trigger_type).
func (s *Service) fireFirstInvest(ctx context.Context, userID int64) {
	if s.firstInvestHook == nil {
		return
	}
	count, err := s.repo.CountAll(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Не удалось посчитать инвестиции для реферального триггера")
		return
	}
	if count >= 1 {
		s.firstInvestHook(ctx, userID)
	}
}
