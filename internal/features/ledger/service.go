// Package ledger — service.go содержит бизнес-логику депозитов, выводов
// и ручных корректировок: валидацию, лимиты, комиссии и побочные эффекты.
//
// Все проверки политик выполняются ДО атомарной мутации. Уведомления
// и аудит выполняются ПОСЛЕ коммита и не могут откатить движение денег.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/audit"
	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/config"
	"investra.ru/invest-core/internal/features/members"
	"investra.ru/invest-core/internal/features/wallet"
	"investra.ru/invest-core/internal/notify"
	"investra.ru/invest-core/internal/settings"
)

// FirstDepositHook вызывается один раз, когда у пользователя появляется
// первый завершённый депозит. Подключается в app.New к реферальному модулю.
type FirstDepositHook func(ctx context.Context, userID int64)

// Service управляет журналом транзакций.
type Service struct {
	repo       *Repository
	walletRepo *wallet.Repository
	members    *members.Service
	settings   *settings.Service
	audit      *audit.Service
	notifier   *notify.Service
	cfg        *config.Config

	firstDepositHook FirstDepositHook
}

// NewService создаёт сервис журнала транзакций.
func NewService(
	repo *Repository,
	walletRepo *wallet.Repository,
	membersService *members.Service,
	settingsService *settings.Service,
	auditService *audit.Service,
	notifier *notify.Service,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:       repo,
		walletRepo: walletRepo,
		members:    membersService,
		settings:   settingsService,
		audit:      auditService,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// SetFirstDepositHook подключает обработчик реферального триггера first_deposit.
func (s *Service) SetFirstDepositHook(hook FirstDepositHook) {
	s.firstDepositHook = hook
}

// Deposit создаёт депозит пользователя.
//
// Порядок:
//  1. Валидация суммы против deposit_min/deposit_max.
//  2. Расчёт комиссии и net_amount.
//  3. При deposit_auto_approve — атомарно запись completed + зачисление net;
//     иначе запись requires_approval, зачисление произойдёт при одобрении.
//  4. После коммита: аудит, уведомление, реферальный триггер first_deposit.
//
// Возвращает транзакцию и новый баланс.
func (s *Service) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, method, externalRef string) (*Transaction, decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return nil, decimal.Zero, common.ErrInvalidAmount
	}

	min := s.settings.GetDecimal(settings.KeyDepositMin, decimal.NewFromInt(50))
	max := s.settings.GetDecimal(settings.KeyDepositMax, decimal.Zero) // 0 — без верхнего лимита
	if amount.LessThan(min) {
		return nil, decimal.Zero, fmt.Errorf("%w: минимальный депозит %s",
			common.ErrLimitExceeded, common.FormatAmount(min, s.cfg.CurrencyCode))
	}
	if max.Sign() > 0 && amount.GreaterThan(max) {
		return nil, decimal.Zero, fmt.Errorf("%w: максимальный депозит %s",
			common.ErrLimitExceeded, common.FormatAmount(max, s.cfg.CurrencyCode))
	}

	feePercent := s.settings.GetDecimal(settings.KeyDepositFeePercent, decimal.Zero)
	fee := DepositFee(amount, feePercent)
	net := NetAmount(amount, fee)

	meta, err := MarshalMeta(DepositMeta{ExternalRef: externalRef, Method: method})
	if err != nil {
		return nil, decimal.Zero, err
	}

	t := &Transaction{
		UserID:    userID,
		Type:      TxTypeDeposit,
		Amount:    amount,
		Fee:       fee,
		NetAmount: net,
		Currency:  s.cfg.CurrencyCode,
		Method:    method,
		Metadata:  meta,
	}

	autoApprove := s.settings.GetBool(settings.KeyDepositAutoApprove, false)
	if err := s.repo.CreateDeposit(ctx, t, autoApprove); err != nil {
		return nil, decimal.Zero, err
	}

	balance, err := s.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	s.audit.Record(ctx, userID, "deposit.create", "transaction", t.ID, map[string]any{
		"amount": amount.String(), "fee": fee.String(), "status": t.Status,
	})
	s.notifier.Send(ctx, userID, "Пополнение",
		fmt.Sprintf("Депозит %s принят, статус: %s",
			common.FormatAmount(amount, t.Currency), t.Status),
		notify.KindInfo)

	if t.Status == StatusCompleted {
		s.fireFirstDeposit(ctx, userID)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"tx_id":   t.ID,
		"amount":  amount.String(),
		"status":  t.Status,
	}).Info("Депозит создан")

	return t, balance, nil
}

// Withdraw создаёт заявку на вывод средств.
//
// Проверки (все до мутации): сумма, KYC, белый список адресов,
// дневной лимит, положительный net_amount. Полная сумма удерживается
// с баланса немедленно; net_amount — то, что уйдёт на адрес после одобрения.
func (s *Service) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, destAddress string) (*Transaction, decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return nil, decimal.Zero, common.ErrInvalidAmount
	}

	if s.settings.GetBool(settings.KeyKycRequiredWithdraw, true) {
		verified, err := s.members.KycVerified(ctx, userID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !verified {
			return nil, decimal.Zero, common.ErrKycRequired
		}
	}

	if s.settings.GetBool(settings.KeyWhitelistRequired, true) {
		ok, err := s.members.IsWhitelisted(ctx, userID, destAddress)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !ok {
			return nil, decimal.Zero, common.ErrAddressNotWhitelisted
		}
	}

	feePercent := s.settings.GetDecimal(settings.KeyWithdrawFeePercent, decimal.NewFromFloat(1.5))
	flatFee := s.settings.GetDecimal(settings.KeyWithdrawFlatFee, decimal.NewFromInt(5))
	fee := WithdrawFee(amount, feePercent, flatFee)
	net := NetAmount(amount, fee)
	if net.Sign() <= 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: сумма меньше комиссии %s",
			common.ErrInvalidAmount, common.FormatAmount(fee, s.cfg.CurrencyCode))
	}

	dailyLimit := s.settings.GetDecimal(settings.KeyWithdrawDailyLimit, decimal.Zero) // 0 — без лимита
	if dailyLimit.Sign() > 0 {
		since := common.StartOfDay(common.PlatformTime())
		withdrawn, err := s.repo.DailyWithdrawnSum(ctx, userID, since)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if withdrawn.Add(amount).GreaterThan(dailyLimit) {
			return nil, decimal.Zero, fmt.Errorf("%w: дневной лимит вывода %s",
				common.ErrLimitExceeded, common.FormatAmount(dailyLimit, s.cfg.CurrencyCode))
		}
	}

	meta, err := MarshalMeta(WithdrawMeta{DestinationAddress: destAddress})
	if err != nil {
		return nil, decimal.Zero, err
	}

	t := &Transaction{
		UserID:    userID,
		Type:      TxTypeWithdraw,
		Amount:    amount,
		Fee:       fee,
		NetAmount: net,
		Currency:  s.cfg.CurrencyCode,
		Method:    "wallet",
		ToAddress: &destAddress,
		Metadata:  meta,
	}

	if err := s.repo.CreateWithdrawal(ctx, t); err != nil {
		return nil, decimal.Zero, err
	}

	balance, err := s.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	s.audit.Record(ctx, userID, "withdraw.create", "transaction", t.ID, map[string]any{
		"amount": amount.String(), "fee": fee.String(), "to_address": destAddress,
	})
	s.notifier.Send(ctx, userID, "Заявка на вывод",
		fmt.Sprintf("Вывод %s создан, к получению %s после одобрения",
			common.FormatAmount(amount, t.Currency), common.FormatAmount(net, t.Currency)),
		notify.KindInfo)
	s.notifier.SendAdmins(ctx, "Новая заявка на вывод",
		fmt.Sprintf("Пользователь %d: %s на адрес %s",
			userID, common.FormatAmount(amount, t.Currency), destAddress))

	log.WithFields(log.Fields{
		"user_id": userID,
		"tx_id":   t.ID,
		"amount":  amount.String(),
		"net":     net.String(),
	}).Info("Заявка на вывод создана")

	return t, balance, nil
}

// ApproveTransaction одобряет транзакцию (внешний шаг подтверждения).
// Депозит: зачисляется net_amount и может сработать триггер first_deposit.
// Вывод: средства уже удержаны, меняется только статус.
func (s *Service) ApproveTransaction(ctx context.Context, reviewerID, txID int64) (*Transaction, error) {
	t, err := s.repo.Approve(ctx, txID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, reviewerID, "transaction.approve", "transaction", t.ID, nil)
	s.notifier.Send(ctx, t.UserID, "Операция одобрена",
		fmt.Sprintf("Транзакция №%d (%s) на %s завершена",
			t.ID, t.Type, common.FormatAmount(t.Amount, t.Currency)),
		notify.KindSuccess)

	if t.Type == TxTypeDeposit {
		s.fireFirstDeposit(ctx, t.UserID)
	}
	return t, nil
}

// FailTransaction отклоняет транзакцию.
// Для вывода удержанная сумма возвращается на кошелёк (атомарно со сменой статуса).
func (s *Service) FailTransaction(ctx context.Context, reviewerID, txID int64) (*Transaction, error) {
	t, err := s.repo.Fail(ctx, txID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, reviewerID, "transaction.fail", "transaction", t.ID, nil)
	s.notifier.Send(ctx, t.UserID, "Операция отклонена",
		fmt.Sprintf("Транзакция №%d (%s) на %s отклонена",
			t.ID, t.Type, common.FormatAmount(t.Amount, t.Currency)),
		notify.KindWarning)
	return t, nil
}

// AdminAdjust выполняет ручную корректировку баланса с обязательной причиной.
func (s *Service) AdminAdjust(ctx context.Context, adminID, userID int64, amount decimal.Decimal, direction, reason string) (*Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if reason == "" {
		return nil, common.ErrReasonRequired
	}

	meta, err := MarshalMeta(AdjustmentMeta{AdminID: adminID, Direction: direction, Reason: reason})
	if err != nil {
		return nil, err
	}

	t := &Transaction{
		UserID:    userID,
		Type:      TxTypeAdminAdjustment,
		Amount:    amount,
		Fee:       decimal.Zero,
		NetAmount: amount,
		Currency:  s.cfg.CurrencyCode,
		Method:    "admin",
		Metadata:  meta,
	}

	if err := s.repo.AdminAdjust(ctx, t, direction); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, "wallet.adjust", "transaction", t.ID, map[string]any{
		"user_id": userID, "amount": amount.String(), "direction": direction, "reason": reason,
	})
	s.notifier.Send(ctx, userID, "Корректировка баланса",
		fmt.Sprintf("Баланс изменён администратором: %s (%s)",
			common.FormatAmount(amount, t.Currency), direction),
		notify.KindInfo)

	log.WithFields(log.Fields{
		"admin_id":  adminID,
		"user_id":   userID,
		"amount":    amount.String(),
		"direction": direction,
	}).Info("Админ-корректировка выполнена")

	return t, nil
}

// History возвращает последние транзакции пользователя.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// Get возвращает транзакцию по ID.
func (s *Service) Get(ctx context.Context, txID int64) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}

// fireFirstDeposit запускает реферальный триггер first_deposit.
// Триггер дёргается на каждом завершённом депозите: однократность бонуса
// гарантирует уникальность (referred_id, trigger_type), а сравнение
// счётчика с единицей пропускало бы триггер при двух конкурентных
// одобрениях. Ошибка триггера депозит не ломает.
func (s *Service) fireFirstDeposit(ctx context.Context, userID int64) {
	if s.firstDepositHook == nil {
		return
	}
	count, err := s.repo.CountCompletedDeposits(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Не удалось посчитать депозиты для реферального триггера")
		return
	}
	if firstDepositReady(count) {
		s.firstDepositHook(ctx, userID)
	}
}

// firstDepositReady: триггер допустим, как только есть хотя бы один
// завершённый депозит.
func firstDepositReady(completed int) bool {
	return completed >= 1
}
