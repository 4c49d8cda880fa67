// Package yield — service.go: прогон ежемесячных выплат доходности.
package yield

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/audit"
	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/config"
	"investra.ru/invest-core/internal/features/investment"
	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/notify"
)

// Service управляет плановыми выплатами доходности.
type Service struct {
	repo        *Repository
	investments *investment.Repository
	audit       *audit.Service
	notifier    *notify.Service
	cfg         *config.Config
}

// NewService создаёт сервис выплат.
func NewService(
	repo *Repository,
	investments *investment.Repository,
	auditService *audit.Service,
	notifier *notify.Service,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:        repo,
		investments: investments,
		audit:       auditService,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// RunPayout выплачивает доходность всем активным инвестициям за период.
// Пустой period означает текущий календарный месяц платформы.
// Каждая инвестиция обрабатывается в собственной транзакции БД: сбой одной
// не откатывает остальные, а UNIQUE(investment_id, period) делает повторный
// запуск за тот же месяц безопасным.
func (s *Service) RunPayout(ctx context.Context, period string) (*RunResult, error) {
	now := common.PlatformTime()
	period = PeriodOrCurrent(period, now)

	active, err := s.investments.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Period: period, Total: decimal.Zero}

	for _, inv := range active {
		// Оплачиваются только полные месяцы внутри срока: месяц создания
		// неполный, а к моменту termMonths инвестиция уже погашена
		m := investment.MonthsElapsed(inv.StartDate, now)
		if m == 0 || m >= inv.TermMonths {
			continue
		}

		amount := inv.MonthlyYield
		if amount.Sign() <= 0 {
			continue
		}

		meta, err := ledger.MarshalMeta(ledger.YieldMeta{InvestmentID: inv.ID, Period: period})
		if err != nil {
			log.WithError(err).WithField("investment_id", inv.ID).Error("Не удалось собрать metadata выплаты")
			continue
		}
		t := &ledger.Transaction{
			UserID:       inv.UserID,
			Type:         ledger.TxTypeYield,
			Amount:       amount,
			Fee:          decimal.Zero,
			NetAmount:    amount,
			Currency:     s.cfg.CurrencyCode,
			Method:       "system",
			Status:       ledger.StatusCompleted,
			InvestmentID: &inv.ID,
			Metadata:     meta,
		}
		payout := &YieldPayout{
			InvestmentID: inv.ID,
			UserID:       inv.UserID,
			Period:       period,
			Amount:       amount,
		}
		accrued := investment.AccruedToDate(inv.MonthlyYield, inv.StartDate, now, inv.TermMonths)

		paid, err := s.repo.PayTx(ctx, payout, t, accrued)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"investment_id": inv.ID,
				"period":        period,
			}).Error("Выплата доходности не прошла")
			continue
		}
		if !paid {
			result.Skipped++
			continue
		}

		result.Paid++
		result.Total = result.Total.Add(amount)

		s.audit.Record(ctx, 0, "yield.payout", "investment", inv.ID, map[string]any{
			"user_id": inv.UserID, "period": period, "amount": amount.String(),
		})
		s.notifier.Send(ctx, inv.UserID, "Начислена доходность",
			fmt.Sprintf("По инвестиции №%d за %s зачислено %s",
				inv.ID, period, common.FormatAmount(amount, s.cfg.CurrencyCode)),
			notify.KindSuccess)
	}

	log.WithFields(log.Fields{
		"period":  period,
		"paid":    result.Paid,
		"skipped": result.Skipped,
		"total":   result.Total.String(),
	}).Info("Прогон выплат доходности завершён")

	return result, nil
}

// History возвращает историю выплат по инвестиции.
func (s *Service) History(ctx context.Context, investmentID int64) ([]*YieldPayout, error) {
	return s.repo.ListByInvestment(ctx, investmentID)
}
