// Package yield начисляет ежемесячную доходность по активным инвестициям.
// Идемпотентность периода обеспечивает UNIQUE(investment_id, period):
// повторный запуск выплаты за тот же месяц — no-op.
package yield

import (
	"time"

	"github.com/shopspring/decimal"
)

// YieldPayout — факт выплаты доходности за один календарный месяц.
type YieldPayout struct {
	ID            int64           `db:"id"`
	InvestmentID  int64           `db:"investment_id"`
	UserID        int64           `db:"user_id"`
	Period        string          `db:"period"` // "2026-08"
	Amount        decimal.Decimal `db:"amount"`
	TransactionID int64           `db:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

// RunResult — итог одного прогона выплат.
type RunResult struct {
	Period  string
	Paid    int             // Сколько инвестиций получили выплату
	Skipped int             // Сколько уже были выплачены за период
	Total   decimal.Decimal // Суммарно зачислено
}
