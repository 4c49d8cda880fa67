// Package referral начисляет бонусы пригласившим пользователям.
// У каждого приглашённого каждый триггер срабатывает максимум один раз:
// это обеспечивает UNIQUE(referred_id, trigger_type) на уровне БД.
package referral

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы реферальных триггеров.
const (
	TriggerSignup       = "signup"        // Регистрация по ссылке
	TriggerFirstDeposit = "first_deposit" // Первый завершённый депозит
	TriggerFirstInvest  = "first_invest"  // Первая инвестиция
)

// ReferralBonus — факт начисления бонуса пригласившему.
type ReferralBonus struct {
	ID            int64           `db:"id"`
	ReferrerID    int64           `db:"referrer_id"` // Кому зачислен бонус
	ReferredID    int64           `db:"referred_id"` // За кого
	TriggerType   string          `db:"trigger_type"`
	Amount        decimal.Decimal `db:"amount"`
	TransactionID int64           `db:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Stats — сводка реферальной программы пользователя.
type Stats struct {
	InvitedCount int
	BonusCount   int
	TotalEarned  decimal.Decimal
}
