// Package ledger ведёт журнал транзакций — источник правды по истории
// всех движений средств. models.go описывает структуру записи транзакции
// и её жизненный цикл.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы транзакций.
const (
	TxTypeDeposit         = "deposit"          // Пополнение счёта
	TxTypeWithdraw        = "withdraw"         // Вывод средств
	TxTypeInvest          = "invest"           // Вложение в проект
	TxTypeYield           = "yield"            // Начисление доходности
	TxTypeReferralBonus   = "referral_bonus"   // Реферальный бонус
	TxTypeAdminAdjustment = "admin_adjustment" // Ручная корректировка админом
)

// Статусы транзакций.
// Жизненный цикл: requires_approval → completed | failed.
// pending — переходное состояние вывода, ожидающего внешнего подтверждения.
// Терминальные статусы (completed, failed) неизменяемы.
const (
	StatusRequiresApproval = "requires_approval"
	StatusPending          = "pending"
	StatusCompleted        = "completed"
	StatusFailed           = "failed"
)

// Направления админ-корректировки.
const (
	AdjustCredit = "credit"
	AdjustDebit  = "debit"
)

// Transaction — неизменяемая запись о событии, влияющем на баланс.
// После достижения терминального статуса запись не меняется вообще;
// до этого меняются только status и reviewed_at.
type Transaction struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`     // Полная сумма операции
	Fee           decimal.Decimal `db:"fee"`        // Комиссия
	NetAmount     decimal.Decimal `db:"net_amount"` // Сумма за вычетом комиссии
	Currency      string          `db:"currency"`
	Method        string          `db:"method"` // Способ: "manual", "usdt_trc20", ...
	Status        string          `db:"status"`
	ToAddress     *string         `db:"to_address"`      // Адрес назначения (для выводов)
	TxHash        *string         `db:"tx_hash"`         // Внешняя ссылка (хеш в сети), опционально
	Reference     string          `db:"reference"`       // Внутренний UUID-референс
	AdminWalletID *int64          `db:"admin_wallet_id"` // Казначейский кошелёк (для invest)
	InvestmentID  *int64          `db:"investment_id"`   // Инвестиция (для invest/yield)
	Metadata      []byte          `db:"metadata"`        // Типизированные детали, см. metadata.go
	CreatedAt     time.Time       `db:"created_at"`
	ReviewedAt    *time.Time      `db:"reviewed_at"` // Когда одобрена/отклонена
}

// IsFinal сообщает, достигла ли транзакция терминального статуса.
func (t *Transaction) IsFinal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}
