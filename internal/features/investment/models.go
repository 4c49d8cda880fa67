// Package investment управляет вложениями в проекты с фиксированным сроком
// и доходностью. models.go описывает структуру инвестиции и портфеля.
package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы инвестиции.
const (
	StatusActive  = "active"  // Идут начисления
	StatusMatured = "matured" // Срок истёк
	StatusClosed  = "closed"  // Закрыта досрочно (админ-операция)
)

// Investment — одно вложение средств в проектный план.
// Принципал (amount) неизменен после создания; total_earned только растёт.
type Investment struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	ProjectID       int64           `db:"project_id"`
	PlanName        string          `db:"plan_name"`
	Amount          decimal.Decimal `db:"amount"` // Принципал
	APY             decimal.Decimal `db:"apy"`    // Годовая доходность, %
	TermMonths      int             `db:"term_months"`
	PayoutFrequency string          `db:"payout_frequency"` // "monthly"
	RiskLevel       string          `db:"risk_level"`       // low | medium | high
	MonthlyYield    decimal.Decimal `db:"monthly_yield"`    // amount * apy / 100 / 12
	TotalEarned     decimal.Decimal `db:"total_earned"`     // Монотонный аккумулятор
	Status          string          `db:"status"`
	StartDate       time.Time       `db:"start_date"`
	MaturityDate    time.Time       `db:"maturity_date"`
	TransactionID   int64           `db:"transaction_id"` // Породившая invest-транзакция
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// CreateParams — входные данные операции создания инвестиции.
type CreateParams struct {
	UserID          int64
	ProjectID       int64
	PlanName        string
	Amount          decimal.Decimal
	APY             decimal.Decimal
	TermMonths      int
	PayoutFrequency string
	RiskLevel       string
}

// PlanAllocation — доля одного плана в портфеле.
type PlanAllocation struct {
	PlanName string          `db:"plan_name"`
	Invested decimal.Decimal `db:"invested"`
	Count    int             `db:"count"`
}

// Portfolio — сводка по активным инвестициям пользователя.
type Portfolio struct {
	TotalInvested decimal.Decimal
	TotalEarned   decimal.Decimal
	MonthlyYield  decimal.Decimal
	Allocation    []*PlanAllocation
}
