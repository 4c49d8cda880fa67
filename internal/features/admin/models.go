// Package admin — админ-контур ядра: сессии с парольной аутентификацией,
// казначейские кошельки и привилегированные операции (корректировки,
// настройки, KYC). models.go описывает структуры админ-таблиц.
package admin

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdminSession — активная сессия администратора (24 часа).
type AdminSession struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	SessionToken    string    `db:"session_token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	LastActivity    time.Time `db:"last_activity"`
	IsActive        bool      `db:"is_active"`
}

// Типы админ-кошельков.
const (
	WalletTreasury = "treasury" // Казначейский: принимает принципал инвестиций
	WalletDeposit  = "deposit"  // Приёмный: адрес для входящих пополнений
)

// AdminWallet — служебный кошелёк платформы, не принадлежащий пользователю.
// total_received — аккумулятор всего, что на него смаршрутизировано.
type AdminWallet struct {
	ID            int64           `db:"id"`
	Label         string          `db:"label"`
	Address       string          `db:"address"`
	Network       string          `db:"network"`
	Currency      string          `db:"currency"`
	WalletType    string          `db:"wallet_type"` // treasury | deposit
	TotalReceived decimal.Decimal `db:"total_received"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
}
