// Package wallet управляет балансами пользователей.
// models.go описывает структуру записи кошелька.
package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet представляет кошелёк пользователя.
// Каждый пользователь имеет ровно одну запись в таблице wallets.
// Баланс меняется ТОЛЬКО внутри транзакции БД вместе со вставкой
// записи в transactions — никаких «тихих» правок.
type Wallet struct {
	UserID            int64           `db:"user_id"`            // ID пользователя (уникальный)
	Balance           decimal.Decimal `db:"balance"`            // Текущий баланс (всегда >= 0)
	ConnectedProvider string          `db:"connected_provider"` // Подключённый провайдер ("manual", "walletconnect", ...)
	Address           string          `db:"address"`            // Адрес пополнения, привязанный к кошельку
	Network           string          `db:"network"`            // Сеть адреса (TRC20, ERC20, ...)
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}
