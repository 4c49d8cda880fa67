// Package wallet — service.go тонкая обёртка над репозиторием.
// Вся атомарная механика кредитов/дебетов живёт в tx.go и вызывается
// из модулей ledger/investment/yield/referral внутри их транзакций.
package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service управляет кошельками пользователей.
type Service struct {
	repo *Repository
}

// NewService создаёт новый сервис кошельков.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetBalance возвращает текущий баланс пользователя.
func (s *Service) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Get возвращает кошелёк целиком.
func (s *Service) Get(ctx context.Context, userID int64) (*Wallet, error) {
	return s.repo.Get(ctx, userID)
}

// ConnectProvider сохраняет подключённый внешний кошелёк пользователя.
func (s *Service) ConnectProvider(ctx context.Context, userID int64, provider, address, network string) error {
	return s.repo.ConnectProvider(ctx, userID, provider, address, network)
}
