// Package wallet — repository.go выполняет читающие операции с таблицей wallets.
// Мутации баланса живут в tx.go и выполняются только внутри транзакций БД.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"investra.ru/invest-core/internal/common"
)

// Repository предоставляет методы для работы с кошельками.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий кошельков.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetBalance возвращает текущий баланс пользователя.
// Если кошелька ещё нет — возвращает 0 (кошелёк создаётся лениво).
func (r *Repository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	query := `SELECT balance FROM wallets WHERE user_id = $1`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// Get возвращает запись кошелька целиком.
func (r *Repository) Get(ctx context.Context, userID int64) (*Wallet, error) {
	query := `
		SELECT user_id, balance, connected_provider, address, network, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`
	var w Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&w.UserID, &w.Balance, &w.ConnectedProvider, &w.Address, &w.Network,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения кошелька: %w", err)
	}
	return &w, nil
}

// Ensure создаёт запись кошелька с нулевым балансом, если её нет.
func (r *Repository) Ensure(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка создания кошелька: %w", err)
	}
	return nil
}

// ConnectProvider сохраняет данные подключённого внешнего кошелька.
// Адрес приходит от клиента и используется только как реквизит вывода
// по умолчанию; зачисления он не подтверждает.
func (r *Repository) ConnectProvider(ctx context.Context, userID int64, provider, address, network string) error {
	if err := r.Ensure(ctx, userID); err != nil {
		return err
	}
	query := `
		UPDATE wallets
		SET connected_provider = $2, address = $3, network = $4, updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.db.Exec(ctx, query, userID, provider, address, network); err != nil {
		return fmt.Errorf("ошибка подключения провайдера: %w", err)
	}
	return nil
}
