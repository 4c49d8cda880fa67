// Package admin — wallets.go работает с таблицей admin_wallets:
// казначейские и приёмные кошельки платформы.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"investra.ru/invest-core/internal/common"
)

// WalletRepository работает с таблицей admin_wallets.
type WalletRepository struct {
	db *pgxpool.Pool
}

// NewWalletRepository создаёт репозиторий админ-кошельков.
func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// AddReceivedTx увеличивает аккумулятор total_received ВНУТРИ чужой
// транзакции БД. Вызывается модулем инвестиций в той же транзакции,
// что и списание с кошелька пользователя.
func AddReceivedTx(ctx context.Context, tx pgx.Tx, walletID int64, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		UPDATE admin_wallets
		SET total_received = total_received + $2
		WHERE id = $1
	`, walletID, amount)
	if err != nil {
		return fmt.Errorf("ошибка обновления total_received: %w", err)
	}
	return nil
}

// Create добавляет новый админ-кошелёк.
func (r *WalletRepository) Create(ctx context.Context, w *AdminWallet) error {
	query := `
		INSERT INTO admin_wallets (label, address, network, currency, wallet_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		w.Label, w.Address, w.Network, w.Currency, w.WalletType, w.IsActive,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания админ-кошелька: %w", err)
	}
	return nil
}

// GetActiveByType возвращает активный кошелёк заданного типа
// (казначейский для инвестиций, приёмный для депозитов).
func (r *WalletRepository) GetActiveByType(ctx context.Context, walletType string) (*AdminWallet, error) {
	query := `
		SELECT id, label, address, network, currency, wallet_type, total_received, is_active, created_at
		FROM admin_wallets
		WHERE wallet_type = $1 AND is_active = TRUE
		ORDER BY id
		LIMIT 1
	`
	var w AdminWallet
	err := r.db.QueryRow(ctx, query, walletType).Scan(
		&w.ID, &w.Label, &w.Address, &w.Network, &w.Currency,
		&w.WalletType, &w.TotalReceived, &w.IsActive, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNoTreasuryWallet
		}
		return nil, fmt.Errorf("ошибка чтения админ-кошелька: %w", err)
	}
	return &w, nil
}

// SetActive включает или выключает кошелёк.
func (r *WalletRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE admin_wallets SET is_active = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, active); err != nil {
		return fmt.Errorf("ошибка смены активности кошелька: %w", err)
	}
	return nil
}

// List возвращает все админ-кошельки.
func (r *WalletRepository) List(ctx context.Context) ([]*AdminWallet, error) {
	query := `
		SELECT id, label, address, network, currency, wallet_type, total_received, is_active, created_at
		FROM admin_wallets
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения админ-кошельков: %w", err)
	}
	defer rows.Close()

	var list []*AdminWallet
	for rows.Next() {
		var w AdminWallet
		if err := rows.Scan(
			&w.ID, &w.Label, &w.Address, &w.Network, &w.Currency,
			&w.WalletType, &w.TotalReceived, &w.IsActive, &w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования кошелька: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
