// Package yield — repository.go выполняет выплату доходности по одной
// инвестиции в одной транзакции БД.
package yield

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/wallet"
)

// Repository предоставляет методы для работы с выплатами доходности.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий выплат.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// PayTx выполняет выплату за период в одной транзакции БД:
//  1. вставка строки yield_payouts; ON CONFLICT по (investment_id, period)
//     означает, что период уже выплачен — откат и возврат false;
//  2. зачисление суммы на кошелёк пользователя;
//  3. запись yield-транзакции в журнал;
//  4. подъём total_earned инвестиции до accrued (монотонно).
func (r *Repository) PayTx(ctx context.Context, payout *YieldPayout, t *ledger.Transaction, accrued decimal.Decimal) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO yield_payouts (investment_id, user_id, period, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (investment_id, period) DO NOTHING
	`, payout.InvestmentID, payout.UserID, payout.Period, payout.Amount)
	if err != nil {
		return false, fmt.Errorf("ошибка записи выплаты: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Период уже выплачен, повторный запуск идемпотентен
		return false, nil
	}

	if err := wallet.CreditTx(ctx, tx, payout.UserID, payout.Amount); err != nil {
		return false, err
	}

	txID, err := ledger.InsertTx(ctx, tx, t)
	if err != nil {
		return false, err
	}
	payout.TransactionID = txID

	_, err = tx.Exec(ctx, `
		UPDATE yield_payouts SET transaction_id = $3
		WHERE investment_id = $1 AND period = $2
	`, payout.InvestmentID, payout.Period, txID)
	if err != nil {
		return false, fmt.Errorf("ошибка привязки выплаты к транзакции: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE investments
		SET total_earned = $2, updated_at = NOW()
		WHERE id = $1 AND total_earned < $2
	`, payout.InvestmentID, accrued)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления total_earned: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка коммита выплаты: %w", err)
	}
	return true, nil
}

// ListByInvestment возвращает историю выплат по инвестиции.
func (r *Repository) ListByInvestment(ctx context.Context, investmentID int64) ([]*YieldPayout, error) {
	query := `
		SELECT id, investment_id, user_id, period, amount, COALESCE(transaction_id, 0), created_at
		FROM yield_payouts
		WHERE investment_id = $1
		ORDER BY period
	`
	rows, err := r.db.Query(ctx, query, investmentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения выплат: %w", err)
	}
	defer rows.Close()

	var list []*YieldPayout
	for rows.Next() {
		var p YieldPayout
		if err := rows.Scan(&p.ID, &p.InvestmentID, &p.UserID, &p.Period, &p.Amount, &p.TransactionID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования выплаты: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
