// Package referral — repository.go выполняет начисление бонуса в одной
// транзакции БД вместе с защитой от повторного срабатывания триггера.
package referral

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/wallet"
)

// Repository предоставляет методы для работы с реферальными бонусами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий бонусов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreditTx начисляет бонус в одной транзакции БД:
//  1. вставка строки referral_bonuses; ON CONFLICT по (referred_id,
//     trigger_type) означает, что триггер уже сработал — откат и false;
//  2. зачисление бонуса на кошелёк пригласившего;
//  3. запись referral_bonus-транзакции в журнал.
func (r *Repository) CreditTx(ctx context.Context, bonus *ReferralBonus, t *ledger.Transaction) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO referral_bonuses (referrer_id, referred_id, trigger_type, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (referred_id, trigger_type) DO NOTHING
	`, bonus.ReferrerID, bonus.ReferredID, bonus.TriggerType, bonus.Amount)
	if err != nil {
		return false, fmt.Errorf("ошибка записи бонуса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Триггер уже сработал для этого приглашённого
		return false, nil
	}

	if err := wallet.CreditTx(ctx, tx, bonus.ReferrerID, bonus.Amount); err != nil {
		return false, err
	}

	txID, err := ledger.InsertTx(ctx, tx, t)
	if err != nil {
		return false, err
	}
	bonus.TransactionID = txID

	_, err = tx.Exec(ctx, `
		UPDATE referral_bonuses SET transaction_id = $3
		WHERE referred_id = $1 AND trigger_type = $2
	`, bonus.ReferredID, bonus.TriggerType, txID)
	if err != nil {
		return false, fmt.Errorf("ошибка привязки бонуса к транзакции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка коммита бонуса: %w", err)
	}
	return true, nil
}

// StatsFor возвращает сводку бонусов пригласившего.
func (r *Repository) StatsFor(ctx context.Context, referrerID int64) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT referred_id), COUNT(*), COALESCE(SUM(amount), 0)
		FROM referral_bonuses
		WHERE referrer_id = $1
	`, referrerID).Scan(&s.InvitedCount, &s.BonusCount, &s.TotalEarned)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения реферальной статистики: %w", err)
	}
	return &s, nil
}

// ListByReferrer возвращает начисленные бонусы пригласившего (новые первыми).
func (r *Repository) ListByReferrer(ctx context.Context, referrerID int64) ([]*ReferralBonus, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, referrer_id, referred_id, trigger_type, amount, COALESCE(transaction_id, 0), created_at
		FROM referral_bonuses
		WHERE referrer_id = $1
		ORDER BY created_at DESC
	`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения бонусов: %w", err)
	}
	defer rows.Close()

	var list []*ReferralBonus
	for rows.Next() {
		var b ReferralBonus
		if err := rows.Scan(&b.ID, &b.ReferrerID, &b.ReferredID, &b.TriggerType, &b.Amount, &b.TransactionID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования бонуса: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
