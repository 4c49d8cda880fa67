// Package investment — repository.go выполняет все операции с таблицей investments.
// Создание инвестиции — одна транзакция БД: списание с кошелька, запись
// журнала, строка инвестиции и маршрутизация в казначейство атомарны.
package investment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/features/admin"
	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/wallet"
)

// Repository предоставляет методы для работы с инвестициями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий инвестиций.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateAtomic создаёт инвестицию в одной транзакции БД:
//  1. списание принципала с кошелька пользователя (FOR UPDATE);
//  2. вставка invest-транзакции в журнал;
//  3. вставка строки инвестиции;
//  4. привязка инвестиции к транзакции;
//  5. увеличение total_received казначейского кошелька.
//
// При любой ошибке всё откатывается.
func (r *Repository) CreateAtomic(ctx context.Context, inv *Investment, t *ledger.Transaction, treasuryID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := wallet.DebitTx(ctx, tx, inv.UserID, inv.Amount); err != nil {
		return err
	}

	t.AdminWalletID = &treasuryID
	txID, err := ledger.InsertTx(ctx, tx, t)
	if err != nil {
		return err
	}
	inv.TransactionID = txID

	query := `
		INSERT INTO investments
			(user_id, project_id, plan_name, amount, apy, term_months, payout_frequency,
			 risk_level, monthly_yield, total_earned, status, start_date, maturity_date, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		inv.UserID, inv.ProjectID, inv.PlanName, inv.Amount, inv.APY, inv.TermMonths,
		inv.PayoutFrequency, inv.RiskLevel, inv.MonthlyYield, StatusActive,
		inv.StartDate, inv.MaturityDate, txID,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания инвестиции: %w", err)
	}
	inv.Status = StatusActive

	if err := ledger.SetInvestmentIDTx(ctx, tx, txID, inv.ID); err != nil {
		return err
	}
	if err := admin.AddReceivedTx(ctx, tx, treasuryID, inv.Amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const selectColumns = `
	SELECT id, user_id, project_id, plan_name, amount, apy, term_months, payout_frequency,
	       risk_level, monthly_yield, total_earned, status, start_date, maturity_date,
	       transaction_id, created_at, updated_at`

func scanInvestment(row pgx.Row) (*Investment, error) {
	var inv Investment
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.ProjectID, &inv.PlanName, &inv.Amount, &inv.APY,
		&inv.TermMonths, &inv.PayoutFrequency, &inv.RiskLevel, &inv.MonthlyYield,
		&inv.TotalEarned, &inv.Status, &inv.StartDate, &inv.MaturityDate,
		&inv.TransactionID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID возвращает инвестицию по ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Investment, error) {
	query := selectColumns + ` FROM investments WHERE id = $1`
	inv, err := scanInvestment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("ошибка чтения инвестиции: %w", err)
	}
	return inv, nil
}

// ListByUser возвращает инвестиции пользователя (новые первыми).
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Investment, error) {
	query := selectColumns + ` FROM investments WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения инвестиций: %w", err)
	}
	defer rows.Close()

	var list []*Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования инвестиции: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// ListActive возвращает все активные инвестиции платформы.
// Используется плановой выплатой доходности.
func (r *Repository) ListActive(ctx context.Context) ([]*Investment, error) {
	query := selectColumns + ` FROM investments WHERE status = 'active' ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения активных инвестиций: %w", err)
	}
	defer rows.Close()

	var list []*Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования инвестиции: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CountActive возвращает число активных инвестиций пользователя.
func (r *Repository) CountActive(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM investments WHERE user_id = $1 AND status = 'active'`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта активных инвестиций: %w", err)
	}
	return count, nil
}

// CountAll возвращает общее число инвестиций пользователя за всё время.
// Используется для реферального триггера first_invest (== 1).
func (r *Repository) CountAll(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM investments WHERE user_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта инвестиций: %w", err)
	}
	return count, nil
}

// LastCreatedAt возвращает время последней инвестиции пользователя
// (nil, если инвестиций ещё не было). Нужно для проверки кулдауна.
func (r *Repository) LastCreatedAt(ctx context.Context, userID int64) (*time.Time, error) {
	query := `SELECT MAX(created_at) FROM investments WHERE user_id = $1`
	var last *time.Time
	if err := r.db.QueryRow(ctx, query, userID).Scan(&last); err != nil {
		return nil, fmt.Errorf("ошибка чтения последней инвестиции: %w", err)
	}
	return last, nil
}

// RaiseTotalEarned поднимает total_earned до value, только если value больше
// текущего. Аккумулятор монотонный: условие в WHERE гарантирует, что
// конкурентный пересчёт никогда его не уменьшит.
func (r *Repository) RaiseTotalEarned(ctx context.Context, id int64, value decimal.Decimal) error {
	query := `
		UPDATE investments
		SET total_earned = $2, updated_at = NOW()
		WHERE id = $1 AND total_earned < $2
	`
	if _, err := r.db.Exec(ctx, query, id, value); err != nil {
		return fmt.Errorf("ошибка обновления total_earned: %w", err)
	}
	return nil
}

// MatureDue переводит в matured все активные инвестиции с истёкшим сроком.
// Возвращает затронутые инвестиции для уведомлений.
func (r *Repository) MatureDue(ctx context.Context, now time.Time) ([]*Investment, error) {
	query := `
		UPDATE investments
		SET status = 'matured', updated_at = NOW()
		WHERE status = 'active' AND maturity_date <= $1
		RETURNING id, user_id, project_id, plan_name, amount, apy, term_months, payout_frequency,
		          risk_level, monthly_yield, total_earned, status, start_date, maturity_date,
		          transaction_id, created_at, updated_at
	`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка перевода инвестиций в matured: %w", err)
	}
	defer rows.Close()

	var list []*Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования инвестиции: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
