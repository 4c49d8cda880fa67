// Package ledger — repository.go выполняет все операции с таблицей transactions.
// Каждая денежная операция — одна транзакция БД: изменение баланса
// (через wallet.CreditTx/DebitTx) и вставка записи журнала либо происходят
// вместе, либо не происходят вовсе.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/features/wallet"
)

// Repository предоставляет методы для работы с журналом транзакций.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий журнала.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InsertTx вставляет запись транзакции ВНУТРИ чужой транзакции БД.
// Используется модулями investment/yield/referral, чтобы их денежные
// операции и журнальные записи были атомарны.
// Возвращает ID вставленной записи.
func InsertTx(ctx context.Context, tx pgx.Tx, t *Transaction) (int64, error) {
	if t.Reference == "" {
		t.Reference = uuid.NewString()
	}
	query := `
		INSERT INTO transactions
			(user_id, type, amount, fee, net_amount, currency, method, status,
			 to_address, tx_hash, reference, admin_wallet_id, investment_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`
	err := tx.QueryRow(ctx, query,
		t.UserID, t.Type, t.Amount, t.Fee, t.NetAmount, t.Currency, t.Method, t.Status,
		t.ToAddress, t.TxHash, t.Reference, t.AdminWalletID, t.InvestmentID, t.Metadata,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return t.ID, nil
}

// SetInvestmentIDTx проставляет ссылку на инвестицию после её вставки
// (запись invest-транзакции создаётся раньше строки инвестиции).
func SetInvestmentIDTx(ctx context.Context, tx pgx.Tx, txID, investmentID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE transactions SET investment_id = $2 WHERE id = $1`, txID, investmentID)
	if err != nil {
		return fmt.Errorf("ошибка привязки инвестиции к транзакции: %w", err)
	}
	return nil
}

// CreateDeposit создаёт депозит.
// При autoApprove зачисление net_amount и запись журнала атомарны;
// иначе запись остаётся в requires_approval и баланс не трогается
// до внешнего подтверждения.
func (r *Repository) CreateDeposit(ctx context.Context, t *Transaction, autoApprove bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if autoApprove {
		t.Status = StatusCompleted
		if err := wallet.CreditTx(ctx, tx, t.UserID, t.NetAmount); err != nil {
			return err
		}
	} else {
		t.Status = StatusRequiresApproval
		// Кошелёк создаём лениво уже сейчас, чтобы он существовал к моменту одобрения
		if err := wallet.EnsureTx(ctx, tx, t.UserID); err != nil {
			return err
		}
	}

	if _, err := InsertTx(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateWithdrawal создаёт заявку на вывод.
// Полная сумма списывается с кошелька СРАЗУ (средства удерживаются),
// независимо от того, когда заявка будет одобрена.
func (r *Repository) CreateWithdrawal(ctx context.Context, t *Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := wallet.DebitTx(ctx, tx, t.UserID, t.Amount); err != nil {
		return err
	}

	t.Status = StatusRequiresApproval
	if _, err := InsertTx(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Approve переводит транзакцию в completed.
// Для депозита в этот момент зачисляется net_amount.
// Для вывода средства уже удержаны — меняется только статус.
// Терминальные записи не трогаются (ErrTransactionFinal).
func (r *Repository) Approve(ctx context.Context, txID int64) (*Transaction, error) {
	return r.finalize(ctx, txID, StatusCompleted)
}

// Fail переводит транзакцию в failed.
// Для вывода удержанная сумма возвращается на кошелёк в той же
// транзакции БД — возврат никогда не бывает «тихой» правкой баланса.
func (r *Repository) Fail(ctx context.Context, txID int64) (*Transaction, error) {
	return r.finalize(ctx, txID, StatusFailed)
}

func (r *Repository) finalize(ctx context.Context, txID int64, newStatus string) (*Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := getForUpdate(ctx, tx, txID)
	if err != nil {
		return nil, err
	}
	if t.IsFinal() {
		return nil, common.ErrTransactionFinal
	}

	switch {
	case t.Type == TxTypeDeposit && newStatus == StatusCompleted:
		// Депозит зачисляется только при одобрении
		if err := wallet.CreditTx(ctx, tx, t.UserID, t.NetAmount); err != nil {
			return nil, err
		}
	case t.Type == TxTypeWithdraw && newStatus == StatusFailed:
		// Отклонённый вывод: возвращаем удержанную полную сумму
		if err := wallet.CreditTx(ctx, tx, t.UserID, t.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET status = $2, reviewed_at = $3
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`, txID, newStatus, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка смены статуса транзакции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	t.Status = newStatus
	t.ReviewedAt = &now
	return t, nil
}

// getForUpdate читает транзакцию с блокировкой строки.
func getForUpdate(ctx context.Context, tx pgx.Tx, txID int64) (*Transaction, error) {
	query := selectColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	t, err := scanOne(tx.QueryRow(ctx, query, txID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("ошибка чтения транзакции: %w", err)
	}
	return t, nil
}

// AdminAdjust выполняет ручную корректировку баланса.
// Кредит или дебет применяется немедленно и фиксируется записью журнала
// в той же транзакции БД.
func (r *Repository) AdminAdjust(ctx context.Context, t *Transaction, direction string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	switch direction {
	case AdjustCredit:
		if err := wallet.CreditTx(ctx, tx, t.UserID, t.Amount); err != nil {
			return err
		}
	case AdjustDebit:
		if err := wallet.DebitTx(ctx, tx, t.UserID, t.Amount); err != nil {
			return err
		}
	default:
		return fmt.Errorf("неизвестное направление корректировки: %q", direction)
	}

	t.Status = StatusCompleted
	if _, err := InsertTx(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const selectColumns = `
	SELECT id, user_id, type, amount, fee, net_amount, currency, method, status,
	       to_address, tx_hash, reference, admin_wallet_id, investment_id, metadata,
	       created_at, reviewed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row rowScanner) (*Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Fee, &t.NetAmount, &t.Currency,
		&t.Method, &t.Status, &t.ToAddress, &t.TxHash, &t.Reference,
		&t.AdminWalletID, &t.InvestmentID, &t.Metadata, &t.CreatedAt, &t.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID возвращает транзакцию по ID.
func (r *Repository) GetByID(ctx context.Context, txID int64) (*Transaction, error) {
	query := selectColumns + ` FROM transactions WHERE id = $1`
	t, err := scanOne(r.db.QueryRow(ctx, query, txID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("ошибка чтения транзакции: %w", err)
	}
	return t, nil
}

// ListByUser возвращает последние N транзакций пользователя.
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	query := selectColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var list []*Transaction
	for rows.Next() {
		t, err := scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// DailyWithdrawnSum возвращает сумму выводов пользователя с момента since
// в статусах completed/pending/requires_approval. Отклонённые выводы
// лимит не расходуют.
func (r *Repository) DailyWithdrawnSum(ctx context.Context, userID int64, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'withdraw'
		  AND status IN ('completed', 'pending', 'requires_approval')
		  AND created_at >= $2
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, userID, since).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("ошибка подсчёта дневного лимита: %w", err)
	}
	return sum, nil
}

// CountCompletedDeposits возвращает число завершённых депозитов пользователя.
// Используется для реферального триггера first_deposit (== 1).
func (r *Repository) CountCompletedDeposits(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = $1 AND type = 'deposit' AND status = 'completed'
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта депозитов: %w", err)
	}
	return count, nil
}
