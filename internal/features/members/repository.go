// Package members — repository.go отвечает за все операции с таблицами
// members и withdrawal_addresses в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"investra.ru/invest-core/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create добавляет нового пользователя.
// На конфликте по user_id обновляет только имя/username (не трогает
// KYC, реферера и соглашение о рисках).
// Возвращает true, если запись была создана впервые.
func (r *Repository) Create(ctx context.Context, m *Member) (bool, error) {
	query := `
		INSERT INTO members (user_id, username, first_name, last_name, referrer_id, kyc_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING (xmax = 0)
	`
	var inserted bool
	err := r.db.QueryRow(ctx, query,
		m.UserID, m.Username, m.FirstName, m.LastName, m.ReferrerID, KycNone,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("ошибка создания/обновления пользователя: %w", err)
	}
	return inserted, nil
}

// GetByUserID: если не найден — common.ErrUserNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	query := `
		SELECT id, user_id, username, first_name, last_name, referrer_id,
		       kyc_status, risk_accepted_at, created_at, updated_at
		FROM members
		WHERE user_id = $1
	`
	var m Member
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.ID, &m.UserID, &m.Username, &m.FirstName, &m.LastName, &m.ReferrerID,
		&m.KycStatus, &m.RiskAcceptedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (user_id=%d): %w", userID, err)
	}
	return &m, nil
}

func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE user_id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}

// UpdateKycStatus меняет статус верификации (только админ-операция).
func (r *Repository) UpdateKycStatus(ctx context.Context, userID int64, status string) error {
	query := `UPDATE members SET kyc_status = $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID, status); err != nil {
		return fmt.Errorf("ошибка обновления статуса KYC: %w", err)
	}
	return nil
}

// AcceptRiskDisclosure фиксирует принятие соглашения о рисках.
// Повторный вызов не перезаписывает первоначальное время.
func (r *Repository) AcceptRiskDisclosure(ctx context.Context, userID int64) error {
	query := `
		UPDATE members
		SET risk_accepted_at = COALESCE(risk_accepted_at, NOW()), updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка фиксации соглашения о рисках: %w", err)
	}
	return nil
}

// AddWithdrawalAddress добавляет адрес в белый список пользователя.
// Повторное добавление того же адреса — no-op.
func (r *Repository) AddWithdrawalAddress(ctx context.Context, a *WithdrawalAddress) error {
	query := `
		INSERT INTO withdrawal_addresses (user_id, address, network, label)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, address) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, a.UserID, a.Address, a.Network, a.Label); err != nil {
		return fmt.Errorf("ошибка добавления адреса в белый список: %w", err)
	}
	return nil
}

// RemoveWithdrawalAddress удаляет адрес из белого списка.
func (r *Repository) RemoveWithdrawalAddress(ctx context.Context, userID int64, address string) error {
	query := `DELETE FROM withdrawal_addresses WHERE user_id = $1 AND address = $2`
	if _, err := r.db.Exec(ctx, query, userID, address); err != nil {
		return fmt.Errorf("ошибка удаления адреса: %w", err)
	}
	return nil
}

// IsWhitelisted проверяет, есть ли адрес в белом списке пользователя.
func (r *Repository) IsWhitelisted(ctx context.Context, userID int64, address string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM withdrawal_addresses
			WHERE user_id = $1 AND address = $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, address).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки белого списка: %w", err)
	}
	return exists, nil
}

// ListWithdrawalAddresses возвращает белый список пользователя.
func (r *Repository) ListWithdrawalAddresses(ctx context.Context, userID int64) ([]*WithdrawalAddress, error) {
	query := `
		SELECT id, user_id, address, network, label, created_at
		FROM withdrawal_addresses
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения белого списка: %w", err)
	}
	defer rows.Close()

	var list []*WithdrawalAddress
	for rows.Next() {
		var a WithdrawalAddress
		if err := rows.Scan(&a.ID, &a.UserID, &a.Address, &a.Network, &a.Label, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования адреса: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
