// Package wallet — tx.go содержит операции над балансом ВНУТРИ чужой
// транзакции БД. Вызывающий модуль (депозиты, выводы, инвестиции, начисления)
// открывает pgx.Tx, зовёт CreditTx/DebitTx и в той же транзакции вставляет
// запись в transactions. Так кредит/дебет и его документ атомарны.
//
// Никакой бизнес-валидации здесь нет: лимиты, KYC и белые списки —
// ответственность вызывающего. Единственная проверка — достаточность средств.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"investra.ru/invest-core/internal/common"
)

// EnsureTx гарантирует, что у пользователя есть запись кошелька.
// Кошелёк создаётся лениво при первой операции (нулевой баланс).
func EnsureTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	query := `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка создания кошелька: %w", err)
	}
	return nil
}

// CreditTx увеличивает баланс пользователя на amount.
// Кошелёк создаётся, если его ещё нет (ленивое создание).
func CreditTx(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return common.ErrInvalidAmount
	}
	if err := EnsureTx(ctx, tx, userID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}
	return nil
}

// DebitTx списывает amount с баланса пользователя.
// Строка кошелька блокируется FOR UPDATE, поэтому два конкурентных
// списания не могут оба пройти проверку баланса — второе дождётся
// коммита первого и увидит уже уменьшенный баланс.
func DebitTx(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return common.ErrInvalidAmount
	}

	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Кошелька нет — значит и средств нет
			return common.ErrInsufficientFunds
		}
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}

	if balance.LessThan(amount) {
		return common.ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx, `
		UPDATE wallets
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}
	return nil
}
