// Package settings — repository.go выполняет операции с таблицей settings.
// Таблица хранит изменяемые на лету бизнес-параметры: лимиты, комиссии,
// флаги и размеры бонусов. Значения хранятся текстом, типизация — в service.go.
package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей settings.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий настроек.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LoadAll возвращает все настройки как карту ключ → значение.
func (r *Repository) LoadAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения настроек: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("ошибка сканирования настройки: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Upsert записывает значение настройки.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("ошибка записи настройки %s: %w", key, err)
	}
	return nil
}
