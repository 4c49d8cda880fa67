// Package audit ведёт append-only журнал «кто что с чем сделал и когда».
// Запись в журнал НИКОГДА не ломает финансовую операцию: при ошибке
// пишем в лог и продолжаем. Потерянная запись аудита — инцидент для
// мониторинга, а не причина откатывать движение денег.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Service — приёмник аудита.
type Service struct {
	db *pgxpool.Pool
}

// NewService создаёт сервис аудита.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Record добавляет запись в журнал аудита.
// actorID — кто совершил действие (пользователь или админ),
// action — что сделано ("deposit.create", "settings.update", ...),
// resourceType/resourceID — над чем, details — произвольный контекст.
func (s *Service) Record(ctx context.Context, actorID int64, action, resourceType string, resourceID int64, details map[string]any) {
	var payload []byte
	if details != nil {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			log.WithError(err).WithField("action", action).Warn("Аудит: не удалось сериализовать details")
			payload = nil
		}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO audit_log (actor_id, action, resource_type, resource_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`, actorID, action, resourceType, resourceID, payload)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"actor_id": actorID,
			"action":   action,
		}).Error("Аудит: запись не сохранена")
	}
}
