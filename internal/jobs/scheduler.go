// Package jobs содержит планировщик фоновых задач ядра:
// ежемесячные выплаты доходности, перевод истёкших инвестиций в matured
// и периодическое обновление кэша настроек.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/features/investment"
	"investra.ru/invest-core/internal/features/yield"
	"investra.ru/invest-core/internal/settings"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron        *cron.Cron
	yield       *yield.Service
	investments *investment.Service
	settings    *settings.Service
}

// NewScheduler создаёт планировщик. Расписания считаются в часовом
// поясе платформы, чтобы «первое число месяца» совпадало с периодом выплат.
func NewScheduler(
	yieldService *yield.Service,
	investmentService *investment.Service,
	settingsService *settings.Service,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(common.PlatformLocation())),
		yield:       yieldService,
		investments: investmentService,
		settings:    settingsService,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	// Выплата доходности: 1-го числа в 03:00 за ПРОШЕДШИЙ месяц
	if _, err := s.cron.AddFunc("0 3 1 * *", func() { s.runPayout(ctx) }); err != nil {
		return err
	}

	// Перевод истёкших инвестиций: ежедневно в 00:30
	if _, err := s.cron.AddFunc("30 0 * * *", func() { s.runMaturity(ctx) }); err != nil {
		return err
	}

	// Обновление кэша настроек: каждые 5 минут
	if _, err := s.cron.AddFunc("*/5 * * * *", func() { s.refreshSettings(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	log.Info("Планировщик фоновых задач запущен")
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик фоновых задач остановлен")
}

// runPayout выплачивает доходность за только что завершившийся месяц.
func (s *Scheduler) runPayout(ctx context.Context) {
	period := yield.PeriodID(common.PlatformTime().AddDate(0, -1, 0))
	log.WithField("period", period).Info("Запуск выплаты доходности")

	if _, err := s.yield.RunPayout(ctx, period); err != nil {
		log.WithError(err).WithField("period", period).Error("Выплата доходности завершилась ошибкой")
	}
}

// runMaturity переводит истёкшие инвестиции в matured.
func (s *Scheduler) runMaturity(ctx context.Context) {
	if _, err := s.investments.MatureDue(ctx); err != nil {
		log.WithError(err).Error("Перевод инвестиций в matured завершился ошибкой")
	}
}

// refreshSettings перечитывает настройки из БД.
func (s *Scheduler) refreshSettings(ctx context.Context) {
	if err := s.settings.Refresh(ctx); err != nil {
		log.WithError(err).Error("Не удалось обновить кэш настроек")
	}
}
