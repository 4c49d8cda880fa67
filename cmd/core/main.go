// Точка входа ядра инвестиционной платформы.
// Загружает конфигурацию, собирает приложение, запускает планировщик
// фоновых задач и корректно останавливается по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/app"
	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/config"
)

func main() {
	// .env удобен для локальной разработки; в проде переменные
	// приходят из окружения, и отсутствие файла — не ошибка
	if err := godotenv.Load(); err != nil {
		log.Debug("Файл .env не найден, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	setupLogging(cfg)
	common.SetTimezone(cfg.AppTimezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось собрать приложение")
	}

	if err := application.Scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Не удалось запустить планировщик")
	}

	log.WithFields(log.Fields{
		"env":      cfg.AppEnv,
		"timezone": cfg.AppTimezone,
		"currency": cfg.CurrencyCode,
	}).Info("Ядро платформы запущено")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.WithField("signal", sig.String()).Info("Получен сигнал завершения")
	cancel()
	application.Close()
}

// setupLogging настраивает logrus по конфигурации.
func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
