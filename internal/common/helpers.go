// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с платформенным временем и форматирование сумм.
package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// platformLoc — часовой пояс платформы. По нему считаются дневные лимиты
// вывода и расписание начислений. Устанавливается один раз при старте.
var platformLoc = mustLocation("Europe/Moscow")

// SetTimezone устанавливает часовой пояс платформы из конфигурации.
// Вызывается один раз при старте до запуска планировщика.
func SetTimezone(name string) {
	platformLoc = mustLocation(name)
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Если не удалось загрузить — используем UTC+3 вручную
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// PlatformTime возвращает текущее время в часовом поясе платформы.
func PlatformTime() time.Time {
	return time.Now().In(platformLoc)
}

// PlatformLocation возвращает часовой пояс платформы (для cron).
func PlatformLocation() *time.Location {
	return platformLoc
}

// StartOfDay возвращает полночь дня t в часовом поясе платформы.
// Используется для окна дневного лимита вывода.
func StartOfDay(t time.Time) time.Time {
	t = t.In(platformLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, platformLoc)
}

// FormatAmount форматирует денежную сумму для уведомлений.
// Пример: FormatAmount(decimal, "USDT") → "150.25 USDT"
func FormatAmount(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" (день.месяц.год часы:минуты).
// Используется для отображения дат транзакций в уведомлениях.
func FormatDateTime(t time.Time) string {
	return t.In(platformLoc).Format("02.01.2006 15:04")
}
