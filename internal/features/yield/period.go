// Package yield — period.go: идентификатор расчётного периода.
package yield

import "time"

// PeriodID возвращает идентификатор календарного месяца в формате "2006-01".
// Период считается в часовом поясе платформы: момент передаётся уже
// переведённым в нужную локацию.
func PeriodID(t time.Time) string {
	return t.Format("2006-01")
}

// PeriodOrCurrent возвращает period, а для пустой строки — период момента now.
func PeriodOrCurrent(period string, now time.Time) string {
	if period == "" {
		return PeriodID(now)
	}
	return period
}
