// Package investment — accrual.go содержит расчёт доходности.
// Чистые функции без обращений к БД: формула месячного дохода и подсчёт
// прошедших месяцев покрыты тестами отдельно.
package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// MonthlyYield считает месячный доход: amount * apy / 100 / 12,
// округление до 2 знаков.
// Пример: 500 по ставке 12% годовых → 5.00 в месяц.
func MonthlyYield(amount, apy decimal.Decimal) decimal.Decimal {
	return amount.Mul(apy).Div(hundred).Div(twelve).Round(2)
}

// MonthsElapsed возвращает число ПОЛНЫХ месяцев между start и now.
// Неполный месяц не считается; отрицательных значений не бывает.
func MonthsElapsed(start, now time.Time) int {
	if !start.Before(now) {
		return 0
	}
	months := 0
	for !start.AddDate(0, months+1, 0).After(now) {
		months++
	}
	return months
}

// AccruedToDate считает доход, накопленный к моменту now:
// monthlyYield * min(полных месяцев, termMonths−1).
// Оплачиваемых периодов у срока ровно termMonths−1: последний полный месяц
// совпадает с погашением, когда инвестиция уже выведена из начислений.
// total_earned поднимается к этой же величине и при ленивом пересчёте,
// и при плановой выплате — сумма выплат и аккумулятор всегда сходятся.
func AccruedToDate(monthlyYield decimal.Decimal, start, now time.Time, termMonths int) decimal.Decimal {
	payable := termMonths - 1
	if payable < 0 {
		payable = 0
	}
	months := MonthsElapsed(start, now)
	if months > payable {
		months = payable
	}
	return monthlyYield.Mul(decimal.NewFromInt(int64(months)))
}
