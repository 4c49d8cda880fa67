// Package ledger — fees.go содержит расчёт комиссий.
// Чистые функции без обращений к БД: правила округления и формулы
// комиссий покрыты тестами отдельно.
package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DepositFee считает комиссию депозита: amount * feePercent / 100,
// округление до 2 знаков.
func DepositFee(amount, feePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(feePercent).Div(hundred).Round(2)
}

// WithdrawFee считает комиссию вывода: amount * feePercent / 100 + flatFee,
// округление до 2 знаков.
func WithdrawFee(amount, feePercent, flatFee decimal.Decimal) decimal.Decimal {
	return amount.Mul(feePercent).Div(hundred).Add(flatFee).Round(2)
}

// NetAmount возвращает сумму за вычетом комиссии.
func NetAmount(amount, fee decimal.Decimal) decimal.Decimal {
	return amount.Sub(fee)
}
