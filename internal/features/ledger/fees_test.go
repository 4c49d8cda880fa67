package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestDepositFee(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		feePercent string
		want       string
	}{
		{"без комиссии", "100", "0", "0.00"},
		{"один процент", "100", "1", "1.00"},
		{"округление до 2 знаков", "333.33", "1.5", "5.00"},
		{"дробная комиссия", "150.25", "2.5", "3.76"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DepositFee(d(tt.amount), d(tt.feePercent))
			assert.True(t, d(tt.want).Equal(got), "ожидали %s, получили %s", tt.want, got)
		})
	}
}

func TestWithdrawFee(t *testing.T) {
	// Основной сценарий: 200 при 1.5% + 5 фикс = 8.00, к получению 192.00
	fee := WithdrawFee(d("200"), d("1.5"), d("5"))
	assert.True(t, d("8.00").Equal(fee), "получили %s", fee)

	net := NetAmount(d("200"), fee)
	assert.True(t, d("192.00").Equal(net), "получили %s", net)
}

func TestWithdrawFeeOnlyFlat(t *testing.T) {
	fee := WithdrawFee(d("50"), d("0"), d("5"))
	assert.True(t, d("5.00").Equal(fee), "получили %s", fee)
}

func TestNetAmountCanBeNegative(t *testing.T) {
	// Сумма меньше комиссии: сервис обязан отклонить такую заявку
	fee := WithdrawFee(d("4"), d("1.5"), d("5"))
	net := NetAmount(d("4"), fee)
	assert.True(t, net.Sign() < 0)
}
