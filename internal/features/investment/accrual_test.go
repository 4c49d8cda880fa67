package investment

import (
	"testing"
	"time"

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

func TestMonthlyYield(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		apy    string
		want   string
	}{
		{"500 под 12 процентов", "500", "12", "5.00"},
		{"1000 под 6 процентов", "1000", "6", "5.00"},
		{"округление", "100", "10", "0.83"},
		{"нулевая ставка", "500", "0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyYield(d(tt.amount), d(tt.apy))
			assert.True(t, d(tt.want).Equal(got), "ожидали %s, получили %s", tt.want, got)
		})
	}
}

func TestMonthsElapsed(t *testing.T) {
	start := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"до старта", start.AddDate(0, 0, -1), 0},
		{"в момент старта", start, 0},
		{"неполный месяц", start.AddDate(0, 0, 20), 0},
		{"ровно месяц", start.AddDate(0, 1, 0), 1},
		{"полтора месяца", start.AddDate(0, 1, 15), 1},
		{"год", start.AddDate(1, 0, 0), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsElapsed(start, tt.now))
		})
	}
}

func TestAccruedToDateCappedByPayableMonths(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	monthly := d("5.00")

	// 3 полных месяца из 12: 15.00
	got := AccruedToDate(monthly, start, start.AddDate(0, 3, 0), 12)
	assert.True(t, d("15.00").Equal(got), "получили %s", got)

	// К погашению начислено ровно за 11 оплачиваемых периодов
	got = AccruedToDate(monthly, start, start.AddDate(0, 12, 0), 12)
	assert.True(t, d("55.00").Equal(got), "получили %s", got)

	// Спустя 20 месяцев при сроке 12 начисления не растут дальше 55.00
	got = AccruedToDate(monthly, start, start.AddDate(0, 20, 0), 12)
	assert.True(t, d("55.00").Equal(got), "получили %s", got)

	// Срок в один месяц не имеет оплачиваемых периодов
	got = AccruedToDate(monthly, start, start.AddDate(0, 6, 0), 1)
	assert.True(t, got.IsZero(), "получили %s", got)
}
