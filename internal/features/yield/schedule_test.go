package yield

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investra.ru/invest-core/internal/features/investment"
)

// Симуляция года ежемесячных прогонов для инвестиции 500 под 12% годовых
// на 12 месяцев: сумма зачисленных выплат обязана сойтись с total_earned,
// до которого поднимает AccruedToDate.
func TestPayoutScheduleMatchesAccrual(t *testing.T) {
	start := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	const termMonths = 12
	amount := decimal.NewFromInt(500)
	apy := decimal.NewFromInt(12)
	monthly := investment.MonthlyYield(amount, apy)
	maturity := start.AddDate(0, termMonths, 0)

	credited := decimal.Zero
	paidPeriods := make(map[string]bool)

	// Прогоны 1-го числа каждого месяца; после даты погашения суточная
	// зачистка выводит инвестицию из начислений раньше очередного прогона
	for run := time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC); !run.After(start.AddDate(0, 15, 0)); run = run.AddDate(0, 1, 0) {
		if run.After(maturity) {
			break
		}
		m := investment.MonthsElapsed(start, run)
		if m == 0 || m >= termMonths {
			continue
		}
		period := PeriodID(run.AddDate(0, -1, 0))
		require.False(t, paidPeriods[period], "период %s выплачен дважды", period)
		paidPeriods[period] = true
		credited = credited.Add(monthly)
	}

	accrued := investment.AccruedToDate(monthly, start, maturity, termMonths)
	assert.True(t, accrued.Equal(credited), "выплачено %s, начислено %s", credited, accrued)
	assert.Equal(t, termMonths-1, len(paidPeriods))
	assert.True(t, decimal.NewFromInt(55).Equal(credited), "выплачено %s", credited)
}
