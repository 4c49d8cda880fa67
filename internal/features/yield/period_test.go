package yield

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodID(t *testing.T) {
	assert.Equal(t, "2026-08", PeriodID(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2026-01", PeriodID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodIDPreviousMonth(t *testing.T) {
	// Планировщик 1-го числа платит за ПРОШЕДШИЙ месяц
	firstOfMonth := time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08", PeriodID(firstOfMonth.AddDate(0, -1, 0)))
}

func TestPeriodOrCurrent(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Пустой период означает текущий месяц
	assert.Equal(t, "2026-08", PeriodOrCurrent("", now))

	// Явно заданный период не переопределяется
	assert.Equal(t, "2026-03", PeriodOrCurrent("2026-03", now))
}
