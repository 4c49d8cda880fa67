package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "150.25 USDT", FormatAmount(decimal.NewFromFloat(150.25), "USDT"))
	assert.Equal(t, "5.00 USDT", FormatAmount(decimal.NewFromInt(5), "USDT"))
	assert.Equal(t, "0.00 USDT", FormatAmount(decimal.Zero, "USDT"))
}

func TestStartOfDay(t *testing.T) {
	loc := PlatformLocation()
	moment := time.Date(2026, 8, 31, 15, 42, 7, 0, loc)

	start := StartOfDay(moment)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, moment.Day(), start.Day())
	assert.True(t, start.Before(moment))
}

func TestFormatDateTime(t *testing.T) {
	loc := PlatformLocation()
	moment := time.Date(2026, 8, 31, 15, 42, 0, 0, loc)
	assert.Equal(t, "31.08.2026 15:42", FormatDateTime(moment))
}
