package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("true", false))
	assert.True(t, ParseBool("YES", false))
	assert.True(t, ParseBool(" 1 ", false))
	assert.False(t, ParseBool("off", true))
	assert.False(t, ParseBool("0", true))

	// Нераспознанное значение — дефолт
	assert.True(t, ParseBool("mystery", true))
	assert.False(t, ParseBool("", false))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 10, ParseInt("10", 0))
	assert.Equal(t, -3, ParseInt(" -3 ", 0))
	assert.Equal(t, 7, ParseInt("not-a-number", 7))
	assert.Equal(t, 7, ParseInt("", 7))
}

func TestParseDecimal(t *testing.T) {
	def := decimal.NewFromInt(50)

	got := ParseDecimal("1.5", def)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(got))

	assert.True(t, def.Equal(ParseDecimal("", def)))
	assert.True(t, def.Equal(ParseDecimal("abc", def)))
}
