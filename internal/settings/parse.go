// Package settings — parse.go: типизация текстовых значений настроек.
// Вынесено в чистые функции, чтобы правила разбора были покрыты тестами
// отдельно от БД.
package settings

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBool разбирает булево значение настройки.
// Принимаются true/false, 1/0, yes/no, on/off без учёта регистра.
// При нераспознанном значении возвращается def.
func ParseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

// ParseInt разбирает целое значение настройки, при ошибке возвращает def.
func ParseInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// ParseDecimal разбирает денежное/процентное значение настройки.
// При ошибке или пустой строке возвращает def.
func ParseDecimal(raw string, def decimal.Decimal) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return v
}
