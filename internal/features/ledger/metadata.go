// Package ledger — metadata.go: типизированные детали транзакций.
// Вместо одного произвольного JSON-блоба у каждого типа транзакции
// своя структура; в БД они сериализуются в колонку metadata (JSONB),
// ключ дискриминации — колонка type.
package ledger

import (
	"encoding/json"
	"fmt"
)

// DepositMeta — детали депозита.
type DepositMeta struct {
	ExternalRef string `json:"external_ref,omitempty"` // Референс платёжки/сети
	Method      string `json:"method"`
}

// WithdrawMeta — детали вывода.
type WithdrawMeta struct {
	DestinationAddress string `json:"destination_address"`
	Network            string `json:"network,omitempty"`
}

// InvestMeta — детали инвестиционной транзакции.
type InvestMeta struct {
	ProjectID  int64  `json:"project_id"`
	PlanName   string `json:"plan_name"`
	TermMonths int    `json:"term_months"`
	APY        string `json:"apy"` // Строкой, чтобы не терять точность
}

// YieldMeta — детали начисления доходности.
type YieldMeta struct {
	InvestmentID int64  `json:"investment_id"`
	Period       string `json:"period"` // "2026-08"
}

// ReferralMeta — детали реферального бонуса.
type ReferralMeta struct {
	ReferredID  int64  `json:"referred_id"`
	TriggerType string `json:"trigger_type"`
}

// AdjustmentMeta — детали ручной корректировки.
type AdjustmentMeta struct {
	AdminID   int64  `json:"admin_id"`
	Direction string `json:"direction"` // credit | debit
	Reason    string `json:"reason"`
}

// MarshalMeta сериализует детали транзакции для записи в БД.
func MarshalMeta(meta any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации metadata: %w", err)
	}
	return data, nil
}
