// Package settings предоставляет остальным модулям изменяемые на лету
// бизнес-параметры: лимиты депозитов/выводов, комиссии, флаги KYC,
// размеры реферальных бонусов.
//
// service.go держит кэш в памяти под RWMutex: чтения идут из кэша
// (горячий путь каждой финансовой операции), записи — сквозь БД.
// Кэш периодически перечитывается планировщиком, чтобы подхватывать
// изменения, сделанные другими экземплярами.
package settings

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/shopspring/decimal"
)

// Ключи настроек, известные ядру. Дефолты зашиты в миграции.
const (
	KeyDepositMin          = "deposit_min"
	KeyDepositMax          = "deposit_max"
	KeyDepositFeePercent   = "deposit_fee_percent"
	KeyDepositAutoApprove  = "deposit_auto_approve"
	KeyWithdrawFeePercent  = "withdraw_fee_percent"
	KeyWithdrawFlatFee     = "withdraw_flat_fee"
	KeyWithdrawDailyLimit  = "withdraw_daily_limit"
	KeyWhitelistRequired   = "withdraw_whitelist_required"
	KeyKycRequiredWithdraw = "kyc_required_withdraw"
	KeyKycRequiredInvest   = "kyc_required_invest"
	KeyRiskRequired        = "risk_disclosure_required"
	KeyInvestMaxActive     = "invest_max_active"
	KeyInvestCooldownMin   = "invest_cooldown_minutes"
	KeyBonusSignup         = "bonus_signup"
	KeyBonusFirstDeposit   = "bonus_first_deposit"
	KeyBonusFirstInvest    = "bonus_first_invest"
)

// Service — провайдер настроек с кэшем в памяти.
type Service struct {
	repo *Repository

	mu     sync.RWMutex
	values map[string]string
}

// NewService создаёт сервис настроек и сразу загружает кэш.
func NewService(ctx context.Context, repo *Repository) (*Service, error) {
	s := &Service{repo: repo, values: make(map[string]string)}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh перечитывает все настройки из БД в кэш.
func (s *Service) Refresh(ctx context.Context) error {
	values, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Set записывает настройку в БД и обновляет кэш.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	log.WithFields(log.Fields{"key": key, "value": value}).Info("Настройка обновлена")
	return nil
}

func (s *Service) raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString возвращает строковое значение настройки или def.
func (s *Service) GetString(key, def string) string {
	if v, ok := s.raw(key); ok {
		return v
	}
	return def
}

// GetBool возвращает булево значение настройки или def.
func (s *Service) GetBool(key string, def bool) bool {
	if v, ok := s.raw(key); ok {
		return ParseBool(v, def)
	}
	return def
}

// GetInt возвращает целое значение настройки или def.
func (s *Service) GetInt(key string, def int) int {
	if v, ok := s.raw(key); ok {
		return ParseInt(v, def)
	}
	return def
}

// GetDecimal возвращает денежное/процентное значение настройки или def.
func (s *Service) GetDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v, ok := s.raw(key); ok {
		return ParseDecimal(v, def)
	}
	return def
}
