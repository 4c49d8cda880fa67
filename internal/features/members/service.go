// Package members — service.go содержит бизнес-логику работы с пользователями.
// Регистрация, статус KYC, соглашение о рисках, белый список адресов.
package members

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/common"
)

// SignupHook вызывается один раз при первой регистрации приглашённого
// пользователя. Подключается в app.New к реферальному модулю.
type SignupHook func(ctx context.Context, referredID int64)

// Service управляет пользователями платформы.
type Service struct {
	repo       *Repository
	signupHook SignupHook
}

// NewService создаёт новый сервис пользователей.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SetSignupHook подключает обработчик реферального триггера signup.
func (s *Service) SetSignupHook(hook SignupHook) {
	s.signupHook = hook
}

// Register создаёт пользователя (или обновляет имя существующего).
// Если пользователь новый и указал реферера — срабатывает триггер signup.
// Ошибка реферального начисления регистрацию не ломает.
func (s *Service) Register(ctx context.Context, m *Member) error {
	if m.ReferrerID != nil && *m.ReferrerID == m.UserID {
		return common.ErrSelfReferral
	}

	inserted, err := s.repo.Create(ctx, m)
	if err != nil {
		return err
	}

	if inserted && m.ReferrerID != nil && s.signupHook != nil {
		s.signupHook(ctx, m.UserID)
	}
	return nil
}

// Get возвращает пользователя по ID.
func (s *Service) Get(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// KycVerified сообщает, пройдена ли верификация.
// Потребляется модулями выводов и инвестиций как внешняя проверка.
func (s *Service) KycVerified(ctx context.Context, userID int64) (bool, error) {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return m.KycStatus == KycVerified, nil
}

// RiskAccepted сообщает, принято ли соглашение о рисках.
func (s *Service) RiskAccepted(ctx context.Context, userID int64) (bool, error) {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return m.RiskAcceptedAt != nil, nil
}

// ReferrerOf возвращает ID пригласившего (nil, если его нет).
func (s *Service) ReferrerOf(ctx context.Context, userID int64) (*int64, error) {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.ReferrerID, nil
}

// SetKycStatus меняет статус KYC (вызывается админ-модулем после проверки документов).
func (s *Service) SetKycStatus(ctx context.Context, userID int64, status string) error {
	if status != KycNone && status != KycPending && status != KycVerified {
		return fmt.Errorf("неизвестный статус KYC: %q", status)
	}
	if err := s.repo.UpdateKycStatus(ctx, userID, status); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": userID, "status": status}).Info("Статус KYC обновлён")
	return nil
}

// AcceptRiskDisclosure фиксирует принятие соглашения о рисках.
func (s *Service) AcceptRiskDisclosure(ctx context.Context, userID int64) error {
	return s.repo.AcceptRiskDisclosure(ctx, userID)
}

// AddWithdrawalAddress добавляет адрес в белый список.
func (s *Service) AddWithdrawalAddress(ctx context.Context, userID int64, address, network, label string) error {
	return s.repo.AddWithdrawalAddress(ctx, &WithdrawalAddress{
		UserID:  userID,
		Address: address,
		Network: network,
		Label:   label,
	})
}

// RemoveWithdrawalAddress удаляет адрес из белого списка.
func (s *Service) RemoveWithdrawalAddress(ctx context.Context, userID int64, address string) error {
	return s.repo.RemoveWithdrawalAddress(ctx, userID, address)
}

// IsWhitelisted проверяет адрес по белому списку пользователя.
func (s *Service) IsWhitelisted(ctx context.Context, userID int64, address string) (bool, error) {
	return s.repo.IsWhitelisted(ctx, userID, address)
}

// ListWithdrawalAddresses возвращает белый список пользователя.
func (s *Service) ListWithdrawalAddresses(ctx context.Context, userID int64) ([]*WithdrawalAddress, error) {
	return s.repo.ListWithdrawalAddresses(ctx, userID)
}
