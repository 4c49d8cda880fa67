// Package admin — service.go содержит аутентификацию администраторов
// и привилегированные операции: ручные корректировки балансов, изменение
// настроек, смену статуса KYC, управление казначейскими кошельками.
// Каждая привилегированная операция требует активной сессии.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"investra.ru/invest-core/internal/audit"
	"investra.ru/invest-core/internal/common"
	"investra.ru/invest-core/internal/config"
	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/members"
	"investra.ru/invest-core/internal/settings"
)

// Service управляет админ-контуром.
type Service struct {
	repo       *Repository
	wallets    *WalletRepository
	ledger     *ledger.Service
	members    *members.Service
	settings   *settings.Service
	audit      *audit.Service
	cfg        *config.Config
}

// NewService создаёт админ-сервис.
func NewService(
	repo *Repository,
	wallets *WalletRepository,
	ledgerService *ledger.Service,
	membersService *members.Service,
	settingsService *settings.Service,
	auditService *audit.Service,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:     repo,
		wallets:  wallets,
		ledger:   ledgerService,
		members:  membersService,
		settings: settingsService,
		audit:    auditService,
		cfg:      cfg,
	}
}

// isAdmin проверяет, входит ли пользователь в список администраторов.
func (s *Service) isAdmin(userID int64) bool {
	for _, id := range s.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// VerifyPassword проверяет пароль администратора (Argon2id).
// Защита от brute-force: 3 неудачные попытки = блокировка на 1 час.
// При успехе создаётся сессия на 24 часа.
func (s *Service) VerifyPassword(ctx context.Context, userID int64, password string) error {
	if !s.isAdmin(userID) {
		return common.ErrNotAdmin
	}

	attempts, err := s.repo.GetRecentAttempts(ctx, userID, 1*time.Hour)
	if err != nil {
		return err
	}
	if attempts >= 3 {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.cfg.AdminPasswordHash)

	// Логируем попытку (ошибка записи не мешает результату проверки)
	if err := s.repo.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).Warn("Не удалось записать попытку входа")
	}

	if !match {
		return common.ErrWrongPassword
	}

	token := generateSecureToken()
	session := &AdminSession{
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return err
	}

	s.audit.Record(ctx, userID, "admin.login", "session", 0, nil)
	return nil
}

// RequireSession возвращает ошибку, если у пользователя нет активной сессии.
func (s *Service) RequireSession(ctx context.Context, userID int64) error {
	if !s.isAdmin(userID) {
		return common.ErrNotAdmin
	}
	session, err := s.repo.GetActiveSession(ctx, userID)
	if err != nil || session == nil {
		return common.ErrSessionExpired
	}
	if err := s.repo.UpdateActivity(ctx, userID); err != nil {
		log.WithError(err).Debug("Не удалось обновить активность сессии")
	}
	return nil
}

// Logout деактивирует сессию администратора.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeactivateSession(ctx, userID)
}

// AdjustBalance выполняет ручную корректировку баланса пользователя.
// Требует активной сессии и обязательной причины.
func (s *Service) AdjustBalance(ctx context.Context, adminID, userID int64, amount decimal.Decimal, direction, reason string) (*ledger.Transaction, error) {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return nil, err
	}
	return s.ledger.AdminAdjust(ctx, adminID, userID, amount, direction, reason)
}

// ApproveTransaction одобряет транзакцию из requires_approval.
func (s *Service) ApproveTransaction(ctx context.Context, adminID, txID int64) (*ledger.Transaction, error) {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return nil, err
	}
	return s.ledger.ApproveTransaction(ctx, adminID, txID)
}

// RejectTransaction отклоняет транзакцию (вывод возвращает удержанные средства).
func (s *Service) RejectTransaction(ctx context.Context, adminID, txID int64) (*ledger.Transaction, error) {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return nil, err
	}
	return s.ledger.FailTransaction(ctx, adminID, txID)
}

// UpdateSetting меняет бизнес-настройку платформы.
func (s *Service) UpdateSetting(ctx context.Context, adminID int64, key, value string) error {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return err
	}
	if err := s.settings.Set(ctx, key, value); err != nil {
		return err
	}
	s.audit.Record(ctx, adminID, "settings.update", "setting", 0, map[string]any{
		"key": key, "value": value,
	})
	return nil
}

// SetKycStatus меняет статус верификации пользователя.
func (s *Service) SetKycStatus(ctx context.Context, adminID, userID int64, status string) error {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return err
	}
	if err := s.members.SetKycStatus(ctx, userID, status); err != nil {
		return err
	}
	s.audit.Record(ctx, adminID, "kyc.update", "member", userID, map[string]any{"status": status})
	return nil
}

// CreateWallet добавляет казначейский или приёмный кошелёк.
func (s *Service) CreateWallet(ctx context.Context, adminID int64, w *AdminWallet) error {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return err
	}
	if w.WalletType != WalletTreasury && w.WalletType != WalletDeposit {
		return fmt.Errorf("неизвестный тип кошелька: %q", w.WalletType)
	}
	if err := s.wallets.Create(ctx, w); err != nil {
		return err
	}
	s.audit.Record(ctx, adminID, "admin_wallet.create", "admin_wallet", w.ID, map[string]any{
		"label": w.Label, "type": w.WalletType,
	})
	return nil
}

// SetWalletActive включает/выключает админ-кошелёк.
func (s *Service) SetWalletActive(ctx context.Context, adminID, walletID int64, active bool) error {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return err
	}
	return s.wallets.SetActive(ctx, walletID, active)
}

// ListWallets возвращает все админ-кошельки.
func (s *Service) ListWallets(ctx context.Context, adminID int64) ([]*AdminWallet, error) {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return nil, err
	}
	return s.wallets.List(ctx)
}

// --- Криптографические утилиты ---

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Не удалось разобрать параметры Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	actual := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// generateSecureToken генерирует случайный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// Практически недостижимо; паника лучше предсказуемого токена
		panic(err)
	}
	return base64.URLEncoding.EncodeToString(b)
}
