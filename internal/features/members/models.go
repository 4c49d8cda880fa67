// Package members управляет пользователями платформы: регистрацией,
// статусом KYC, реферальной связью и белым списком адресов вывода.
// models.go описывает структуры данных для таблиц members и withdrawal_addresses.
package members

import "time"

// Статусы KYC-верификации.
const (
	KycNone     = "none"     // Верификация не начиналась
	KycPending  = "pending"  // Документы на проверке
	KycVerified = "verified" // Верификация пройдена
)

// Member представляет пользователя платформы в базе данных.
type Member struct {
	ID             int64      `db:"id"`               // Автоинкрементный ID записи в БД
	UserID         int64      `db:"user_id"`          // Внешний ID пользователя (уникальный)
	Username       string     `db:"username"`         // Логин (может быть пустым)
	FirstName      string     `db:"first_name"`       // Имя пользователя
	LastName       string     `db:"last_name"`        // Фамилия (может быть пустой)
	ReferrerID     *int64     `db:"referrer_id"`      // Кто пригласил (nil, если пришёл сам)
	KycStatus      string     `db:"kyc_status"`       // none | pending | verified
	RiskAcceptedAt *time.Time `db:"risk_accepted_at"` // Когда принято соглашение о рисках (nil — не принято)
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// WithdrawalAddress — адрес из белого списка для вывода средств.
// Вывод на адрес вне списка отклоняется (если включена настройка).
type WithdrawalAddress struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Address   string    `db:"address"`
	Network   string    `db:"network"`
	Label     string    `db:"label"`
	CreatedAt time.Time `db:"created_at"`
}

// DisplayName возвращает отображаемое имя пользователя.
func (m *Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	name := m.FirstName
	if m.LastName != "" {
		name += " " + m.LastName
	}
	return name
}
