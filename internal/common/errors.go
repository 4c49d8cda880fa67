// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях ядра.
// Эти ошибки позволяют внешним слоям различать типы проблем
// и отдавать пользователю понятные сообщения.
package common

import "errors"

// Ошибки валидации и кошелька
var (
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrInsufficientFunds — недостаточно средств на счёте
	ErrInsufficientFunds = errors.New("недостаточно средств на счёте")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrTransactionNotFound — транзакция не найдена
	ErrTransactionNotFound = errors.New("транзакция не найдена")
	// ErrTransactionFinal — транзакция уже в терминальном статусе, менять нельзя
	ErrTransactionFinal = errors.New("транзакция уже завершена и не может быть изменена")
)

// Ошибки политик (проверяются ДО любых изменений баланса)
var (
	// ErrLimitExceeded — превышен лимит суммы (мин/макс депозита или дневной лимит вывода)
	ErrLimitExceeded = errors.New("превышен лимит операции")
	// ErrAddressNotWhitelisted — адрес вывода не добавлен в белый список
	ErrAddressNotWhitelisted = errors.New("адрес не находится в белом списке для вывода")
	// ErrKycRequired — операция требует пройденной верификации KYC
	ErrKycRequired = errors.New("требуется пройти верификацию KYC")
	// ErrRiskDisclosureRequired — не принято соглашение о рисках
	ErrRiskDisclosureRequired = errors.New("необходимо принять соглашение о рисках")
	// ErrMaxOpenInvestments — достигнут лимит активных инвестиций
	ErrMaxOpenInvestments = errors.New("достигнут лимит активных инвестиций")
	// ErrCooldownActive — не истёк кулдаун после предыдущей инвестиции
	ErrCooldownActive = errors.New("слишком рано: подождите перед следующей инвестицией")
	// ErrSelfReferral — попытка указать самого себя как реферера
	ErrSelfReferral = errors.New("нельзя указать самого себя как пригласившего")
	// ErrReasonRequired — админ-корректировка без указания причины
	ErrReasonRequired = errors.New("необходимо указать причину корректировки")
	// ErrNoTreasuryWallet — нет активного казначейского кошелька для маршрутизации
	ErrNoTreasuryWallet = errors.New("нет активного казначейского кошелька")
	// ErrInvestmentNotFound — инвестиция не найдена
	ErrInvestmentNotFound = errors.New("инвестиция не найдена")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
