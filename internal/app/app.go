// Package app собирает ядро платформы: подключение к БД, миграции,
// репозитории, сервисы, реферальные хуки и планировщик фоновых задач.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"investra.ru/invest-core/internal/audit"
	"investra.ru/invest-core/internal/config"
	"investra.ru/invest-core/internal/db/postgres"
	"investra.ru/invest-core/internal/features/admin"
	"investra.ru/invest-core/internal/features/investment"
	"investra.ru/invest-core/internal/features/ledger"
	"investra.ru/invest-core/internal/features/members"
	"investra.ru/invest-core/internal/features/referral"
	"investra.ru/invest-core/internal/features/wallet"
	"investra.ru/invest-core/internal/features/yield"
	"investra.ru/invest-core/internal/jobs"
	"investra.ru/invest-core/internal/notify"
	"investra.ru/invest-core/internal/settings"
)

// App — собранное ядро платформы.
type App struct {
	Pool *pgxpool.Pool

	Members     *members.Service
	Wallets     *wallet.Service
	Ledger      *ledger.Service
	Investments *investment.Service
	Yield       *yield.Service
	Referrals   *referral.Service
	Settings    *settings.Service
	Admin       *admin.Service
	Scheduler   *jobs.Scheduler
}

// New создаёт приложение: пул БД, миграции, сервисы и связи между ними.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	// Репозитории
	membersRepo := members.NewRepository(pool)
	walletRepo := wallet.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)
	investmentRepo := investment.NewRepository(pool)
	yieldRepo := yield.NewRepository(pool)
	referralRepo := referral.NewRepository(pool)
	settingsRepo := settings.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)
	adminWallets := admin.NewWalletRepository(pool)

	// Сервисы
	settingsService, err := settings.NewService(ctx, settingsRepo)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка загрузки настроек: %w", err)
	}
	auditService := audit.NewService(pool)
	notifier := notify.NewService(cfg)

	membersService := members.NewService(membersRepo)
	walletService := wallet.NewService(walletRepo)
	ledgerService := ledger.NewService(ledgerRepo, walletRepo, membersService, settingsService, auditService, notifier, cfg)
	investmentService := investment.NewService(investmentRepo, adminWallets, membersService, settingsService, auditService, notifier, cfg)
	yieldService := yield.NewService(yieldRepo, investmentRepo, auditService, notifier, cfg)
	referralService := referral.NewService(referralRepo, membersService, settingsService, auditService, notifier, cfg)
	adminService := admin.NewService(adminRepo, adminWallets, ledgerService, membersService, settingsService, auditService, cfg)

	// Реферальные триггеры подключаются хуками, чтобы модули денег
	// не зависели от реферального модуля напрямую
	membersService.SetSignupHook(referralService.HandleSignup)
	ledgerService.SetFirstDepositHook(referralService.HandleFirstDeposit)
	investmentService.SetFirstInvestHook(referralService.HandleFirstInvest)

	scheduler := jobs.NewScheduler(yieldService, investmentService, settingsService)

	log.Info("Ядро платформы собрано")
	return &App{
		Pool:        pool,
		Members:     membersService,
		Wallets:     walletService,
		Ledger:      ledgerService,
		Investments: investmentService,
		Yield:       yieldService,
		Referrals:   referralService,
		Settings:    settingsService,
		Admin:       adminService,
		Scheduler:   scheduler,
	}, nil
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.Scheduler.Stop()
	a.Pool.Close()
	log.Info("Ядро платформы остановлено")
}

// applyMigrations применяет миграции схемы по порядку версий.
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}
	for _, m := range migrations {
		if err := postgres.ApplyMigration(ctx, pool, m.version, m.sql); err != nil {
			return err
		}
	}
	log.Info("Миграции применены")
	return nil
}

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{1, migrationMembers},
	{2, migrationWalletsTransactions},
	{3, migrationInvestments},
	{4, migrationYieldPayouts},
	{5, migrationReferralBonuses},
	{6, migrationAdminWallets},
	{7, migrationSettings},
	{8, migrationAuditLog},
	{9, migrationAdminSessions},
}

const migrationMembers = `
	CREATE TABLE IF NOT EXISTS members (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT UNIQUE NOT NULL,
		username VARCHAR(255),
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		referrer_id BIGINT,
		kyc_status VARCHAR(20) NOT NULL DEFAULT 'none',
		risk_accepted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_members_referrer ON members(referrer_id) WHERE referrer_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS withdrawal_addresses (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		address VARCHAR(255) NOT NULL,
		network VARCHAR(50) NOT NULL DEFAULT '',
		label VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, address)
	);
`

const migrationWalletsTransactions = `
	CREATE TABLE IF NOT EXISTS wallets (
		user_id BIGINT PRIMARY KEY,
		balance NUMERIC(18,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		connected_provider VARCHAR(50),
		address VARCHAR(255),
		network VARCHAR(50),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		type VARCHAR(30) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		fee NUMERIC(18,2) NOT NULL DEFAULT 0,
		net_amount NUMERIC(18,2) NOT NULL,
		currency VARCHAR(10) NOT NULL,
		method VARCHAR(50) NOT NULL DEFAULT '',
		status VARCHAR(30) NOT NULL,
		to_address VARCHAR(255),
		tx_hash VARCHAR(255),
		reference VARCHAR(64) UNIQUE NOT NULL,
		admin_wallet_id BIGINT,
		investment_id BIGINT,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reviewed_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status) WHERE status = 'requires_approval';
`

const migrationInvestments = `
	CREATE TABLE IF NOT EXISTS investments (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		project_id BIGINT NOT NULL,
		plan_name VARCHAR(100) NOT NULL,
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		apy NUMERIC(8,2) NOT NULL,
		term_months INT NOT NULL CHECK (term_months > 0),
		payout_frequency VARCHAR(20) NOT NULL DEFAULT 'monthly',
		risk_level VARCHAR(20) NOT NULL DEFAULT '',
		monthly_yield NUMERIC(18,2) NOT NULL,
		total_earned NUMERIC(18,2) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		start_date TIMESTAMPTZ NOT NULL,
		maturity_date TIMESTAMPTZ NOT NULL,
		transaction_id BIGINT NOT NULL REFERENCES transactions(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_investments_user ON investments(user_id);
	CREATE INDEX IF NOT EXISTS idx_investments_maturity ON investments(status, maturity_date) WHERE status = 'active';
`

const migrationYieldPayouts = `
	CREATE TABLE IF NOT EXISTS yield_payouts (
		id BIGSERIAL PRIMARY KEY,
		investment_id BIGINT NOT NULL REFERENCES investments(id),
		user_id BIGINT NOT NULL,
		period VARCHAR(7) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		transaction_id BIGINT REFERENCES transactions(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (investment_id, period)
	);
	CREATE INDEX IF NOT EXISTS idx_yield_payouts_user ON yield_payouts(user_id);
`

const migrationReferralBonuses = `
	CREATE TABLE IF NOT EXISTS referral_bonuses (
		id BIGSERIAL PRIMARY KEY,
		referrer_id BIGINT NOT NULL,
		referred_id BIGINT NOT NULL,
		trigger_type VARCHAR(30) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		transaction_id BIGINT REFERENCES transactions(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (referred_id, trigger_type)
	);
	CREATE INDEX IF NOT EXISTS idx_referral_bonuses_referrer ON referral_bonuses(referrer_id);
`

const migrationAdminWallets = `
	CREATE TABLE IF NOT EXISTS admin_wallets (
		id BIGSERIAL PRIMARY KEY,
		label VARCHAR(100) NOT NULL,
		address VARCHAR(255) NOT NULL,
		network VARCHAR(50) NOT NULL DEFAULT '',
		currency VARCHAR(10) NOT NULL DEFAULT 'USDT',
		wallet_type VARCHAR(20) NOT NULL,
		total_received NUMERIC(18,2) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

const migrationSettings = `
	CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(64) PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	INSERT INTO settings (key, value) VALUES
		('deposit_min', '50'),
		('deposit_max', '0'),
		('deposit_fee_percent', '0'),
		('deposit_auto_approve', 'false'),
		('withdraw_fee_percent', '1.5'),
		('withdraw_flat_fee', '5'),
		('withdraw_daily_limit', '0'),
		('withdraw_whitelist_required', 'true'),
		('kyc_required_withdraw', 'true'),
		('kyc_required_invest', 'false'),
		('risk_disclosure_required', 'true'),
		('invest_max_active', '10'),
		('invest_cooldown_minutes', '0'),
		('bonus_signup', '0'),
		('bonus_first_deposit', '0'),
		('bonus_first_invest', '0')
	ON CONFLICT (key) DO NOTHING;
`

const migrationAuditLog = `
	CREATE TABLE IF NOT EXISTS audit_log (
		id BIGSERIAL PRIMARY KEY,
		actor_id BIGINT NOT NULL,
		action VARCHAR(100) NOT NULL,
		resource_type VARCHAR(50) NOT NULL DEFAULT '',
		resource_id BIGINT NOT NULL DEFAULT 0,
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_actor ON audit_log(actor_id, created_at DESC);
`

const migrationAdminSessions = `
	CREATE TABLE IF NOT EXISTS admin_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		session_token VARCHAR(64) NOT NULL,
		authenticated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL,
		last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);
	CREATE INDEX IF NOT EXISTS idx_admin_sessions_user ON admin_sessions(user_id, is_active);

	CREATE TABLE IF NOT EXISTS admin_login_attempts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		success BOOLEAN NOT NULL,
		attempt_time TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_admin_login_attempts ON admin_login_attempts(user_id, attempt_time);
`
