package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tienda-api/internal/core/auth"
	"tienda-api/internal/core/config"
	"tienda-api/internal/domain"
	"tienda-api/internal/notify"
	"tienda-api/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory DB
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.VerificationCode{},
		&domain.Category{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Sale{},
		&domain.SaleDetail{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.App{Name: "tienda-api", Env: "dev"},
		JWT: config.JWT{Secret: "test-secret", Issuer: "tienda-api", AccessTokenTTLMin: 15, RefreshTokenTTLHrs: 168},
		Mail: config.Mail{
			Host:      "127.0.0.1",
			Port:      1025,
			From:      "no-reply@ecommerce.com",
			AdminAddr: "admin@ecommerce.com",
			QueueSize: 16,
		},
		Admin: config.AdminBootstrap{Username: "admin", Email: "admin@ecommerce.com", Password: "admin123"},
	}
}

func testJWTer(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHrs) * time.Hour,
	}
}

// fakeOutbox records enqueued messages; it can simulate a full queue.
type fakeOutbox struct {
	msgs []notify.Message
	full bool
}

func (f *fakeOutbox) Enqueue(m notify.Message) error {
	if f.full {
		return notify.ErrQueueFull
	}
	f.msgs = append(f.msgs, m)
	return nil
}

// fakeMailer records synchronous sends.
type fakeMailer struct {
	msgs []notify.Message
	err  error
}

func (f *fakeMailer) Send(m notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func newAccounts(t *testing.T, db *gorm.DB) (*Accounts, *fakeOutbox) {
	t.Helper()
	cfg := testConfig()
	outbox := &fakeOutbox{}
	svc := NewAccounts(
		repo.NewUserRepo(db),
		repo.NewCodeRepo(db),
		testJWTer(cfg),
		outbox,
		cfg,
		zap.NewNop(),
	)
	return svc, outbox
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, status, se.Status)
}
