// Command admin ensures the default admin account exists, then exits.
// It is the one-shot equivalent of the bootstrap the API performs at
// startup, for provisioning a database before first deploy.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tienda-api/internal/core/auth"
	"tienda-api/internal/core/config"
	"tienda-api/internal/core/database"
	"tienda-api/internal/core/logger"
	"tienda-api/internal/domain"
	"tienda-api/internal/repo"
	"tienda-api/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHrs) * time.Hour,
	}
	accounts := service.NewAccounts(repo.NewUserRepo(db), repo.NewCodeRepo(db), jwter, nil, cfg, log)

	created, err := accounts.EnsureAdmin(context.Background())
	if err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	}
	if created {
		log.Info("default admin created", zap.String("username", cfg.Admin.Username), zap.String("email", cfg.Admin.Email))
		return
	}
	log.Info("admin already exists, nothing to do", zap.String("username", cfg.Admin.Username))
}
