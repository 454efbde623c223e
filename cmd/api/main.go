package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda-api/internal/core/auth"
	"tienda-api/internal/core/cache"
	"tienda-api/internal/core/config"
	"tienda-api/internal/core/database"
	"tienda-api/internal/core/logger"
	"tienda-api/internal/core/server"
	"tienda-api/internal/domain"
	"tienda-api/internal/notify"
	"tienda-api/internal/repo"
	"tienda-api/internal/service"
	"tienda-api/internal/transport/http/handler"
	"tienda-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.VerificationCode{},
			&domain.Category{},
			&domain.Product{},
			&domain.Cart{},
			&domain.CartItem{},
			&domain.Sale{},
			&domain.SaleDetail{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHrs) * time.Hour,
	}

	mailer := notify.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From)
	dispatcher := notify.NewDispatcher(mailer, log, cfg.Mail.QueueSize)
	dispatcher.Start()

	var catalogCache *cache.Cache
	if cfg.Redis.Addr != "" {
		catalogCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	userRepo := repo.NewUserRepo(db)
	codeRepo := repo.NewCodeRepo(db)
	catalogRepo := repo.NewCatalogRepo(db)
	cartRepo := repo.NewCartRepo(db)

	accountsSvc := service.NewAccounts(userRepo, codeRepo, jwter, dispatcher, cfg, log)
	catalogSvc := service.NewCatalog(catalogRepo, catalogCache, mailer, cfg, log)
	cartSvc := service.NewCart(cartRepo, catalogRepo, userRepo, log)
	checkoutSvc := service.NewCheckout(db, dispatcher, cfg, log)

	if created, err := accountsSvc.EnsureAdmin(context.Background()); err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	} else if created {
		log.Info("default admin created", zap.String("email", cfg.Admin.Email))
	}

	r := router.NewEngine(log, jwter, router.Handlers{
		Accounts: handler.NewAccountsHandler(accountsSvc, cfg.Debug()),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Cart:     handler.NewCartHandler(cartSvc, checkoutSvc),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	dispatcher.Close()
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
