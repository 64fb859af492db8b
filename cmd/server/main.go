package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"parking_control/internal/app/di"
	"parking_control/internal/app/router"
	authadapters "parking_control/internal/feature/auth/adapters"
	authhandler "parking_control/internal/feature/auth/transport/handler"
	authusecase "parking_control/internal/feature/auth/usecase"
	parkingspotadapters "parking_control/internal/feature/parkingspot/adapters"
	parkingspothandler "parking_control/internal/feature/parkingspot/transport/handler"
	parkingspotusecase "parking_control/internal/feature/parkingspot/usecase"
	platformhandler "parking_control/internal/platform/http/handler"
	jwtmw "parking_control/internal/platform/jwt"
	"parking_control/internal/platform/logging"
	platformredis "parking_control/internal/platform/redis"
	"parking_control/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logging.SetupFromEnv()

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// JWT_SECRETチェック
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	expiration, err := jwtmw.LoadExpirationFromEnv()
	if err != nil {
		return err
	}
	authLimiter, err := ratelimiter.LoadAuthLimiterFromEnv()
	if err != nil {
		return err
	}

	// db
	db, err := di.OpenDatabase()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, platformredis.LoadConfigFromEnv()); err != nil {
		slog.Warn("Redis unavailable. Revoked tokens are stored in the database.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	roleRepo := authadapters.NewRoleRepository(db)
	blocklist := di.NewTokenBlocklist(ctx, rdb, db)
	spotRepo := parkingspotadapters.NewParkingSpotRepository(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, roleRepo, blocklist, jwtmw.NewGenerator(secret, expiration))
	spotUC := parkingspotusecase.NewParkingSpotUsecase(spotRepo)

	// ロール初期化と管理者ユーザーの作成
	if err := authUC.SeedRoles(ctx); err != nil {
		return err
	}
	adminName := os.Getenv("ADMIN_USERNAME")
	created, err := authUC.EnsureAdmin(ctx, adminName, os.Getenv("ADMIN_PASSWORD"))
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin user created", "username", adminName)
	}

	// Handler
	healthH := platformhandler.NewHealthHandler(sqlDB)
	authH := authhandler.NewAuthHandler(authUC)
	spotH := parkingspothandler.NewParkingSpotHandler(spotUC)

	// ルータ生成
	if mode := os.Getenv(gin.EnvGinMode); mode != "" {
		gin.SetMode(mode)
	}
	engine := router.NewRouter(healthH, authH, spotH, blocklist, authLimiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
