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

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"auth_backend/internal/app/di"
	"auth_backend/internal/app/router"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	authusecase "auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/chaotichash"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/db"
	platformhandler "auth_backend/internal/platform/http/handler"
	"auth_backend/internal/platform/logger"
	infraredis "auth_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.Fatalf("setup logger: %v", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run serves until ctx is cancelled or the listener fails.
// Database and Redis handles are closed on every return path.
func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	srv, cleanup, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("bye")
	return nil
}

// build wires every dependency. The returned cleanup closes Redis and the database.
func build(ctx context.Context, cfg config.Config, log *logrus.Logger) (*http.Server, func(), error) {
	// db
	gdb, err := db.Open(db.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, cfg.Database.ConnectTimeout, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(gdb); err != nil {
			log.WithError(err).Error("failed to close database")
		}
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	// Redis
	rdb := connectRedis(ctx, cfg, log)
	cleanup := func() {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Error("failed to close Redis client")
			}
		}
		closeDB()
	}

	// Repository (Redisキャッシュでラップ)
	userRepo := di.NewUserRepository(rdb, gdb, cfg.Cache.TTL, cfg.Cache.Namespace)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, chaotichash.New(), log)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, log)
	healthH := platformhandler.NewHealthHandler(log, healthChecks(gdb)...)

	// ルータ生成
	r := router.NewRouter(authH, healthH, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, cleanup, nil
}

// connectRedis returns nil when Redis is not configured or unreachable; the service then runs without cache.
func connectRedis(ctx context.Context, cfg config.Config, log *logrus.Logger) *redisv9.Client {
	if cfg.Redis.Addr == "" {
		log.Info("redis.addr not set. Running without cache.")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rdb, err := infraredis.NewRedisClient(pingCtx, infraredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Warn("Redis unavailable. Running without cache.")
		return nil
	}
	return rdb
}

// healthChecks lists the dependencies /healthz reports on. Redis is optional and left out.
func healthChecks(gdb *gorm.DB) []platformhandler.Check {
	return []platformhandler.Check{{
		Name: "database",
		Fn: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
}
