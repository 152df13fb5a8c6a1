package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techrent/internal/config"
	"techrent/internal/database"
	"techrent/internal/domain/auth"
	"techrent/internal/domain/booking"
	"techrent/internal/domain/feed"
	"techrent/internal/identity"
	"techrent/internal/notification"
	"techrent/internal/pkg/jwt"
	"techrent/internal/pkg/logger"
	"techrent/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, server.Models()...); err != nil {
			zlog.Fatal("migration failed", zap.Error(err))
		}
	}

	deps := server.Deps{
		DB:          db,
		Log:         zlog,
		Hub:         feed.NewHub(zlog),
		Location:    cfg.Timezone,
		CORSOrigins: cfg.CORSAllowedOrigins,
	}

	switch cfg.AuthProvider {
	case config.ProviderSupabase:
		roles, err := identity.NewSupabaseRoles(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			zlog.Fatal("supabase roles", zap.Error(err))
		}
		resolver, err := identity.NewSupabaseResolver(ctx, cfg.SupabaseURL, roles)
		if err != nil {
			zlog.Fatal("supabase jwks", zap.Error(err))
		}
		defer resolver.Close()
		deps.Resolver = resolver
		deps.Roles = roles
		zlog.Info("identities from supabase", zap.String("url", cfg.SupabaseURL))
	default:
		tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
		deps.Tokens = tokens
		deps.Resolver = identity.NewLocalResolver(tokens, auth.NewRepository(db))
		zlog.Info("identities issued locally")
	}

	var telegram *notification.Telegram
	if cfg.TelegramEnabled() {
		telegram, err = notification.NewTelegram(cfg.TelegramToken, cfg.TelegramAdminChatID, zlog)
		if err != nil {
			zlog.Fatal("telegram", zap.Error(err))
		}
		deps.Notifiers = []booking.Notifier{telegram}
		zlog.Info("telegram notifications enabled", zap.Int64("chat_id", cfg.TelegramAdminChatID))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
	}
	deps.Hub.Close()
	if telegram != nil {
		telegram.Wait()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("server exited")
}
