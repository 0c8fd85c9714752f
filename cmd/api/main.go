package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"foodgram/internal/access"
	"foodgram/internal/app"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logger"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
)

func main() {
	// .env is optional: in containers everything comes from the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync(zl)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	if n, err := repository.NewIngredientRepository(db).BackfillSearchKeys(context.Background()); err != nil {
		zl.Fatal("ingredient search backfill failed", zap.Error(err))
	} else if n > 0 {
		zl.Info("ingredient search keys backfilled", zap.Int("rows", n))
	}

	router := app.NewRouter(app.Options{
		DB:          db,
		JWT:         jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Policy:      access.New(cfg.RecipeEditGuard),
		Logger:      zl,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		zl.Info("http server started",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("env", cfg.AppEnv),
			zap.Bool("recipe_edit_guard", cfg.RecipeEditGuard),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
