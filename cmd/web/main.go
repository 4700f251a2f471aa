package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/config"
	"github.com/SergeiKhy/chowlink/internal/handler"
	"github.com/SergeiKhy/chowlink/internal/middleware"
	"github.com/SergeiKhy/chowlink/internal/repository"
	"github.com/SergeiKhy/chowlink/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)

	// Хранилище токена
	store, closeStore, err := repository.OpenTokenStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to open token store", zap.String("driver", cfg.TokenStore.Driver), zap.Error(err))
	}
	defer closeStore()
	logger.Info("Token store ready", zap.String("driver", cfg.TokenStore.Driver))

	// Клиент бэкенда и сервисы
	api := apiclient.New(cfg.API, logger.Named("api"))
	auth := service.NewAuthClient(api, store, cfg.API.Password, logger)
	session := service.NewSessionBootstrapper(store, auth, logger)
	submitter := service.NewLinkSubmitter(api, store, auth, session, logger)
	categories := service.NewCategoryFetcher(api, logger)

	// Ограничение отправок формы
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		CleanupInterval:   time.Minute,
	})
	defer rateLimiter.Stop()

	pages := handler.NewPageHandler(session, submitter, categories, cfg.API.DetailBaseURL, logger)
	router := handler.NewRouter(pages, rateLimiter, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.App.Port),
			zap.String("backend", cfg.API.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newLogger production-логгер с уровнем из конфига
func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}
