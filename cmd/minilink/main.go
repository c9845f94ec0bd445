package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/auth"
	"github.com/minilink/shortener/internal/config"
	"github.com/minilink/shortener/internal/database"
	"github.com/minilink/shortener/internal/handlers"
	"github.com/minilink/shortener/internal/repositories"
	"github.com/minilink/shortener/internal/router"
	"github.com/minilink/shortener/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Некорректная конфигурация: ", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД: ", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
		logger.Fatal("Не удалось применить миграции: ", zap.Error(err))
	}

	linkRepo := repositories.NewLinkRepository(db)
	eventRepo := repositories.NewAnalyticsRepository(db)

	shortenerService := service.NewShortenerService(linkRepo, eventRepo, logger)
	analyticsService := service.NewAnalyticsService(eventRepo, logger)

	authService := auth.New(cfg.AuthSecret)

	handler := handlers.NewHandler(shortenerService, analyticsService, logger, cfg.BaseURL)

	r := router.NewRouter(handler, authService, logger)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: r,
	}

	go func() {
		logger.Info("Сервер запущен на ", zap.String("address", cfg.ServerAddress))

		var err error
		if cfg.EnableHTTPS {
			err = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка при запуске сервера: ", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
}
