package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/SocialApp/internal/config"
	"github.com/GoArmGo/SocialApp/internal/core/ports"
	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// CleanupHandler обрабатывает одну задачу очистки изображения
type CleanupHandler func(context.Context, payloads.ImageCleanupPayload) error

type App struct {
	Config          *config.Config
	logger          *slog.Logger
	router          http.Handler
	cleanupConsumer ports.ImageCleanupConsumer
	cleanupHandler  CleanupHandler
	closers         []func() error
}

// NewApp собирает приложение. cleanupConsumer может быть nil, если RabbitMQ не настроен:
// тогда доступен только режим server.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	cleanupConsumer ports.ImageCleanupConsumer,
	cleanupHandler CleanupHandler,
	closers ...func() error,
) *App {
	return &App{
		Config:          cfg,
		logger:          logger,
		router:          router,
		cleanupConsumer: cleanupConsumer,
		cleanupHandler:  cleanupHandler,
		closers:         closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает выбранный режим и блокируется до SIGINT/SIGTERM или отмены ctx
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting app", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.router, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.cleanupConsumer, a.cleanupHandler, a.logger)
	default:
		err = fmt.Errorf("unknown mode %q (use %q or %q)", mode, ModeServer, ModeWorker)
	}

	a.logger.Info("shutting down")
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("error during shutdown", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
