package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SocialApp/internal/core/ports"
)

var errNoQueue = errors.New("worker mode requires RABBITMQ_URL")

// runWorker потребляет задачи очистки изображений до отмены ctx
func runWorker(
	ctx context.Context,
	consumer ports.ImageCleanupConsumer,
	handler CleanupHandler,
	logger *slog.Logger,
) error {
	if consumer == nil {
		return errNoQueue
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingImageCleanup(workerCtx, handler); err != nil {
		return fmt.Errorf("start image cleanup consumer: %w", err)
	}
	logger.Info("worker started, waiting for image cleanup messages")

	<-workerCtx.Done()

	logger.Info("worker stopped")
	return nil
}
