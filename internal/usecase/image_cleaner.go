package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SocialApp/internal/core/ports"
	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
)

// DirectImageCleaner удаляет изображения сразу, без очереди.
// Используется, когда RABBITMQ_URL не задан.
type DirectImageCleaner struct {
	files  ports.FileStorage
	logger *slog.Logger
}

func NewDirectImageCleaner(files ports.FileStorage, logger *slog.Logger) *DirectImageCleaner {
	return &DirectImageCleaner{files: files, logger: logger}
}

// PublishImageCleanup реализует ports.ImageCleanupPublisher
func (c *DirectImageCleaner) PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error {
	return NewImageCleanupHandler(c.files, c.logger)(ctx, payload)
}

// NewImageCleanupHandler возвращает обработчик задач очистки для воркера
func NewImageCleanupHandler(files ports.FileStorage, logger *slog.Logger) func(context.Context, payloads.ImageCleanupPayload) error {
	return func(ctx context.Context, payload payloads.ImageCleanupPayload) error {
		if err := files.DeleteFile(ctx, payload.ObjectKey); err != nil {
			return fmt.Errorf("usecase: delete image %s: %w", payload.ObjectKey, err)
		}
		logger.Info("image removed",
			"object_key", payload.ObjectKey,
			"post_id", payload.PostID,
			"reason", payload.Reason,
		)
		return nil
	}
}
