package ports

import (
	"context"

	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
)

// ImageCleanupPublisher ставит задачу на удаление изображения, которое больше не используется.
// Используется usecase публикаций при удалении поста и замене картинки.
type ImageCleanupPublisher interface {
	PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error
}

// ImageCleanupConsumer используется воркером для получения задач из очереди
type ImageCleanupConsumer interface {
	// StartConsumingImageCleanup начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingImageCleanup(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) error
}
