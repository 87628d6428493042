package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Методы Get* возвращают (nil, nil), если запись не найдена.
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// PostStorage определяет методы для взаимодействия с хранилищем публикаций
type PostStorage interface {
	SavePost(ctx context.Context, post *domain.Post) error
	GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	// ListPosts возвращает ленту (новые сверху) с подставленными авторами, лайками и комментариями
	ListPosts(ctx context.Context, page, perPage int) ([]domain.PostView, error)

	// ToggleLike ставит или снимает лайк пользователя и возвращает итоговое число лайков
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (likesCount int, liked bool, err error)

	AddComment(ctx context.Context, comment *domain.Comment) error
}

// FileStorage определяет интерфейс внешнего хостинга изображений (MinIO/S3, ImageKit)
type FileStorage interface {
	// UploadFile загружает файл и возвращает ключ (для удаления) и публичный URL.
	// `key` — желаемое имя объекта, провайдер может выдать свой ключ.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (domain.StoredFile, error)

	// DeleteFile удаляет файл из хранилища по его ключу
	DeleteFile(ctx context.Context, key string) error
}
