package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
)

// ImageUpload — изображение, приложенное к публикации
type ImageUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
}

// CreatePostInput — данные новой публикации
type CreatePostInput struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
	Image    *ImageUpload
}

// UpdatePostInput — правка публикации. Пустые поля не меняют значение.
type UpdatePostInput struct {
	PostID  uuid.UUID
	UserID  uuid.UUID
	Title   string
	Content string
	Image   *ImageUpload
}

// LikeResult — состояние лайков после переключения
type LikeResult struct {
	LikesCount  int  `json:"likesCount"`
	LikedByUser bool `json:"likedByUser"`
}

// PostUseCase определяет бизнес-логику публикаций
type PostUseCase interface {
	// ListPosts возвращает ленту, новые публикации сверху
	ListPosts(ctx context.Context, page, perPage int) ([]domain.PostView, error)

	CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error)

	// UpdatePost меняет публикацию автора. Старое изображение уходит на очистку.
	UpdatePost(ctx context.Context, in UpdatePostInput) (*domain.Post, error)

	DeletePost(ctx context.Context, postID, userID uuid.UUID) error

	// ToggleLike ставит лайк, если его не было, и снимает, если был
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*LikeResult, error)

	AddComment(ctx context.Context, postID uuid.UUID, user domain.PublicUser, text string) (*domain.CommentView, error)
}
