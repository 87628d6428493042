package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/GoArmGo/SocialApp/internal/core/ports"
	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// Параметры пагинации ленты
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 1_000_000
)

// postUseCase implements PostUseCase
type postUseCase struct {
	posts   ports.PostStorage
	files   ports.FileStorage
	cleanup ports.ImageCleanupPublisher
	logger  *slog.Logger
}

// NewPostUseCase создает новый экземпляр PostUseCase
func NewPostUseCase(
	posts ports.PostStorage,
	files ports.FileStorage,
	cleanup ports.ImageCleanupPublisher,
	logger *slog.Logger,
) PostUseCase {
	return &postUseCase{
		posts:   posts,
		files:   files,
		cleanup: cleanup,
		logger:  logger,
	}
}

// NormalizePage приводит параметры пагинации к допустимым значениям
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func (uc *postUseCase) ListPosts(ctx context.Context, page, perPage int) ([]domain.PostView, error) {
	page, perPage = NormalizePage(page, perPage)

	posts, err := uc.posts.ListPosts(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("usecase: list posts: %w", err)
	}
	return posts, nil
}

func (uc *postUseCase) CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New(),
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  in.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Image != nil {
		stored, err := uc.uploadImage(ctx, post.ID, in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = stored.URL
		post.ImageKey = stored.Key
	}

	if err := uc.posts.SavePost(ctx, post); err != nil {
		if post.ImageKey != "" {
			uc.scheduleCleanup(ctx, post.ImageKey, post.ID, payloads.CleanupReasonSaveFailed)
		}
		return nil, fmt.Errorf("usecase: save post: %w", err)
	}

	uc.logger.Info("post created", "post_id", post.ID, "author_id", post.AuthorID, "has_image", post.ImageKey != "")
	return post, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, in UpdatePostInput) (*domain.Post, error) {
	post, err := uc.authoredPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}

	var replacedKey, uploadedKey string
	if in.Image != nil {
		stored, err := uc.uploadImage(ctx, post.ID, in.Image)
		if err != nil {
			return nil, err
		}
		replacedKey = post.ImageKey
		uploadedKey = stored.Key
		post.ImageURL = stored.URL
		post.ImageKey = stored.Key
	}

	if err := uc.posts.UpdatePost(ctx, post); err != nil {
		// старое изображение остается в посте, удаляем только новое
		if uploadedKey != "" {
			uc.scheduleCleanup(ctx, uploadedKey, post.ID, payloads.CleanupReasonSaveFailed)
		}
		return nil, fmt.Errorf("usecase: update post %s: %w", post.ID, err)
	}

	if replacedKey != "" {
		uc.scheduleCleanup(ctx, replacedKey, post.ID, payloads.CleanupReasonImageReplace)
	}

	uc.logger.Info("post updated", "post_id", post.ID)
	return post, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID, userID uuid.UUID) error {
	post, err := uc.authoredPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	if err := uc.posts.DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("usecase: delete post %s: %w", post.ID, err)
	}

	if post.ImageKey != "" {
		uc.scheduleCleanup(ctx, post.ImageKey, post.ID, payloads.CleanupReasonPostDeleted)
	}

	uc.logger.Info("post deleted", "post_id", post.ID)
	return nil
}

func (uc *postUseCase) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*LikeResult, error) {
	if _, err := uc.existingPost(ctx, postID); err != nil {
		return nil, err
	}

	count, liked, err := uc.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: toggle like on post %s: %w", postID, err)
	}
	return &LikeResult{LikesCount: count, LikedByUser: liked}, nil
}

func (uc *postUseCase) AddComment(ctx context.Context, postID uuid.UUID, user domain.PublicUser, text string) (*domain.CommentView, error) {
	if _, err := uc.existingPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    user.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.posts.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("usecase: add comment to post %s: %w", postID, err)
	}

	return &domain.CommentView{
		ID:        comment.ID,
		Text:      comment.Text,
		User:      domain.UserRef{ID: user.ID, Username: user.Username},
		CreatedAt: comment.CreatedAt,
	}, nil
}

func (uc *postUseCase) existingPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	post, err := uc.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: load post %s: %w", postID, err)
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (uc *postUseCase) authoredPost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	post, err := uc.existingPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func (uc *postUseCase) uploadImage(ctx context.Context, postID uuid.UUID, img *ImageUpload) (domain.StoredFile, error) {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := ImageObjectKey(postID, img.FileName)
	stored, err := uc.files.UploadFile(ctx, key, img.Reader, contentType)
	if err != nil {
		uc.logger.Error("image upload failed", "error", err, "post_id", postID, "key", key)
		return domain.StoredFile{}, fmt.Errorf("%w: %v", domain.ErrImageUpload, err)
	}
	return stored, nil
}

// scheduleCleanup ставит изображение на удаление. Ошибка только логируется.
func (uc *postUseCase) scheduleCleanup(ctx context.Context, key string, postID uuid.UUID, reason string) {
	payload := payloads.ImageCleanupPayload{
		ObjectKey: key,
		PostID:    postID.String(),
		Reason:    reason,
	}
	if err := uc.cleanup.PublishImageCleanup(ctx, payload); err != nil {
		uc.logger.Warn("failed to schedule image cleanup", "error", err, "object_key", key, "post_id", postID)
	}
}

// ImageObjectKey строит уникальный ключ объекта: posts/<post>/<uuid><ext>
func ImageObjectKey(postID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("posts/%s/%s%s", postID, uuid.NewString(), ext)
}
