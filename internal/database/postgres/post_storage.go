package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SocialApp/internal/database/storage"
	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPostStorage реализует интерфейс ports.PostStorage с использованием GORM
type GormPostStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormPostStorage(db *gorm.DB, logger *slog.Logger) *GormPostStorage {
	return &GormPostStorage{db: db, logger: logger}
}

// SavePost сохраняет публикацию с помощью GORM
func (s *GormPostStorage) SavePost(ctx context.Context, post *domain.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("insert post with gorm: %w", err)
	}

	s.logger.Info("post saved successfully", "post_id", post.ID, "author_id", post.AuthorID)
	return nil
}

func (s *GormPostStorage) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post by id with gorm: %w", err)
	}
	return &post, nil
}

func (s *GormPostStorage) UpdatePost(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"image_key":  post.ImageKey,
			"updated_at": post.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("update post with gorm: %w", err)
	}
	return nil
}

func (s *GormPostStorage) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete post with gorm: %w", err)
	}
	return nil
}

// ListPosts получает ленту публикаций с помощью GORM
func (s *GormPostStorage) ListPosts(ctx context.Context, page, perPage int) ([]domain.PostView, error) {
	start := time.Now()
	db := s.db.WithContext(ctx)

	var posts []storage.FeedPostRow
	err := db.Table("posts AS p").
		Select("p.id, p.title, p.content, p.image_url, p.created_at, p.updated_at, " +
			"u.id AS author_id, u.username AS author_username, u.email AS author_email").
		Joins("JOIN users AS u ON u.id = p.author_id").
		Order("p.created_at DESC").
		Limit(perPage).
		Offset(storage.PaginationOffset(page, perPage)).
		Scan(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("select posts with gorm: %w", err)
	}
	if len(posts) == 0 {
		return []domain.PostView{}, nil
	}

	ids := storage.FeedPostIDs(posts)

	var likes []storage.FeedLikeRow
	err = db.Table("post_likes AS l").
		Select("l.post_id, u.id AS user_id, u.username").
		Joins("JOIN users AS u ON u.id = l.user_id").
		Where("l.post_id IN ?", ids).
		Order("l.created_at").
		Scan(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("select post likes with gorm: %w", err)
	}

	var comments []storage.FeedCommentRow
	err = db.Table("comments AS c").
		Select("c.id, c.post_id, c.text, c.created_at, u.id AS user_id, u.username").
		Joins("JOIN users AS u ON u.id = c.user_id").
		Where("c.post_id IN ?", ids).
		Order("c.created_at").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("select post comments with gorm: %w", err)
	}

	s.logger.Info("listed posts successfully",
		"page", page,
		"per_page", perPage,
		"count", len(posts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return storage.AssembleFeed(posts, likes, comments), nil
}

// ToggleLike ставит или снимает лайк в одной транзакции
func (s *GormPostStorage) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (int, bool, error) {
	var (
		count int64
		liked bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.PostLike{})
		if res.Error != nil {
			return fmt.Errorf("delete like: %w", res.Error)
		}

		liked = res.RowsAffected == 0
		if liked {
			like := domain.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return fmt.Errorf("insert like: %w", err)
			}
		}

		return tx.Model(&domain.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	})
	if err != nil {
		return 0, false, fmt.Errorf("toggle like with gorm: %w", err)
	}

	return int(count), liked, nil
}

func (s *GormPostStorage) AddComment(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("insert comment with gorm: %w", err)
	}
	return nil
}
