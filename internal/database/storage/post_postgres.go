package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postColumns = `id, title, content, image_url, image_key, author_id, created_at, updated_at`

// PostgresStorage реализует интерфейс ports.PostStorage поверх sqlx
type PostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresStorage(db *sqlx.DB, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// SavePost сохраняет новую публикацию
func (s *PostgresStorage) SavePost(ctx context.Context, post *domain.Post) error {
	start := time.Now()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	query := `
	INSERT INTO posts (id, title, content, image_url, image_key, author_id, created_at, updated_at)
	VALUES (:id, :title, :content, :image_url, :image_key, :author_id, :created_at, :updated_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, post); err != nil {
		s.logger.Error("failed to save post", "post_id", post.ID, "error", err)
		return fmt.Errorf("insert post: %w", err)
	}

	s.logger.Info("post saved successfully",
		"post_id", post.ID,
		"author_id", post.AuthorID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetPostByID получает публикацию по ID
func (s *PostgresStorage) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	start := time.Now()

	var post domain.Post
	err := s.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM posts WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("post not found by id", "post_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get post by id", "post_id", id, "error", err)
		return nil, fmt.Errorf("select post by id: %w", err)
	}

	s.logger.Debug("post retrieved by id",
		"post_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &post, nil
}

// UpdatePost сохраняет изменяемые поля публикации
func (s *PostgresStorage) UpdatePost(ctx context.Context, post *domain.Post) error {
	start := time.Now()
	post.UpdatedAt = time.Now().UTC()

	query := `
	UPDATE posts
	SET title = :title, content = :content, image_url = :image_url, image_key = :image_key, updated_at = :updated_at
	WHERE id = :id
	`

	if _, err := s.db.NamedExecContext(ctx, query, post); err != nil {
		s.logger.Error("failed to update post", "post_id", post.ID, "error", err)
		return fmt.Errorf("update post: %w", err)
	}

	s.logger.Info("post updated successfully",
		"post_id", post.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeletePost удаляет публикацию; лайки и комментарии удаляются каскадно
func (s *PostgresStorage) DeletePost(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		s.logger.Error("failed to delete post", "post_id", id, "error", err)
		return fmt.Errorf("delete post: %w", err)
	}

	s.logger.Info("post deleted successfully",
		"post_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListPosts получает ленту публикаций с пагинацией
func (s *PostgresStorage) ListPosts(ctx context.Context, page, perPage int) ([]domain.PostView, error) {
	start := time.Now()

	q := `
	SELECT p.id, p.title, p.content, p.image_url, p.created_at, p.updated_at,
	       u.id AS author_id, u.username AS author_username, u.email AS author_email
	FROM posts p
	JOIN users u ON u.id = p.author_id
	ORDER BY p.created_at DESC
	LIMIT $1 OFFSET $2
	`

	var posts []FeedPostRow
	if err := s.db.SelectContext(ctx, &posts, q, perPage, PaginationOffset(page, perPage)); err != nil {
		s.logger.Error("failed to list posts", "page", page, "per_page", perPage, "error", err)
		return nil, fmt.Errorf("select posts: %w", err)
	}
	if len(posts) == 0 {
		return []domain.PostView{}, nil
	}

	ids := FeedPostIDs(posts)

	likesQuery, likesArgs, err := sqlx.In(`
	SELECT l.post_id, u.id AS user_id, u.username
	FROM post_likes l
	JOIN users u ON u.id = l.user_id
	WHERE l.post_id IN (?)
	ORDER BY l.created_at
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("build likes query: %w", err)
	}
	var likes []FeedLikeRow
	if err := s.db.SelectContext(ctx, &likes, s.db.Rebind(likesQuery), likesArgs...); err != nil {
		s.logger.Error("failed to list post likes", "error", err)
		return nil, fmt.Errorf("select post likes: %w", err)
	}

	commentsQuery, commentsArgs, err := sqlx.In(`
	SELECT c.id, c.post_id, c.text, c.created_at, u.id AS user_id, u.username
	FROM comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.post_id IN (?)
	ORDER BY c.created_at
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("build comments query: %w", err)
	}
	var comments []FeedCommentRow
	if err := s.db.SelectContext(ctx, &comments, s.db.Rebind(commentsQuery), commentsArgs...); err != nil {
		s.logger.Error("failed to list post comments", "error", err)
		return nil, fmt.Errorf("select post comments: %w", err)
	}

	s.logger.Info("listed posts successfully",
		"page", page,
		"per_page", perPage,
		"count", len(posts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return AssembleFeed(posts, likes, comments), nil
}

// ToggleLike ставит лайк, если его не было, и снимает, если был.
// Выполняется в одной транзакции вместе с подсчетом.
func (s *PostgresStorage) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (int, bool, error) {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin like transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		s.logger.Error("failed to remove like", "post_id", postID, "user_id", userID, "error", err)
		return 0, false, fmt.Errorf("delete like: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("delete like rows affected: %w", err)
	}

	liked := removed == 0
	if liked {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			postID, userID, time.Now().UTC())
		if err != nil {
			s.logger.Error("failed to add like", "post_id", postID, "user_id", userID, "error", err)
			return 0, false, fmt.Errorf("insert like: %w", err)
		}
	}

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID); err != nil {
		return 0, false, fmt.Errorf("count likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit like transaction: %w", err)
	}

	s.logger.Info("post like toggled",
		"post_id", postID,
		"user_id", userID,
		"liked", liked,
		"likes_count", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return count, liked, nil
}

// AddComment сохраняет комментарий к публикации
func (s *PostgresStorage) AddComment(ctx context.Context, comment *domain.Comment) error {
	start := time.Now()

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
	INSERT INTO comments (id, post_id, user_id, text, created_at)
	VALUES (:id, :post_id, :user_id, :text, :created_at)
	`, comment)
	if err != nil {
		s.logger.Error("failed to add comment", "post_id", comment.PostID, "error", err)
		return fmt.Errorf("insert comment: %w", err)
	}

	s.logger.Info("comment added successfully",
		"comment_id", comment.ID,
		"post_id", comment.PostID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
