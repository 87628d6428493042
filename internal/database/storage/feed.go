package storage

import (
	"math"
	"time"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
)

// FeedPostRow хранит строку ленты: пост вместе с автором
type FeedPostRow struct {
	ID             uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	Content        string    `db:"content"`
	ImageURL       string    `db:"image_url"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	AuthorID       uuid.UUID `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	AuthorEmail    string    `db:"author_email"`
}

// FeedLikeRow хранит лайк поста вместе с именем пользователя
type FeedLikeRow struct {
	PostID   uuid.UUID `db:"post_id"`
	UserID   uuid.UUID `db:"user_id"`
	Username string    `db:"username"`
}

// FeedCommentRow хранит комментарий вместе с именем автора
type FeedCommentRow struct {
	ID        uuid.UUID `db:"id"`
	PostID    uuid.UUID `db:"post_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	UserID    uuid.UUID `db:"user_id"`
	Username  string    `db:"username"`
}

// PaginationOffset переводит page/perPage в OFFSET.
// При переполнении возвращает math.MaxInt: такая страница заведомо пуста.
func PaginationOffset(page, perPage int) int {
	if page <= 1 || perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// FeedPostIDs возвращает ID постов в исходном порядке
func FeedPostIDs(posts []FeedPostRow) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

// AssembleFeed собирает PostView из строк постов, лайков и комментариев.
// Порядок постов сохраняется, лайки и комментарии идут в порядке строк.
func AssembleFeed(posts []FeedPostRow, likes []FeedLikeRow, comments []FeedCommentRow) []domain.PostView {
	views := make([]domain.PostView, len(posts))
	index := make(map[uuid.UUID]int, len(posts))

	for i, p := range posts {
		index[p.ID] = i
		views[i] = domain.PostView{
			ID:       p.ID,
			Title:    p.Title,
			Content:  p.Content,
			ImageURL: p.ImageURL,
			Author: domain.PublicUser{
				ID:       p.AuthorID,
				Username: p.AuthorUsername,
				Email:    p.AuthorEmail,
			},
			Likes:     []domain.UserRef{},
			Comments:  []domain.CommentView{},
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}

	for _, l := range likes {
		i, ok := index[l.PostID]
		if !ok {
			continue
		}
		views[i].Likes = append(views[i].Likes, domain.UserRef{ID: l.UserID, Username: l.Username})
	}

	for _, c := range comments {
		i, ok := index[c.PostID]
		if !ok {
			continue
		}
		views[i].Comments = append(views[i].Comments, domain.CommentView{
			ID:        c.ID,
			Text:      c.Text,
			User:      domain.UserRef{ID: c.UserID, Username: c.Username},
			CreatedAt: c.CreatedAt,
		})
	}

	return views
}
