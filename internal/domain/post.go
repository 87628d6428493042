package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post представляет публикацию пользователя,
// соответствует таблице posts в бд
type Post struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	ImageKey  string    `json:"-" db:"image_key"`
	AuthorID  uuid.UUID `json:"author" db:"author_id" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// PostLike — связующая модель лайка, соответствует таблице post_likes в бд
type PostLike struct {
	PostID    uuid.UUID `json:"post_id" db:"post_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

// Comment представляет комментарий к публикации,
// соответствует таблице comments в бд
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" db:"post_id" gorm:"type:uuid"`
	UserID    uuid.UUID `json:"-" db:"user_id" gorm:"type:uuid"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentView — комментарий вместе с автором
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView — публикация для ленты: автор, лайки и комментарии уже подставлены
type PostView struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	ImageURL  string        `json:"image_url"`
	Author    PublicUser    `json:"author"`
	Likes     []UserRef     `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// StoredFile описывает файл, загруженный во внешнее хранилище изображений.
// Key нужен для последующего удаления, URL отдается клиенту.
type StoredFile struct {
	Key string
	URL string
}
