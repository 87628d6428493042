// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет учетную запись пользователя.
// Соответствует таблице 'users' в базе данных.
// PasswordHash заполняется один раз при регистрации и никогда не сериализуется.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Public возвращает проекцию пользователя без хеша пароля
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// PublicUser — единственное представление пользователя, которое уходит клиенту.
type PublicUser struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Email    string    `json:"email" db:"email"`
}

// UserRef — краткая ссылка на пользователя (лайки, комментарии)
type UserRef struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
}
