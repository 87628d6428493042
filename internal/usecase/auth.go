package usecase

import (
	"context"

	"github.com/GoArmGo/SocialApp/internal/domain"
)

// RegisterInput — данные регистрации. Теги validate проверяются в HTTP-слое.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// LoginInput — данные входа
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult — выданный токен и публичная проекция пользователя
type LoginResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// TokenIssuer выпускает токен доступа для пользователя
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// AuthUseCase определяет регистрацию и вход
type AuthUseCase interface {
	// Register создает пользователя. Любой сбой сохранения возвращается как domain.ErrRegistration.
	Register(ctx context.Context, in RegisterInput) error

	// Login проверяет email и пароль и выдает токен.
	// Неизвестный email и неверный пароль неразличимы: domain.ErrInvalidCredentials.
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}
