package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
)

// UserLoader описывает часть хранилища пользователей, нужную для проверки личности.
// Возвращает (nil, nil), если пользователь не найден.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TokenVerifier проверяет токен и возвращает subject
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticator превращает заголовок Authorization в личность пользователя
type Authenticator struct {
	tokens TokenVerifier
	users  UserLoader
}

func NewAuthenticator(tokens TokenVerifier, users UserLoader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate проходит шаги: извлечь bearer-токен, проверить его,
// загрузить пользователя по subject. Любая ошибка означает отказ.
// ErrToken* и ErrUnknownSubject означают отказ в доступе, остальные ошибки считаются сбоем хранилища.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (domain.PublicUser, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return domain.PublicUser{}, ErrTokenMissing
	}

	subject, err := a.tokens.Verify(token)
	if err != nil {
		return domain.PublicUser{}, err
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return domain.PublicUser{}, ErrUnknownSubject
	}

	user, err := a.users.GetUserByID(ctx, id)
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("load token subject %s: %w", id, err)
	}
	if user == nil {
		return domain.PublicUser{}, ErrUnknownSubject
	}

	return user.Public(), nil
}

// BearerToken извлекает токен из значения "Bearer <token>"
func BearerToken(authorization string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

type identityKey struct{}

// WithIdentity кладет аутентифицированного пользователя в контекст запроса
func WithIdentity(ctx context.Context, user domain.PublicUser) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFromContext достает пользователя, положенного RequireAuth
func IdentityFromContext(ctx context.Context) (domain.PublicUser, bool) {
	user, ok := ctx.Value(identityKey{}).(domain.PublicUser)
	return user, ok
}
