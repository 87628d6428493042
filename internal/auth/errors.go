package auth

import "errors"

// Ошибки токена. Текст каждой ошибки отдается клиенту в ответе 401.
var (
	ErrTokenMissing   = errors.New("authorization token missing")
	ErrTokenMalformed = errors.New("authorization token malformed")
	ErrTokenExpired   = errors.New("authorization token expired")
	ErrUnknownSubject = errors.New("authorization token subject unknown")

	ErrSigningKeyMissing = errors.New("jwt signing key is not configured")
)

// IsAuthError сообщает, относится ли ошибка к отказу в аутентификации
// (в отличие от сбоя хранилища).
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUnknownSubject)
}
