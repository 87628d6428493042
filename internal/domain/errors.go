package domain

import "errors"

var (
	// ошибки входных данных
	ErrValidation = errors.New("validation error")

	// ошибки аутентификации; текст совпадает с телом ответа клиенту
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrRegistration       = errors.New("User registration failed")

	// ошибки публикаций
	ErrPostNotFound = errors.New("Post not found")
	ErrForbidden    = errors.New("not the author of this post")
	ErrImageUpload  = errors.New("Image upload failed")
)
