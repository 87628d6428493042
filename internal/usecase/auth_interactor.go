package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/SocialApp/internal/auth"
	"github.com/GoArmGo/SocialApp/internal/core/ports"
	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users  ports.UserStorage
	hasher auth.PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger

	// дайджест для сравнения, когда email не найден: время ответа не выдает, есть ли такой пользователь
	dummyDigest string
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(users ports.UserStorage, hasher auth.PasswordHasher, tokens TokenIssuer, logger *slog.Logger) AuthUseCase {
	dummy, err := hasher.Hash("timing-equalizer-" + uuid.NewString())
	if err != nil {
		logger.Warn("failed to prepare dummy password digest", "error", err)
	}

	return &authUseCase{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		dummyDigest: dummy,
	}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) error {
	digest, err := uc.hasher.Hash(in.Password)
	if err != nil {
		uc.logger.Error("failed to hash password", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrRegistration, err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// уникальность email обеспечивает индекс в БД
	if err := uc.users.CreateUser(ctx, user); err != nil {
		uc.logger.Error("user registration failed", "error", err, "email", user.Email)
		return fmt.Errorf("%w: %v", domain.ErrRegistration, err)
	}

	uc.logger.Info("user registered", "user_id", user.ID)
	return nil
}

func (uc *authUseCase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, fmt.Errorf("usecase: load user by email: %w", err)
	}

	if user == nil {
		uc.hasher.Verify(in.Password, uc.dummyDigest)
		return nil, domain.ErrInvalidCredentials
	}

	if !uc.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("usecase: issue token: %w", err)
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user.Public()}, nil
}
