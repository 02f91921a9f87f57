package usecase

import (
	"context"
	"errors"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/auth"
	apperrors "tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresIn int64
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("email already registered")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check existing user", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// The unique constraint closes the check-then-insert race on
		// email and also covers the username.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email or username already registered")
		}
		return nil, apperrors.Internal("Failed to create user record", err)
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(uc.tokens.Expiry().Seconds()),
	}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password both return the same Unauthorized error so the endpoint cannot
// be used to probe which emails are registered.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	if !user.IsActive() {
		return nil, apperrors.Unauthorized("account is not active", nil)
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Warn("Failed to record last login for user %s: %v", user.ID, err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(uc.tokens.Expiry().Seconds()),
	}, nil
}
