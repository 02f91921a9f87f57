package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/auth"
	apperrors "tradepost/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetUser returns a user profile. Only the user themselves or an admin may
// look up a profile by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, requesterID, targetID uuid.UUID) (*entity.User, error) {
	if requesterID != targetID {
		requester, err := uc.userRepo.GetByID(ctx, requesterID)
		if err != nil {
			return nil, apperrors.Internal("Failed to look up requester", err)
		}
		if !requester.IsAdmin() {
			return nil, apperrors.Forbidden("You don't have permission to view this user", nil)
		}
	}

	user, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User", err)
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, update entity.UserUpdate) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User", err)
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	user.ApplyUpdate(update)

	if err := uc.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("username already taken")
		}
		return nil, apperrors.Internal("Failed to update user", err)
	}

	return user, nil
}

func (uc *UserUseCase) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User", err)
		}
		return apperrors.Internal("Failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return apperrors.Unauthorized("current password is incorrect", nil)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}

	return nil
}

// Deactivate soft-deletes the account. User rows are never removed; the
// status flips to deleted and login is refused from then on.
func (uc *UserUseCase) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User", err)
		}
		return apperrors.Internal("Failed to look up user", err)
	}

	user.Status = entity.UserStatusDeleted
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return apperrors.Internal("Failed to deactivate user", err)
	}

	return nil
}
