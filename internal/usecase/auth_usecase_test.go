package usecase_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain/entity"
	"tradepost/internal/infrastructure/auth"
	"tradepost/internal/usecase"
	apperrors "tradepost/pkg/errors"
)

func newAuthFixture() (*usecase.AuthUseCase, *fakeUserRepo) {
	users := newFakeUserRepo()
	tokens := auth.NewTokenManager("test-secret", 60)
	return usecase.NewAuthUseCase(users, tokens), users
}

func registerInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    gofakeit.Email(),
		Username: gofakeit.Username(),
		Password: "correct horse battery",
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates an active user and issues a token", func(t *testing.T) {
		uc, _ := newAuthFixture()
		input := registerInput()

		result, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		assert.NotEmpty(t, result.Token)
		assert.Positive(t, result.ExpiresIn)
		assert.Equal(t, input.Email, result.User.Email)
		assert.Equal(t, entity.UserRoleUser, result.User.Role)
		assert.Equal(t, entity.UserStatusActive, result.User.Status)
		assert.NotEqual(t, input.Password, result.User.PasswordHash)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		uc, _ := newAuthFixture()
		input := registerInput()

		_, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		input.Username = gofakeit.Username()
		_, err = uc.Register(t.Context(), input)
		assert.True(t, apperrors.Is(err, "CONFLICT"))
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		uc, _ := newAuthFixture()
		input := registerInput()

		_, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		input.Email = gofakeit.Email()
		_, err = uc.Register(t.Context(), input)
		assert.True(t, apperrors.Is(err, "CONFLICT"))
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials succeed and stamp last login", func(t *testing.T) {
		uc, users := newAuthFixture()
		input := registerInput()

		registered, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		result, err := uc.Login(t.Context(), input.Email, input.Password)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)

		stored, err := users.GetByID(t.Context(), registered.User.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		uc, _ := newAuthFixture()
		input := registerInput()

		_, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		_, err = uc.Login(t.Context(), input.Email, "not the password")
		assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		uc, _ := newAuthFixture()
		input := registerInput()

		_, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		_, wrongPassword := uc.Login(t.Context(), input.Email, "not the password")
		_, unknownEmail := uc.Login(t.Context(), gofakeit.Email(), input.Password)

		assert.EqualError(t, unknownEmail, wrongPassword.Error())
	})

	t.Run("deactivated account is unauthorized", func(t *testing.T) {
		uc, users := newAuthFixture()
		input := registerInput()

		registered, err := uc.Register(t.Context(), input)
		require.NoError(t, err)

		stored, err := users.GetByID(t.Context(), registered.User.ID)
		require.NoError(t, err)
		stored.Status = entity.UserStatusDeleted
		require.NoError(t, users.Update(t.Context(), stored))

		_, err = uc.Login(t.Context(), input.Email, input.Password)
		assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
	})
}
