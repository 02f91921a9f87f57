package repository_test

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"tradepost/internal/domain/entity"
	"tradepost/internal/infrastructure/postgres"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("tradepost_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", err
	}

	return container, connStr, nil
}

func migratedPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func randomUser() *entity.User {
	return &entity.User{
		Email:        gofakeit.Email(),
		Username:     gofakeit.Username() + uuid.NewString()[:8],
		PasswordHash: "$2a$10$" + gofakeit.LetterN(53),
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
	}
}

func randomProduct(ownerID uuid.UUID) *entity.Product {
	return &entity.Product{
		OwnerID:   ownerID,
		Title:     gofakeit.ProductName(),
		Price:     decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Currency:  "EUR",
		Condition: "good",
		IsActive:  true,
	}
}
