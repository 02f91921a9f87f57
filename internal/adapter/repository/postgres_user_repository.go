package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradepost/internal/domain/entity"
	domainrepo "tradepost/internal/domain/repository"
)

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) domainrepo.UserRepository {
	return &postgresUserRepository{pool: pool}
}

const userColumns = `id, email, username, password_hash, first_name, last_name, phone,
	role, status, email_verified, last_login, created_at, updated_at`

func (r *postgresUserRepository) Create(ctx context.Context, user *entity.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, first_name, last_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.Role, user.Status).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapPgError(err))
	}

	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", mapPgError(err))
	}

	return user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", mapPgError(err))
	}

	return user, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, user *entity.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, username = $3, password_hash = $4, first_name = $5,
			last_name = $6, phone = $7, role = $8, status = $9,
			email_verified = $10, last_login = $11, updated_at = now()
		WHERE id = $1
	`, user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName,
		user.LastName, user.Phone, user.Role, user.Status, user.EmailVerified, user.LastLogin)
	if err != nil {
		return fmt.Errorf("update user: %w", mapPgError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user: %w", domainrepo.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var u entity.User

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Phone, &u.Role, &u.Status, &u.EmailVerified,
		&u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}
