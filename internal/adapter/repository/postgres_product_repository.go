package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradepost/internal/domain/entity"
	domainrepo "tradepost/internal/domain/repository"
)

type postgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) domainrepo.ProductRepository {
	return &postgresProductRepository{pool: pool}
}

const productColumns = `id, owner_id, title, description, price, currency, condition, sku,
	is_active, sold, created_at, updated_at`

func (r *postgresProductRepository) Create(ctx context.Context, product *entity.Product) error {
	var sku *string
	if product.SKU != "" {
		sku = &product.SKU
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (owner_id, title, description, price, currency, condition, sku, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, product.OwnerID, product.Title, product.Description, product.Price,
		product.Currency, product.Condition, sku, product.IsActive).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", mapPgError(err))
	}

	return nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", mapPgError(err))
	}

	return product, nil
}

func (r *postgresProductRepository) List(ctx context.Context, filter domainrepo.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.AvailableOnly {
		where += ` AND is_active AND NOT sold`
	}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	if filter.Condition != "" {
		args = append(args, filter.Condition)
		where += fmt.Sprintf(` AND condition = $%d`, len(args))
	}

	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		where += fmt.Sprintf(` AND price >= $%d`, len(args))
	}

	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		where += fmt.Sprintf(` AND price <= $%d`, len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *postgresProductRepository) ListByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Product, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count owner products: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE owner_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list owner products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *postgresProductRepository) Update(ctx context.Context, product *entity.Product) error {
	var sku *string
	if product.SKU != "" {
		sku = &product.SKU
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET title = $2, description = $3, price = $4, currency = $5,
			condition = $6, sku = $7, is_active = $8, updated_at = now()
		WHERE id = $1 AND NOT sold
	`, product.ID, product.Title, product.Description, product.Price,
		product.Currency, product.Condition, sku, product.IsActive)
	if err != nil {
		return fmt.Errorf("update product: %w", mapPgError(err))
	}

	// Sold products are immutable, so a miss here is either a missing row
	// or a sold one; the use case distinguishes via GetByID first.
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product: %w", domainrepo.ErrNotFound)
	}

	return nil
}

func (r *postgresProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND NOT sold`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product: %w", domainrepo.ErrNotFound)
	}

	return nil
}

func (r *postgresProductRepository) Restock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET sold = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("restock product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("restock product: %w", domainrepo.ErrNotFound)
	}

	return nil
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p   entity.Product
		sku *string
	)

	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Price, &p.Currency,
		&p.Condition, &sku, &p.IsActive, &p.Sold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if sku != nil {
		p.SKU = *sku
	}

	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var products []*entity.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}
