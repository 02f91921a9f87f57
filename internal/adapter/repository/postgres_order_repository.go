package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"tradepost/internal/domain/entity"
	domainrepo "tradepost/internal/domain/repository"
)

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) domainrepo.OrderRepository {
	return &postgresOrderRepository{pool: pool}
}

const orderColumns = `id, order_number, buyer_id, seller_id, subtotal, taxes, shipping_cost,
	discounts, total, currency, status, buyer_notes, seller_notes, tracking_number,
	shipped_at, delivered_at, cancelled_at, created_at, updated_at`

// CreatePurchase is the purchase transition. The mark-sold update is
// conditional on sold=false and its affected-row count decides the outcome:
// two concurrent buyers can both read "available", but only the first
// update wins; the second sees zero rows and the transaction rolls back
// with ErrProductSold before any order row is written.
func (r *postgresOrderRepository) CreatePurchase(ctx context.Context, order *entity.Order, productID uuid.UUID) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE products SET sold = TRUE, updated_at = now()
			WHERE id = $1 AND sold = FALSE
		`, productID)
		if err != nil {
			return fmt.Errorf("mark product sold: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return domainrepo.ErrProductSold
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO orders (order_number, buyer_id, seller_id, subtotal, taxes,
				shipping_cost, discounts, total, currency, status, buyer_notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at
		`, order.OrderNumber, order.BuyerID, order.SellerID, order.Subtotal, order.Taxes,
			order.ShippingCost, order.Discounts, order.Total, order.Currency,
			order.Status, order.BuyerNotes).
			Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", mapPgError(err))
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID

			err := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, title, quantity, unit_price, currency)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, item.OrderID, item.ProductID, item.Title, item.Quantity,
				item.UnitPrice, item.Currency).
				Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert order item: %w", mapPgError(err))
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", mapPgError(err))
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *postgresOrderRepository) ListByBuyerID(ctx context.Context, buyerID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error) {
	return r.listByUserColumn(ctx, "buyer_id", buyerID, status, limit, offset)
}

func (r *postgresOrderRepository) ListBySellerID(ctx context.Context, sellerID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error) {
	return r.listByUserColumn(ctx, "seller_id", sellerID, status, limit, offset)
}

func (r *postgresOrderRepository) listByUserColumn(ctx context.Context, column string, userID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error) {
	where := fmt.Sprintf(` WHERE %s = $1`, column)
	args := []any{userID}

	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	return r.list(ctx, where, args, limit, offset)
}

func (r *postgresOrderRepository) List(ctx context.Context, filter domainrepo.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.BuyerID != nil {
		args = append(args, *filter.BuyerID)
		where += fmt.Sprintf(` AND buyer_id = $%d`, len(args))
	}

	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		where += fmt.Sprintf(` AND seller_id = $%d`, len(args))
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	return r.list(ctx, where, args, limit, offset)
}

func (r *postgresOrderRepository) list(ctx context.Context, where string, args []any, limit, offset int) ([]*entity.Order, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *postgresOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2, buyer_notes = $3, seller_notes = $4, tracking_number = $5,
			shipped_at = $6, delivered_at = $7, cancelled_at = $8, updated_at = now()
		WHERE id = $1
	`, order.ID, order.Status, order.BuyerNotes, order.SellerNotes,
		order.TrackingNumber, order.ShippedAt, order.DeliveredAt, order.CancelledAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order: %w", domainrepo.ErrNotFound)
	}

	return nil
}

func (r *postgresOrderRepository) Stats(ctx context.Context) (*domainrepo.OrderStats, error) {
	stats := &domainrepo.OrderStats{
		StatusDistribution: map[string]int64{},
	}

	var totalAmount, averageAmount decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT count(*), coalesce(sum(total), 0), coalesce(avg(total), 0) FROM orders
	`).Scan(&stats.TotalOrders, &totalAmount, &averageAmount)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	stats.TotalAmount = totalAmount.StringFixed(2)
	stats.AverageAmount = averageAmount.StringFixed(2)

	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("order status distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status distribution: %w", err)
		}
		stats.StatusDistribution[status] = count
	}

	return stats, rows.Err()
}

func (r *postgresOrderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, title, quantity, unit_price, currency
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	return scanOrderItems(rows)
}

// attachItems loads items for a page of orders in one query and groups
// them per order.
func (r *postgresOrderRepository) attachItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := lo.Map(orders, func(o *entity.Order, _ int) uuid.UUID { return o.ID })

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, title, quantity, unit_price, currency
		FROM order_items WHERE order_id = ANY($1)
	`, orderIDs)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items, err := scanOrderItems(rows)
	if err != nil {
		return err
	}

	byOrder := lo.GroupBy(items, func(item entity.OrderItem) uuid.UUID { return item.OrderID })
	for _, order := range orders {
		order.Items = byOrder[order.ID]
	}

	return nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
	)

	err := row.Scan(&o.ID, &o.OrderNumber, &o.BuyerID, &o.SellerID, &o.Subtotal,
		&o.Taxes, &o.ShippingCost, &o.Discounts, &o.Total, &o.Currency, &status,
		&o.BuyerNotes, &o.SellerNotes, &o.TrackingNumber, &o.ShippedAt,
		&o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Status, err = entity.ToOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("order status[%s]: %w", status, err)
	}

	return &o, nil
}

func scanOrderItems(rows pgx.Rows) ([]entity.OrderItem, error) {
	var items []entity.OrderItem

	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Title,
			&item.Quantity, &item.UnitPrice, &item.Currency)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
