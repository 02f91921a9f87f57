package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

// In-memory repository doubles. They hold entities in maps behind a mutex
// so the concurrency tests exercise the same guarded-update semantics as
// the real store.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}

	for id, existing := range r.users {
		if id != user.ID && existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}

	r.users[user.ID] = cloneUser(user)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.SKU != "" {
		for _, existing := range r.products {
			if existing.SKU == product.SKU {
				return repository.ErrDuplicate
			}
		}
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Product
	for _, product := range r.products {
		if filter.AvailableOnly && !product.Available() {
			continue
		}
		if filter.Condition != "" && product.Condition != filter.Condition {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(product.Title), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.MinPrice != nil && product.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && product.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		matched = append(matched, cloneProduct(product))
	}

	return paginate(matched, limit, offset), int64(len(matched)), nil
}

func (r *fakeProductRepo) ListByOwnerID(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Product
	for _, product := range r.products {
		if product.OwnerID == ownerID {
			matched = append(matched, cloneProduct(product))
		}
	}

	return paginate(matched, limit, offset), int64(len(matched)), nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok || existing.Sold {
		return repository.ErrNotFound
	}

	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok || existing.Sold {
		return repository.ErrNotFound
	}

	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Restock(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}

	existing.Sold = false
	return nil
}

// markSold performs the same conditional update as the SQL store: it fails
// with ErrProductSold when the product is already sold.
func (r *fakeProductRepo) markSold(id uuid.UUID) error {
	existing, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.Sold {
		return repository.ErrProductSold
	}
	existing.Sold = true
	return nil
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*entity.Order
	products *fakeProductRepo
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uuid.UUID]*entity.Order),
		products: products,
	}
}

func (r *fakeOrderRepo) CreatePurchase(_ context.Context, order *entity.Order, productID uuid.UUID) error {
	r.products.mu.Lock()
	defer r.products.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.products.markSold(productID); err != nil {
		return err
	}

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}

	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) ListByBuyerID(_ context.Context, buyerID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool {
		return o.BuyerID == buyerID && (status == "" || o.Status == status)
	}, limit, offset)
}

func (r *fakeOrderRepo) ListBySellerID(_ context.Context, sellerID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool {
		return o.SellerID == sellerID && (status == "" || o.Status == status)
	}, limit, offset)
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool {
		if filter.BuyerID != nil && o.BuyerID != *filter.BuyerID {
			return false
		}
		if filter.SellerID != nil && o.SellerID != *filter.SellerID {
			return false
		}
		return filter.Status == "" || o.Status == filter.Status
	}, limit, offset)
}

func (r *fakeOrderRepo) list(match func(*entity.Order) bool, limit, offset int) ([]*entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Order
	for _, order := range r.orders {
		if match(order) {
			matched = append(matched, cloneOrder(order))
		}
	}

	return paginate(matched, limit, offset), int64(len(matched)), nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}

	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) Stats(_ context.Context) (*repository.OrderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &repository.OrderStats{
		StatusDistribution: make(map[string]int64),
	}

	total := decimal.Zero
	for _, order := range r.orders {
		stats.TotalOrders++
		total = total.Add(order.Total)
		stats.StatusDistribution[string(order.Status)]++
	}

	stats.TotalAmount = total.StringFixed(2)
	if stats.TotalOrders > 0 {
		stats.AverageAmount = total.Div(decimal.NewFromInt(stats.TotalOrders)).StringFixed(2)
	} else {
		stats.AverageAmount = "0.00"
	}

	return stats, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]*entity.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	r.notifications[notification.ID] = cloneNotification(notification)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, ok := r.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneNotification(notification), nil
}

func (r *fakeNotificationRepo) ListByUserID(_ context.Context, userID uuid.UUID, filter repository.NotificationFilter, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if filter.Type != "" && notification.Type != filter.Type {
			continue
		}
		if filter.UnreadOnly && notification.IsRead {
			continue
		}
		matched = append(matched, cloneNotification(notification))
	}

	return paginate(matched, limit, offset), int64(len(matched)), nil
}

func (r *fakeNotificationRepo) Update(_ context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[notification.ID]; !ok {
		return repository.ErrNotFound
	}
	r.notifications[notification.ID] = cloneNotification(notification)
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.notifications, id)
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.MarkRead()
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	return &c
}

func cloneNotification(n *entity.Notification) *entity.Notification {
	c := *n
	return &c
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func fakeProduct(ownerID uuid.UUID) *entity.Product {
	return &entity.Product{
		OwnerID:   ownerID,
		Title:     gofakeit.ProductName(),
		Price:     decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Currency:  "EUR",
		Condition: "good",
		IsActive:  true,
	}
}
