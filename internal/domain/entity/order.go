package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusConfirmed:  {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusInTransit:  {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// orderTransitions lists the forward transitions a seller may perform.
// Cancellation is handled separately and never appears here.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed},
	OrderStatusConfirmed:  {OrderStatusProcessing},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusInTransit, OrderStatusDelivered},
	OrderStatusInTransit:  {OrderStatusDelivered},
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}

// CanTransitionTo reports whether the seller may advance the order from its
// current status to the target one.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	SellerID    uuid.UUID `json:"seller_id"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	Taxes        decimal.Decimal `json:"taxes"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discounts    decimal.Decimal `json:"discounts"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`

	Status OrderStatus `json:"status"`

	BuyerNotes     string `json:"buyer_notes,omitempty"`
	SellerNotes    string `json:"seller_notes,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`

	Items []OrderItem `json:"items,omitempty"`

	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
}

// ComputeTotal returns subtotal + taxes + shipping - discounts.
func (o *Order) ComputeTotal() decimal.Decimal {
	return o.Subtotal.Add(o.Taxes).Add(o.ShippingCost).Sub(o.Discounts)
}

// Validate checks the monetary invariants of an order.
func (o *Order) Validate() error {
	if o.BuyerID == o.SellerID {
		return errors.New("buyer and seller must differ")
	}

	for _, amount := range []decimal.Decimal{o.Subtotal, o.Taxes, o.ShippingCost, o.Discounts, o.Total} {
		if amount.IsNegative() {
			return errors.New("monetary fields must not be negative")
		}
	}

	if !o.Total.Equal(o.ComputeTotal()) {
		return errors.New("total must equal subtotal + taxes + shipping - discounts")
	}

	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("item unit price must not be negative")
		}
	}

	return nil
}
