package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Condition   string          `json:"condition,omitempty"`
	SKU         string          `json:"sku,omitempty"`

	IsActive bool `json:"is_active"`
	Sold     bool `json:"sold"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available reports whether the product can appear in the public catalog
// and be purchased.
func (p *Product) Available() bool {
	return p.IsActive && !p.Sold
}

// ProductUpdate is the allow-listed set of fields an owner may change on an
// unsold product.
type ProductUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Condition   *string
	IsActive    *bool
}

func (p *Product) ApplyUpdate(update ProductUpdate) {
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Condition != nil {
		p.Condition = *update.Condition
	}
	if update.IsActive != nil {
		p.IsActive = *update.IsActive
	}
	p.UpdatedAt = time.Now()
}
