package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	SKU           string          `db:"sku" json:"sku"`
	Description   *string         `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Currency      string          `db:"currency" json:"currency"`
	CategoryID    *string         `db:"category_id" json:"category_id"`
	MaterialID    *string         `db:"material_id" json:"material_id"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	Likes         int             `db:"likes" json:"likes"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Category *Category   `db:"-" json:"category,omitempty"`
	Material *Material   `db:"-" json:"material,omitempty"`
	Images   []ItemImage `db:"-" json:"images"`
	Tags     []Tag       `db:"-" json:"tags"`
}

// NewItem carries the fields accepted when an item is created.
type NewItem struct {
	Name          string          `db:"name"`
	SKU           string          `db:"sku"`
	Description   *string         `db:"description"`
	Price         decimal.Decimal `db:"price"`
	Currency      string          `db:"currency"`
	CategoryID    *string         `db:"category_id"`
	MaterialID    *string         `db:"material_id"`
	StockQuantity int             `db:"stock_quantity"`
	IsActive      bool            `db:"is_active"`
	TagIDs        []string        `db:"-"`
}

type ItemPatch struct {
	Name          Optional[string]          `json:"name"`
	SKU           Optional[string]          `json:"sku"`
	Description   Optional[string]          `json:"description"`
	Price         Optional[decimal.Decimal] `json:"price"`
	Currency      Optional[string]          `json:"currency"`
	CategoryID    Optional[string]          `json:"category_id"`
	MaterialID    Optional[string]          `json:"material_id"`
	StockQuantity Optional[int]             `json:"stock_quantity"`
	IsActive      Optional[bool]            `json:"is_active"`
}

func (p ItemPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("name", p.Name); err != nil {
		return nil, err
	}
	if err := a.required("sku", p.SKU); err != nil {
		return nil, err
	}
	a.nullable("description", p.Description)
	if p.Price.Set && !p.Price.Null && !p.Price.Value.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidArgument)
	}
	if err := setValue(&a, "price", p.Price); err != nil {
		return nil, err
	}
	if p.Currency.Set && !p.Currency.Null && len(p.Currency.Value) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3 letter code", ErrInvalidArgument)
	}
	if err := setValue(&a, "currency", p.Currency); err != nil {
		return nil, err
	}
	a.nullable("category_id", p.CategoryID)
	a.nullable("material_id", p.MaterialID)
	if p.StockQuantity.Set && !p.StockQuantity.Null && p.StockQuantity.Value < 0 {
		return nil, fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidArgument)
	}
	if err := setValue(&a, "stock_quantity", p.StockQuantity); err != nil {
		return nil, err
	}
	if err := setValue(&a, "is_active", p.IsActive); err != nil {
		return nil, err
	}
	return a, nil
}
