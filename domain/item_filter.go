package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryRefKind int

const (
	CategoryByID CategoryRefKind = iota + 1
	CategoryBySlug
)

// CategoryRef selects a category either by id or by slug.
type CategoryRef struct {
	Kind  CategoryRefKind
	Value string
}

// ParseCategoryRef treats anything that parses as a UUID as an id and everything else as a slug.
func ParseCategoryRef(raw string) CategoryRef {
	if id, err := uuid.Parse(raw); err == nil {
		return CategoryRef{Kind: CategoryByID, Value: id.String()}
	}
	return CategoryRef{Kind: CategoryBySlug, Value: raw}
}

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortMostLoved SortOrder = "most-loved"
)

// ParseSortOrder falls back to newest for unknown values.
func ParseSortOrder(raw string) SortOrder {
	switch s := SortOrder(raw); s {
	case SortNewest, SortPriceLow, SortPriceHigh, SortMostLoved:
		return s
	}
	return SortNewest
}

const DefaultItemLimit = 12

type ItemFilter struct {
	Category   *CategoryRef
	MaterialID *string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	TagIDs     []string
	IsActive   *bool
	Search     string
	Sort       SortOrder
	Limit      int
	Offset     int
}

type ItemPage struct {
	Items  []Item `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
