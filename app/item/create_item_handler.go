package item

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/events"
	"henalis/pkg/httperror"
)

type CreateItemHandler struct {
	repository Repository
	emitter    *events.Emitter
}

type CreateItemRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	SKU           string          `json:"sku" validate:"required,max=100"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency" validate:"omitempty,iso4217"`
	CategoryID    *string         `json:"category_id" validate:"omitempty,uuid"`
	MaterialID    *string         `json:"material_id" validate:"omitempty,uuid"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	IsActive      *bool           `json:"is_active"`
	TagIDs        []string        `json:"tag_ids" validate:"omitempty,dive,uuid"`
}

type CreateItemResponse struct {
	app.Created
	Item domain.Item `json:"item"`
}

func NewCreateItemHandler(repository Repository, emitter *events.Emitter) *CreateItemHandler {
	return &CreateItemHandler{
		repository: repository,
		emitter:    emitter,
	}
}

func (h CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	if err := app.Validate(req, "item.create"); err != nil {
		return nil, err
	}
	if !req.Price.IsPositive() {
		return nil, httperror.BadRequest("item.create.validation_failed", "Validation failed for the request", "price must be greater than zero")
	}

	in := domain.NewItem{
		Name:          strings.TrimSpace(req.Name),
		SKU:           strings.TrimSpace(req.SKU),
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		CategoryID:    req.CategoryID,
		MaterialID:    req.MaterialID,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		TagIDs:        req.TagIDs,
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}

	item, err := h.repository.CreateItem(ctx, in)
	if err != nil {
		return nil, app.MapError(err, "item.create")
	}

	h.emitter.Emit(ctx, events.ItemCreatedEvent, itemPayload(item))

	return &CreateItemResponse{Item: item}, nil
}

func itemPayload(item domain.Item) events.ItemPayload {
	return events.ItemPayload{
		ID:            item.ID,
		Name:          item.Name,
		SKU:           item.SKU,
		Price:         item.Price,
		Currency:      item.Currency,
		StockQuantity: item.StockQuantity,
		IsActive:      item.IsActive,
		UpdatedAt:     item.UpdatedAt,
	}
}
