package item

import (
	"context"

	"henalis/app"
	"henalis/domain"
)

type GetItemHandler struct {
	repository Repository
}

func NewGetItemHandler(repository Repository) *GetItemHandler {
	return &GetItemHandler{
		repository: repository,
	}
}

type GetItemRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
}

type GetItemResponse struct {
	Item domain.Item `json:"item"`
}

func (h GetItemHandler) Handle(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	if err := app.Validate(req, "item.show"); err != nil {
		return nil, err
	}

	item, err := h.repository.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, app.MapError(err, "item.show")
	}

	return &GetItemResponse{Item: item}, nil
}
