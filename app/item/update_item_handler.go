package item

import (
	"context"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/events"
)

type UpdateItemHandler struct {
	repository Repository
	emitter    *events.Emitter
}

type UpdateItemRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
	domain.ItemPatch
}

type UpdateItemResponse struct {
	Item domain.Item `json:"item"`
}

func NewUpdateItemHandler(repository Repository, emitter *events.Emitter) *UpdateItemHandler {
	return &UpdateItemHandler{
		repository: repository,
		emitter:    emitter,
	}
}

func (h UpdateItemHandler) Handle(ctx context.Context, req *UpdateItemRequest) (*UpdateItemResponse, error) {
	if err := app.Validate(req, "item.update"); err != nil {
		return nil, err
	}

	item, err := h.repository.UpdateItem(ctx, req.ItemID, req.ItemPatch)
	if err != nil {
		return nil, app.MapError(err, "item.update")
	}

	h.emitter.Emit(ctx, events.ItemUpdatedEvent, itemPayload(item))

	return &UpdateItemResponse{Item: item}, nil
}
