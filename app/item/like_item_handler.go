package item

import (
	"context"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/events"
)

type LikeItemHandler struct {
	repository Repository
	emitter    *events.Emitter
}

func NewLikeItemHandler(repository Repository, emitter *events.Emitter) *LikeItemHandler {
	return &LikeItemHandler{
		repository: repository,
		emitter:    emitter,
	}
}

type LikeItemRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
}

type LikeItemResponse struct {
	Item domain.Item `json:"item"`
}

func (h LikeItemHandler) Handle(ctx context.Context, req *LikeItemRequest) (*LikeItemResponse, error) {
	if err := app.Validate(req, "item.like"); err != nil {
		return nil, err
	}

	item, err := h.repository.IncrementLikes(ctx, req.ItemID)
	if err != nil {
		return nil, app.MapError(err, "item.like")
	}

	h.emitter.Emit(ctx, events.ItemLikedEvent, events.ItemLikedPayload{ID: item.ID, Likes: item.Likes})

	return &LikeItemResponse{Item: item}, nil
}
