package item

import (
	"context"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type AssignTagsHandler struct {
	repository Repository
}

func NewAssignTagsHandler(repository Repository) *AssignTagsHandler {
	return &AssignTagsHandler{
		repository: repository,
	}
}

type AssignTagsRequest struct {
	ItemID string   `params:"id" validate:"required,uuid"`
	TagIDs []string `json:"tag_ids" validate:"required,min=1,dive,uuid"`
}

type AssignTagsResponse struct {
	Tags []domain.Tag `json:"tags"`
}

func (h AssignTagsHandler) Handle(ctx context.Context, req *AssignTagsRequest) (*AssignTagsResponse, error) {
	if err := app.Validate(req, "item.tags.assign"); err != nil {
		return nil, err
	}

	tags, err := h.repository.AssignTags(ctx, req.ItemID, req.TagIDs)
	if err != nil {
		return nil, app.MapError(err, "item.tags.assign")
	}

	return &AssignTagsResponse{Tags: tags}, nil
}

type RemoveTagHandler struct {
	repository Repository
}

func NewRemoveTagHandler(repository Repository) *RemoveTagHandler {
	return &RemoveTagHandler{
		repository: repository,
	}
}

type RemoveTagRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
	TagID  string `params:"tagId" validate:"required,uuid"`
}

type RemoveTagResponse struct {
}

func (h RemoveTagHandler) Handle(ctx context.Context, req *RemoveTagRequest) (*RemoveTagResponse, error) {
	if err := app.Validate(req, "item.tags.remove"); err != nil {
		return nil, err
	}

	if err := h.repository.RemoveItemTag(ctx, req.ItemID, req.TagID); err != nil {
		return nil, app.MapError(err, "item.tags.remove")
	}

	return nil, httperror.NoContent("item.tags.remove.success", "Tag removed from item", nil)
}
